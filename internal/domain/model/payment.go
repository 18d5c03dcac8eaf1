package model

// TransferRequest describes money movement to a vendor payout destination.
// Amount is expressed in minor currency units.
type TransferRequest struct {
	IdempotencyKey string
	Destination    string
	Amount         int64
	Currency       string
	Description    string
}

// TransferResult is provider acknowledgement of a transfer.
type TransferResult struct {
	ID string
}

// OnboardingLinkRequest asks provider for a hosted onboarding page.
type OnboardingLinkRequest struct {
	AccountID  string
	RefreshURL string
	ReturnURL  string
}
