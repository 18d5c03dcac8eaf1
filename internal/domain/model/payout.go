package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoutStatus describes payout record lifecycle: Pending until disbursed, then Paid.
type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "Pending"
	PayoutStatusPaid    PayoutStatus = "Paid"
)

// PayoutMethodBankTransfer is the only supported disbursement method.
const PayoutMethodBankTransfer = "Bank Transfer"

// Payout is the persisted unit of vendor compensation for one calendar month.
type Payout struct {
	ID          int64
	VendorID    int64
	Period      string
	Amount      decimal.Decimal
	Status      PayoutStatus
	Method      string
	ScheduledAt time.Time
	Note        string
	BankDetails string
	TransferID  *string
	PaidAt      *time.Time
	CreatedAt   time.Time
}

// PayoutFilter narrows payout listings. Zero values are ignored.
type PayoutFilter struct {
	VendorID int64
	Status   PayoutStatus
	Period   string
}

// TransferStatus describes disbursement intent lifecycle.
type TransferStatus string

const (
	TransferStatusInitiated TransferStatus = "Initiated"
	TransferStatusSucceeded TransferStatus = "Succeeded"
	TransferStatusFailed    TransferStatus = "Failed"
)

// Transfer is a disbursement intent persisted before the payment provider is called.
// Its ID doubles as the provider idempotency key.
type Transfer struct {
	ID          string
	VendorID    int64
	Destination string
	Gross       decimal.Decimal
	Fee         decimal.Decimal
	Net         decimal.Decimal
	NetMinor    int64
	Currency    string
	Status      TransferStatus
	ProviderRef string
	Failure     string
	PayoutIDs   []int64
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// RevenueComparison reports vendor revenue for the current and the previous calendar month.
type RevenueComparison struct {
	VendorID       int64
	CurrentPeriod  string
	PreviousPeriod string
	Current        decimal.Decimal
	Previous       decimal.Decimal
	Growth         decimal.Decimal
}

// GenerationReport summarizes one run of the monthly payout generator.
type GenerationReport struct {
	Period          string `json:"period"`
	Vendors         int    `json:"vendors"`
	Created         int    `json:"created"`
	SkippedExisting int    `json:"skipped_existing"`
	SkippedZero     int    `json:"skipped_zero"`
	Duplicates      int    `json:"duplicates"`
	Failed          int    `json:"failed"`
}

// DisbursementReport summarizes one run of the disbursement job.
// Paid is the net amount settled by the provider during the run.
type DisbursementReport struct {
	Vendors    int             `json:"vendors"`
	NoAccount  int             `json:"no_account"`
	Settled    int             `json:"settled"`
	Reconciled int             `json:"reconciled"`
	Rejected   int             `json:"rejected"`
	InFlight   int             `json:"in_flight"`
	Conflicts  int             `json:"conflicts"`
	Nothing    int             `json:"nothing_to_pay"`
	Failed     int             `json:"failed"`
	Paid       decimal.Decimal `json:"paid"`
}
