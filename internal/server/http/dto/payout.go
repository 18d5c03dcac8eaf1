package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

// PayoutQuery filters admin payout listing. Month is a "YYYY-MM" key.
type PayoutQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=Pending Paid"`
	Month  string `form:"month" binding:"omitempty,yearmonth"`
	Vendor int64  `form:"vendor" binding:"omitempty,gt=0"`
}

// Filter converts query into repository filter.
func (q PayoutQuery) Filter() model.PayoutFilter {
	return model.PayoutFilter{VendorID: q.Vendor, Status: model.PayoutStatus(q.Status), Period: q.Month}
}

// PayoutResponse describes a payout record.
type PayoutResponse struct {
	ID          int64           `json:"id"`
	VendorID    int64           `json:"vendor_id"`
	Period      string          `json:"period"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	Method      string          `json:"method"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Note        string          `json:"note"`
	BankDetails string          `json:"bank_details"`
	TransferID  *string         `json:"transfer_id,omitempty"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
}

// NewPayoutResponse maps payout record to response.
func NewPayoutResponse(p model.Payout) PayoutResponse {
	return PayoutResponse{
		ID:          p.ID,
		VendorID:    p.VendorID,
		Period:      p.Period,
		Amount:      p.Amount,
		Status:      string(p.Status),
		Method:      p.Method,
		ScheduledAt: p.ScheduledAt,
		Note:        p.Note,
		BankDetails: p.BankDetails,
		TransferID:  p.TransferID,
		PaidAt:      p.PaidAt,
	}
}

// TransferResponse describes a disbursement attempt.
type TransferResponse struct {
	ID          string          `json:"id"`
	Destination string          `json:"destination"`
	Gross       decimal.Decimal `json:"gross"`
	Fee         decimal.Decimal `json:"fee"`
	Net         decimal.Decimal `json:"net"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	ProviderRef string          `json:"provider_ref,omitempty"`
	Failure     string          `json:"failure,omitempty"`
	PayoutIDs   []int64         `json:"payout_ids"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// NewTransferResponse maps transfer intent to response.
func NewTransferResponse(t model.Transfer) TransferResponse {
	return TransferResponse{
		ID:          t.ID,
		Destination: t.Destination,
		Gross:       t.Gross,
		Fee:         t.Fee,
		Net:         t.Net,
		Currency:    t.Currency,
		Status:      string(t.Status),
		ProviderRef: t.ProviderRef,
		Failure:     t.Failure,
		PayoutIDs:   t.PayoutIDs,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

// RevenueResponse compares two consecutive months.
type RevenueResponse struct {
	CurrentPeriod  string          `json:"current_period"`
	PreviousPeriod string          `json:"previous_period"`
	Current        decimal.Decimal `json:"current"`
	Previous       decimal.Decimal `json:"previous"`
	Growth         decimal.Decimal `json:"growth"`
}

// NewRevenueResponse maps revenue comparison to response.
func NewRevenueResponse(r model.RevenueComparison) RevenueResponse {
	return RevenueResponse{
		CurrentPeriod:  r.CurrentPeriod,
		PreviousPeriod: r.PreviousPeriod,
		Current:        r.Current,
		Previous:       r.Previous,
		Growth:         r.Growth,
	}
}

// OnboardRequest carries provider redirect targets.
type OnboardRequest struct {
	RefreshURL string `json:"refresh_url" binding:"required,url"`
	ReturnURL  string `json:"return_url" binding:"required,url"`
}

// OnboardResponse carries hosted onboarding link.
type OnboardResponse struct {
	URL string `json:"url"`
}
