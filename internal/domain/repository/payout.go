package repository

import (
	"context"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

// PayoutRepository manages monthly payout records.
type PayoutRepository interface {
	Exists(ctx context.Context, vendorID int64, period string) (bool, error)
	// Create inserts payout unless one already exists for the vendor and period.
	// Returns false without error when the uniqueness constraint rejected the insert.
	Create(ctx context.Context, payout model.Payout) (*model.Payout, bool, error)
	List(ctx context.Context, filter model.PayoutFilter) ([]model.Payout, error)
	// Unclaimed returns pending payouts of vendor not attached to any transfer.
	Unclaimed(ctx context.Context, vendorID int64) ([]model.Payout, error)
}
