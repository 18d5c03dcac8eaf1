package repository

import (
	"context"
	"time"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

// TransferRepository stores disbursement intents and settles payouts attached to them.
type TransferRepository interface {
	// Initiate persists intent and attaches its payouts. Fails with ErrPayoutConflict
	// when any payout is already attached or no longer pending.
	Initiate(ctx context.Context, transfer model.Transfer) (*model.Transfer, error)
	Open(ctx context.Context, vendorID int64) ([]model.Transfer, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]model.Transfer, error)
	// Complete marks intent succeeded and every attached payout paid.
	Complete(ctx context.Context, id, providerRef string, paidAt time.Time) error
	// Fail marks intent failed and releases attached payouts.
	Fail(ctx context.Context, id, reason string, failedAt time.Time) error
}
