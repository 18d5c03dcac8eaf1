package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/bazaar/internal/domain/errors"
	"github.com/polkiloo/bazaar/internal/domain/model"
)

type transferRepository struct {
	storage *Storage
}

const transferColumns = `id::text, vendor_id, destination, gross::text, fee::text, net::text, net_minor, currency,
        status, provider_ref, failure, payout_ids, created_at, completed_at`

func scanTransfer(row pgx.Row) (*model.Transfer, error) {
	var (
		t               model.Transfer
		gross, fee, net string
	)
	err := row.Scan(&t.ID, &t.VendorID, &t.Destination, &gross, &fee, &net, &t.NetMinor, &t.Currency,
		&t.Status, &t.ProviderRef, &t.Failure, &t.PayoutIDs, &t.CreatedAt, &t.CompletedAt)
	if err != nil {
		return nil, err
	}
	if t.Gross, err = parseMoney(gross); err != nil {
		return nil, err
	}
	if t.Fee, err = parseMoney(fee); err != nil {
		return nil, err
	}
	if t.Net, err = parseMoney(net); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transferRepository) Initiate(ctx context.Context, transfer model.Transfer) (*model.Transfer, error) {
	const insertTransfer = `INSERT INTO transfers (id, vendor_id, destination, gross, fee, net, net_minor, currency, status, payout_ids)
                            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                            RETURNING created_at`
	const claimPayouts = `UPDATE payouts SET transfer_id=$1
                          WHERE id = ANY($2) AND vendor_id=$3 AND status=$4 AND transfer_id IS NULL`

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertTransfer, transfer.ID, transfer.VendorID, transfer.Destination,
			money(transfer.Gross), money(transfer.Fee), money(transfer.Net), transfer.NetMinor, transfer.Currency,
			transfer.Status, transfer.PayoutIDs).Scan(&transfer.CreatedAt); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, claimPayouts, transfer.ID, transfer.PayoutIDs, transfer.VendorID, model.PayoutStatusPending)
		if err != nil {
			return err
		}
		if tag.RowsAffected() != int64(len(transfer.PayoutIDs)) {
			return fmt.Errorf("claimed %d of %d payouts: %w", tag.RowsAffected(), len(transfer.PayoutIDs), domainErrors.ErrPayoutConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *transferRepository) Open(ctx context.Context, vendorID int64) ([]model.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE vendor_id=$1 AND status=$2 ORDER BY created_at`
	return r.list(ctx, query, vendorID, model.TransferStatusInitiated)
}

func (r *transferRepository) ListByVendor(ctx context.Context, vendorID int64) ([]model.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE vendor_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, vendorID)
}

func (r *transferRepository) Complete(ctx context.Context, id, providerRef string, paidAt time.Time) error {
	const settleTransfer = `UPDATE transfers SET status=$2, provider_ref=$3, completed_at=$4 WHERE id=$1 AND status=$5`
	const payPayouts = `UPDATE payouts SET status=$2, paid_at=$3 WHERE transfer_id=$1`

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, settleTransfer, id, model.TransferStatusSucceeded, providerRef, paidAt, model.TransferStatusInitiated)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("open transfer %s: %w", id, domainErrors.ErrNotFound)
		}
		if _, err := tx.Exec(ctx, payPayouts, id, model.PayoutStatusPaid, paidAt); err != nil {
			return err
		}
		return nil
	})
}

func (r *transferRepository) Fail(ctx context.Context, id, reason string, failedAt time.Time) error {
	const failTransfer = `UPDATE transfers SET status=$2, failure=$3, completed_at=$4 WHERE id=$1 AND status=$5`
	const releasePayouts = `UPDATE payouts SET transfer_id=NULL WHERE transfer_id=$1 AND status=$2`

	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, failTransfer, id, model.TransferStatusFailed, reason, failedAt, model.TransferStatusInitiated)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("open transfer %s: %w", id, domainErrors.ErrNotFound)
		}
		if _, err := tx.Exec(ctx, releasePayouts, id, model.PayoutStatusPending); err != nil {
			return err
		}
		return nil
	})
}

func (r *transferRepository) list(ctx context.Context, query string, args ...any) ([]model.Transfer, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
