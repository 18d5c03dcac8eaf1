package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

type payoutRepository struct {
	storage *Storage
}

const payoutColumns = `id, vendor_id, period, amount::text, status, method, scheduled_at, note, bank_details,
        transfer_id::text, paid_at, created_at`

func scanPayout(row pgx.Row) (*model.Payout, error) {
	var (
		p      model.Payout
		amount string
	)
	err := row.Scan(&p.ID, &p.VendorID, &p.Period, &amount, &p.Status, &p.Method, &p.ScheduledAt, &p.Note,
		&p.BankDetails, &p.TransferID, &p.PaidAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if p.Amount, err = parseMoney(amount); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPayouts(rows pgx.Rows) ([]model.Payout, error) {
	defer rows.Close()

	var result []model.Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *payoutRepository) Exists(ctx context.Context, vendorID int64, period string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM payouts WHERE vendor_id=$1 AND period=$2)`
	var exists bool
	if err := r.storage.pool.QueryRow(ctx, query, vendorID, period).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *payoutRepository) Create(ctx context.Context, payout model.Payout) (*model.Payout, bool, error) {
	const query = `INSERT INTO payouts (vendor_id, period, amount, status, method, scheduled_at, note, bank_details)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   ON CONFLICT (vendor_id, period) DO NOTHING
                   RETURNING id, created_at`
	err := r.storage.pool.QueryRow(ctx, query, payout.VendorID, payout.Period, money(payout.Amount), payout.Status,
		payout.Method, payout.ScheduledAt, payout.Note, payout.BankDetails).Scan(&payout.ID, &payout.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &payout, true, nil
}

func (r *payoutRepository) List(ctx context.Context, filter model.PayoutFilter) ([]model.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts
              WHERE ($1::bigint = 0 OR vendor_id = $1)
                AND ($2::text = '' OR status = $2)
                AND ($3::text = '' OR period = $3)
              ORDER BY scheduled_at DESC, id DESC`
	rows, err := r.storage.pool.Query(ctx, query, filter.VendorID, string(filter.Status), filter.Period)
	if err != nil {
		return nil, err
	}
	return scanPayouts(rows)
}

func (r *payoutRepository) Unclaimed(ctx context.Context, vendorID int64) ([]model.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts
              WHERE vendor_id=$1 AND status=$2 AND transfer_id IS NULL
              ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, vendorID, model.PayoutStatusPending)
	if err != nil {
		return nil, err
	}
	return scanPayouts(rows)
}
