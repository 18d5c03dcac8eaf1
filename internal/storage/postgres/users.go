package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/bazaar/internal/domain/errors"
	"github.com/polkiloo/bazaar/internal/domain/model"
	"github.com/polkiloo/bazaar/internal/domain/repository"
)

type userRepository struct {
	storage *Storage
}

const userColumns = `id, email, name, password_hash, role, status, payout_account_id,
        bank_name, account_name, account_number, routing_number, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u    model.User
		bank model.BankDetails
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Status, &u.PayoutAccountID,
		&bank.BankName, &bank.AccountName, &bank.AccountNumber, &bank.RoutingNumber, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if bank != (model.BankDetails{}) {
		u.Bank = &bank
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, email, name, passwordHash string, role model.Role) (*model.User, error) {
	const query = `INSERT INTO users (email, name, password_hash, role) VALUES ($1, $2, $3, $4)
                   RETURNING id, status, created_at`
	u := model.User{Email: email, Name: name, PasswordHash: passwordHash, Role: role}
	err := r.storage.pool.QueryRow(ctx, query, email, name, passwordHash, role).Scan(&u.ID, &u.Status, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	u, err := scanUser(r.storage.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	u, err := scanUser(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return u, nil
}

func (r *userRepository) ListVendors(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, model.RoleSeller)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, update repository.ProfileUpdate) (*model.User, error) {
	query := `UPDATE users SET
                name = COALESCE($2, name),
                status = COALESCE($3, status),
                bank_name = COALESCE($4, bank_name),
                account_name = COALESCE($5, account_name),
                account_number = COALESCE($6, account_number),
                routing_number = COALESCE($7, routing_number)
              WHERE id=$1
              RETURNING ` + userColumns

	var status *string
	if update.Status != nil {
		s := string(*update.Status)
		status = &s
	}
	var bankName, accountName, accountNumber, routingNumber *string
	if b := update.Bank; b != nil {
		bankName, accountName, accountNumber, routingNumber = &b.BankName, &b.AccountName, &b.AccountNumber, &b.RoutingNumber
	}

	u, err := scanUser(r.storage.pool.QueryRow(ctx, query, id, update.Name, status,
		bankName, accountName, accountNumber, routingNumber))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return u, nil
}

func (r *userRepository) SetRole(ctx context.Context, id int64, role model.Role) error {
	const query = `UPDATE users SET role=$2 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) SetPayoutAccount(ctx context.Context, id int64, accountID string) error {
	const query = `UPDATE users SET payout_account_id=$2 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
