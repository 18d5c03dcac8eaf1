package repository

import (
	"context"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

// ProfileUpdate carries mutable profile fields. Nil fields are left untouched.
type ProfileUpdate struct {
	Name   *string
	Status *model.UserStatus
	Bank   *model.BankDetails
}

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, email, name, passwordHash string, role model.Role) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	ListVendors(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*model.User, error)
	SetRole(ctx context.Context, id int64, role model.Role) error
	SetPayoutAccount(ctx context.Context, id int64, accountID string) error
}
