package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/bazaar/internal/domain/errors"
	"github.com/polkiloo/bazaar/internal/domain/model"
	"github.com/polkiloo/bazaar/internal/domain/repository"
)

// UserUseCase manages profiles and roles.
type UserUseCase struct {
	users repository.UserRepository
}

// NewUserUseCase constructs UserUseCase.
func NewUserUseCase(users repository.UserRepository) *UserUseCase {
	return &UserUseCase{users: users}
}

// Profile returns user by identifier.
func (u *UserUseCase) Profile(ctx context.Context, userID int64) (*model.User, error) {
	return u.users.GetByID(ctx, userID)
}

// UpdateProfile changes display name and settlement details. Nil arguments are left untouched.
func (u *UserUseCase) UpdateProfile(ctx context.Context, userID int64, name *string, bank *model.BankDetails) (*model.User, error) {
	update := repository.ProfileUpdate{Bank: bank}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, domainErrors.ErrInvalidInput
		}
		update.Name = &trimmed
	}
	if bank != nil && strings.TrimSpace(bank.AccountNumber) == "" {
		return nil, domainErrors.ErrInvalidInput
	}
	return u.users.UpdateProfile(ctx, userID, update)
}

// RequestSeller flags customer as waiting for seller approval.
func (u *UserUseCase) RequestSeller(ctx context.Context, userID int64) (*model.User, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if usr.Role != model.RoleCustomer {
		return nil, domainErrors.ErrAlreadyExists
	}
	status := model.UserStatusRequested
	return u.users.UpdateProfile(ctx, userID, repository.ProfileUpdate{Status: &status})
}

// SetRole assigns role to user. Promoted sellers are marked verified.
func (u *UserUseCase) SetRole(ctx context.Context, userID int64, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, domainErrors.ErrInvalidInput
	}
	if err := u.users.SetRole(ctx, userID, role); err != nil {
		return nil, err
	}
	if role != model.RoleSeller {
		return u.users.GetByID(ctx, userID)
	}
	status := model.UserStatusVerified
	return u.users.UpdateProfile(ctx, userID, repository.ProfileUpdate{Status: &status})
}
