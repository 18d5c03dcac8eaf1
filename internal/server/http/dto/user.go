package dto

import (
	"time"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID              int64              `json:"id"`
	Email           string             `json:"email"`
	Name            string             `json:"name"`
	Role            string             `json:"role"`
	Status          string             `json:"status,omitempty"`
	PayoutAccountID string             `json:"payout_account_id,omitempty"`
	Bank            *model.BankDetails `json:"bank,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// UpdateProfileRequest carries optional profile changes.
type UpdateProfileRequest struct {
	Name *string            `json:"name"`
	Bank *model.BankDetails `json:"bank"`
}

// RoleRequest assigns a role to a user.
type RoleRequest struct {
	Role string `json:"role" binding:"required,oneof=customer seller admin"`
}

// NewUserResponse maps domain user to its public view.
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            string(u.Role),
		Status:          string(u.Status),
		PayoutAccountID: u.PayoutAccountID,
		Bank:            u.Bank,
		CreatedAt:       u.CreatedAt,
	}
}
