package model

import (
	"strings"
	"time"
)

// Role describes what a user is allowed to do on the marketplace.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// Valid reports whether role is one of known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// UserStatus tracks seller onboarding requests.
type UserStatus string

const (
	UserStatusNone      UserStatus = ""
	UserStatusRequested UserStatus = "Requested"
	UserStatusVerified  UserStatus = "Verified"
)

// BankDetailsNotProvided is recorded on payouts of vendors without bank details.
const BankDetailsNotProvided = "Not Provided"

// BankDetails holds vendor settlement account data.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	RoutingNumber string `json:"routing_number,omitempty"`
}

// String renders details as a single line suitable for payout records.
func (b *BankDetails) String() string {
	if b == nil || strings.TrimSpace(b.AccountNumber) == "" {
		return BankDetailsNotProvided
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{b.BankName, b.AccountName, b.AccountNumber, b.RoutingNumber} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " / ")
}

// User represents a marketplace account: customer, seller or admin.
type User struct {
	ID              int64
	Email           string
	Name            string
	PasswordHash    string
	Role            Role
	Status          UserStatus
	PayoutAccountID string
	Bank            *BankDetails
	CreatedAt       time.Time
}

// IsVendor reports whether user sells on the marketplace.
func (u User) IsVendor() bool {
	return u.Role == RoleSeller
}
