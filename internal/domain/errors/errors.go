package errors

import "errors"

var (
	ErrAlreadyExists           = errors.New("already exists")
	ErrNotFound                = errors.New("not found")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrPayoutConflict          = errors.New("payouts already claimed by another transfer")
	ErrTransferRejected        = errors.New("transfer rejected by payment provider")
)
