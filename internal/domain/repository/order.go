package repository

import (
	"context"
	"time"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and their line items.
type OrderRepository interface {
	// Create stores the order with its items and decrements product stock atomically.
	Create(ctx context.Context, order model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]model.Order, error)
	// UpdateStatus moves order from status from to status to. It fails with
	// ErrInvalidStatusTransition when the stored status is no longer from.
	// Cancelling returns reserved stock to the catalog.
	UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus, shippedAt *time.Time) error
	// DeliveredShippedWithin returns delivered orders with vendor items shipped within period.
	DeliveredShippedWithin(ctx context.Context, vendorID int64, period model.Period) ([]model.Order, error)
	// DeliveredCreatedWithin returns delivered orders with vendor items created within period.
	DeliveredCreatedWithin(ctx context.Context, vendorID int64, period model.Period) ([]model.Order, error)
}
