package usecase

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/bazaar/internal/domain/errors"
	"github.com/polkiloo/bazaar/internal/domain/model"
	"github.com/polkiloo/bazaar/internal/domain/repository"
)

// OrderUseCase encapsulates order placement and fulfilment.
type OrderUseCase struct {
	orders repository.OrderRepository
	users  repository.UserRepository
	now    func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, users repository.UserRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders, users: users, now: time.Now}
}

// PlaceOrder registers customer purchase. Vendor and prices of every line item are
// snapshotted from the catalog by the repository.
func (u *OrderUseCase) PlaceOrder(ctx context.Context, customerID int64, items []model.LineItem) (*model.Order, error) {
	if len(items) == 0 {
		return nil, domainErrors.ErrInvalidInput
	}

	merged := make([]model.LineItem, 0, len(items))
	index := make(map[int64]int, len(items))
	for _, item := range items {
		if item.ProductID <= 0 || item.Quantity <= 0 {
			return nil, domainErrors.ErrInvalidInput
		}
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, model.LineItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return u.orders.Create(ctx, model.Order{
		CustomerID: customerID,
		Status:     model.OrderStatusPending,
		Items:      merged,
	})
}

// CustomerOrders returns orders placed by customer, newest first.
func (u *OrderUseCase) CustomerOrders(ctx context.Context, customerID int64) ([]model.Order, error) {
	return u.orders.ListByCustomer(ctx, customerID)
}

// VendorOrders returns orders containing vendor items. Only the vendor's items are included.
func (u *OrderUseCase) VendorOrders(ctx context.Context, vendorID int64) ([]model.Order, error) {
	return u.orders.ListByVendor(ctx, vendorID)
}

// UpdateStatus moves order along its delivery lifecycle. Actor must be an admin
// or a vendor owning at least one line item of the order.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, actorID, orderID int64, status model.OrderStatus) (*model.Order, error) {
	actor, err := u.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch {
	case actor.Role == model.RoleAdmin:
	case actor.IsVendor() && order.HasVendor(actor.ID):
	default:
		return nil, domainErrors.ErrForbidden
	}

	if !order.Status.CanTransition(status) {
		return nil, domainErrors.ErrInvalidStatusTransition
	}

	shippedAt := order.ShippedAt
	if status == model.OrderStatusShipped || (status == model.OrderStatusDelivered && shippedAt == nil) {
		now := u.now()
		shippedAt = &now
	}

	if err := u.orders.UpdateStatus(ctx, orderID, order.Status, status, shippedAt); err != nil {
		return nil, err
	}

	order.Status = status
	order.ShippedAt = shippedAt
	return order, nil
}
