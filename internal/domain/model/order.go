package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes delivery lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransition reports whether order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LineItem is one product entry within an order, attributable to exactly one vendor.
type LineItem struct {
	ProductID       int64
	VendorID        int64
	Name            string
	Price           decimal.Decimal
	DiscountedPrice decimal.Decimal
	Quantity        int
}

// UnitPrice returns discounted price when it is positive, regular price otherwise.
func (li LineItem) UnitPrice() decimal.Decimal {
	if li.DiscountedPrice.IsPositive() {
		return li.DiscountedPrice
	}
	return li.Price
}

// Total returns line amount.
func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice().Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Order describes customer purchase.
type Order struct {
	ID         int64
	CustomerID int64
	Status     OrderStatus
	Items      []LineItem
	CreatedAt  time.Time
	ShippedAt  *time.Time
	UpdatedAt  time.Time
}

// Total returns order amount across all vendors.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Total())
	}
	return total
}

// HasVendor reports whether any line item belongs to vendor.
func (o Order) HasVendor(vendorID int64) bool {
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			return true
		}
	}
	return false
}

// VendorEarnings sums line item totals attributable to vendor across orders.
// Line items of other vendors sharing the same order are ignored.
func VendorEarnings(orders []Order, vendorID int64) decimal.Decimal {
	total := decimal.Zero
	for _, order := range orders {
		for _, item := range order.Items {
			if item.VendorID != vendorID {
				continue
			}
			total = total.Add(item.Total())
		}
	}
	return total
}
