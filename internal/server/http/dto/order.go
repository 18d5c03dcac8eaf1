package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

// OrderItemRequest selects a product and quantity.
type OrderItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// PlaceOrderRequest describes checkout payload.
type PlaceOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderStatusRequest moves an order through its lifecycle.
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending Processing Shipped Delivered Cancelled"`
}

// LineItemResponse is one order line.
type LineItemResponse struct {
	ProductID       int64           `json:"product_id"`
	VendorID        int64           `json:"vendor_id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Quantity        int             `json:"quantity"`
	Total           decimal.Decimal `json:"total"`
}

// OrderResponse describes an order and its lines.
type OrderResponse struct {
	ID         int64              `json:"id"`
	CustomerID int64              `json:"customer_id"`
	Status     string             `json:"status"`
	Items      []LineItemResponse `json:"items"`
	Total      decimal.Decimal    `json:"total"`
	CreatedAt  time.Time          `json:"created_at"`
	ShippedAt  *time.Time         `json:"shipped_at,omitempty"`
}

// LineItems converts requested items into order lines.
func (r PlaceOrderRequest) LineItems() []model.LineItem {
	items := make([]model.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, model.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return items
}

// NewOrderResponse maps order to response. A non-zero vendorID keeps only that vendor's lines.
func NewOrderResponse(o model.Order, vendorID int64) OrderResponse {
	resp := OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		Items:      make([]LineItemResponse, 0, len(o.Items)),
		Total:      decimal.Zero,
		CreatedAt:  o.CreatedAt,
		ShippedAt:  o.ShippedAt,
	}
	for _, item := range o.Items {
		if vendorID != 0 && item.VendorID != vendorID {
			continue
		}
		total := item.Total()
		resp.Items = append(resp.Items, LineItemResponse{
			ProductID:       item.ProductID,
			VendorID:        item.VendorID,
			Name:            item.Name,
			Price:           item.Price,
			DiscountedPrice: item.DiscountedPrice,
			Quantity:        item.Quantity,
			Total:           total,
		})
		resp.Total = resp.Total.Add(total)
	}
	return resp
}
