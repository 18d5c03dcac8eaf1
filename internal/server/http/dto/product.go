package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

// ProductRequest describes a new catalog entry.
type ProductRequest struct {
	Name            string          `json:"name" binding:"required"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Stock           int             `json:"stock" binding:"gte=0"`
}

// ProductQuery filters catalog listing.
type ProductQuery struct {
	VendorID int64  `form:"vendor" binding:"omitempty,gt=0"`
	Category string `form:"category"`
}

// ProductResponse is the public view of a catalog entry.
type ProductResponse struct {
	ID              int64           `json:"id"`
	VendorID        int64           `json:"vendor_id"`
	Name            string          `json:"name"`
	Category        string          `json:"category,omitempty"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Stock           int             `json:"stock"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Model converts request into domain product.
func (r ProductRequest) Model() model.Product {
	return model.Product{
		Name:            r.Name,
		Category:        r.Category,
		Description:     r.Description,
		Price:           r.Price,
		DiscountedPrice: r.DiscountedPrice,
		Stock:           r.Stock,
	}
}

// NewProductResponse maps domain product to its public view.
func NewProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		VendorID:        p.VendorID,
		Name:            p.Name,
		Category:        p.Category,
		Description:     p.Description,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		Stock:           p.Stock,
		CreatedAt:       p.CreatedAt,
	}
}
