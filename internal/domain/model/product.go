package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry offered by a single vendor.
type Product struct {
	ID              int64
	VendorID        int64
	Name            string
	Category        string
	Description     string
	Price           decimal.Decimal
	DiscountedPrice decimal.Decimal
	Stock           int
	CreatedAt       time.Time
}

// ProductFilter narrows catalog listings. Zero values are ignored.
type ProductFilter struct {
	VendorID int64
	Category string
}
