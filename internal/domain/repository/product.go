package repository

import (
	"context"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

// ProductRepository describes catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, product model.Product) (*model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
}
