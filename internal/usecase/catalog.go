package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/bazaar/internal/domain/errors"
	"github.com/polkiloo/bazaar/internal/domain/model"
	"github.com/polkiloo/bazaar/internal/domain/repository"
)

// CatalogUseCase manages vendor products.
type CatalogUseCase struct {
	products repository.ProductRepository
	users    repository.UserRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository, users repository.UserRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products, users: users}
}

// CreateProduct lists a new product on behalf of vendor.
func (u *CatalogUseCase) CreateProduct(ctx context.Context, vendorID int64, product model.Product) (*model.Product, error) {
	vendor, err := u.users.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsVendor() {
		return nil, domainErrors.ErrForbidden
	}

	product.VendorID = vendorID
	product.Name = strings.TrimSpace(product.Name)
	product.Category = strings.TrimSpace(product.Category)
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	return u.products.Create(ctx, product)
}

// Product returns catalog entry by id.
func (u *CatalogUseCase) Product(ctx context.Context, id int64) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}

// Products lists catalog entries matching filter.
func (u *CatalogUseCase) Products(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	return u.products.List(ctx, filter)
}

func validateProduct(p model.Product) error {
	switch {
	case p.Name == "":
		return domainErrors.ErrInvalidInput
	case !p.Price.IsPositive():
		return domainErrors.ErrInvalidInput
	case p.DiscountedPrice.IsNegative(), p.DiscountedPrice.GreaterThan(p.Price):
		return domainErrors.ErrInvalidInput
	case p.Stock < 0:
		return domainErrors.ErrInvalidInput
	}
	return nil
}
