package handlers

import (
	"context"
	"io"
	"time"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, email, name, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// UserFacade exposes profile management.
type UserFacade interface {
	Profile(ctx context.Context, userID int64) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, name *string, bank *model.BankDetails) (*model.User, error)
	RequestSeller(ctx context.Context, userID int64) (*model.User, error)
	SetRole(ctx context.Context, userID int64, role model.Role) (*model.User, error)
}

// CatalogFacade exposes product catalog.
type CatalogFacade interface {
	CreateProduct(ctx context.Context, vendorID int64, product model.Product) (*model.Product, error)
	Product(ctx context.Context, id int64) (*model.Product, error)
	Products(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, customerID int64, items []model.LineItem) (*model.Order, error)
	CustomerOrders(ctx context.Context, customerID int64) ([]model.Order, error)
	VendorOrders(ctx context.Context, vendorID int64) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, actorID, orderID int64, status model.OrderStatus) (*model.Order, error)
}

// PayoutFacade provides vendor and admin payout operations.
type PayoutFacade interface {
	VendorPayouts(ctx context.Context, vendorID int64) ([]model.Payout, error)
	VendorTransfers(ctx context.Context, vendorID int64) ([]model.Transfer, error)
	Revenue(ctx context.Context, vendorID int64) (*model.RevenueComparison, error)
	OnboardVendor(ctx context.Context, vendorID int64, refreshURL, returnURL string) (string, error)
	Payouts(ctx context.Context, filter model.PayoutFilter) ([]model.Payout, error)
	ExportPayouts(ctx context.Context, filter model.PayoutFilter, w io.Writer) error
	GeneratePayouts(ctx context.Context, now time.Time) (model.GenerationReport, error)
	DisbursePayouts(ctx context.Context, now time.Time) (model.DisbursementReport, error)
}

// MarketFacade aggregates the full set of operations used across handlers.
type MarketFacade interface {
	AuthFacade
	UserFacade
	CatalogFacade
	OrderFacade
	PayoutFacade
}
