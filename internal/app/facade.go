package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/polkiloo/bazaar/internal/config"
	"github.com/polkiloo/bazaar/internal/domain/model"
	"github.com/polkiloo/bazaar/internal/report"
	"github.com/polkiloo/bazaar/internal/usecase"
)

// MarketFacade exposes marketplace use cases to transport and background jobs.
type MarketFacade struct {
	auth    *usecase.AuthUseCase
	users   *usecase.UserUseCase
	catalog *usecase.CatalogUseCase
	orders  *usecase.OrderUseCase
	payouts *usecase.PayoutUseCase
	revenue *usecase.RevenueUseCase
	loc     *time.Location
	now     func() time.Time
}

func NewMarketFacade(
	auth *usecase.AuthUseCase,
	users *usecase.UserUseCase,
	catalog *usecase.CatalogUseCase,
	orders *usecase.OrderUseCase,
	payouts *usecase.PayoutUseCase,
	revenue *usecase.RevenueUseCase,
	cfg *config.Config,
) *MarketFacade {
	loc := cfg.Payout.Location
	if loc == nil {
		loc = time.UTC
	}
	return &MarketFacade{
		auth:    auth,
		users:   users,
		catalog: catalog,
		orders:  orders,
		payouts: payouts,
		revenue: revenue,
		loc:     loc,
		now:     time.Now,
	}
}

func (f *MarketFacade) Register(ctx context.Context, email, name, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, email, name, password)
	return token, err
}

func (f *MarketFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *MarketFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *MarketFacade) Profile(ctx context.Context, userID int64) (*model.User, error) {
	return f.users.Profile(ctx, userID)
}

func (f *MarketFacade) UpdateProfile(ctx context.Context, userID int64, name *string, bank *model.BankDetails) (*model.User, error) {
	return f.users.UpdateProfile(ctx, userID, name, bank)
}

func (f *MarketFacade) RequestSeller(ctx context.Context, userID int64) (*model.User, error) {
	return f.users.RequestSeller(ctx, userID)
}

func (f *MarketFacade) SetRole(ctx context.Context, userID int64, role model.Role) (*model.User, error) {
	return f.users.SetRole(ctx, userID, role)
}

func (f *MarketFacade) CreateProduct(ctx context.Context, vendorID int64, product model.Product) (*model.Product, error) {
	return f.catalog.CreateProduct(ctx, vendorID, product)
}

func (f *MarketFacade) Product(ctx context.Context, id int64) (*model.Product, error) {
	return f.catalog.Product(ctx, id)
}

func (f *MarketFacade) Products(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	return f.catalog.Products(ctx, filter)
}

func (f *MarketFacade) PlaceOrder(ctx context.Context, customerID int64, items []model.LineItem) (*model.Order, error) {
	return f.orders.PlaceOrder(ctx, customerID, items)
}

func (f *MarketFacade) CustomerOrders(ctx context.Context, customerID int64) ([]model.Order, error) {
	return f.orders.CustomerOrders(ctx, customerID)
}

func (f *MarketFacade) VendorOrders(ctx context.Context, vendorID int64) ([]model.Order, error) {
	return f.orders.VendorOrders(ctx, vendorID)
}

func (f *MarketFacade) UpdateOrderStatus(ctx context.Context, actorID, orderID int64, status model.OrderStatus) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, actorID, orderID, status)
}

func (f *MarketFacade) VendorPayouts(ctx context.Context, vendorID int64) ([]model.Payout, error) {
	return f.payouts.VendorPayouts(ctx, vendorID)
}

func (f *MarketFacade) VendorTransfers(ctx context.Context, vendorID int64) ([]model.Transfer, error) {
	return f.payouts.VendorTransfers(ctx, vendorID)
}

// Revenue compares the vendor's current month with the previous one as of now.
func (f *MarketFacade) Revenue(ctx context.Context, vendorID int64) (*model.RevenueComparison, error) {
	return f.revenue.Compare(ctx, vendorID, f.now())
}

func (f *MarketFacade) OnboardVendor(ctx context.Context, vendorID int64, refreshURL, returnURL string) (string, error) {
	return f.payouts.OnboardVendor(ctx, vendorID, refreshURL, returnURL)
}

func (f *MarketFacade) Payouts(ctx context.Context, filter model.PayoutFilter) ([]model.Payout, error) {
	return f.payouts.Payouts(ctx, filter)
}

// ExportPayouts writes payouts matching filter as an xlsx workbook.
func (f *MarketFacade) ExportPayouts(ctx context.Context, filter model.PayoutFilter, w io.Writer) error {
	payouts, err := f.payouts.Payouts(ctx, filter)
	if err != nil {
		return err
	}
	if err := report.WritePayouts(w, payouts, f.loc); err != nil {
		return fmt.Errorf("export payouts: %w", err)
	}
	return nil
}

// GeneratePayouts runs the monthly generator for the month preceding now.
func (f *MarketFacade) GeneratePayouts(ctx context.Context, now time.Time) (model.GenerationReport, error) {
	return f.payouts.Generate(ctx, f.payouts.JobContext(now))
}

// DisbursePayouts runs the disbursement job as of now.
func (f *MarketFacade) DisbursePayouts(ctx context.Context, now time.Time) (model.DisbursementReport, error) {
	return f.payouts.Disburse(ctx, f.payouts.JobContext(now))
}
