package test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (int64, error)
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, email, name, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, email, name, password)
	}
	return "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return "token", nil
}

// ParseToken returns stored identifier for authenticated user.
func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// UserFacadeStub provides controllable profile operations.
type UserFacadeStub struct {
	ProfileFn       func(context.Context, int64) (*model.User, error)
	UpdateProfileFn func(context.Context, int64, *string, *model.BankDetails) (*model.User, error)
	RequestSellerFn func(context.Context, int64) (*model.User, error)
	SetRoleFn       func(context.Context, int64, model.Role) (*model.User, error)
}

// Profile returns configured user or a customer with the requested id.
func (s UserFacadeStub) Profile(ctx context.Context, userID int64) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, userID)
	}
	return &model.User{ID: userID, Email: "user@shop.test", Name: "User", Role: model.RoleCustomer}, nil
}

// UpdateProfile echoes applied changes.
func (s UserFacadeStub) UpdateProfile(ctx context.Context, userID int64, name *string, bank *model.BankDetails) (*model.User, error) {
	if s.UpdateProfileFn != nil {
		return s.UpdateProfileFn(ctx, userID, name, bank)
	}
	user := &model.User{ID: userID, Role: model.RoleCustomer, Bank: bank}
	if name != nil {
		user.Name = *name
	}
	return user, nil
}

// RequestSeller marks user as requested.
func (s UserFacadeStub) RequestSeller(ctx context.Context, userID int64) (*model.User, error) {
	if s.RequestSellerFn != nil {
		return s.RequestSellerFn(ctx, userID)
	}
	return &model.User{ID: userID, Role: model.RoleCustomer, Status: model.UserStatusRequested}, nil
}

// SetRole returns user with assigned role.
func (s UserFacadeStub) SetRole(ctx context.Context, userID int64, role model.Role) (*model.User, error) {
	if s.SetRoleFn != nil {
		return s.SetRoleFn(ctx, userID, role)
	}
	return &model.User{ID: userID, Role: role}, nil
}

// CatalogFacadeStub simulates catalog operations.
type CatalogFacadeStub struct {
	CreateProductFn func(context.Context, int64, model.Product) (*model.Product, error)
	ProductFn       func(context.Context, int64) (*model.Product, error)
	ProductsFn      func(context.Context, model.ProductFilter) ([]model.Product, error)
}

// CreateProduct returns product with assigned id.
func (s CatalogFacadeStub) CreateProduct(ctx context.Context, vendorID int64, product model.Product) (*model.Product, error) {
	if s.CreateProductFn != nil {
		return s.CreateProductFn(ctx, vendorID, product)
	}
	product.ID = 1
	product.VendorID = vendorID
	return &product, nil
}

// Product returns configured product.
func (s CatalogFacadeStub) Product(ctx context.Context, id int64) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id, VendorID: 2, Name: "Shawl", Price: decimal.NewFromInt(10), Stock: 1}, nil
}

// Products returns configured listing.
func (s CatalogFacadeStub) Products(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx, filter)
	}
	return []model.Product{{ID: 1, VendorID: 2, Name: "Shawl", Price: decimal.NewFromInt(10), Stock: 1}}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn          func(context.Context, int64, []model.LineItem) (*model.Order, error)
	CustomerOrdersFn func(context.Context, int64) ([]model.Order, error)
	VendorOrdersFn   func(context.Context, int64) ([]model.Order, error)
	UpdateStatusFn   func(context.Context, int64, int64, model.OrderStatus) (*model.Order, error)
}

// PlaceOrder returns pending order built from items.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, customerID int64, items []model.LineItem) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, customerID, items)
	}
	return &model.Order{ID: 1, CustomerID: customerID, Status: model.OrderStatusPending, Items: items}, nil
}

// CustomerOrders returns configured orders of customer.
func (s OrderFacadeStub) CustomerOrders(ctx context.Context, customerID int64) ([]model.Order, error) {
	if s.CustomerOrdersFn != nil {
		return s.CustomerOrdersFn(ctx, customerID)
	}
	return []model.Order{{ID: 1, CustomerID: customerID, Status: model.OrderStatusPending}}, nil
}

// VendorOrders returns configured orders of vendor.
func (s OrderFacadeStub) VendorOrders(ctx context.Context, vendorID int64) ([]model.Order, error) {
	if s.VendorOrdersFn != nil {
		return s.VendorOrdersFn(ctx, vendorID)
	}
	return nil, nil
}

// UpdateOrderStatus returns order in requested status.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, actorID, orderID int64, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, actorID, orderID, status)
	}
	return &model.Order{ID: orderID, Status: status}, nil
}

// PayoutFacadeStub simulates vendor and admin payout operations.
type PayoutFacadeStub struct {
	VendorPayoutsFn   func(context.Context, int64) ([]model.Payout, error)
	VendorTransfersFn func(context.Context, int64) ([]model.Transfer, error)
	RevenueFn         func(context.Context, int64) (*model.RevenueComparison, error)
	OnboardFn         func(context.Context, int64, string, string) (string, error)
	PayoutsFn         func(context.Context, model.PayoutFilter) ([]model.Payout, error)
	ExportFn          func(context.Context, model.PayoutFilter, io.Writer) error
	GenerateFn        func(context.Context, time.Time) (model.GenerationReport, error)
	DisburseFn        func(context.Context, time.Time) (model.DisbursementReport, error)
}

// VendorPayouts returns configured payouts of vendor.
func (s PayoutFacadeStub) VendorPayouts(ctx context.Context, vendorID int64) ([]model.Payout, error) {
	if s.VendorPayoutsFn != nil {
		return s.VendorPayoutsFn(ctx, vendorID)
	}
	return nil, nil
}

// VendorTransfers returns configured transfers of vendor.
func (s PayoutFacadeStub) VendorTransfers(ctx context.Context, vendorID int64) ([]model.Transfer, error) {
	if s.VendorTransfersFn != nil {
		return s.VendorTransfersFn(ctx, vendorID)
	}
	return nil, nil
}

// Revenue returns configured comparison.
func (s PayoutFacadeStub) Revenue(ctx context.Context, vendorID int64) (*model.RevenueComparison, error) {
	if s.RevenueFn != nil {
		return s.RevenueFn(ctx, vendorID)
	}
	return &model.RevenueComparison{VendorID: vendorID, Growth: decimal.NewFromInt(100)}, nil
}

// OnboardVendor returns onboarding link.
func (s PayoutFacadeStub) OnboardVendor(ctx context.Context, vendorID int64, refreshURL, returnURL string) (string, error) {
	if s.OnboardFn != nil {
		return s.OnboardFn(ctx, vendorID, refreshURL, returnURL)
	}
	return "https://connect.example/onboard", nil
}

// Payouts returns configured payouts.
func (s PayoutFacadeStub) Payouts(ctx context.Context, filter model.PayoutFilter) ([]model.Payout, error) {
	if s.PayoutsFn != nil {
		return s.PayoutsFn(ctx, filter)
	}
	return nil, nil
}

// ExportPayouts writes configured export.
func (s PayoutFacadeStub) ExportPayouts(ctx context.Context, filter model.PayoutFilter, w io.Writer) error {
	if s.ExportFn != nil {
		return s.ExportFn(ctx, filter, w)
	}
	_, err := w.Write([]byte("xlsx"))
	return err
}

// GeneratePayouts returns configured generation report.
func (s PayoutFacadeStub) GeneratePayouts(ctx context.Context, now time.Time) (model.GenerationReport, error) {
	if s.GenerateFn != nil {
		return s.GenerateFn(ctx, now)
	}
	return model.GenerationReport{}, nil
}

// DisbursePayouts returns configured disbursement report.
func (s PayoutFacadeStub) DisbursePayouts(ctx context.Context, now time.Time) (model.DisbursementReport, error) {
	if s.DisburseFn != nil {
		return s.DisburseFn(ctx, now)
	}
	return model.DisbursementReport{}, nil
}

// MarketFacadeStub aggregates facade dependencies for HTTP layer tests.
type MarketFacadeStub struct {
	AuthFacadeStub
	UserFacadeStub
	CatalogFacadeStub
	OrderFacadeStub
	PayoutFacadeStub
}

// PayoutJobsStub records scheduler invocations of payout jobs.
type PayoutJobsStub struct {
	GenerateFn func(context.Context, time.Time) (model.GenerationReport, error)
	DisburseFn func(context.Context, time.Time) (model.DisbursementReport, error)

	Generated chan time.Time
	Disbursed chan time.Time

	mu    sync.Mutex
	calls int
}

// GeneratePayouts notifies Generated and delegates to override.
func (s *PayoutJobsStub) GeneratePayouts(ctx context.Context, now time.Time) (model.GenerationReport, error) {
	s.record()
	notify(s.Generated, now)
	if s.GenerateFn != nil {
		return s.GenerateFn(ctx, now)
	}
	return model.GenerationReport{}, nil
}

// DisbursePayouts notifies Disbursed and delegates to override.
func (s *PayoutJobsStub) DisbursePayouts(ctx context.Context, now time.Time) (model.DisbursementReport, error) {
	s.record()
	notify(s.Disbursed, now)
	if s.DisburseFn != nil {
		return s.DisburseFn(ctx, now)
	}
	return model.DisbursementReport{}, nil
}

// Calls returns total number of job invocations.
func (s *PayoutJobsStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *PayoutJobsStub) record() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func notify(ch chan time.Time, now time.Time) {
	if ch == nil {
		return
	}
	select {
	case ch <- now:
	default:
	}
}

// PaymentProviderStub records transfers and serves configured responses.
type PaymentProviderStub struct {
	TransferFn       func(context.Context, model.TransferRequest) (*model.TransferResult, error)
	CreateAccountFn  func(context.Context, string) (string, error)
	OnboardingLinkFn func(context.Context, model.OnboardingLinkRequest) (string, error)

	mu        sync.Mutex
	Transfers []model.TransferRequest
	Accounts  []string
}

// Transfer records request and returns provider reference derived from idempotency key.
func (s *PaymentProviderStub) Transfer(ctx context.Context, req model.TransferRequest) (*model.TransferResult, error) {
	s.mu.Lock()
	s.Transfers = append(s.Transfers, req)
	s.mu.Unlock()
	if s.TransferFn != nil {
		return s.TransferFn(ctx, req)
	}
	return &model.TransferResult{ID: "tr_" + req.IdempotencyKey}, nil
}

// CreateAccount records email and returns new account id.
func (s *PaymentProviderStub) CreateAccount(ctx context.Context, email string) (string, error) {
	s.mu.Lock()
	s.Accounts = append(s.Accounts, email)
	s.mu.Unlock()
	if s.CreateAccountFn != nil {
		return s.CreateAccountFn(ctx, email)
	}
	return "acct_new", nil
}

// OnboardingLink returns hosted onboarding url for account.
func (s *PaymentProviderStub) OnboardingLink(ctx context.Context, req model.OnboardingLinkRequest) (string, error) {
	if s.OnboardingLinkFn != nil {
		return s.OnboardingLinkFn(ctx, req)
	}
	return "https://connect.example/" + req.AccountID, nil
}

// TransferRequests returns copy of recorded transfer requests.
func (s *PaymentProviderStub) TransferRequests() []model.TransferRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.TransferRequest(nil), s.Transfers...)
}
