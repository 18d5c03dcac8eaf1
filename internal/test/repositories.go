package test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/bazaar/internal/domain/errors"
	"github.com/polkiloo/bazaar/internal/domain/model"
	"github.com/polkiloo/bazaar/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	mu      sync.Mutex
	ByEmail map[string]*model.User
	ByID    map[int64]*model.User
	Next    int64
	Err     error
}

// NewUserRepositoryStub constructs stub repository seeded with users.
func NewUserRepositoryStub(users ...model.User) *UserRepositoryStub {
	s := &UserRepositoryStub{
		ByEmail: make(map[string]*model.User),
		ByID:    make(map[int64]*model.User),
		Next:    1,
	}
	for _, u := range users {
		s.put(u)
	}
	return s
}

func (s *UserRepositoryStub) put(u model.User) {
	user := u
	s.ByEmail[user.Email] = &user
	s.ByID[user.ID] = &user
	if user.ID >= s.Next {
		s.Next = user.ID + 1
	}
}

// Create registers user unless email is taken or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, email, name, passwordHash string, role model.Role) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.ByEmail[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	s.put(model.User{ID: s.Next, Email: email, Name: name, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now()})
	user := *s.ByEmail[email]
	return &user, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByEmail[email]; ok {
		u := *user
		return &u, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		u := *user
		return &u, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListVendors returns sellers ordered by id.
func (s *UserRepositoryStub) ListVendors(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var vendors []model.User
	for _, u := range s.ByID {
		if u.IsVendor() {
			vendors = append(vendors, *u)
		}
	}
	sort.Slice(vendors, func(i, j int) bool { return vendors[i].ID < vendors[j].ID })
	return vendors, nil
}

// UpdateProfile applies non-nil fields of update.
func (s *UserRepositoryStub) UpdateProfile(ctx context.Context, id int64, update repository.ProfileUpdate) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Status != nil {
		user.Status = *update.Status
	}
	if update.Bank != nil {
		bank := *update.Bank
		user.Bank = &bank
	}
	u := *user
	return &u, nil
}

// SetRole changes role of stored user.
func (s *UserRepositoryStub) SetRole(ctx context.Context, id int64, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.Role = role
	return nil
}

// SetPayoutAccount stores provider account of user.
func (s *UserRepositoryStub) SetPayoutAccount(ctx context.Context, id int64, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.PayoutAccountID = accountID
	return nil
}

// ProductRepositoryStub keeps catalog in-memory.
type ProductRepositoryStub struct {
	mu       sync.Mutex
	Products []model.Product
	Err      error
}

// Create appends product assigning the next identifier.
func (s *ProductRepositoryStub) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	product.ID = int64(len(s.Products) + 1)
	product.CreatedAt = time.Now()
	s.Products = append(s.Products, product)
	return &product, nil
}

// GetByID returns stored product or not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// List filters stored products.
func (s *ProductRepositoryStub) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Product
	for _, p := range s.Products {
		if filter.VendorID != 0 && p.VendorID != filter.VendorID {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// OrderRepositoryStub serves configured orders and allows behaviour overrides.
type OrderRepositoryStub struct {
	CreateFn       func(context.Context, model.Order) (*model.Order, error)
	UpdateStatusFn func(context.Context, int64, model.OrderStatus, model.OrderStatus, *time.Time) error
	WindowErr      error

	mu          sync.Mutex
	Orders      []model.Order
	Created     []model.Order
	UpdateCalls []OrderUpdateCall
}

// OrderUpdateCall stores information about UpdateStatus invocations.
type OrderUpdateCall struct {
	OrderID   int64
	From      model.OrderStatus
	Status    model.OrderStatus
	ShippedAt *time.Time
}

// Create records order and returns it with an identifier.
func (s *OrderRepositoryStub) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	s.mu.Lock()
	s.Created = append(s.Created, order)
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	order.ID = int64(len(s.Created))
	order.CreatedAt = time.Now()
	return &order, nil
}

// GetByID returns configured order.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByCustomer returns configured orders of customer.
func (s *OrderRepositoryStub) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.Orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

// ListByVendor returns configured orders with vendor items.
func (s *OrderRepositoryStub) ListByVendor(ctx context.Context, vendorID int64) ([]model.Order, error) {
	return s.matching(vendorID, func(model.Order) bool { return true }), nil
}

// UpdateStatus records update invocations. Like the SQL store it refuses to move
// a configured order whose status is no longer from.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus, shippedAt *time.Time) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, from, to, shippedAt)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Orders {
		if s.Orders[i].ID != id {
			continue
		}
		if s.Orders[i].Status != from {
			return domainErrors.ErrInvalidStatusTransition
		}
		s.Orders[i].Status = to
		if shippedAt != nil {
			s.Orders[i].ShippedAt = shippedAt
		}
	}
	s.UpdateCalls = append(s.UpdateCalls, OrderUpdateCall{OrderID: id, From: from, Status: to, ShippedAt: shippedAt})
	return nil
}

// DeliveredShippedWithin filters configured orders the way the SQL store does.
func (s *OrderRepositoryStub) DeliveredShippedWithin(ctx context.Context, vendorID int64, period model.Period) ([]model.Order, error) {
	if s.WindowErr != nil {
		return nil, s.WindowErr
	}
	return s.matching(vendorID, func(o model.Order) bool {
		return o.Status == model.OrderStatusDelivered && o.ShippedAt != nil && period.Contains(*o.ShippedAt)
	}), nil
}

// DeliveredCreatedWithin filters configured orders by creation instant.
func (s *OrderRepositoryStub) DeliveredCreatedWithin(ctx context.Context, vendorID int64, period model.Period) ([]model.Order, error) {
	if s.WindowErr != nil {
		return nil, s.WindowErr
	}
	return s.matching(vendorID, func(o model.Order) bool {
		return o.Status == model.OrderStatusDelivered && period.Contains(o.CreatedAt)
	}), nil
}

func (s *OrderRepositoryStub) matching(vendorID int64, keep func(model.Order) bool) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.Orders {
		if o.HasVendor(vendorID) && keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// PayoutRepositoryStub keeps payout records in-memory and enforces (vendor, period) uniqueness.
type PayoutRepositoryStub struct {
	ExistsFn func(context.Context, int64, string) (bool, error)
	CreateFn func(context.Context, model.Payout) (*model.Payout, bool, error)
	Err      error

	mu      sync.Mutex
	Payouts []model.Payout
}

// Exists reports whether payout of vendor for period is stored.
func (s *PayoutRepositoryStub) Exists(ctx context.Context, vendorID int64, period string) (bool, error) {
	if s.ExistsFn != nil {
		return s.ExistsFn(ctx, vendorID, period)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	return s.indexOf(vendorID, period) >= 0, nil
}

// Create inserts payout unless the pair is taken.
func (s *PayoutRepositoryStub) Create(ctx context.Context, payout model.Payout) (*model.Payout, bool, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, payout)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}
	if s.indexOf(payout.VendorID, payout.Period) >= 0 {
		return nil, false, nil
	}
	payout.ID = int64(len(s.Payouts) + 1)
	payout.CreatedAt = time.Now()
	s.Payouts = append(s.Payouts, payout)
	return &payout, true, nil
}

// List filters stored payouts.
func (s *PayoutRepositoryStub) List(ctx context.Context, filter model.PayoutFilter) ([]model.Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Payout
	for _, p := range s.Payouts {
		if filter.VendorID != 0 && p.VendorID != filter.VendorID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Period != "" && p.Period != filter.Period {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Unclaimed returns pending payouts of vendor not attached to a transfer.
func (s *PayoutRepositoryStub) Unclaimed(ctx context.Context, vendorID int64) ([]model.Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Payout
	for _, p := range s.Payouts {
		if p.VendorID == vendorID && p.Status == model.PayoutStatusPending && p.TransferID == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get returns stored payout by id.
func (s *PayoutRepositoryStub) Get(id int64) model.Payout {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.Payouts {
		if p.ID == id {
			return p
		}
	}
	return model.Payout{}
}

func (s *PayoutRepositoryStub) indexOf(vendorID int64, period string) int {
	for i, p := range s.Payouts {
		if p.VendorID == vendorID && p.Period == period {
			return i
		}
	}
	return -1
}

// TransferRepositoryStub stores transfer intents and settles payouts held by Ledger.
type TransferRepositoryStub struct {
	Ledger      *PayoutRepositoryStub
	InitiateErr error

	mu        sync.Mutex
	Transfers []model.Transfer
}

// Initiate stores intent and claims its payouts.
func (s *TransferRepositoryStub) Initiate(ctx context.Context, transfer model.Transfer) (*model.Transfer, error) {
	if s.InitiateErr != nil {
		return nil, s.InitiateErr
	}
	s.Ledger.mu.Lock()
	defer s.Ledger.mu.Unlock()

	claim := make([]int, 0, len(transfer.PayoutIDs))
	for _, id := range transfer.PayoutIDs {
		for i, p := range s.Ledger.Payouts {
			if p.ID == id && p.VendorID == transfer.VendorID && p.Status == model.PayoutStatusPending && p.TransferID == nil {
				claim = append(claim, i)
			}
		}
	}
	if len(claim) != len(transfer.PayoutIDs) {
		return nil, fmt.Errorf("claimed %d of %d payouts: %w", len(claim), len(transfer.PayoutIDs), domainErrors.ErrPayoutConflict)
	}
	for _, i := range claim {
		id := transfer.ID
		s.Ledger.Payouts[i].TransferID = &id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	transfer.CreatedAt = time.Now()
	s.Transfers = append(s.Transfers, transfer)
	return &transfer, nil
}

// Open returns initiated transfers of vendor.
func (s *TransferRepositoryStub) Open(ctx context.Context, vendorID int64) ([]model.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Transfer
	for _, t := range s.Transfers {
		if t.VendorID == vendorID && t.Status == model.TransferStatusInitiated {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListByVendor returns every transfer of vendor.
func (s *TransferRepositoryStub) ListByVendor(ctx context.Context, vendorID int64) ([]model.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Transfer
	for _, t := range s.Transfers {
		if t.VendorID == vendorID {
			out = append(out, t)
		}
	}
	return out, nil
}

// Complete marks intent succeeded and attached payouts paid.
func (s *TransferRepositoryStub) Complete(ctx context.Context, id, providerRef string, paidAt time.Time) error {
	if err := s.settle(id, func(t *model.Transfer) {
		t.Status = model.TransferStatusSucceeded
		t.ProviderRef = providerRef
		t.CompletedAt = &paidAt
	}); err != nil {
		return err
	}
	s.Ledger.mu.Lock()
	defer s.Ledger.mu.Unlock()
	for i, p := range s.Ledger.Payouts {
		if p.TransferID != nil && *p.TransferID == id {
			s.Ledger.Payouts[i].Status = model.PayoutStatusPaid
			s.Ledger.Payouts[i].PaidAt = &paidAt
		}
	}
	return nil
}

// Fail marks intent failed and releases attached pending payouts.
func (s *TransferRepositoryStub) Fail(ctx context.Context, id, reason string, failedAt time.Time) error {
	if err := s.settle(id, func(t *model.Transfer) {
		t.Status = model.TransferStatusFailed
		t.Failure = reason
		t.CompletedAt = &failedAt
	}); err != nil {
		return err
	}
	s.Ledger.mu.Lock()
	defer s.Ledger.mu.Unlock()
	for i, p := range s.Ledger.Payouts {
		if p.TransferID != nil && *p.TransferID == id && p.Status == model.PayoutStatusPending {
			s.Ledger.Payouts[i].TransferID = nil
		}
	}
	return nil
}

// Get returns stored transfer by id.
func (s *TransferRepositoryStub) Get(id string) model.Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.Transfers {
		if t.ID == id {
			return t
		}
	}
	return model.Transfer{}
}

func (s *TransferRepositoryStub) settle(id string, apply func(*model.Transfer)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Transfers {
		if s.Transfers[i].ID == id && s.Transfers[i].Status == model.TransferStatusInitiated {
			apply(&s.Transfers[i])
			return nil
		}
	}
	return fmt.Errorf("open transfer %s: %w", id, domainErrors.ErrNotFound)
}

var (
	_ repository.UserRepository     = (*UserRepositoryStub)(nil)
	_ repository.ProductRepository  = (*ProductRepositoryStub)(nil)
	_ repository.OrderRepository    = (*OrderRepositoryStub)(nil)
	_ repository.PayoutRepository   = (*PayoutRepositoryStub)(nil)
	_ repository.TransferRepository = (*TransferRepositoryStub)(nil)
)
