package test

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns a pseudo-random ASCII string within the provided bounds.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	buf := make([]byte, gofakeit.Number(minLen, maxLen))
	for i := range buf {
		buf[i] = asciiLetters[gofakeit.Number(0, len(asciiLetters)-1)]
	}
	return string(buf)
}

// FakeUser returns a user with random identity and the given role.
func FakeUser(id int64, role model.Role) model.User {
	return model.User{
		ID:           id,
		Email:        gofakeit.Email(),
		Name:         gofakeit.Name(),
		PasswordHash: "hash:" + gofakeit.Password(true, true, true, false, false, 12),
		Role:         role,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
	}
}

// FakeVendor returns a seller with bank details and provider account.
func FakeVendor(id int64) model.User {
	vendor := FakeUser(id, model.RoleSeller)
	vendor.Status = model.UserStatusVerified
	vendor.PayoutAccountID = "acct_" + RandomASCIIString(12, 12)
	vendor.Bank = FakeBankDetails()
	return vendor
}

// FakeBankDetails returns random but well formed settlement details.
func FakeBankDetails() *model.BankDetails {
	return &model.BankDetails{
		BankName:      gofakeit.Company(),
		AccountName:   gofakeit.Name(),
		AccountNumber: gofakeit.AchAccount(),
		RoutingNumber: gofakeit.AchRouting(),
	}
}

// FakeProduct returns an in-stock product of vendor priced in whole cents.
func FakeProduct(id, vendorID int64) model.Product {
	price := decimal.NewFromFloat(gofakeit.Price(5, 500)).Round(2)
	return model.Product{
		ID:          id,
		VendorID:    vendorID,
		Name:        gofakeit.ProductName(),
		Category:    gofakeit.ProductCategory(),
		Description: gofakeit.ProductDescription(),
		Price:       price,
		Stock:       gofakeit.Number(1, 100),
		CreatedAt:   time.Now().Add(-48 * time.Hour),
	}
}

// Item builds a line item of vendor priced at unit with optional discounted price.
func Item(vendorID int64, unit, discounted string, qty int) model.LineItem {
	item := model.LineItem{
		ProductID: int64(gofakeit.Number(1, 1_000_000)),
		VendorID:  vendorID,
		Name:      gofakeit.ProductName(),
		Price:     decimal.RequireFromString(unit),
		Quantity:  qty,
	}
	if discounted != "" {
		item.DiscountedPrice = decimal.RequireFromString(discounted)
	}
	return item
}

// DeliveredOrder returns delivered order created and shipped at the given instants.
func DeliveredOrder(id int64, createdAt, shippedAt time.Time, items ...model.LineItem) model.Order {
	shipped := shippedAt
	return model.Order{
		ID:         id,
		CustomerID: int64(gofakeit.Number(1, 1_000_000)),
		Status:     model.OrderStatusDelivered,
		Items:      items,
		CreatedAt:  createdAt,
		ShippedAt:  &shipped,
		UpdatedAt:  shippedAt,
	}
}
