package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/bazaar/internal/config"
	"github.com/polkiloo/bazaar/internal/domain/model"
	testhelpers "github.com/polkiloo/bazaar/internal/test"
)

func TestRevenueCompare(t *testing.T) {
	loc := dhaka(t)
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, loc)
	september := time.Date(2026, 9, 20, 10, 0, 0, 0, loc)
	october := time.Date(2026, 10, 2, 10, 0, 0, 0, loc)

	tests := []struct {
		name     string
		orders   []model.Order
		current  string
		previous string
		growth   string
	}{
		{
			name:     "empty previous month counts as full growth",
			orders:   []model.Order{testhelpers.DeliveredOrder(1, october, october, testhelpers.Item(2, "150", "", 1))},
			current:  "150",
			previous: "0",
			growth:   "100",
		},
		{
			name:     "no sales at all",
			current:  "0",
			previous: "0",
			growth:   "100",
		},
		{
			name: "growth",
			orders: []model.Order{
				testhelpers.DeliveredOrder(1, october, october, testhelpers.Item(2, "150", "", 1)),
				testhelpers.DeliveredOrder(2, september, september, testhelpers.Item(2, "100", "", 1)),
			},
			current:  "150",
			previous: "100",
			growth:   "50",
		},
		{
			name:     "decline",
			orders:   []model.Order{testhelpers.DeliveredOrder(1, september, september, testhelpers.Item(2, "100", "", 1))},
			current:  "0",
			previous: "100",
			growth:   "-100",
		},
		{
			name: "rounded to two decimals",
			orders: []model.Order{
				testhelpers.DeliveredOrder(1, october, october, testhelpers.Item(2, "100", "", 1)),
				testhelpers.DeliveredOrder(2, september, september, testhelpers.Item(2, "30", "", 1)),
			},
			current:  "100",
			previous: "30",
			growth:   "233.33",
		},
		{
			name: "other vendors and undelivered orders ignored",
			orders: []model.Order{
				testhelpers.DeliveredOrder(1, october, october, testhelpers.Item(2, "40", "30", 2), testhelpers.Item(9, "500", "", 1)),
				{ID: 2, Status: model.OrderStatusPending, CreatedAt: october, Items: []model.LineItem{testhelpers.Item(2, "999", "", 1)}},
				testhelpers.DeliveredOrder(3, september, september, testhelpers.Item(2, "20", "", 2)),
			},
			current:  "60",
			previous: "40",
			growth:   "50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &testhelpers.OrderRepositoryStub{Orders: tt.orders}
			uc := NewRevenueUseCase(orders, &config.Config{Payout: config.PayoutConfig{Location: loc}})

			cmp, err := uc.Compare(context.Background(), 2, now)
			require.NoError(t, err)
			assert.Equal(t, int64(2), cmp.VendorID)
			assert.Equal(t, "2026-10", cmp.CurrentPeriod)
			assert.Equal(t, "2026-09", cmp.PreviousPeriod)
			assert.True(t, cmp.Current.Equal(decimal.RequireFromString(tt.current)), "current %s", cmp.Current)
			assert.True(t, cmp.Previous.Equal(decimal.RequireFromString(tt.previous)), "previous %s", cmp.Previous)
			assert.True(t, cmp.Growth.Equal(decimal.RequireFromString(tt.growth)), "growth %s", cmp.Growth)
		})
	}
}

func TestRevenueCompareWindowsOnCreation(t *testing.T) {
	loc := dhaka(t)
	created := time.Date(2026, 9, 29, 10, 0, 0, 0, loc)
	shipped := time.Date(2026, 10, 3, 10, 0, 0, 0, loc)
	orders := &testhelpers.OrderRepositoryStub{Orders: []model.Order{
		testhelpers.DeliveredOrder(1, created, shipped, testhelpers.Item(2, "75", "", 1)),
	}}
	uc := NewRevenueUseCase(orders, &config.Config{Payout: config.PayoutConfig{Location: loc}})

	cmp, err := uc.Compare(context.Background(), 2, time.Date(2026, 10, 18, 0, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.True(t, cmp.Current.IsZero())
	assert.True(t, cmp.Previous.Equal(decimal.NewFromInt(75)))
}

func TestRevenueCompareUsesUTCByDefault(t *testing.T) {
	uc := NewRevenueUseCase(&testhelpers.OrderRepositoryStub{}, &config.Config{})
	cmp, err := uc.Compare(context.Background(), 2, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2026-01", cmp.CurrentPeriod)
	assert.Equal(t, "2025-12", cmp.PreviousPeriod)
}

func TestRevenueComparePropagatesErrors(t *testing.T) {
	orders := &testhelpers.OrderRepositoryStub{WindowErr: errors.New("db down")}
	uc := NewRevenueUseCase(orders, &config.Config{})
	_, err := uc.Compare(context.Background(), 2, time.Now())
	require.Error(t, err)
}
