//go:build integration

package postgres

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	domainErrors "github.com/polkiloo/bazaar/internal/domain/errors"
	"github.com/polkiloo/bazaar/internal/domain/model"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "bazaar",
			"POSTGRES_PASSWORD": "bazaar",
			"POSTGRES_DB":       "bazaar",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://bazaar:bazaar@%s:%s/bazaar?sslmode=disable", host, port.Port())
	storage, err := New(ctx, dsn, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(storage.Close)
	return storage
}

func TestIntegrationPayoutLifecycle(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()
	loc := time.UTC

	vendor, err := storage.Users().Create(ctx, "vendor@shop.test", "Vendor", "hash", model.RoleSeller)
	require.NoError(t, err)
	customer, err := storage.Users().Create(ctx, "customer@shop.test", "Customer", "hash", model.RoleCustomer)
	require.NoError(t, err)

	product, err := storage.Products().Create(ctx, model.Product{
		VendorID: vendor.ID, Name: "Shawl", Price: decimal.NewFromInt(100), DiscountedPrice: decimal.NewFromInt(80), Stock: 3,
	})
	require.NoError(t, err)

	order, err := storage.Orders().Create(ctx, model.Order{
		CustomerID: customer.ID,
		Status:     model.OrderStatusPending,
		Items:      []model.LineItem{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = storage.Orders().Create(ctx, model.Order{
		CustomerID: customer.ID,
		Status:     model.OrderStatusPending,
		Items:      []model.LineItem{{ProductID: product.ID, Quantity: 2}},
	})
	require.ErrorIs(t, err, domainErrors.ErrInsufficientStock)

	period := model.MonthOf(time.Now(), loc)
	shipped := time.Now().In(loc)
	require.NoError(t, storage.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusPending, model.OrderStatusShipped, &shipped))
	require.NoError(t, storage.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusShipped, model.OrderStatusDelivered, nil))

	orders, err := storage.Orders().DeliveredShippedWithin(ctx, vendor.ID, period)
	require.NoError(t, err)
	require.True(t, model.VendorEarnings(orders, vendor.ID).Equal(decimal.NewFromInt(160)))

	payout := model.Payout{
		VendorID:    vendor.ID,
		Period:      period.Key(),
		Amount:      decimal.NewFromInt(160),
		Status:      model.PayoutStatusPending,
		Method:      model.PayoutMethodBankTransfer,
		ScheduledAt: period.DayAt(7, 10),
		Note:        period.Label(),
		BankDetails: model.BankDetailsNotProvided,
	}

	const runs = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := storage.Payouts().Create(ctx, payout)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, created, "exactly one concurrent insert must win")

	unclaimed, err := storage.Payouts().Unclaimed(ctx, vendor.ID)
	require.NoError(t, err)
	require.Len(t, unclaimed, 1)

	transfer := model.Transfer{
		ID: uuid.NewString(), VendorID: vendor.ID, Destination: "acct_1",
		Gross: decimal.NewFromInt(160), Fee: decimal.RequireFromString("3.20"), Net: decimal.RequireFromString("156.80"),
		NetMinor: 15680, Currency: "usd", Status: model.TransferStatusInitiated, PayoutIDs: []int64{unclaimed[0].ID},
	}
	_, err = storage.Transfers().Initiate(ctx, transfer)
	require.NoError(t, err)

	second := transfer
	second.ID = uuid.NewString()
	_, err = storage.Transfers().Initiate(ctx, second)
	require.ErrorIs(t, err, domainErrors.ErrPayoutConflict)

	open, err := storage.Transfers().Open(ctx, vendor.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, transfer.ID, open[0].ID)

	require.NoError(t, storage.Transfers().Complete(ctx, transfer.ID, "tr_1", time.Now()))

	paid, err := storage.Payouts().List(ctx, model.PayoutFilter{VendorID: vendor.ID, Status: model.PayoutStatusPaid})
	require.NoError(t, err)
	require.Len(t, paid, 1)
	require.NotNil(t, paid[0].PaidAt)
	require.Equal(t, transfer.ID, *paid[0].TransferID)
}
