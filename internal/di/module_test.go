package di

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/polkiloo/bazaar/internal/adapter/payments"
	"github.com/polkiloo/bazaar/internal/app"
	"github.com/polkiloo/bazaar/internal/config"
	"github.com/polkiloo/bazaar/internal/domain/repository"
	"github.com/polkiloo/bazaar/internal/storage/postgres"
	"github.com/polkiloo/bazaar/internal/test"
	"github.com/polkiloo/bazaar/internal/worker"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:         ":0",
		DatabaseURI:        "postgres://stub",
		JWTSecret:          "secret",
		TokenTTL:           time.Hour,
		ShutdownTimeout:    time.Millisecond,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		PaymentProviderURL: "http://localhost",
		Payout: config.PayoutConfig{
			Currency:         "usd",
			Location:         time.UTC,
			GenerateSchedule: "0 0 1 * *",
			DisburseSchedule: "0 10 7 * *",
			DisbursementDay:  7,
			DisbursementHour: 10,
			FeeRate:          decimal.RequireFromString("0.02"),
		},
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	payouts := &test.PayoutRepositoryStub{}

	var (
		facade    *app.MarketFacade
		server    *http.Server
		scheduler *worker.PayoutScheduler
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(fx.Annotate(test.NewUserRepositoryStub(), fx.As(new(repository.UserRepository)))),
			fx.Replace(fx.Annotate(&test.ProductRepositoryStub{}, fx.As(new(repository.ProductRepository)))),
			fx.Replace(fx.Annotate(&test.OrderRepositoryStub{}, fx.As(new(repository.OrderRepository)))),
			fx.Replace(fx.Annotate(payouts, fx.As(new(repository.PayoutRepository)))),
			fx.Replace(fx.Annotate(&test.TransferRepositoryStub{Ledger: payouts}, fx.As(new(repository.TransferRepository)))),
			fx.Replace(fx.Annotate(&test.PaymentProviderStub{}, fx.As(new(payments.Provider)))),
		),
		fx.Populate(&facade, &server, &scheduler),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil || server == nil || scheduler == nil {
		t.Fatal("expected facade, server and scheduler instances")
	}
	if server.Addr != ":0" {
		t.Fatalf("expected configured address, got %q", server.Addr)
	}
}
