package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/account"
	"github.com/stripe/stripe-go/v82/accountlink"
	"github.com/stripe/stripe-go/v82/transfer"

	domainErrors "github.com/polkiloo/bazaar/internal/domain/errors"
	"github.com/polkiloo/bazaar/internal/domain/model"
)

// TooManyRequestsError represents rate limiting signal from the payment provider.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Provider moves money to vendor accounts and onboards vendors.
type Provider interface {
	Transfer(ctx context.Context, req model.TransferRequest) (*model.TransferResult, error)
	CreateAccount(ctx context.Context, email string) (string, error)
	OnboardingLink(ctx context.Context, req model.OnboardingLinkRequest) (string, error)
}

// StripeClient implements Provider with the Stripe Connect API.
type StripeClient struct {
	transfers    transfer.Client
	accounts     account.Client
	accountLinks accountlink.Client
	logger       *slog.Logger
}

// NewStripeClient creates provider client talking to baseURL. Retries are left to
// the disbursement job, which repeats open transfers with their idempotency key.
func NewStripeClient(baseURL, secretKey string, logger *slog.Logger) (*StripeClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payment provider url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("payment provider url must be absolute")
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(strings.TrimRight(baseURL, "/")),
		HTTPClient:        &http.Client{Timeout: 30 * time.Second},
		MaxNetworkRetries: stripe.Int64(0),
		EnableTelemetry:   stripe.Bool(false),
		LeveledLogger:     leveledLogger{logger: logger},
	})

	return &StripeClient{
		transfers:    transfer.Client{B: backend, Key: secretKey},
		accounts:     account.Client{B: backend, Key: secretKey},
		accountLinks: accountlink.Client{B: backend, Key: secretKey},
		logger:       logger,
	}, nil
}

// Transfer sends amount in minor units to destination account.
// Provider deduplicates requests sharing IdempotencyKey.
func (c *StripeClient) Transfer(ctx context.Context, req model.TransferRequest) (*model.TransferResult, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("transfer amount must be positive: %w", domainErrors.ErrInvalidInput)
	}
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(req.Currency),
		Destination: stripe.String(req.Destination),
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	tr, err := c.transfers.New(params)
	if err != nil {
		return nil, c.classify("transfers", err)
	}
	return &model.TransferResult{ID: tr.ID}, nil
}

// CreateAccount registers an express connected account and returns its id.
func (c *StripeClient) CreateAccount(ctx context.Context, email string) (string, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
	}
	params.Context = ctx

	acct, err := c.accounts.New(params)
	if err != nil {
		return "", c.classify("accounts", err)
	}
	return acct.ID, nil
}

// OnboardingLink returns hosted onboarding page for the account.
func (c *StripeClient) OnboardingLink(ctx context.Context, req model.OnboardingLinkRequest) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(req.AccountID),
		RefreshURL: stripe.String(req.RefreshURL),
		ReturnURL:  stripe.String(req.ReturnURL),
		Type:       stripe.String(string(stripe.AccountLinkTypeAccountOnboarding)),
	}
	params.Context = ctx

	link, err := c.accountLinks.New(params)
	if err != nil {
		return "", c.classify("account_links", err)
	}
	return link.URL, nil
}

// classify maps SDK errors onto rate limiting, permanent rejection and transient failure.
func (c *StripeClient) classify(endpoint string, err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		c.logger.Error("payment provider request failed", slog.String("endpoint", endpoint), slog.String("error", err.Error()))
		return fmt.Errorf("payment provider error: %w", err)
	}

	status := stripeErr.HTTPStatusCode
	switch {
	case status == http.StatusTooManyRequests:
		var header string
		if stripeErr.LastResponse != nil {
			header = stripeErr.LastResponse.Header.Get("Retry-After")
		}
		return TooManyRequestsError{RetryAfter: parseRetryAfter(header)}
	case status == http.StatusConflict:
		// Concurrent request with the same idempotency key is still in flight.
		return fmt.Errorf("payment provider conflict: %s", stripeErr.Msg)
	case status >= 400 && status < 500:
		c.logger.Warn("payment provider rejected request",
			slog.String("endpoint", endpoint), slog.Int("status", status), slog.String("message", stripeErr.Msg))
		return fmt.Errorf("%w: %s", domainErrors.ErrTransferRejected, stripeErr.Msg)
	default:
		c.logger.Error("payment provider request failed",
			slog.String("endpoint", endpoint), slog.Int("status", status), slog.String("message", stripeErr.Msg))
		return fmt.Errorf("payment provider error: %d %s", status, stripeErr.Msg)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

// leveledLogger routes SDK logs into slog. Request traces go to debug.
type leveledLogger struct {
	logger *slog.Logger
}

func (l leveledLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (l leveledLogger) Infof(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (l leveledLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (l leveledLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}
