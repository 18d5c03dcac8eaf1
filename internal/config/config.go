package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	JWTSecret          string
	TokenTTL           time.Duration
	BcryptCost         int
	CookieSecure       bool
	ShutdownTimeout    time.Duration
	LogLevel           slog.Level
	CORSAllowedOrigins []string
	AdminEmail         string

	PaymentProviderURL string
	PaymentProviderKey string

	Payout PayoutConfig
}

// PayoutConfig drives the monthly generation and disbursement jobs.
type PayoutConfig struct {
	Currency         string
	Location         *time.Location
	GenerateSchedule string
	DisburseSchedule string
	DisbursementDay  int
	DisbursementHour int
	FeeRate          decimal.Decimal
	SchedulerEnabled bool
}

const (
	defaultRunAddress       = ":7777"
	defaultJWTSecret        = "change-me-in-production"
	defaultTokenTTL         = 365 * 24 * time.Hour
	defaultBcryptCost       = 10
	minBcryptCost           = 4
	maxBcryptCost           = 31
	defaultShutdownTimeout  = 10 * time.Second
	defaultCORSOrigins      = "http://localhost:5173,http://localhost:5174"
	defaultCurrency         = "usd"
	defaultTimezone         = "Asia/Dhaka"
	defaultGenerateSchedule = "0 0 1 * *"
	defaultDisburseSchedule = "0 10 7 * *"
	defaultDisbursementDay  = 7
	defaultDisbursementHour = 10
	defaultFeeRate          = "0.02"
)

// Load parses configuration from optional .env file, environment variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		JWTSecret:          getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:           getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		BcryptCost:         getInt(lookup, "BCRYPT_COST", defaultBcryptCost),
		CookieSecure:       getBool(lookup, "COOKIE_SECURE", false),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		AdminEmail:         getString(lookup, "ADMIN_EMAIL", ""),
		PaymentProviderURL: getString(lookup, "PAYMENT_PROVIDER_URL", ""),
		PaymentProviderKey: getString(lookup, "PAYMENT_PROVIDER_KEY", ""),
		Payout: PayoutConfig{
			Currency:         getString(lookup, "PAYOUT_CURRENCY", defaultCurrency),
			GenerateSchedule: getString(lookup, "PAYOUT_GENERATE_SCHEDULE", defaultGenerateSchedule),
			DisburseSchedule: getString(lookup, "PAYOUT_DISBURSE_SCHEDULE", defaultDisburseSchedule),
			DisbursementDay:  getInt(lookup, "PAYOUT_DAY", defaultDisbursementDay),
			DisbursementHour: getInt(lookup, "PAYOUT_HOUR", defaultDisbursementHour),
			SchedulerEnabled: getBool(lookup, "SCHEDULER_ENABLED", true),
		},
	}

	fs := flag.NewFlagSet("bazaar", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.TokenTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		logLevelStr        = getString(lookup, "LOG_LEVEL", "info")
		originsStr         = getString(lookup, "CORS_ALLOWED_ORIGINS", defaultCORSOrigins)
		timezoneStr        = getString(lookup, "PAYOUT_TIMEZONE", defaultTimezone)
		feeRateStr         = getString(lookup, "PLATFORM_FEE_RATE", defaultFeeRate)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PaymentProviderURL, "p", cfg.PaymentProviderURL, "Payment provider base URL")
	fs.StringVar(&cfg.AdminEmail, "admin-email", cfg.AdminEmail, "Email granted admin role on registration")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Lifetime of issued auth tokens")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "Work factor of password hashes")
	fs.BoolVar(&cfg.CookieSecure, "cookie-secure", cfg.CookieSecure, "Issue Secure SameSite=None auth cookies for cross-site clients")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level: debug, info, warn, error")
	fs.StringVar(&originsStr, "cors-origins", originsStr, "Comma separated list of allowed CORS origins")
	fs.StringVar(&timezoneStr, "payout-tz", timezoneStr, "Time zone payout schedules are evaluated in")
	fs.StringVar(&feeRateStr, "fee-rate", feeRateStr, "Platform fee withheld from vendor payouts")
	fs.BoolVar(&cfg.Payout.SchedulerEnabled, "scheduler", cfg.Payout.SchedulerEnabled, "Run payout jobs on schedule")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if cfg.Payout.Location, err = time.LoadLocation(timezoneStr); err != nil {
		return nil, fmt.Errorf("invalid payout time zone: %w", err)
	}

	if cfg.Payout.FeeRate, err = decimal.NewFromString(feeRateStr); err != nil {
		return nil, fmt.Errorf("invalid fee rate: %w", err)
	}
	if cfg.Payout.FeeRate.IsNegative() || cfg.Payout.FeeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("invalid fee rate: %s must be within [0, 1)", feeRateStr)
	}

	cfg.CORSAllowedOrigins = splitList(originsStr)

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.BcryptCost < minBcryptCost || cfg.BcryptCost > maxBcryptCost {
		return nil, fmt.Errorf("invalid bcrypt cost %d: must be within [%d, %d]", cfg.BcryptCost, minBcryptCost, maxBcryptCost)
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.Payout.DisbursementDay < 1 || cfg.Payout.DisbursementDay > 28 {
		cfg.Payout.DisbursementDay = defaultDisbursementDay
	}

	if cfg.Payout.DisbursementHour < 0 || cfg.Payout.DisbursementHour > 23 {
		cfg.Payout.DisbursementHour = defaultDisbursementHour
	}

	cfg.Payout.Currency = strings.ToLower(cfg.Payout.Currency)
	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.PaymentProviderURL == "" {
		return nil, fmt.Errorf("payment provider URL must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
