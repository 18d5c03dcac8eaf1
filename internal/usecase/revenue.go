package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/bazaar/internal/config"
	"github.com/polkiloo/bazaar/internal/domain/model"
	"github.com/polkiloo/bazaar/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// RevenueUseCase compares vendor revenue across calendar months.
type RevenueUseCase struct {
	orders repository.OrderRepository
	loc    *time.Location
}

// NewRevenueUseCase constructs RevenueUseCase evaluating months in the payout time zone.
func NewRevenueUseCase(orders repository.OrderRepository, cfg *config.Config) *RevenueUseCase {
	loc := cfg.Payout.Location
	if loc == nil {
		loc = time.UTC
	}
	return &RevenueUseCase{orders: orders, loc: loc}
}

// Compare sums delivered revenue of vendor created in the month of now and in the month before.
// Growth is a percentage rounded to two decimals; an empty previous month counts as 100% growth.
func (u *RevenueUseCase) Compare(ctx context.Context, vendorID int64, now time.Time) (*model.RevenueComparison, error) {
	current := model.MonthOf(now, u.loc)
	previous := current.Previous()

	cur, err := u.revenue(ctx, vendorID, current)
	if err != nil {
		return nil, err
	}
	prev, err := u.revenue(ctx, vendorID, previous)
	if err != nil {
		return nil, err
	}

	return &model.RevenueComparison{
		VendorID:       vendorID,
		CurrentPeriod:  current.Key(),
		PreviousPeriod: previous.Key(),
		Current:        cur,
		Previous:       prev,
		Growth:         growth(cur, prev),
	}, nil
}

func (u *RevenueUseCase) revenue(ctx context.Context, vendorID int64, period model.Period) (decimal.Decimal, error) {
	orders, err := u.orders.DeliveredCreatedWithin(ctx, vendorID, period)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load revenue for %s: %w", period.Key(), err)
	}
	return model.VendorEarnings(orders, vendorID), nil
}

func growth(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return hundred
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}
