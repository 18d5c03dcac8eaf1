package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/bazaar/internal/config"
	domainErrors "github.com/polkiloo/bazaar/internal/domain/errors"
	"github.com/polkiloo/bazaar/internal/domain/model"
	"github.com/polkiloo/bazaar/internal/domain/repository"
)

const transferDescription = "Monthly payout"

// PaymentProvider moves money to vendor accounts and onboards vendors.
type PaymentProvider interface {
	Transfer(ctx context.Context, req model.TransferRequest) (*model.TransferResult, error)
	CreateAccount(ctx context.Context, email string) (string, error)
	OnboardingLink(ctx context.Context, req model.OnboardingLinkRequest) (string, error)
}

// PayoutOptions configures money and calendar rules of the payout jobs.
type PayoutOptions struct {
	FeeRate  decimal.Decimal
	Currency string
	Location *time.Location
	Day      int
	Hour     int
}

// NewPayoutOptions derives payout options from application config.
func NewPayoutOptions(cfg *config.Config) PayoutOptions {
	return PayoutOptions{
		FeeRate:  cfg.Payout.FeeRate,
		Currency: cfg.Payout.Currency,
		Location: cfg.Payout.Location,
		Day:      cfg.Payout.DisbursementDay,
		Hour:     cfg.Payout.DisbursementHour,
	}
}

// JobContext carries everything a payout run derives from the clock.
type JobContext struct {
	RunAt       time.Time
	Period      model.Period
	ScheduledAt time.Time
}

// PayoutUseCase generates monthly vendor payouts and disburses them through the payment provider.
type PayoutUseCase struct {
	users     repository.UserRepository
	orders    repository.OrderRepository
	payouts   repository.PayoutRepository
	transfers repository.TransferRepository
	provider  PaymentProvider
	opts      PayoutOptions
	logger    *slog.Logger
	now       func() time.Time
}

// NewPayoutUseCase constructs PayoutUseCase.
func NewPayoutUseCase(
	users repository.UserRepository,
	orders repository.OrderRepository,
	payouts repository.PayoutRepository,
	transfers repository.TransferRepository,
	provider PaymentProvider,
	opts PayoutOptions,
	logger *slog.Logger,
) *PayoutUseCase {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Currency == "" {
		opts.Currency = "usd"
	}
	if opts.Day <= 0 {
		opts.Day = 7
	}
	return &PayoutUseCase{
		users:     users,
		orders:    orders,
		payouts:   payouts,
		transfers: transfers,
		provider:  provider,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// JobContext builds run context for now: the target period is the previous calendar month
// and payouts are scheduled on the disbursement day of the current month.
func (u *PayoutUseCase) JobContext(now time.Time) JobContext {
	current := model.MonthOf(now, u.opts.Location)
	return JobContext{
		RunAt:       now.In(u.opts.Location),
		Period:      current.Previous(),
		ScheduledAt: current.DayAt(u.opts.Day, u.opts.Hour),
	}
}

type generateOutcome int

const (
	outcomeCreated generateOutcome = iota
	outcomeExisting
	outcomeZero
	outcomeDuplicate
)

// Generate creates one pending payout per vendor with earnings in jc.Period.
// Failures are isolated per vendor and returned joined after all vendors are processed.
func (u *PayoutUseCase) Generate(ctx context.Context, jc JobContext) (model.GenerationReport, error) {
	report := model.GenerationReport{Period: jc.Period.Key()}

	vendors, err := u.users.ListVendors(ctx)
	if err != nil {
		return report, fmt.Errorf("list vendors: %w", err)
	}
	report.Vendors = len(vendors)

	var errs []error
	for _, vendor := range vendors {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		outcome, err := u.generateForVendor(ctx, vendor, jc)
		if err != nil {
			report.Failed++
			u.logger.Error("payout generation failed",
				slog.Int64("vendor_id", vendor.ID),
				slog.String("period", report.Period),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("vendor %d: %w", vendor.ID, err))
			continue
		}

		switch outcome {
		case outcomeCreated:
			report.Created++
		case outcomeExisting:
			report.SkippedExisting++
		case outcomeZero:
			report.SkippedZero++
		case outcomeDuplicate:
			report.Duplicates++
			u.logger.Warn("payout already created by concurrent run",
				slog.Int64("vendor_id", vendor.ID),
				slog.String("period", report.Period),
			)
		}
	}

	u.logger.Info("payout generation finished",
		slog.String("period", report.Period),
		slog.Int("vendors", report.Vendors),
		slog.Int("created", report.Created),
		slog.Int("skipped_existing", report.SkippedExisting),
		slog.Int("skipped_zero", report.SkippedZero),
		slog.Int("duplicates", report.Duplicates),
		slog.Int("failed", report.Failed),
	)
	return report, errors.Join(errs...)
}

func (u *PayoutUseCase) generateForVendor(ctx context.Context, vendor model.User, jc JobContext) (generateOutcome, error) {
	key := jc.Period.Key()

	exists, err := u.payouts.Exists(ctx, vendor.ID, key)
	if err != nil {
		return 0, fmt.Errorf("check existing payout: %w", err)
	}
	if exists {
		return outcomeExisting, nil
	}

	orders, err := u.orders.DeliveredShippedWithin(ctx, vendor.ID, jc.Period)
	if err != nil {
		return 0, fmt.Errorf("load delivered orders: %w", err)
	}

	amount := model.VendorEarnings(orders, vendor.ID)
	if !amount.IsPositive() {
		return outcomeZero, nil
	}

	_, created, err := u.payouts.Create(ctx, model.Payout{
		VendorID:    vendor.ID,
		Period:      key,
		Amount:      amount,
		Status:      model.PayoutStatusPending,
		Method:      model.PayoutMethodBankTransfer,
		ScheduledAt: jc.ScheduledAt,
		Note:        jc.Period.Label(),
		BankDetails: vendor.Bank.String(),
	})
	if err != nil {
		return 0, fmt.Errorf("create payout: %w", err)
	}
	if !created {
		return outcomeDuplicate, nil
	}
	return outcomeCreated, nil
}

type submitOutcome int

const (
	submitSettled submitOutcome = iota
	submitRejected
	submitInFlight
)

// Disburse pays pending payouts of every vendor with a payout account.
// Open transfers left by earlier runs are reconciled first with their original
// idempotency key, then unclaimed pending payouts are summed into a new transfer.
func (u *PayoutUseCase) Disburse(ctx context.Context, jc JobContext) (model.DisbursementReport, error) {
	report := model.DisbursementReport{Paid: decimal.Zero}

	vendors, err := u.users.ListVendors(ctx)
	if err != nil {
		return report, fmt.Errorf("list vendors: %w", err)
	}
	report.Vendors = len(vendors)

	var errs []error
	for _, vendor := range vendors {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if vendor.PayoutAccountID == "" {
			report.NoAccount++
			continue
		}
		if err := u.disburseVendor(ctx, vendor, &report); err != nil {
			report.Failed++
			u.logger.Error("payout disbursement failed",
				slog.Int64("vendor_id", vendor.ID),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("vendor %d: %w", vendor.ID, err))
		}
	}

	u.logger.Info("payout disbursement finished",
		slog.Time("run_at", jc.RunAt),
		slog.Int("vendors", report.Vendors),
		slog.Int("settled", report.Settled),
		slog.Int("reconciled", report.Reconciled),
		slog.Int("rejected", report.Rejected),
		slog.Int("in_flight", report.InFlight),
		slog.Int("failed", report.Failed),
		slog.String("paid", report.Paid.StringFixed(2)),
	)
	return report, errors.Join(errs...)
}

func (u *PayoutUseCase) disburseVendor(ctx context.Context, vendor model.User, report *model.DisbursementReport) error {
	open, err := u.transfers.Open(ctx, vendor.ID)
	if err != nil {
		return fmt.Errorf("load open transfers: %w", err)
	}

	var errs []error
	released := false
	for _, transfer := range open {
		outcome, err := u.submit(ctx, transfer)
		switch outcome {
		case submitSettled:
			report.Reconciled++
			report.Paid = report.Paid.Add(transfer.Net)
		case submitRejected:
			report.Rejected++
			released = true
		case submitInFlight:
			report.InFlight++
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	// Released payouts wait for the next run.
	if released || len(errs) > 0 {
		return errors.Join(errs...)
	}

	payouts, err := u.payouts.Unclaimed(ctx, vendor.ID)
	if err != nil {
		return fmt.Errorf("load pending payouts: %w", err)
	}

	transfer, ok := u.newTransfer(vendor, payouts)
	if !ok {
		report.Nothing++
		return nil
	}

	initiated, err := u.transfers.Initiate(ctx, transfer)
	if err != nil {
		if errors.Is(err, domainErrors.ErrPayoutConflict) {
			report.Conflicts++
			u.logger.Warn("pending payouts claimed by concurrent run", slog.Int64("vendor_id", vendor.ID))
			return nil
		}
		return fmt.Errorf("initiate transfer: %w", err)
	}

	outcome, err := u.submit(ctx, *initiated)
	switch outcome {
	case submitSettled:
		report.Settled++
		report.Paid = report.Paid.Add(initiated.Net)
	case submitRejected:
		report.Rejected++
	case submitInFlight:
		report.InFlight++
	}
	return err
}

// newTransfer sums payouts into a transfer intent. The platform fee is withheld
// and the net amount is truncated to minor units.
func (u *PayoutUseCase) newTransfer(vendor model.User, payouts []model.Payout) (model.Transfer, bool) {
	if len(payouts) == 0 {
		return model.Transfer{}, false
	}

	gross := decimal.Zero
	ids := make([]int64, 0, len(payouts))
	for _, p := range payouts {
		gross = gross.Add(p.Amount)
		ids = append(ids, p.ID)
	}

	net := gross.Sub(gross.Mul(u.opts.FeeRate)).Truncate(2)
	if !net.IsPositive() {
		return model.Transfer{}, false
	}

	return model.Transfer{
		ID:          uuid.NewString(),
		VendorID:    vendor.ID,
		Destination: vendor.PayoutAccountID,
		Gross:       gross,
		Fee:         gross.Sub(net),
		Net:         net,
		NetMinor:    net.Shift(2).IntPart(),
		Currency:    u.opts.Currency,
		Status:      model.TransferStatusInitiated,
		PayoutIDs:   ids,
	}, true
}

// submit sends transfer to the provider and settles its outcome. Transient failures
// leave the transfer open so the next run retries it with the same idempotency key.
func (u *PayoutUseCase) submit(ctx context.Context, transfer model.Transfer) (submitOutcome, error) {
	result, err := u.provider.Transfer(ctx, model.TransferRequest{
		IdempotencyKey: transfer.ID,
		Destination:    transfer.Destination,
		Amount:         transfer.NetMinor,
		Currency:       transfer.Currency,
		Description:    transferDescription,
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrTransferRejected) || errors.Is(err, domainErrors.ErrInvalidInput) {
			u.logger.Warn("transfer rejected",
				slog.Int64("vendor_id", transfer.VendorID),
				slog.String("transfer_id", transfer.ID),
				slog.String("error", err.Error()),
			)
			if ferr := u.transfers.Fail(ctx, transfer.ID, err.Error(), u.now()); ferr != nil {
				return submitRejected, fmt.Errorf("fail transfer %s: %w", transfer.ID, ferr)
			}
			return submitRejected, fmt.Errorf("transfer %s: %w", transfer.ID, err)
		}
		return submitInFlight, fmt.Errorf("transfer %s: %w", transfer.ID, err)
	}

	if err := u.transfers.Complete(ctx, transfer.ID, result.ID, u.now()); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return submitSettled, nil
		}
		return submitInFlight, fmt.Errorf("complete transfer %s: %w", transfer.ID, err)
	}
	return submitSettled, nil
}

// VendorPayouts lists payout records of vendor, newest first.
func (u *PayoutUseCase) VendorPayouts(ctx context.Context, vendorID int64) ([]model.Payout, error) {
	return u.payouts.List(ctx, model.PayoutFilter{VendorID: vendorID})
}

// Payouts lists payout records matching filter.
func (u *PayoutUseCase) Payouts(ctx context.Context, filter model.PayoutFilter) ([]model.Payout, error) {
	return u.payouts.List(ctx, filter)
}

// VendorTransfers lists disbursement history of vendor.
func (u *PayoutUseCase) VendorTransfers(ctx context.Context, vendorID int64) ([]model.Transfer, error) {
	return u.transfers.ListByVendor(ctx, vendorID)
}

// OnboardVendor makes sure vendor has a provider account and returns hosted onboarding link.
func (u *PayoutUseCase) OnboardVendor(ctx context.Context, vendorID int64, refreshURL, returnURL string) (string, error) {
	vendor, err := u.users.GetByID(ctx, vendorID)
	if err != nil {
		return "", err
	}
	if !vendor.IsVendor() {
		return "", domainErrors.ErrForbidden
	}

	accountID := vendor.PayoutAccountID
	if accountID == "" {
		accountID, err = u.provider.CreateAccount(ctx, vendor.Email)
		if err != nil {
			return "", fmt.Errorf("create payout account: %w", err)
		}
		if err := u.users.SetPayoutAccount(ctx, vendorID, accountID); err != nil {
			return "", fmt.Errorf("store payout account: %w", err)
		}
		u.logger.Info("payout account created", slog.Int64("vendor_id", vendorID), slog.String("account_id", accountID))
	}

	return u.provider.OnboardingLink(ctx, model.OnboardingLinkRequest{
		AccountID:  accountID,
		RefreshURL: refreshURL,
		ReturnURL:  returnURL,
	})
}
