package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/polkiloo/bazaar/internal/domain/model"
)

// PayoutJobs exposes the payout jobs triggered by the scheduler.
type PayoutJobs interface {
	GeneratePayouts(ctx context.Context, now time.Time) (model.GenerationReport, error)
	DisbursePayouts(ctx context.Context, now time.Time) (model.DisbursementReport, error)
}

// PayoutScheduler fires monthly payout generation and disbursement on cron schedules
// evaluated in a named time zone. Overlapping runs of the same job are skipped.
type PayoutScheduler struct {
	jobs   PayoutJobs
	loc    *time.Location
	logger *slog.Logger
	now    func() time.Time

	cron       *cron.Cron
	generateID cron.EntryID
	disburseID cron.EntryID

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPayoutScheduler registers both jobs. Schedules use the standard five field cron syntax.
func NewPayoutScheduler(jobs PayoutJobs, generateSpec, disburseSpec string, loc *time.Location, logger *slog.Logger) (*PayoutScheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	s := &PayoutScheduler{
		jobs:   jobs,
		loc:    loc,
		logger: logger,
		now:    time.Now,
		ctx:    context.Background(),
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}

	var err error
	if s.generateID, err = s.cron.AddFunc(generateSpec, s.generate); err != nil {
		return nil, fmt.Errorf("generate schedule %q: %w", generateSpec, err)
	}
	if s.disburseID, err = s.cron.AddFunc(disburseSpec, s.disburse); err != nil {
		return nil, fmt.Errorf("disburse schedule %q: %w", disburseSpec, err)
	}
	return s, nil
}

// Start launches the cron loop. Jobs run with a context derived from ctx.
func (s *PayoutScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.cron.Start()
	s.logger.Info("payout scheduler started",
		slog.String("timezone", s.loc.String()),
		slog.Time("next_generate", s.next(s.generateID)),
		slog.Time("next_disburse", s.next(s.disburseID)),
	)
}

// Stop cancels running jobs and waits for them to return.
func (s *PayoutScheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
}

func (s *PayoutScheduler) next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Schedule.Next(s.now().In(s.loc))
}

func (s *PayoutScheduler) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *PayoutScheduler) generate() {
	report, err := s.jobs.GeneratePayouts(s.runContext(), s.now().In(s.loc))
	if err != nil {
		s.logger.Error("scheduled payout generation failed", slog.String("period", report.Period), slog.String("error", err.Error()))
		return
	}
	s.logger.Info("scheduled payout generation finished",
		slog.String("period", report.Period),
		slog.Int("created", report.Created),
	)
}

func (s *PayoutScheduler) disburse() {
	report, err := s.jobs.DisbursePayouts(s.runContext(), s.now().In(s.loc))
	if err != nil {
		s.logger.Error("scheduled disbursement failed", slog.Int("failed", report.Failed), slog.String("error", err.Error()))
		return
	}
	s.logger.Info("scheduled disbursement finished",
		slog.Int("settled", report.Settled),
		slog.String("paid", report.Paid.StringFixed(2)),
	)
}
