package cron_feature

import (
	"context"
	"time"

	"whatsflow/internal/features/execution"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	stalePendingAfter = 10 * time.Minute
	skippedRetention  = 30 * 24 * time.Hour
)

// CronService runs the ledger maintenance jobs: pending rows whose worker
// died get failed out so the (rule, message) slot frees up for redelivery,
// and old skipped rows get pruned.
type CronService interface {
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error

	SweepStalePending(ctx context.Context) error
	PruneSkipped(ctx context.Context) error
}

type CronServiceImpl struct {
	Ledger execution.LedgerRepository
	Logger *zap.Logger

	scheduler *cron.Cron
}

func NewCronService(ledger execution.LedgerRepository, logger *zap.Logger) CronService {
	return &CronServiceImpl{
		Ledger: ledger,
		Logger: logger,
	}
}

func (s *CronServiceImpl) InitializeScheduler(_ context.Context) error {
	s.scheduler = cron.New()

	if _, err := s.scheduler.AddFunc("*/10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.SweepStalePending(ctx); err != nil {
			s.Logger.Error("Stale-pending sweep failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	if _, err := s.scheduler.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.PruneSkipped(ctx); err != nil {
			s.Logger.Error("Skipped-row prune failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	s.scheduler.Start()
	s.Logger.Info("Ledger maintenance scheduler started")
	return nil
}

func (s *CronServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	return nil
}

func (s *CronServiceImpl) SweepStalePending(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-stalePendingAfter)
	n, err := s.Ledger.FailStalePending(ctx, cutoff)
	if err != nil {
		return err
	}
	if n > 0 {
		s.Logger.Warn("Failed out stalled executions", zap.Int64("count", n))
	}
	return nil
}

func (s *CronServiceImpl) PruneSkipped(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-skippedRetention)
	n, err := s.Ledger.PruneSkipped(ctx, cutoff)
	if err != nil {
		return err
	}
	if n > 0 {
		s.Logger.Info("Pruned skipped ledger rows", zap.Int64("count", n))
	}
	return nil
}
