// Package scheduler re-runs recent searches on a cron schedule so the
// persistent cache stays warm.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/honeycarbs/offerscout/internal/domain"
	"github.com/honeycarbs/offerscout/pkg/logging"
)

// DefaultBatch is how many recent searches one run refreshes
const DefaultBatch = 5

// Refresher is the subset of job.Service the scheduler drives
type Refresher interface {
	RecentSearches(ctx context.Context, limit int) []domain.SearchFilters
	Refresh(ctx context.Context, filters domain.SearchFilters) (domain.SearchResult, error)
}

// Scheduler wraps robfig/cron and manages the refresh loop
type Scheduler struct {
	cron     *cron.Cron
	service  Refresher
	logger   *logging.Logger
	schedule string
	batch    int

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler firing on schedule, e.g. "@every 6h" or "0 */4 * * *"
func New(service Refresher, schedule string, batch int, logger *logging.Logger) *Scheduler {
	if batch <= 0 {
		batch = DefaultBatch
	}
	if logger == nil {
		logger = logging.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     cron.New(),
		service:  service,
		logger:   logger.Named("scheduler"),
		schedule: schedule,
		batch:    batch,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start registers the refresh job and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(s.ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("refresh scheduler started", "schedule", s.schedule, "batch", s.batch)
	return nil
}

// RunOnce refreshes the most recent searches one after another, oldest first
// so that the history keeps its order. Failures are logged and do not stop
// the batch.
func (s *Scheduler) RunOnce(ctx context.Context) {
	recent := s.service.RecentSearches(ctx, s.batch)
	if len(recent) == 0 {
		s.logger.Debug("no recent searches to refresh")
		return
	}

	refreshed := 0
	for i := len(recent) - 1; i >= 0; i-- {
		filters := recent[i]
		if ctx.Err() != nil {
			return
		}
		if _, err := s.service.Refresh(ctx, filters); err != nil {
			s.logger.Warn("refresh failed", "filters", filters.Key(), "err", err)
			continue
		}
		refreshed++
	}
	s.logger.Info("refresh cycle complete", "refreshed", refreshed, "total", len(recent))
}

// Shutdown stops the cron loop and waits for a running job or ctx
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
