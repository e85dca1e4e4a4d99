package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/resumesmartx/resumesmartx/internal/model"
)

// SeenRetention is how long alerted listings are remembered.
const SeenRetention = 30 * 24 * time.Hour

// Poller runs one poll cycle for a saved search.
type Poller interface {
	Name() string
	Poll(ctx context.Context) error
}

// Scheduler owns the main loop: ticks on an interval and runs each poller sequentially.
type Scheduler struct {
	pollers  []Poller
	interval time.Duration
	pause    time.Duration
	store    model.ListingStore
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that polls all saved searches at the given
// interval, pausing between searches. When store is non-nil, seen listings
// older than SeenRetention are pruned before each cycle.
func NewScheduler(pollers []Poller, interval, pause time.Duration, store model.ListingStore, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pollers:  pollers,
		interval: interval,
		pause:    pause,
		store:    store,
		logger:   logger,
	}
}

// Run starts the polling loop. It runs one immediate cycle, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler",
		"interval", s.interval.String(),
		"searches", len(s.pollers),
	)

	// Run one immediate poll cycle.
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce prunes old seen listings and runs Poll on each poller sequentially.
// A failing poller is logged and does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if s.store != nil {
		if err := s.store.Cleanup(SeenRetention); err != nil {
			s.logger.Warn("seen listing cleanup failed", "error", err)
		}
	}

	for i, p := range s.pollers {
		if ctx.Err() != nil {
			return
		}

		if err := p.Poll(ctx); err != nil {
			s.logger.Error("poll failed",
				"search", p.Name(),
				"error", err,
			)
		}

		// Small pause between searches, except after the last one.
		if i < len(s.pollers)-1 && s.pause > 0 {
			t := time.NewTimer(s.pause)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
	}
}
