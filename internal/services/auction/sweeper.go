package auction

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultSweepInterval is used when no interval is configured.
const DefaultSweepInterval = 30 * time.Second

// Sweeper periodically advances auctions through their time-driven
// transitions and settles newly ended ones. A failed pass is logged and
// retried on the next tick; every transition is idempotent, so retrying
// from current state is always safe.
type Sweeper struct {
	svc      Service
	clock    Clock
	interval time.Duration
}

// NewSweeper creates a sweeper. A nil clock falls back to the system clock;
// a non-positive interval falls back to DefaultSweepInterval.
func NewSweeper(svc Service, clock Clock, interval time.Duration) *Sweeper {
	if svc == nil {
		panic("auction service is required")
	}
	if clock == nil {
		clock = SystemClock()
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{svc: svc, clock: clock, interval: interval}
}

// Run executes an immediate pass, then one pass per tick until the context
// is canceled. An in-flight pass finishes its own transactions before Run
// returns.
func (s *Sweeper) Run(ctx context.Context) {
	log.WithField("interval", s.interval).Info("auction sweeper started")
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("auction sweeper stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep pass: start due auctions, end due
// auctions, then finalize the ones that just ended. Errors are logged,
// never propagated; the next tick retries from persisted state.
func (s *Sweeper) RunOnce(ctx context.Context) {
	now := s.clock.Now()

	started, err := s.svc.StartDue(ctx, now)
	if err != nil {
		log.WithError(err).Error("sweep: failed to query auctions due to start")
	} else if started > 0 {
		log.WithField("count", started).Info("sweep: auctions started")
	}

	ended, err := s.svc.EndDue(ctx, now)
	if err != nil {
		log.WithError(err).Error("sweep: failed to query auctions due to end")
		return
	}
	for _, id := range ended {
		if err := s.svc.Finalize(ctx, id); err != nil {
			log.WithError(err).WithField("auction_id", id).Error("sweep: failed to finalize auction")
		}
	}
	if len(ended) > 0 {
		log.WithField("count", len(ended)).Info("sweep: auctions ended")
	}
}
