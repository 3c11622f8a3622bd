package sweeper

import (
	"context"
	"time"

	"codeberg.org/aigram/server/internal/logger"
)

const DefaultInterval = time.Hour

// the store operations the sweeper needs
type Store interface {
	ListExpiredPremium(ctx context.Context, now time.Time) ([]int64, error)
	ClearPremium(ctx context.Context, userID int64) error
}

// periodically demotes premium accounts whose expiry has passed
//
// the lazy check in the entitlement engine already guarantees correctness
// at decision time; the sweep only bounds how stale the stored flag can be
// for reporting. each demotion is its own store call, so a sweep pass never
// holds anything across the whole scan
type Sweeper struct {
	store    Store
	interval time.Duration
	now      func() time.Time
}

// creates a new expiry sweeper
func NewSweeper(store Store, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Sweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

// overrides the clock, used by tests
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// begins the sweeper background loop
func (s *Sweeper) Start(ctx context.Context) {
	logger.Info("starting premium expiry sweeper", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("premium expiry sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// performs a single pass; every error is logged and skipped so the next
// interval always runs
func (s *Sweeper) Sweep(ctx context.Context) {
	expired, err := s.store.ListExpiredPremium(ctx, s.now())
	if err != nil {
		logger.ErrorErr(err, "failed to list expired premium accounts")
		return
	}

	if len(expired) == 0 {
		return
	}

	logger.Info("found expired premium accounts", "count", len(expired))

	for _, userID := range expired {
		if err := s.store.ClearPremium(ctx, userID); err != nil {
			logger.ErrorErr(err, "failed to clear expired premium", "user_id", userID)
			continue
		}

		logger.Info("premium expired", "user_id", userID)
	}
}
