package entitlement

import (
	"context"
	"time"

	"codeberg.org/aigram/server/aigram/accounts"
)

// the single store mutation the engine performs
type PremiumClearer interface {
	ClearPremium(ctx context.Context, userID int64) error
}

// decides whether a user may perform a metered generation right now
//
// expiry is checked lazily at decision time; the background sweeper only
// bounds how stale the stored premium flag can get for reporting
type Engine struct {
	store      PremiumClearer
	adminID    int64
	dailyLimit int
	now        func() time.Time
}

// creates an entitlement engine
func NewEngine(store PremiumClearer, adminID int64, dailyLimit int) *Engine {
	return &Engine{
		store:      store,
		adminID:    adminID,
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
}

// overrides the clock, used by tests
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// reports whether the account may generate now
//
// order: admin bypass, then a live premium window, then quota; a stale
// premium flag is cleared in the store before falling through to quota
func (e *Engine) Allowed(ctx context.Context, acct *accounts.Account) (bool, error) {
	if acct.UserID == e.adminID {
		return true, nil
	}

	if acct.IsPremium {
		if acct.PremiumExpiry != nil && acct.PremiumExpiry.After(e.now()) {
			return true, nil
		}

		// expired (or invalid: premium without an expiry) - self-heal
		if err := e.store.ClearPremium(ctx, acct.UserID); err != nil {
			return false, err
		}
	}

	return acct.UsedToday < e.dailyLimit, nil
}

// exposes the configured free daily limit for user-facing messages
func (e *Engine) DailyLimit() int {
	return e.dailyLimit
}
