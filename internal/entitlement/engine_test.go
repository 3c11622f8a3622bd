package entitlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"codeberg.org/aigram/server/aigram/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClearer struct {
	cleared []int64
	err     error
}

func (f *fakeClearer) ClearPremium(_ context.Context, userID int64) error {
	if f.err != nil {
		return f.err
	}

	f.cleared = append(f.cleared, userID)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAllowed_AdminBypassesQuota(t *testing.T) {
	store := &fakeClearer{}
	engine := NewEngine(store, 42, 3)

	acct := &accounts.Account{UserID: 42, UsedToday: 1000}

	allowed, err := engine.Allowed(context.Background(), acct)

	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Empty(t, store.cleared, "admin path must not touch the store")
}

func TestAllowed_ActivePremium(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(24 * time.Hour)

	store := &fakeClearer{}
	engine := NewEngine(store, 1, 3).WithClock(fixedClock(now))

	acct := &accounts.Account{UserID: 7, UsedToday: 999, IsPremium: true, PremiumExpiry: &expiry}

	allowed, err := engine.Allowed(context.Background(), acct)

	require.NoError(t, err)
	assert.True(t, allowed, "premium with future expiry bypasses quota")
	assert.Empty(t, store.cleared)
}

func TestAllowed_ExpiredPremiumClearsAndFallsThrough(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(-time.Minute)

	store := &fakeClearer{}
	engine := NewEngine(store, 1, 3).WithClock(fixedClock(now))

	acct := &accounts.Account{UserID: 7, UsedToday: 5, IsPremium: true, PremiumExpiry: &expiry}

	allowed, err := engine.Allowed(context.Background(), acct)

	require.NoError(t, err)
	assert.False(t, allowed, "expired premium over quota is denied")
	assert.Equal(t, []int64{7}, store.cleared, "stale premium flag is cleared in the store")
}

func TestAllowed_ExpiredPremiumSecondCallIsStable(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(-time.Minute)

	store := &fakeClearer{}
	engine := NewEngine(store, 1, 3).WithClock(fixedClock(now))

	stale := &accounts.Account{UserID: 7, UsedToday: 5, IsPremium: true, PremiumExpiry: &expiry}

	allowed, err := engine.Allowed(context.Background(), stale)
	require.NoError(t, err)
	assert.False(t, allowed)
	require.Len(t, store.cleared, 1)

	// a fresh snapshot after the clear no longer carries the premium flag
	healed := &accounts.Account{UserID: 7, UsedToday: 5}

	allowed, err = engine.Allowed(context.Background(), healed)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Len(t, store.cleared, 1, "no further side effect on the second call")
}

func TestAllowed_PremiumWithoutExpiryIsHealed(t *testing.T) {
	store := &fakeClearer{}
	engine := NewEngine(store, 1, 3)

	acct := &accounts.Account{UserID: 9, UsedToday: 0, IsPremium: true}

	allowed, err := engine.Allowed(context.Background(), acct)

	require.NoError(t, err)
	assert.True(t, allowed, "falls through to quota, which still has room")
	assert.Equal(t, []int64{9}, store.cleared, "premium without expiry is invalid and gets cleared")
}

func TestAllowed_QuotaBoundary(t *testing.T) {
	store := &fakeClearer{}
	engine := NewEngine(store, 1, 3)

	under := &accounts.Account{UserID: 7, UsedToday: 2}
	allowed, err := engine.Allowed(context.Background(), under)
	require.NoError(t, err)
	assert.True(t, allowed)

	at := &accounts.Account{UserID: 7, UsedToday: 3}
	allowed, err = engine.Allowed(context.Background(), at)
	require.NoError(t, err)
	assert.False(t, allowed, "quota is exclusive at the limit")
}

func TestAllowed_ClearFailurePropagates(t *testing.T) {
	now := time.Now()
	expiry := now.Add(-time.Minute)

	store := &fakeClearer{err: errors.New("store down")}
	engine := NewEngine(store, 1, 3).WithClock(fixedClock(now))

	acct := &accounts.Account{UserID: 7, IsPremium: true, PremiumExpiry: &expiry}

	allowed, err := engine.Allowed(context.Background(), acct)

	assert.Error(t, err, "the request fails rather than deciding on inconsistent state")
	assert.False(t, allowed)
}
