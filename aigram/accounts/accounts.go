package accounts

import (
	"context"
	"time"

	"codeberg.org/aigram/server/internal/apperrors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates a new account repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// returns the current UTC calendar date as the quota day
func Today(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// fetches the account, creating it with a zeroed quota if absent and
// rolling the quota over when the stored day is stale; the returned
// snapshot always reflects the current UTC day
func (r *Repository) GetOrCreate(ctx context.Context, userID int64) (*Account, error) {
	var acct Account

	err := r.db.QueryRow(ctx, queryGetOrCreate, userID, Today(time.Now())).Scan(
		&acct.UserID,
		&acct.UsedToday,
		&acct.LastReset,
		&acct.IsPremium,
		&acct.PremiumExpiry,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.Persistence("get or create account", err)
	}

	return &acct, nil
}

// charges one generation against the user and the daily stats row as a
// single transaction; both land or neither does
func (r *Repository) IncrementUsage(ctx context.Context, userID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperrors.Persistence("begin usage tx", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, queryIncrementUsage, userID); err != nil {
		return apperrors.Persistence("increment usage", err)
	}

	if _, err := tx.Exec(ctx, queryIncrementDailyStats, Today(time.Now())); err != nil {
		return apperrors.Persistence("increment daily stats", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Persistence("commit usage tx", err)
	}

	return nil
}

// grants premium until now + duration; a re-grant resets the expiry from
// now, it does not extend remaining time
func (r *Repository) SetPremium(ctx context.Context, userID int64, duration time.Duration) error {
	now := time.Now().UTC()
	expiry := now.Add(duration)

	_, err := r.db.Exec(ctx, querySetPremium, userID, expiry, Today(now))
	return apperrors.Persistence("set premium", err)
}

// revokes premium and clears the expiry
func (r *Repository) ClearPremium(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, queryClearPremium, userID)
	return apperrors.Persistence("clear premium", err)
}

// returns ids of premium accounts whose expiry has passed (or is missing,
// which the sweeper heals the same way)
func (r *Repository) ListExpiredPremium(ctx context.Context, now time.Time) ([]int64, error) {
	rows, err := r.db.Query(ctx, queryListExpiredPremium, now.UTC())
	if err != nil {
		return nil, apperrors.Persistence("list expired premium", err)
	}

	defer rows.Close()

	var ids []int64

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Persistence("scan expired premium", err)
		}
		ids = append(ids, id)
	}

	return ids, apperrors.Persistence("list expired premium", rows.Err())
}

// returns every known user id, used by broadcast
func (r *Repository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, queryListIDs)
	if err != nil {
		return nil, apperrors.Persistence("list user ids", err)
	}

	defer rows.Close()

	var ids []int64

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Persistence("scan user id", err)
		}
		ids = append(ids, id)
	}

	return ids, apperrors.Persistence("list user ids", rows.Err())
}

// returns the admin statistics counters for the current UTC day
func (r *Repository) Totals(ctx context.Context) (*Totals, error) {
	var t Totals

	err := r.db.QueryRow(ctx, queryTotals, Today(time.Now())).Scan(
		&t.Users,
		&t.Premium,
		&t.ImagesToday,
	)
	if err != nil {
		return nil, apperrors.Persistence("load totals", err)
	}

	return &t, nil
}
