package accounts

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles user account and daily stats database operations
type Repository struct {
	db *pgxpool.Pool
}

// per-user quota and premium record
//
// UsedToday is only meaningful relative to LastReset: GetOrCreate performs
// the lazy day rollover, so a returned snapshot is always current-day
type Account struct {
	UserID        int64      `json:"user_id"`
	UsedToday     int        `json:"used_today"`
	LastReset     time.Time  `json:"last_reset"`
	IsPremium     bool       `json:"is_premium"`
	PremiumExpiry *time.Time `json:"premium_expiry,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// aggregate counters for the admin statistics reply
type Totals struct {
	Users       int64 `json:"users"`
	Premium     int64 `json:"premium"`
	ImagesToday int64 `json:"images_today"`
}
