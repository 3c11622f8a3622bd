package promo

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles promo code database operations
type Repository struct {
	db *pgxpool.Pool
}

// single-use premium grant token; Active flips to false exactly once on
// successful redemption and is never reactivated
type Code struct {
	Code      string    `json:"code"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
