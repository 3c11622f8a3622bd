package channels

import "github.com/jackc/pgx/v5/pgxpool"

// handles required-channel database operations
type Repository struct {
	db *pgxpool.Pool
}
