package channels

import (
	"context"

	"codeberg.org/aigram/server/internal/apperrors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates a new channel repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// adds a required channel; returns false when it was already present
func (r *Repository) Add(ctx context.Context, username string) (bool, error) {
	tag, err := r.db.Exec(ctx, queryAdd, username)
	if err != nil {
		return false, apperrors.Persistence("add channel", err)
	}

	return tag.RowsAffected() > 0, nil
}

// removes a required channel; returns false when it was not configured
func (r *Repository) Remove(ctx context.Context, username string) (bool, error) {
	tag, err := r.db.Exec(ctx, queryRemove, username)
	if err != nil {
		return false, apperrors.Persistence("remove channel", err)
	}

	return tag.RowsAffected() > 0, nil
}

// returns every required channel username
func (r *Repository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, queryList)
	if err != nil {
		return nil, apperrors.Persistence("list channels", err)
	}

	defer rows.Close()

	var usernames []string

	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, apperrors.Persistence("scan channel", err)
		}
		usernames = append(usernames, username)
	}

	return usernames, apperrors.Persistence("list channels", rows.Err())
}
