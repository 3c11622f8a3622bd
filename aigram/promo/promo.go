package promo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"codeberg.org/aigram/server/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates a new promo code repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// generates and stores a new single-use code, returning it
func (r *Repository) Create(ctx context.Context) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate promo code: %w", err)
	}

	if _, err := r.db.Exec(ctx, queryCreate, code); err != nil {
		return "", apperrors.Persistence("create promo code", err)
	}

	return code, nil
}

// atomically consumes the code; returns false when it is unknown or was
// already redeemed, including by a concurrent attempt
func (r *Repository) Redeem(ctx context.Context, code string) (bool, error) {
	var redeemed string

	err := r.db.QueryRow(ctx, queryRedeem, code).Scan(&redeemed)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, apperrors.Persistence("redeem promo code", err)
	}

	return true, nil
}

func generateCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
