package accounts

import (
	"context"

	"codeberg.org/aigram/server/internal/apperrors"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id        BIGINT PRIMARY KEY,
	used_today     INTEGER NOT NULL DEFAULT 0,
	last_reset     DATE NOT NULL,
	is_premium     BOOLEAN NOT NULL DEFAULT FALSE,
	premium_expiry TIMESTAMPTZ,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS stats (
	day              DATE PRIMARY KEY,
	images_generated BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS channels (
	id       BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS promo_codes (
	code       TEXT PRIMARY KEY,
	active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_premium_expiry
	ON users (premium_expiry) WHERE is_premium;
`

// creates all tables on startup if they do not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return apperrors.Persistence("ensure schema", err)
}
