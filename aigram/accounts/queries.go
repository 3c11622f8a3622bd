package accounts

const (
	queryGetOrCreate = `
		INSERT INTO users (user_id, used_today, last_reset)
		VALUES ($1, 0, $2::date)
		ON CONFLICT (user_id)
		DO UPDATE SET
			used_today = CASE WHEN users.last_reset <> $2::date THEN 0 ELSE users.used_today END,
			last_reset = $2::date,
			updated_at = NOW()
		RETURNING user_id, used_today, last_reset, is_premium, premium_expiry, created_at, updated_at
	`

	queryIncrementUsage = `
		UPDATE users
		SET used_today = used_today + 1, updated_at = NOW()
		WHERE user_id = $1
	`

	queryIncrementDailyStats = `
		INSERT INTO stats (day, images_generated)
		VALUES ($1::date, 1)
		ON CONFLICT (day)
		DO UPDATE SET images_generated = stats.images_generated + 1
	`

	querySetPremium = `
		INSERT INTO users (user_id, used_today, last_reset, is_premium, premium_expiry)
		VALUES ($1, 0, $3::date, TRUE, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET
			is_premium = TRUE,
			premium_expiry = EXCLUDED.premium_expiry,
			updated_at = NOW()
	`

	queryClearPremium = `
		UPDATE users
		SET is_premium = FALSE, premium_expiry = NULL, updated_at = NOW()
		WHERE user_id = $1
	`

	queryListExpiredPremium = `
		SELECT user_id
		FROM users
		WHERE is_premium AND (premium_expiry IS NULL OR premium_expiry <= $1)
	`

	queryListIDs = `
		SELECT user_id FROM users ORDER BY user_id
	`

	queryTotals = `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE is_premium),
			COALESCE((SELECT images_generated FROM stats WHERE day = $1::date), 0)
	`
)
