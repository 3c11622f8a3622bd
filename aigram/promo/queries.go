package promo

const (
	queryCreate = `
		INSERT INTO promo_codes (code, active)
		VALUES ($1, TRUE)
	`

	// the WHERE clause makes concurrent redemptions race safely: exactly
	// one statement observes active = TRUE and wins the row
	queryRedeem = `
		UPDATE promo_codes
		SET active = FALSE
		WHERE code = $1 AND active
		RETURNING code
	`
)
