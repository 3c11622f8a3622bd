package channels

const (
	queryAdd = `
		INSERT INTO channels (username)
		VALUES ($1)
		ON CONFLICT (username) DO NOTHING
	`

	queryRemove = `
		DELETE FROM channels WHERE username = $1
	`

	queryList = `
		SELECT username FROM channels ORDER BY username
	`
)
