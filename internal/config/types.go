package config

import "time"

// holds all runtime configuration for the bot server
type Config struct {
	// HTTP listen port
	Port string

	// Telegram Bot API token
	TelegramToken string

	// Telegram user id with unrestricted access and admin commands
	AdminID int64

	// shared secret echoed back by Telegram on webhook deliveries
	WebhookSecret string

	// public base URL; when set, the webhook is registered at startup
	PublicURL string

	// Postgres connection string
	DatabaseURL string

	// Redis connection URL for flood guarding and update dedup
	RedisURL string

	// free image generations per user per UTC day
	FreeDailyLimit int

	// how long a premium grant lasts
	PremiumDuration time.Duration

	// optional primary image provider endpoint; the prompt replaces {prompt}
	// or is appended as a query parameter
	PrimaryImageURL string

	// optional bearer token for the primary image provider
	PrimaryImageKey string

	Environment string
}
