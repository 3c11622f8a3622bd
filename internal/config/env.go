package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultFreeDailyLimit = 5
	defaultPremiumDays    = 30
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	token := os.Getenv("TELEGRAM_TOKEN")
	adminIDStr := os.Getenv("ADMIN_ID")
	webhookSecret := os.Getenv("WEBHOOK_SECRET")
	databaseURL := os.Getenv("DATABASE_URL")
	redisURL := os.Getenv("REDIS_URL")
	environment := os.Getenv("ENVIRONMENT")

	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN environment variable is required")
	}

	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_ID environment variable is required")
	}

	adminID, err := strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_ID must be a numeric Telegram user id: %w", err)
	}

	if webhookSecret == "" {
		return nil, fmt.Errorf("WEBHOOK_SECRET environment variable is required")
	}

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}

	if environment == "" {
		environment = "development"
	}

	freeLimit := defaultFreeDailyLimit
	if limitStr := os.Getenv("FREE_DAILY_LIMIT"); limitStr != "" {
		val, err := strconv.Atoi(limitStr)
		if err != nil || val < 0 {
			return nil, fmt.Errorf("FREE_DAILY_LIMIT must be a non-negative integer")
		}
		freeLimit = val
	}

	premiumDays := defaultPremiumDays
	if daysStr := os.Getenv("PREMIUM_DAYS"); daysStr != "" {
		val, err := strconv.Atoi(daysStr)
		if err != nil || val <= 0 {
			return nil, fmt.Errorf("PREMIUM_DAYS must be a positive integer")
		}
		premiumDays = val
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:            port,
		TelegramToken:   token,
		AdminID:         adminID,
		WebhookSecret:   webhookSecret,
		PublicURL:       os.Getenv("PUBLIC_URL"),
		DatabaseURL:     databaseURL,
		RedisURL:        redisURL,
		FreeDailyLimit:  freeLimit,
		PremiumDuration: time.Duration(premiumDays) * 24 * time.Hour,
		PrimaryImageURL: os.Getenv("PRIMARY_IMAGE_URL"),
		PrimaryImageKey: os.Getenv("PRIMARY_IMAGE_KEY"),
		Environment:     environment,
	}, nil
}
