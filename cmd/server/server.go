package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/aigram/server/aigram/accounts"
	"codeberg.org/aigram/server/aigram/bot"
	"codeberg.org/aigram/server/aigram/channels"
	"codeberg.org/aigram/server/aigram/promo"
	"codeberg.org/aigram/server/internal/config"
	"codeberg.org/aigram/server/internal/entitlement"
	"codeberg.org/aigram/server/internal/floodguard"
	"codeberg.org/aigram/server/internal/gate"
	"codeberg.org/aigram/server/internal/imagegen"
	"codeberg.org/aigram/server/internal/logger"
	"codeberg.org/aigram/server/internal/sweeper"
	"codeberg.org/aigram/server/internal/telegram"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	rdb := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to postgres and redis")

	accountRepo := accounts.NewRepository(db)
	channelRepo := channels.NewRepository(db)
	promoRepo := promo.NewRepository(db)

	if err := accountRepo.EnsureSchema(ctx); err != nil {
		rdb.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	tg := telegram.NewClient(cfg.TelegramToken)

	invoker := imagegen.NewInvokerFromConfig(cfg.PrimaryImageURL, cfg.PrimaryImageKey)
	engine := entitlement.NewEngine(accountRepo, cfg.AdminID, cfg.FreeDailyLimit)
	pipeline := gate.NewPipeline(channelRepo, tg, accountRepo, engine)

	botSvc := bot.New(
		tg,
		accountRepo,
		channelRepo,
		promoRepo,
		pipeline,
		invoker,
		cfg.AdminID,
		cfg.FreeDailyLimit,
		cfg.PremiumDuration,
	)

	guard := floodguard.NewGuard(rdb, floodguard.DefaultConfig())

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		db:          db,
		redis:       rdb,
		config:      cfg,
		accountRepo: accountRepo,
		channelRepo: channelRepo,
		promoRepo:   promoRepo,
		tg:          tg,
		bot:         botSvc,
		sweeper:     sweeper.NewSweeper(accountRepo, sweeper.DefaultInterval),
		router:      router,
	}

	if err := RegisterRoutes(router, server, guard); err != nil {
		rdb.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		db.Close()
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	return server, nil
}
