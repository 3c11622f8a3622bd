package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"codeberg.org/aigram/server/internal/config"
	"codeberg.org/aigram/server/internal/logger"
)

func main() {
	logger.Info("starting aigram server")

	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// register the webhook with Telegram when a public URL is configured
	if cfg.PublicURL != "" {
		webhookURL := strings.TrimRight(cfg.PublicURL, "/") + "/telegram/webhook"

		registerCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := srv.tg.SetWebhook(registerCtx, webhookURL, cfg.WebhookSecret); err != nil {
			logger.ErrorErr(err, "failed to register webhook", "url", webhookURL)
		} else {
			logger.Info("webhook registered", "url", webhookURL)
		}
		cancel()
	}

	// start the premium expiry sweeper with a cancellable context
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	go srv.sweeper.Start(sweepCtx)

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sweepCancel()

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	srv.redis.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	srv.db.Close()

	logger.Info("server stopped")
}
