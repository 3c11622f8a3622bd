package main

import (
	"codeberg.org/aigram/server/api/rest/health"
	"codeberg.org/aigram/server/api/webhook"
	"codeberg.org/aigram/server/internal/floodguard"
	"github.com/gin-gonic/gin"
)

// sets up all routes
func RegisterRoutes(router *gin.Engine, server *Server, guard *floodguard.Guard) error {
	router.GET("/health", health.Handler)
	router.GET("/ready", health.ReadyHandler(server.db, server.redis))

	return webhook.RegisterRoutes(router, server.config.WebhookSecret, server.redis, guard, server.bot)
}
