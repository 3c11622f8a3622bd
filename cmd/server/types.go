package main

import (
	"codeberg.org/aigram/server/aigram/accounts"
	"codeberg.org/aigram/server/aigram/bot"
	"codeberg.org/aigram/server/aigram/channels"
	"codeberg.org/aigram/server/aigram/promo"
	"codeberg.org/aigram/server/internal/config"
	"codeberg.org/aigram/server/internal/sweeper"
	"codeberg.org/aigram/server/internal/telegram"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// holds all dependencies and state for the bot server
type Server struct {
	db     *pgxpool.Pool
	redis  *redis.Client
	config *config.Config

	accountRepo *accounts.Repository
	channelRepo *channels.Repository
	promoRepo   *promo.Repository

	tg      *telegram.Client
	bot     *bot.Bot
	sweeper *sweeper.Sweeper
	router  *gin.Engine
}
