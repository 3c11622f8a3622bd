package webhook

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"codeberg.org/aigram/server/internal/apperrors"
	"codeberg.org/aigram/server/internal/logger"
	"codeberg.org/aigram/server/internal/telegram"
	"github.com/gin-gonic/gin"
)

// header Telegram echoes the configured secret token in
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// how long one update may take end to end (provider call included)
const updateTimeout = 90 * time.Second

// processes one inbound update
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *telegram.Update)
}

// dedup and flood decisions for inbound updates
type Guard interface {
	AlreadySeen(ctx context.Context, updateID int64) (bool, error)
	AllowChat(ctx context.Context, chatID int64) (bool, error)
}

// creates the webhook endpoint handler
//
// the handler acknowledges fast and hands the update to its own goroutine;
// Telegram re-delivers unacknowledged updates, and the dedup guard makes
// those re-deliveries harmless
func Handler(secret string, guard Guard, bot UpdateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			apperrors.Unauthorized(c, "invalid webhook secret")
			return
		}

		var update telegram.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			apperrors.BadRequest(c, "malformed update payload", err)
			return
		}

		ctx := c.Request.Context()

		seen, err := guard.AlreadySeen(ctx, update.UpdateID)
		if err != nil {
			logger.ErrorErr(err, "update dedup failed, processing anyway", "update_id", update.UpdateID)
		} else if seen {
			c.Status(http.StatusOK)
			return
		}

		if chatID, ok := chatOf(&update); ok {
			allowed, err := guard.AllowChat(ctx, chatID)
			if err != nil {
				logger.ErrorErr(err, "flood check failed, processing anyway", "chat_id", chatID)
			} else if !allowed {
				logger.Warn("flooding chat throttled", "chat_id", chatID)
				c.Status(http.StatusOK)
				return
			}
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
			defer cancel()

			bot.HandleUpdate(ctx, &update)
		}()

		c.Status(http.StatusOK)
	}
}

func chatOf(update *telegram.Update) (int64, bool) {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID, true
	default:
		return 0, false
	}
}
