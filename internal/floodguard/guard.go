package floodguard

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	keyUpdateSeen = "aigram:update:%d"
	keyChatFlood  = "aigram:flood:%d"
)

// Redis-backed webhook protection: update deduplication (Telegram re-sends
// an update until it is acknowledged) and per-chat flood limiting
type Guard struct {
	client *redis.Client
	config Config
}

// creates a flood guard on an existing Redis client
func NewGuard(client *redis.Client, config Config) *Guard {
	return &Guard{client: client, config: config}
}

// records the update id and reports whether it was already delivered
func (g *Guard) AlreadySeen(ctx context.Context, updateID int64) (bool, error) {
	key := fmt.Sprintf(keyUpdateSeen, updateID)

	fresh, err := g.client.SetNX(ctx, key, 1, g.config.DedupTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record update id: %w", err)
	}

	return !fresh, nil
}

// counts one update against the chat's window and reports whether the chat
// is within its flood allowance
func (g *Guard) AllowChat(ctx context.Context, chatID int64) (bool, error) {
	if !g.config.Enabled {
		return true, nil
	}

	key := fmt.Sprintf(keyChatFlood, chatID)

	count, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count chat update: %w", err)
	}

	// the window starts at the first hit; later hits (including blocked
	// ones) must not extend it, or a steady sender would stay throttled
	// long after slowing down
	if count == 1 {
		if err := g.client.Expire(ctx, key, g.config.Window).Err(); err != nil {
			return false, fmt.Errorf("failed to start flood window: %w", err)
		}
	}

	return count <= int64(g.config.MaxPerWindow), nil
}
