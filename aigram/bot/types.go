package bot

import (
	"context"
	"time"

	"codeberg.org/aigram/server/aigram/accounts"
	"codeberg.org/aigram/server/internal/entitlement"
	"codeberg.org/aigram/server/internal/gate"
	"codeberg.org/aigram/server/internal/telegram"
	"golang.org/x/time/rate"
)

// outbound side of the chat transport
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageWithOptions(ctx context.Context, chatID int64, text string, opts *telegram.SendOptions) error
	SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
}

// atomic account operations the bot layer composes
type AccountStore interface {
	GetOrCreate(ctx context.Context, userID int64) (*accounts.Account, error)
	IncrementUsage(ctx context.Context, userID int64) error
	SetPremium(ctx context.Context, userID int64, duration time.Duration) error
	ClearPremium(ctx context.Context, userID int64) error
	ListIDs(ctx context.Context) ([]int64, error)
	Totals(ctx context.Context) (*accounts.Totals, error)
}

type ChannelStore interface {
	Add(ctx context.Context, username string) (bool, error)
	Remove(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]string, error)
}

type PromoStore interface {
	Create(ctx context.Context) (string, error)
	Redeem(ctx context.Context, code string) (bool, error)
}

// the membership-then-quota gate pipeline
type Gate interface {
	Check(ctx context.Context, userID int64) (gate.Decision, error)
	MembershipOK(ctx context.Context, userID int64) (bool, []string, error)
}

// the metered action invoker
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// dispatches inbound updates: command routing, the gated generation flow,
// the admin session state machine, and broadcast
type Bot struct {
	tg       Transport
	accounts AccountStore
	channels ChannelStore
	promo    PromoStore
	gate     Gate
	gen      Generator

	locks    *entitlement.UserLocks
	sessions *sessionStore

	adminID         int64
	dailyLimit      int
	premiumDuration time.Duration

	// broadcast pacing, kept below the Bot API bulk-send ceiling
	broadcastLimiter *rate.Limiter
}

// creates the bot service
func New(
	tg Transport,
	accts AccountStore,
	chans ChannelStore,
	promos PromoStore,
	gatePipeline Gate,
	gen Generator,
	adminID int64,
	dailyLimit int,
	premiumDuration time.Duration,
) *Bot {
	return &Bot{
		tg:               tg,
		accounts:         accts,
		channels:         chans,
		promo:            promos,
		gate:             gatePipeline,
		gen:              gen,
		locks:            entitlement.NewUserLocks(),
		sessions:         newSessionStore(),
		adminID:          adminID,
		dailyLimit:       dailyLimit,
		premiumDuration:  premiumDuration,
		broadcastLimiter: rate.NewLimiter(25, 5),
	}
}
