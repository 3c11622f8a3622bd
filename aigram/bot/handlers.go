package bot

import (
	"context"
	"strings"

	"codeberg.org/aigram/server/internal/gate"
	"codeberg.org/aigram/server/internal/logger"
	"codeberg.org/aigram/server/internal/telegram"
)

// entry point for one webhook update
func (b *Bot) HandleUpdate(ctx context.Context, update *telegram.Update) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *telegram.Message) {
	userID := m.From.ID
	chatID := m.Chat.ID

	text := strings.TrimSpace(m.Text)
	if text == "" || m.From.IsBot {
		return
	}

	switch text {
	case "/start":
		b.handleStart(ctx, chatID, userID)
		return
	case "/premium":
		b.sessions.Set(chatID, stateAwaitingPromoCode)
		b.reply(ctx, chatID, msgEnterPromo)
		return
	case "/admin":
		b.handleAdminMenu(ctx, chatID, userID)
		return
	}

	// a pending multi-step flow consumes the next text input
	if st := b.sessions.Get(chatID); st != stateIdle {
		b.handleStateInput(ctx, chatID, userID, text, st)
		return
	}

	if userID == b.adminID && b.handleAdminButton(ctx, chatID, text) {
		return
	}

	b.handleGenerate(ctx, chatID, userID, text)
}

// creates the account and greets, or prompts for the required channels
func (b *Bot) handleStart(ctx context.Context, chatID, userID int64) {
	if _, err := b.accounts.GetOrCreate(ctx, userID); err != nil {
		logger.ErrorErr(err, "failed to create account on /start", "user_id", userID)
		b.reply(ctx, chatID, msgTryLater)
		return
	}

	required, err := b.channels.List(ctx)
	if err != nil {
		logger.ErrorErr(err, "failed to list channels on /start", "user_id", userID)
		b.reply(ctx, chatID, msgTryLater)
		return
	}

	if len(required) > 0 {
		b.sendJoinPrompt(ctx, chatID, required)
		return
	}

	b.reply(ctx, chatID, welcomeMessage(b.dailyLimit))
}

// the gated generation flow: membership, then quota, then the provider,
// then commit; usage is charged only after the photo is delivered
func (b *Bot) handleGenerate(ctx context.Context, chatID, userID int64, prompt string) {
	// serialize same-user requests so one day's quota cannot be double-spent
	b.locks.Lock(userID)
	defer b.locks.Unlock(userID)

	decision, err := b.gate.Check(ctx, userID)
	if err != nil {
		logger.ErrorErr(err, "gate check failed", "user_id", userID)
		b.reply(ctx, chatID, msgTryLater)
		return
	}

	switch decision.Reason {
	case gate.ReasonNotSubscribed:
		b.sendJoinPrompt(ctx, chatID, decision.RequiredChannels)
		return
	case gate.ReasonQuotaExceeded:
		b.reply(ctx, chatID, quotaExceededMessage(b.dailyLimit))
		return
	}

	if err := b.tg.SendChatAction(ctx, chatID, "upload_photo"); err != nil {
		logger.Debug("failed to send chat action", "user_id", userID, "error", err)
	}

	img, err := b.gen.Generate(ctx, prompt)
	if err != nil {
		logger.ErrorErr(err, "image generation failed", "user_id", userID)
		b.reply(ctx, chatID, msgGenerationFailed)
		return
	}

	if err := b.tg.SendPhoto(ctx, chatID, img, captionFor(prompt)); err != nil {
		// not delivered, so nothing is charged
		logger.ErrorErr(err, "failed to deliver photo", "user_id", userID)
		b.reply(ctx, chatID, msgGenerationFailed)
		return
	}

	if err := b.accounts.IncrementUsage(ctx, userID); err != nil {
		logger.ErrorErr(err, "failed to commit usage after delivery", "user_id", userID)
	}
}

// the "verify subscription" button under the join prompt
func (b *Bot) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	if cb.Data != "check_sub" {
		return
	}

	userID := cb.From.ID

	ok, _, err := b.gate.MembershipOK(ctx, userID)
	if err != nil {
		logger.ErrorErr(err, "membership verification failed", "user_id", userID)
		b.answerCallback(ctx, cb.ID, msgTryLater)
		return
	}

	if !ok {
		b.answerCallback(ctx, cb.ID, msgNotSubscribedYet)
		return
	}

	b.answerCallback(ctx, cb.ID, "")
	b.reply(ctx, userID, msgSubscribed)
}

// builds the join prompt with one URL button per channel and a verify button
func (b *Bot) sendJoinPrompt(ctx context.Context, chatID int64, required []string) {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(required)+1)

	for _, channel := range required {
		rows = append(rows, []telegram.InlineKeyboardButton{{
			Text: channel,
			URL:  "https://t.me/" + strings.TrimPrefix(channel, "@"),
		}})
	}

	rows = append(rows, []telegram.InlineKeyboardButton{{
		Text:         msgVerifyButton,
		CallbackData: "check_sub",
	}})

	opts := &telegram.SendOptions{
		ReplyMarkup: telegram.InlineKeyboardMarkup{InlineKeyboard: rows},
	}

	if err := b.tg.SendMessageWithOptions(ctx, chatID, joinPromptText(required), opts); err != nil {
		logger.ErrorErr(err, "failed to send join prompt", "chat_id", chatID)
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.tg.SendMessage(ctx, chatID, text); err != nil {
		logger.ErrorErr(err, "failed to send message", "chat_id", chatID)
	}
}

func (b *Bot) answerCallback(ctx context.Context, callbackID, text string) {
	if err := b.tg.AnswerCallbackQuery(ctx, callbackID, text); err != nil {
		logger.ErrorErr(err, "failed to answer callback", "callback_id", callbackID)
	}
}
