package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/aigram/server/internal/apperrors"
	"codeberg.org/aigram/server/internal/logger"
	"codeberg.org/aigram/server/internal/telegram"
)

// shows the admin reply keyboard; non-admins are refused
func (b *Bot) handleAdminMenu(ctx context.Context, chatID, userID int64) {
	if userID != b.adminID {
		b.reply(ctx, chatID, msgAdminOnly)
		return
	}

	keyboard := telegram.ReplyKeyboardMarkup{
		Keyboard: [][]telegram.KeyboardButton{
			{{Text: btnStats}, {Text: btnBroadcast}},
			{{Text: btnChannelAdd}, {Text: btnChannelRemove}, {Text: btnChannelList}},
			{{Text: btnPromoCreate}},
			{{Text: btnPremiumGrant}, {Text: btnPremiumRevoke}},
		},
		ResizeKeyboard: true,
	}

	opts := &telegram.SendOptions{ReplyMarkup: keyboard}
	if err := b.tg.SendMessageWithOptions(ctx, chatID, "Admin panel:", opts); err != nil {
		logger.ErrorErr(err, "failed to send admin menu", "chat_id", chatID)
	}
}

// dispatches an admin menu button press; returns false when the text is
// not a known button so the caller can treat it as a generation prompt
func (b *Bot) handleAdminButton(ctx context.Context, chatID int64, text string) bool {
	switch text {
	case btnStats:
		b.adminStats(ctx, chatID)
	case btnBroadcast:
		b.sessions.Set(chatID, stateAwaitingBroadcast)
		b.reply(ctx, chatID, "Reklama matnini yuboring:")
	case btnChannelAdd:
		b.sessions.Set(chatID, stateAwaitingChannelAdd)
		b.reply(ctx, chatID, "Kanal username-ni yuboring (masalan, @kanal)")
	case btnChannelRemove:
		b.sessions.Set(chatID, stateAwaitingChannelRemove)
		b.reply(ctx, chatID, "O‘chiriladigan kanalni yuboring (@kanal)")
	case btnChannelList:
		b.adminChannelList(ctx, chatID)
	case btnPromoCreate:
		b.adminCreatePromo(ctx, chatID)
	case btnPremiumGrant:
		b.sessions.Set(chatID, stateAwaitingPremiumGrant)
		b.reply(ctx, chatID, "Foydalanuvchi id-sini yuboring:")
	case btnPremiumRevoke:
		b.sessions.Set(chatID, stateAwaitingPremiumRevoke)
		b.reply(ctx, chatID, "Foydalanuvchi id-sini yuboring:")
	default:
		return false
	}

	return true
}

// consumes the next text input for a pending multi-step flow
func (b *Bot) handleStateInput(ctx context.Context, chatID, userID int64, text string, st state) {
	b.sessions.Clear(chatID)

	if st.adminOnly() && userID != b.adminID {
		b.reply(ctx, chatID, msgAdminOnly)
		return
	}

	switch st {
	case stateAwaitingPromoCode:
		b.redeemPromo(ctx, chatID, userID, text)
	case stateAwaitingBroadcast:
		b.runBroadcast(ctx, chatID, text)
	case stateAwaitingChannelAdd:
		b.adminAddChannel(ctx, chatID, text)
	case stateAwaitingChannelRemove:
		b.adminRemoveChannel(ctx, chatID, text)
	case stateAwaitingPremiumGrant:
		b.adminSetPremium(ctx, chatID, text, true)
	case stateAwaitingPremiumRevoke:
		b.adminSetPremium(ctx, chatID, text, false)
	}
}

// redeems a promo code for any user; exactly one concurrent attempt on the
// same code can win
func (b *Bot) redeemPromo(ctx context.Context, chatID, userID int64, code string) {
	won, err := b.promo.Redeem(ctx, strings.TrimSpace(code))
	if err != nil {
		logger.ErrorErr(err, "promo redemption failed", "user_id", userID)
		b.reply(ctx, chatID, msgTryLater)
		return
	}

	if !won {
		b.reply(ctx, chatID, msgPromoInvalid)
		return
	}

	if err := b.accounts.SetPremium(ctx, userID, b.premiumDuration); err != nil {
		logger.ErrorErr(err, "failed to grant premium after redemption", "user_id", userID)
		b.reply(ctx, chatID, msgTryLater)
		return
	}

	b.reply(ctx, chatID, msgPromoActivated)
}

func (b *Bot) adminStats(ctx context.Context, chatID int64) {
	totals, err := b.accounts.Totals(ctx)
	if err != nil {
		b.adminError(ctx, chatID, err)
		return
	}

	b.reply(ctx, chatID, fmt.Sprintf(
		"Foydalanuvchilar: %d\nPremium: %d\nBugun rasmlar: %d",
		totals.Users, totals.Premium, totals.ImagesToday,
	))
}

func (b *Bot) adminChannelList(ctx context.Context, chatID int64) {
	required, err := b.channels.List(ctx)
	if err != nil {
		b.adminError(ctx, chatID, err)
		return
	}

	if len(required) == 0 {
		b.reply(ctx, chatID, "Hech qanday kanal yo‘q.")
		return
	}

	b.reply(ctx, chatID, strings.Join(required, "\n"))
}

func (b *Bot) adminCreatePromo(ctx context.Context, chatID int64) {
	code, err := b.promo.Create(ctx)
	if err != nil {
		b.adminError(ctx, chatID, err)
		return
	}

	b.reply(ctx, chatID, "Promo kod: "+code)
}

func (b *Bot) adminAddChannel(ctx context.Context, chatID int64, input string) {
	username, err := normalizeChannel(input)
	if err != nil {
		b.adminError(ctx, chatID, err)
		return
	}

	added, err := b.channels.Add(ctx, username)
	if err != nil {
		b.adminError(ctx, chatID, err)
		return
	}

	if !added {
		b.reply(ctx, chatID, "Bu kanal allaqachon mavjud.")
		return
	}

	b.reply(ctx, chatID, "Kanal qo‘shildi: "+username)
}

func (b *Bot) adminRemoveChannel(ctx context.Context, chatID int64, input string) {
	username, err := normalizeChannel(input)
	if err != nil {
		b.adminError(ctx, chatID, err)
		return
	}

	removed, err := b.channels.Remove(ctx, username)
	if err != nil {
		b.adminError(ctx, chatID, err)
		return
	}

	if !removed {
		b.reply(ctx, chatID, "Bunday kanal topilmadi.")
		return
	}

	b.reply(ctx, chatID, username+" o‘chirildi.")
}

func (b *Bot) adminSetPremium(ctx context.Context, chatID int64, input string, grant bool) {
	targetID, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		b.adminError(ctx, chatID, &apperrors.ValidationError{
			Field:  "user id",
			Reason: "must be a numeric Telegram user id",
		})
		return
	}

	if grant {
		err = b.accounts.SetPremium(ctx, targetID, b.premiumDuration)
	} else {
		err = b.accounts.ClearPremium(ctx, targetID)
	}

	if err != nil {
		b.adminError(ctx, chatID, err)
		return
	}

	if grant {
		b.reply(ctx, chatID, fmt.Sprintf("Premium berildi: %d", targetID))
	} else {
		b.reply(ctx, chatID, fmt.Sprintf("Premium bekor qilindi: %d", targetID))
	}
}

// admin-directed failures carry the exact reason, unlike user replies
func (b *Bot) adminError(ctx context.Context, chatID int64, err error) {
	logger.ErrorErr(err, "admin action failed", "chat_id", chatID)
	b.reply(ctx, chatID, "Xato: "+err.Error())
}

func normalizeChannel(input string) (string, error) {
	username := strings.TrimSpace(input)

	if username == "" {
		return "", &apperrors.ValidationError{Field: "channel", Reason: "must not be empty"}
	}

	if !strings.HasPrefix(username, "@") {
		username = "@" + username
	}

	if len(username) < 2 || strings.ContainsAny(username, " \t\n") {
		return "", &apperrors.ValidationError{Field: "channel", Reason: "must be a username like @kanal"}
	}

	return username, nil
}
