package bot

import (
	"context"
	"fmt"

	"codeberg.org/aigram/server/internal/logger"
)

// delivers the text to every known user, best-effort and unordered;
// per-recipient failures are counted and swallowed, never aborting the run
func (b *Bot) Broadcast(ctx context.Context, text string) (sent, failed int, err error) {
	ids, err := b.accounts.ListIDs(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, id := range ids {
		if err := b.broadcastLimiter.Wait(ctx); err != nil {
			// context cancelled mid-run; report what was done so far
			return sent, failed, err
		}

		if err := b.tg.SendMessage(ctx, id, text); err != nil {
			failed++
			logger.Debug("broadcast delivery failed", "user_id", id, "error", err)
			continue
		}

		sent++
	}

	return sent, failed, nil
}

// runs a broadcast for the admin and reports the outcome back
//
// a large batch under send pacing can far outlive the per-update deadline,
// so the run is detached from the inbound update's context
func (b *Bot) runBroadcast(ctx context.Context, adminChatID int64, text string) {
	ctx = context.WithoutCancel(ctx)

	sent, failed, err := b.Broadcast(ctx, text)
	if err != nil {
		b.adminError(ctx, adminChatID, err)
		return
	}

	b.reply(ctx, adminChatID, fmt.Sprintf("Reklama yuborildi: %d ta, xato: %d ta", sent, failed))
}
