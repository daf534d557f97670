package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleCopyCode acknowledges the copy button under code replies. The button
// only confirms when a code reply is still retained for the user.
func (h *Handler) handleCopyCode(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	text := "❌ Немає коду для копіювання"
	if h.store.LastCode(update.CallbackQuery.From.ID) != "" {
		text = "📋 Код вище — виділіть та скопіюйте!"
	}

	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
		Text:            text,
	})
}
