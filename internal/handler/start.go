package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/olehsv/kinobot/internal/telegram"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	h.store.Touch(userID, displayName(update.Message.From))

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: "👋 Вітаю! Я твій AI-помічник! Можу:\n" +
			"• 🎬 Шукати фільми/серіали/аніме\n" +
			"• 💻 Писати код\n" +
			"• 💬 Свободно спілкуватись\n\n" +
			"Просто напиши що потрібно! 😊",
		ReplyMarkup: tg.MainMenu(h.cfg.IsAdmin(userID)),
	})
}

func (h *Handler) handleMainMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "🔙 Повертаємось до головного меню",
		ReplyMarkup: tg.MainMenu(h.cfg.IsAdmin(update.Message.From.ID)),
	})
}

func displayName(from *models.User) string {
	if from.Username != "" {
		return from.Username
	}
	return from.FirstName
}
