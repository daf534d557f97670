package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/olehsv/kinobot/internal/domain"
	"github.com/olehsv/kinobot/internal/middleware"
	tg "github.com/olehsv/kinobot/internal/telegram"
)

func (h *Handler) handlePromo(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	parts := strings.Fields(update.Message.Text)

	if len(parts) < 2 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Використання: /promo <код>",
		})
		return
	}

	h.store.Touch(userID, displayName(update.Message.From))

	redemption, err := h.store.Redeem(parts[1], userID)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, domain.ErrPromoNotFound):
			msg = "❌ Невірний промокод!"
		case errors.Is(err, domain.ErrPromoExhausted):
			msg = "❌ Цей промокод вже вичерпано!"
		default:
			msg = "❌ Помилка при активації промокоду."
			slog.Error("promo redemption", "request_id", middleware.RequestID(ctx), "error", err)
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        msg,
			ReplyMarkup: tg.MainMenu(h.cfg.IsAdmin(userID)),
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        fmt.Sprintf("🎉 Вітаю! Преміум активовано на %s! 🎊", redemption.Grant),
		ReplyMarkup: tg.MainMenu(h.cfg.IsAdmin(userID)),
	})
}
