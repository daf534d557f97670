package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/olehsv/kinobot/internal/config"
	"github.com/olehsv/kinobot/internal/domain"
)

func (h *Handler) handleProfile(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	acc := h.store.Touch(userID, displayName(update.Message.From))

	role := "👤 Користувач"
	if h.cfg.IsAdmin(userID) {
		role = "👑 Адміністратор"
	} else if acc.Premium.Active {
		role = "💎 Преміум"
	}

	limitInfo := fmt.Sprintf("%d / %d", config.FreeLimit-acc.DailyUsed, config.FreeLimit)
	if acc.Premium.Active || h.cfg.IsAdmin(userID) {
		limitInfo = "♾️ Необмежено"
	}

	text := fmt.Sprintf(
		"📊 *Профіль:*\n\n"+
			"🆔 *ID:* %d\n"+
			"👤 *Ім'я:* @%s\n"+
			"🎭 *Роль:* %s\n"+
			"💎 *Преміум:* %s\n"+
			"💬 *Використано сьогодні:* %d\n"+
			"🔋 *Ліміт:* %s\n"+
			"⏰ *Оновлення:* опівночі (за київським часом)\n\n"+
			"🐞 *Техпідтримка:* %s",
		userID, acc.DisplayName, role, premiumStatus(acc.Premium),
		acc.DailyUsed, limitInfo, h.cfg.SupportUsername,
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func premiumStatus(p domain.Premium) string {
	switch {
	case !p.Active:
		return "❌ Немає"
	case p.Until == nil:
		return "♾️ Назавжди"
	default:
		return "✅ До " + p.Until.Format("02.01.2006 15:04")
	}
}
