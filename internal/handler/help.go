package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := fmt.Sprintf(
		"🤖 *Що може цей бот:*\n\n"+
			"🎬 *Пошук фільмів/серіалів/аніме:*\n"+
			"• Знаходження за назвою, роком, країною\n"+
			"• Пошук за описом сюжету\n"+
			"• Інформація про рейтинг та жанр\n\n"+
			"💻 *Генерація коду:*\n"+
			"• Створення HTML/CSS/JS кодів\n"+
			"• Python скрипти та програми\n"+
			"• Зручне копіювання через кнопки\n\n"+
			"💬 *Звичайне спілкування:*\n"+
			"• Відповіді на будь-які запитання\n\n"+
			"💎 *Преміум система:*\n"+
			"• Необмежені запити\n\n"+
			"⚙️ *Команди:*\n"+
			"• /start - Запуск бота\n"+
			"• /profile - Перегляд профілю\n"+
			"• /premium - Інформація про преміум\n"+
			"• /promo КОД - Активувати промокод\n\n"+
			"🐞 *Знайшли баги чи є ідеї?*\n"+
			"Звертайтеся до техпідтримки: %s",
		h.cfg.SupportUsername,
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	})
}
