package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/olehsv/kinobot/internal/service"
	tg "github.com/olehsv/kinobot/internal/telegram"
)

func (h *Handler) handlePremium(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	acc := h.store.Touch(userID, displayName(update.Message.From))
	chatID := update.Message.Chat.ID

	if acc.Premium.Active {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        "💎 У тебе вже активовано преміум! Статус: " + premiumStatus(acc.Premium),
			ReplyMarkup: tg.MainMenu(h.cfg.IsAdmin(userID)),
		})
		return
	}

	var sb strings.Builder
	sb.WriteString("💎 *Преміум підписка:*\n\n")
	sb.WriteString("✨ *Переваги преміуму:*\n")
	sb.WriteString("• ♾️ Необмежена кількість запитів\n")
	sb.WriteString("• ⚡ Пріоритетна обробка\n\n")
	sb.WriteString("💰 *Тарифи:*\n")
	for _, opt := range service.PremiumOptions() {
		sb.WriteString(fmt.Sprintf("• %s — %s грн\n", opt.Label, opt.PriceUAH.StringFixed(0)))
	}
	sb.WriteString("\n🎫 *Маєш промокод?* Обери 'Ввести промокод'\n")
	sb.WriteString("💳 *Бажаєш придбати?* Обери 'Купити преміум'\n\n")
	sb.WriteString("🐞 *Техпідтримка:* " + h.cfg.SupportUsername)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        sb.String(),
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: tg.PremiumMenu(),
	})
}

func (h *Handler) handleBuyPremium(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	text := fmt.Sprintf(
		"💳 *Для придбання преміуму:*\n\n"+
			"📞 *Зв'яжіться з адміністратором:* %s\n"+
			"💬 *Напишіть ваш ID:* %d\n\n"+
			"🎫 *Або спробуйте ввести промокод!*",
		h.cfg.SupportUsername, update.Message.From.ID,
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: tg.PremiumMenu(),
	})
}

func (h *Handler) handleEnterPromo(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "🔑 Надішліть промокод командою:\n/promo ВАШКОД",
	})
}
