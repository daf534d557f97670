package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/olehsv/kinobot/internal/domain"
	tg "github.com/olehsv/kinobot/internal/telegram"
)

// isAdminUpdate reports whether the update comes from an admin. Non-admin
// callers get no reply at all: the admin surface should not leak its
// existence.
func (h *Handler) isAdminUpdate(update *models.Update) bool {
	return update.Message != nil && update.Message.From != nil &&
		h.cfg.IsAdmin(update.Message.From.ID)
}

func (h *Handler) handleAdminPanel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdminUpdate(update) {
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: "⚙️ *Панель адміністратора*\n\n" +
			"• /users — список користувачів\n" +
			"• /stats — статистика\n" +
			"• /addpremium ID ЧАС — надати преміум\n" +
			"• /revokepremium ID — забрати преміум\n" +
			"• /deluser ID — видалити користувача\n" +
			"• /addpromo КОД ЧАС [КІЛЬКІСТЬ] — додати промокод\n" +
			"• /delpromo КОД — видалити промокод\n" +
			"• /promos — список промокодів\n" +
			"• /disable, /enable — вимкнути/увімкнути бота\n\n" +
			"⏰ Формат часу: 1m, 2h, 3d, 1month, forever",
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func (h *Handler) handleUsers(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdminUpdate(update) {
		return
	}

	accounts := h.store.ListAccounts()
	var sb strings.Builder
	sb.WriteString("👥 *Список користувачів:*\n\n")
	for _, acc := range accounts {
		premium := "❌"
		if acc.Premium.Active {
			premium = "✅"
		}
		sb.WriteString(fmt.Sprintf("ID: %d | @%s | Преміум: %s | Використано: %d\n",
			acc.TelegramID, acc.DisplayName, premium, acc.DailyUsed))
	}
	sb.WriteString(fmt.Sprintf("\n📊 *Всього користувачів:* %d", len(accounts)))

	tg.SendLongMessage(ctx, b, update.Message.Chat.ID, sb.String(), nil)
}

func (h *Handler) handleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdminUpdate(update) {
		return
	}

	stats := h.store.Stats()
	text := fmt.Sprintf(
		"📊 *Статистика бота:*\n\n"+
			"👥 *Всього користувачів:* %d\n"+
			"💎 *Преміум користувачів:* %d\n"+
			"👤 *Звичайних користувачів:* %d\n"+
			"💬 *Загальна кількість запитів сьогодні:* %d",
		stats.TotalAccounts, stats.PremiumAccounts,
		stats.TotalAccounts-stats.PremiumAccounts, stats.DailyUsed,
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func (h *Handler) handleAddPremium(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdminUpdate(update) {
		return
	}
	chatID := update.Message.Chat.ID

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 3 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Використання: /addpremium ID ЧАС (1m, 2h, 3d, 1month, forever)",
		})
		return
	}

	targetID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Невірний формат! Введіть числовий ID",
		})
		return
	}

	term, err := domain.ParseTerm(strings.Join(parts[2:], " "))
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Невірний формат часу! Використовуйте: 1m, 2h, 3d, 1month, forever",
		})
		return
	}

	if _, err := h.store.GrantPremium(targetID, term); err != nil {
		h.replyAdminError(ctx, b, chatID, err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ Преміум додано для ID %d на %s!", targetID, term),
	})

	// Best-effort: the user may have blocked the bot.
	tg.Notify(ctx, b, targetID, fmt.Sprintf("🎉 Вам надано преміум на %s адміністратором!", term))
}

func (h *Handler) handleRevokePremium(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdminUpdate(update) {
		return
	}
	chatID := update.Message.Chat.ID

	targetID, ok := h.parseTargetID(ctx, b, chatID, update.Message.Text, "/revokepremium ID")
	if !ok {
		return
	}

	if err := h.store.RevokePremium(targetID); err != nil {
		h.replyAdminError(ctx, b, chatID, err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ Преміум для ID %d скасовано!", targetID),
	})
}

func (h *Handler) handleDeleteUser(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdminUpdate(update) {
		return
	}
	chatID := update.Message.Chat.ID

	targetID, ok := h.parseTargetID(ctx, b, chatID, update.Message.Text, "/deluser ID")
	if !ok {
		return
	}

	if err := h.store.DeleteAccount(targetID); err != nil {
		h.replyAdminError(ctx, b, chatID, err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ Користувача з ID %d видалено!", targetID),
	})
}

func (h *Handler) handleAddPromo(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdminUpdate(update) {
		return
	}
	chatID := update.Message.Chat.ID

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 3 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Використання: /addpromo КОД ЧАС [КІЛЬКІСТЬ]",
		})
		return
	}

	term, err := domain.ParseTerm(parts[2])
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Невірний формат часу! Використовуйте: 1m, 2h, 3d, 1month, forever",
		})
		return
	}

	uses := 1
	if len(parts) > 3 {
		uses, err = strconv.Atoi(parts[3])
		if err != nil || uses < 1 {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "❌ Невірна кількість використань!",
			})
			return
		}
	}

	code := strings.ToUpper(parts[1])
	h.store.AddPromo(code, term, uses)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ Промокод %s додано: %s, %d використань", code, term, uses),
	})
}

func (h *Handler) handleDelPromo(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdminUpdate(update) {
		return
	}
	chatID := update.Message.Chat.ID

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Використання: /delpromo КОД",
		})
		return
	}

	if err := h.store.RemovePromo(parts[1]); err != nil {
		h.replyAdminError(ctx, b, chatID, err)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ Промокод %s видалено!", strings.ToUpper(parts[1])),
	})
}

func (h *Handler) handlePromos(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdminUpdate(update) {
		return
	}

	promos := h.store.ListPromos()
	var sb strings.Builder
	sb.WriteString("🎫 *Поточні промокоди:*\n\n")
	for _, p := range promos {
		sb.WriteString(fmt.Sprintf("`%s`: %s | Залишилось: %d\n", p.Code, p.Grant, p.UsesRemaining))
	}
	sb.WriteString("\n📝 Додати: /addpromo КОД ЧАС [КІЛЬКІСТЬ]\n")
	sb.WriteString("⏰ Формат часу: 1m, 2h, 3d, 1month, forever")

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      sb.String(),
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func (h *Handler) handleDisable(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdminUpdate(update) {
		return
	}
	h.store.SetEnabled(false)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "🛑 Бот вимкнено для користувачів.",
	})
}

func (h *Handler) handleEnable(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.isAdminUpdate(update) {
		return
	}
	h.store.SetEnabled(true)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "✅ Бот знову доступний для користувачів.",
	})
}

func (h *Handler) parseTargetID(ctx context.Context, b *bot.Bot, chatID int64, text, usage string) (int64, bool) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Використання: " + usage,
		})
		return 0, false
	}
	targetID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Невірний формат! Введіть числовий ID",
		})
		return 0, false
	}
	return targetID, true
}

func (h *Handler) replyAdminError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	msg := "❌ Помилка виконання команди."
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		msg = "❌ Користувача з таким ID не знайдено!"
	case errors.Is(err, domain.ErrPromoNotFound):
		msg = "❌ Промокод не знайдено!"
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   msg,
	})
}
