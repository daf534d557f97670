package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/olehsv/kinobot/internal/config"
	"github.com/olehsv/kinobot/internal/domain"
	"github.com/olehsv/kinobot/internal/intent"
	"github.com/olehsv/kinobot/internal/middleware"
	"github.com/olehsv/kinobot/internal/service"
	tg "github.com/olehsv/kinobot/internal/telegram"
)

// HandleText processes free-form text: the quota gate, intent
// classification, context assembly, the backend call and usage recording.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	if strings.HasPrefix(msg.Text, "/") || msg.Text == "" {
		return
	}

	userID := msg.From.ID
	chatID := msg.Chat.ID

	// One request at a time per user. The latch also serializes account
	// mutation when the transport dispatches handlers concurrently.
	if err := h.store.Begin(userID); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "⏳ Дочекайтесь відповіді на попередній запит.",
		})
		return
	}
	defer h.store.End(userID)

	decision, err := h.store.Gate(userID, displayName(msg.From))
	if err != nil {
		h.replyGateError(ctx, b, chatID, decision.FirstNotice, err)
		return
	}

	res := h.store.AssembleContext(userID, msg.Text)

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	reply, markup, err := h.respond(ctx, userID, res.Intent, res.ContextLines, res.FullQuery)
	if err != nil {
		// The request never completed: record the failure, charge nothing.
		h.store.CommitFailure(userID, msg.Text)
		slog.Error("backend call failed",
			"request_id", middleware.RequestID(ctx),
			"user_id", userID,
			"intent", res.Intent.String(),
			"error", err,
		)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Сервіс тимчасово недоступний. Спробуйте ще раз пізніше.",
		})
		return
	}

	h.store.CommitUsage(userID, msg.Text, reply)

	if err := tg.SendLongMessage(ctx, b, chatID, reply, markup); err != nil {
		slog.Error("send reply", "request_id", middleware.RequestID(ctx), "error", err)
	}
}

// respond runs the backend calls for the classified intent and builds the
// final reply text.
func (h *Handler) respond(ctx context.Context, userID int64, in intent.Intent, contextLines []string, fullQuery string) (string, models.ReplyMarkup, error) {
	genCtx, cancel := context.WithTimeout(ctx, config.GenerateTimeout)
	defer cancel()

	switch in {
	case intent.Movie:
		var searchSection string
		if h.search.Enabled() {
			results, err := h.search.Search(genCtx, service.MovieSearchQuery(fullQuery), config.SearchResultLimit)
			if err != nil {
				return "", nil, fmt.Errorf("search: %w", err)
			}
			searchSection = "\n\n🔍 Результати пошуку:\n" + service.FormatResults(results)
		}

		reply, err := h.gemini.Generate(genCtx, service.BuildPrompt(in, contextLines, fullQuery))
		if err != nil {
			return "", nil, fmt.Errorf("generate: %w", err)
		}
		return reply + searchSection, nil, nil

	case intent.Code:
		reply, err := h.gemini.Generate(genCtx, service.BuildPrompt(in, contextLines, fullQuery))
		if err != nil {
			return "", nil, fmt.Errorf("generate: %w", err)
		}
		h.store.SetLastCode(userID, reply)
		markup := tg.InlineKeyboard(tg.ButtonRow(tg.InlineButton("📋 Скопіювати код", "copy_code")))
		return reply, markup, nil

	default:
		reply, err := h.gemini.Generate(genCtx, service.BuildPrompt(in, contextLines, fullQuery))
		if err != nil {
			return "", nil, fmt.Errorf("generate: %w", err)
		}
		return reply, nil, nil
	}
}

func (h *Handler) replyGateError(ctx context.Context, b *bot.Bot, chatID int64, firstNotice bool, err error) {
	switch {
	case errors.Is(err, domain.ErrBotDisabled):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "🛠 Бот тимчасово на технічному обслуговуванні. Спробуйте пізніше.",
		})
	case errors.Is(err, domain.ErrQuotaExceeded):
		text := "⚠️ Ліміт вичерпано."
		if firstNotice {
			text = fmt.Sprintf(
				"⚠️ Денний ліміт із %d запитів вичерпано! Спробуй завтра, введи промокод або звернись до адміністратора.\n\n🐞 Техпідтримка: %s",
				config.FreeLimit, h.cfg.SupportUsername,
			)
		}
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	default:
		slog.Error("gate failed", "request_id", middleware.RequestID(ctx), "error", err)
	}
}
