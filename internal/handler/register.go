package handler

import (
	"github.com/go-telegram/bot"
	tg "github.com/olehsv/kinobot/internal/telegram"
)

// Register registers all command, menu-button and callback handlers on the
// bot instance. Free text is routed separately from main.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/profile", bot.MatchTypePrefix, h.handleProfile)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/premium", bot.MatchTypePrefix, h.handlePremium)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/promo", bot.MatchTypePrefix, h.handlePromo)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleHelp)

	// Admin commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/users", bot.MatchTypePrefix, h.handleUsers)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypePrefix, h.handleStats)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addpremium", bot.MatchTypePrefix, h.handleAddPremium)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/revokepremium", bot.MatchTypePrefix, h.handleRevokePremium)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/deluser", bot.MatchTypePrefix, h.handleDeleteUser)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addpromo", bot.MatchTypePrefix, h.handleAddPromo)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/delpromo", bot.MatchTypePrefix, h.handleDelPromo)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/promos", bot.MatchTypePrefix, h.handlePromos)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/disable", bot.MatchTypePrefix, h.handleDisable)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/enable", bot.MatchTypePrefix, h.handleEnable)

	// Menu buttons
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, tg.BtnProfile, bot.MatchTypeExact, h.handleProfile)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, tg.BtnPremium, bot.MatchTypeExact, h.handlePremium)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, tg.BtnHelp, bot.MatchTypeExact, h.handleHelp)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, tg.BtnAdminPanel, bot.MatchTypeExact, h.handleAdminPanel)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, tg.BtnMainMenu, bot.MatchTypeExact, h.handleMainMenu)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, tg.BtnEnterPromo, bot.MatchTypeExact, h.handleEnterPromo)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, tg.BtnBuyPremium, bot.MatchTypeExact, h.handleBuyPremium)

	// Callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "copy_code", bot.MatchTypeExact, h.handleCopyCode)
}
