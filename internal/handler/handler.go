package handler

import (
	"github.com/go-telegram/bot"
	"github.com/olehsv/kinobot/internal/config"
	"github.com/olehsv/kinobot/internal/service"
	"github.com/olehsv/kinobot/internal/store"
)

// Handler holds all dependencies needed by command and text handlers.
type Handler struct {
	bot    *bot.Bot
	cfg    *config.Config
	store  *store.Store
	gemini *service.GeminiService
	search *service.SearchService
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot    *bot.Bot
	Cfg    *config.Config
	Store  *store.Store
	Gemini *service.GeminiService
	Search *service.SearchService
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:    deps.Bot,
		cfg:    deps.Cfg,
		store:  deps.Store,
		gemini: deps.Gemini,
		search: deps.Search,
	}
}
