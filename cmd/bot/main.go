package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	kinobotroot "github.com/olehsv/kinobot"
	"github.com/olehsv/kinobot/internal/clock"
	"github.com/olehsv/kinobot/internal/config"
	"github.com/olehsv/kinobot/internal/handler"
	"github.com/olehsv/kinobot/internal/middleware"
	"github.com/olehsv/kinobot/internal/repository"
	"github.com/olehsv/kinobot/internal/service"
	"github.com/olehsv/kinobot/internal/store"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Select durable storage: Postgres when configured, JSON file otherwise
	var storage store.Storage
	if cfg.DatabaseURL != "" {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		migrationsFS, err := fs.Sub(kinobotroot.MigrationsFS, "migrations")
		if err != nil {
			slog.Error("failed to load embedded migrations", "error", err)
			os.Exit(1)
		}
		if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		storage = repository.NewPostgresStore(pool)
	} else {
		storage = repository.NewFileStore(cfg.DataFile)
	}

	// Initialize the entitlement store
	st := store.New(store.Options{
		Clock:   clock.New(),
		Storage: storage,
		IsAdmin: cfg.IsAdmin,
	})
	if err := st.Open(ctx); err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	// Initialize backend clients
	gemini := service.NewGeminiService(cfg.GeminiKey)
	search := service.NewSearchService(cfg.GoogleAPIKey, cfg.SearchEngineID)

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
		),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Initialize handler
	h := handler.New(handler.Deps{
		Bot:    b,
		Cfg:    cfg,
		Store:  st,
		Gemini: gemini,
		Search: search,
	})

	// Register all handlers
	h.Register()

	// Free text goes through the entitlement gate and AI pipeline
	b.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.Chat.Type != "private" {
			return
		}
		if len(update.Message.Text) > 0 && update.Message.Text[0] == '/' {
			return
		}
		h.HandleText(ctx, b, update)
	})

	// Start autosave goroutine
	go st.Autosave(ctx, config.AutosaveInterval)

	// Start bot
	slog.Info("starting bot")
	b.Start(ctx)

	// Graceful shutdown: flush pending state
	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.Close(flushCtx); err != nil {
		slog.Error("failed to flush store on shutdown", "error", err)
	}
	slog.Info("bot stopped gracefully")
}
