package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken  string `env:"BOT_TOKEN,required"`
	GeminiKey string `env:"GEMINI_API_KEY,required"`

	// Google Custom Search (movie-intent augmentation)
	GoogleAPIKey   string `env:"GOOGLE_API_KEY"`
	SearchEngineID string `env:"SEARCH_ENGINE_ID"`

	// Persistence: Postgres when set, JSON file otherwise
	DatabaseURL string `env:"DATABASE_URL"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`
	DataFile    string `env:"DATA_FILE" envDefault:"bot_data.json"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Support contact shown in user-facing messages
	SupportUsername string `env:"SUPPORT_USERNAME" envDefault:"@uagptpredlozhkabot"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
