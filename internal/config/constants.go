package config

import "time"

const (
	// Daily request allowance for accounts without premium
	FreeLimit = 30

	// Conversation history retained per account
	HistoryCap = 10

	// Length of the reply excerpt appended to history
	HistoryReplyExcerpt = 100

	// Backend timeouts
	GenerateTimeout = 30 * time.Second
	SearchTimeout   = 10 * time.Second

	// Search results kept per movie query
	SearchResultLimit = 5

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Persistence autosave interval
	AutosaveInterval = 60 * time.Second
)
