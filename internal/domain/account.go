package domain

import "time"

// Premium describes a user's subscription state. Until == nil with
// Active == true means the subscription never expires.
type Premium struct {
	Active bool       `json:"active"`
	Until  *time.Time `json:"until"`
}

// Expired reports whether an active, time-bounded subscription has run out.
// An account keeps its stale Premium value until the store reaps it on the
// next interaction.
func (p Premium) Expired(now time.Time) bool {
	return p.Active && p.Until != nil && p.Until.Before(now)
}

type Account struct {
	TelegramID     int64    `json:"telegram_id"`
	DisplayName    string   `json:"display_name"`
	DailyUsed      int      `json:"daily_used"`
	ResetDate      string   `json:"reset_date"` // civil date, 2006-01-02, reference timezone
	Premium        Premium  `json:"premium"`
	History        []string `json:"history"`
	LastMovieQuery string   `json:"last_movie_query"`
	LastCode       string   `json:"last_code"`
	LimitNotified  bool     `json:"limit_notified"`
}

// Clone returns a deep copy safe to hand out while the store keeps mutating
// the original.
func (a *Account) Clone() *Account {
	cp := *a
	cp.History = make([]string, len(a.History))
	copy(cp.History, a.History)
	if a.Premium.Until != nil {
		until := *a.Premium.Until
		cp.Premium.Until = &until
	}
	return &cp
}
