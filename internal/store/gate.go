package store

import (
	"strings"

	"github.com/olehsv/kinobot/internal/config"
	"github.com/olehsv/kinobot/internal/domain"
)

// Decision is the outcome of gating an inbound interaction.
type Decision struct {
	// Admin and Premium mark unbilled interactions.
	Admin   bool
	Premium bool
	// Billable is set when the request counts against the daily allowance.
	Billable bool
	// Remaining free requests before this one is consumed.
	Remaining int
	// FirstNotice is set on the first quota rejection of the day so the
	// handler can send the verbose message once and stay terse afterwards.
	FirstNotice bool
}

// Begin claims the per-user in-flight slot. While held, further messages
// from the same user are rejected with ErrActiveRequest, which serializes
// all account mutation for that user even when the transport dispatches
// handlers concurrently. End releases the slot.
func (s *Store) Begin(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[userID]; busy {
		return domain.ErrActiveRequest
	}
	s.inflight[userID] = struct{}{}
	return nil
}

func (s *Store) End(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, userID)
}

// Gate decides whether an inbound interaction may proceed. It creates the
// account on first contact, applies the lazy daily reset and premium expiry
// reap, then evaluates entitlement. Usage is never charged here; billable
// requests are charged by CommitUsage only after the backend call succeeds.
func (s *Store) Gate(userID int64, displayName string) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A rejected interaction while the bot is disabled leaves no trace:
	// no account creation, no rollover, no dirty flag.
	admin := s.isAdmin(userID)
	if !s.settings.Enabled && !admin {
		return Decision{}, domain.ErrBotDisabled
	}

	acc := s.touchLocked(userID, displayName)
	s.rolloverLocked(acc)

	if admin {
		return Decision{Admin: true}, nil
	}
	if acc.Premium.Active {
		return Decision{Premium: true}, nil
	}
	if acc.DailyUsed >= config.FreeLimit {
		first := !acc.LimitNotified
		if first {
			acc.LimitNotified = true
			s.dirty = true
		}
		return Decision{FirstNotice: first}, domain.ErrQuotaExceeded
	}
	return Decision{Billable: true, Remaining: config.FreeLimit - acc.DailyUsed}, nil
}

// CommitUsage records a completed exchange: charges the daily allowance when
// the account is still billable and appends both sides to history. Called
// only after the backend call succeeded; a request that never produced a
// reply must not consume quota.
func (s *Store) CommitUsage(userID int64, userMsg, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[userID]
	if !ok {
		return
	}
	if !acc.Premium.Active && !s.isAdmin(userID) {
		acc.DailyUsed++
	}
	s.appendHistoryLocked(acc, userMsg, reply)
}

// CommitFailure records a failed exchange in history without charging quota.
func (s *Store) CommitFailure(userID int64, userMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[userID]
	if !ok {
		return
	}
	s.appendHistoryLocked(acc, userMsg, "❌ запит не вдався")
}

func (s *Store) appendHistoryLocked(acc *domain.Account, userMsg, reply string) {
	excerpt := reply
	if runes := []rune(excerpt); len(runes) > config.HistoryReplyExcerpt {
		excerpt = string(runes[:config.HistoryReplyExcerpt]) + "..."
	}
	excerpt = strings.ReplaceAll(excerpt, "\n", " ")

	acc.History = append(acc.History, "👤: "+userMsg, "🤖: "+excerpt)
	s.trimHistoryLocked(acc)
	s.dirty = true
}
