package store

import (
	"sort"
	"time"

	"github.com/olehsv/kinobot/internal/domain"
)

// GrantPremium applies an admin-initiated grant, overwriting any existing
// premium state. Returns the new expiry (nil for a forever grant). Admin
// operations target existing accounts only.
func (s *Store) GrantPremium(userID int64, term domain.Term) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[userID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if term.Forever {
		acc.Premium = domain.Premium{Active: true}
	} else {
		until := s.clk.Now().Add(term.Duration())
		acc.Premium = domain.Premium{Active: true, Until: &until}
	}
	s.dirty = true
	if acc.Premium.Until == nil {
		return nil, nil
	}
	until := *acc.Premium.Until
	return &until, nil
}

// extendPremiumLocked stacks a promo grant on top of any unexpired premium:
// the term extends the current expiry, or starts from now when none is left.
// A forever grant (given or already held) wins outright.
func (s *Store) extendPremiumLocked(acc *domain.Account, term domain.Term) *time.Time {
	now := s.clk.Now()

	if term.Forever || (acc.Premium.Active && acc.Premium.Until == nil) {
		acc.Premium = domain.Premium{Active: true}
		s.dirty = true
		return nil
	}

	base := now
	if acc.Premium.Active && acc.Premium.Until != nil && acc.Premium.Until.After(now) {
		base = *acc.Premium.Until
	}
	until := base.Add(term.Duration())
	acc.Premium = domain.Premium{Active: true, Until: &until}
	s.dirty = true
	return &until
}

// RevokePremium clears premium state. A no-op grantless account is fine.
func (s *Store) RevokePremium(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[userID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Premium = domain.Premium{}
	s.dirty = true
	return nil
}

// DeleteAccount removes the record entirely.
func (s *Store) DeleteAccount(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[userID]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(s.accounts, userID)
	s.dirty = true
	return nil
}

// Account returns a snapshot of one account after applying the same lazy
// rollover an interaction would, so a profile read never shows an expired
// premium as active.
func (s *Store) Account(userID int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[userID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	s.rolloverLocked(acc)
	return acc.Clone(), nil
}

// ListAccounts returns snapshots of all accounts ordered by id.
func (s *Store) ListAccounts() []*domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, acc.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TelegramID < out[j].TelegramID })
	return out
}

// Stats are aggregate counts derived purely from stored data.
type Stats struct {
	TotalAccounts   int
	PremiumAccounts int
	DailyUsed       int
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{TotalAccounts: len(s.accounts)}
	now := s.clk.Now()
	for _, acc := range s.accounts {
		if acc.Premium.Active && !acc.Premium.Expired(now) {
			st.PremiumAccounts++
		}
		st.DailyUsed += acc.DailyUsed
	}
	return st
}
