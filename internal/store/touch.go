package store

import "github.com/olehsv/kinobot/internal/domain"

// Touch ensures an account exists for a non-billable surface (/start,
// profile, menus), applying the same lazy rollover an interaction would,
// and returns a snapshot. Never fails: user-facing operations create a
// default account on first contact.
func (s *Store) Touch(userID int64, displayName string) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.touchLocked(userID, displayName)
	s.rolloverLocked(acc)
	return acc.Clone()
}
