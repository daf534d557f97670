package store

import (
	"sort"
	"strings"
	"time"

	"github.com/olehsv/kinobot/internal/domain"
)

// Redemption reports the outcome of a successful promo redemption.
type Redemption struct {
	Grant domain.Term
	// Until is the resulting premium expiry; nil means forever.
	Until *time.Time
}

// Redeem exchanges a promo code for a premium extension. The lookup,
// decrement and grant happen under one lock so a code with a single use left
// can never grant twice, no matter how many users race on it.
func (s *Store) Redeem(code string, userID int64) (Redemption, error) {
	canonical := strings.ToUpper(strings.TrimSpace(code))

	s.mu.Lock()
	defer s.mu.Unlock()

	promo, ok := s.promos[canonical]
	if !ok {
		return Redemption{}, domain.ErrPromoNotFound
	}
	if promo.UsesRemaining <= 0 {
		return Redemption{}, domain.ErrPromoExhausted
	}

	promo.UsesRemaining--
	acc := s.touchLocked(userID, "")
	until := s.extendPremiumLocked(acc, promo.Grant)
	s.dirty = true
	return Redemption{Grant: promo.Grant, Until: until}, nil
}

// AddPromo upserts a code. Admin-only; the handler enforces that.
func (s *Store) AddPromo(code string, grant domain.Term, uses int) {
	canonical := strings.ToUpper(strings.TrimSpace(code))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.promos[canonical] = &domain.PromoCode{Code: canonical, Grant: grant, UsesRemaining: uses}
	s.dirty = true
}

// RemovePromo deletes a code.
func (s *Store) RemovePromo(code string) error {
	canonical := strings.ToUpper(strings.TrimSpace(code))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.promos[canonical]; !ok {
		return domain.ErrPromoNotFound
	}
	delete(s.promos, canonical)
	s.dirty = true
	return nil
}

// ListPromos returns a snapshot of the ledger ordered by code.
func (s *Store) ListPromos() []*domain.PromoCode {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.PromoCode, 0, len(s.promos))
	for _, p := range s.promos {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
