// Package store owns all entitlement state: per-user accounts, the promo
// ledger and bot-wide settings. It is the single gate every inbound
// interaction passes through; handlers never mutate accounts directly.
//
// All state lives in memory behind one mutex and is flushed to durable
// storage periodically and at shutdown. In-memory state stays authoritative
// for the session even when a flush fails.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/olehsv/kinobot/internal/assemble"
	"github.com/olehsv/kinobot/internal/clock"
	"github.com/olehsv/kinobot/internal/config"
	"github.com/olehsv/kinobot/internal/domain"
)

// Storage is the durable persistence boundary. Load returns (nil, nil) when
// no prior state exists.
type Storage interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snap *domain.Snapshot) error
}

type Store struct {
	clk     clock.Clock
	storage Storage
	isAdmin func(int64) bool

	mu       sync.Mutex
	accounts map[int64]*domain.Account
	promos   map[string]*domain.PromoCode
	settings domain.Settings
	inflight map[int64]struct{}
	dirty    bool
}

type Options struct {
	Clock   clock.Clock
	Storage Storage
	IsAdmin func(int64) bool
}

func New(opts Options) *Store {
	isAdmin := opts.IsAdmin
	if isAdmin == nil {
		isAdmin = func(int64) bool { return false }
	}
	return &Store{
		clk:      opts.Clock,
		storage:  opts.Storage,
		isAdmin:  isAdmin,
		accounts: make(map[int64]*domain.Account),
		promos:   make(map[string]*domain.PromoCode),
		settings: domain.Settings{Enabled: true},
		inflight: make(map[int64]struct{}),
	}
}

// defaultPromos are seeded on first start so the bot is usable before any
// admin adds codes.
var defaultPromos = []*domain.PromoCode{
	{Code: "TEST1H", Grant: domain.Term{Seconds: 3600}, UsesRemaining: 50},
	{Code: "WELCOME1D", Grant: domain.Term{Seconds: 86400}, UsesRemaining: 100},
	{Code: "PREMIUM7D", Grant: domain.Term{Seconds: 604800}, UsesRemaining: 30},
	{Code: "VIP30D", Grant: domain.Term{Seconds: 2592000}, UsesRemaining: 20},
}

// Open loads persisted state. A missing snapshot seeds defaults.
func (s *Store) Open(ctx context.Context) error {
	snap, err := s.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap == nil {
		for _, p := range defaultPromos {
			cp := *p
			s.promos[cp.Code] = &cp
		}
		s.dirty = true
		return nil
	}

	for _, acc := range snap.Accounts {
		s.accounts[acc.TelegramID] = acc.Clone()
	}
	for _, p := range snap.PromoCodes {
		cp := *p
		s.promos[cp.Code] = &cp
	}
	s.settings = snap.Settings
	return nil
}

// Close flushes pending state. Called once at shutdown.
func (s *Store) Close(ctx context.Context) error {
	return s.Flush(ctx)
}

// Flush writes the current snapshot if anything changed since the last save.
// The snapshot is taken under the lock; the write happens outside it so a
// slow store never blocks message handling.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	snap := s.snapshotLocked()
	s.dirty = false
	s.mu.Unlock()

	if err := s.storage.Save(ctx, snap); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Autosave flushes on every tick until ctx is cancelled. Failures are logged
// and retried on the next tick; they never reach the reply path.
func (s *Store) Autosave(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Flush(ctx); err != nil {
				slog.Error("autosave failed", "error", err)
			}
		}
	}
}

func (s *Store) snapshotLocked() *domain.Snapshot {
	snap := &domain.Snapshot{Settings: s.settings}
	for _, acc := range s.accounts {
		snap.Accounts = append(snap.Accounts, acc.Clone())
	}
	sort.Slice(snap.Accounts, func(i, j int) bool {
		return snap.Accounts[i].TelegramID < snap.Accounts[j].TelegramID
	})
	for _, p := range s.promos {
		cp := *p
		snap.PromoCodes = append(snap.PromoCodes, &cp)
	}
	sort.Slice(snap.PromoCodes, func(i, j int) bool {
		return snap.PromoCodes[i].Code < snap.PromoCodes[j].Code
	})
	return snap
}

// touchLocked returns the account for id, creating a default record on first
// contact and refreshing the display name opportunistically.
func (s *Store) touchLocked(id int64, displayName string) *domain.Account {
	acc, ok := s.accounts[id]
	if !ok {
		acc = &domain.Account{
			TelegramID:  id,
			ResetDate:   clock.Today(s.clk.Now()),
			DisplayName: displayName,
		}
		s.accounts[id] = acc
		s.dirty = true
		return acc
	}
	if displayName != "" && displayName != acc.DisplayName {
		acc.DisplayName = displayName
		s.dirty = true
	}
	return acc
}

// rolloverLocked applies the lazy daily reset and premium expiry reap. Both
// are idempotent within the same day / after the first reap.
func (s *Store) rolloverLocked(acc *domain.Account) {
	now := s.clk.Now()

	if today := clock.Today(now); acc.ResetDate != today {
		acc.DailyUsed = 0
		acc.ResetDate = today
		acc.LimitNotified = false
		s.dirty = true
	}

	if acc.Premium.Expired(now) {
		acc.Premium = domain.Premium{}
		s.dirty = true
	}
}

func (s *Store) trimHistoryLocked(acc *domain.Account) {
	if over := len(acc.History) - config.HistoryCap; over > 0 {
		acc.History = append(acc.History[:0], acc.History[over:]...)
	}
}

// AssembleContext runs follow-up stitching and context collection for a
// message and persists the resulting movie-query transition.
func (s *Store) AssembleContext(userID int64, text string) assemble.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.touchLocked(userID, "")
	res := assemble.Assemble(acc.LastMovieQuery, acc.History, text)
	if acc.LastMovieQuery != res.NextMovieQuery {
		acc.LastMovieQuery = res.NextMovieQuery
		s.dirty = true
	}
	return res
}

// SetLastCode retains the most recent code reply so the copy affordance can
// confirm it is still current.
func (s *Store) SetLastCode(userID int64, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.touchLocked(userID, "")
	acc.LastCode = code
	s.dirty = true
}

func (s *Store) LastCode(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[userID]
	if !ok {
		return ""
	}
	return acc.LastCode
}

// Enabled reports the global availability flag.
func (s *Store) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Enabled
}

func (s *Store) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings.Enabled != enabled {
		s.settings.Enabled = enabled
		s.dirty = true
	}
}
