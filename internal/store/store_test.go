package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/olehsv/kinobot/internal/clock"
	"github.com/olehsv/kinobot/internal/config"
	"github.com/olehsv/kinobot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	mu       sync.Mutex
	snap     *domain.Snapshot
	saves    int
	failSave bool
}

func (f *fakeStorage) Load(ctx context.Context) (*domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, nil
}

func (f *fakeStorage) Save(ctx context.Context, snap *domain.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return errors.New("disk full")
	}
	f.snap = snap
	f.saves++
	return nil
}

const adminID int64 = 99

func newTestStore(t *testing.T) (*Store, *fakeStorage, *clock.Fixed) {
	t.Helper()
	clk := &clock.Fixed{Instant: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	fs := &fakeStorage{}
	s := New(Options{
		Clock:   clk,
		Storage: fs,
		IsAdmin: func(id int64) bool { return id == adminID },
	})
	require.NoError(t, s.Open(context.Background()))
	return s, fs, clk
}

// exhaust consumes the whole free allowance for one user.
func exhaust(t *testing.T, s *Store, userID int64) {
	t.Helper()
	for i := 0; i < config.FreeLimit; i++ {
		_, err := s.Gate(userID, "user")
		require.NoError(t, err)
		s.CommitUsage(userID, "q", "a")
	}
}

func TestGateQuota(t *testing.T) {
	t.Run("fresh account is billable with full allowance", func(t *testing.T) {
		s, _, _ := newTestStore(t)

		d, err := s.Gate(1, "alice")
		require.NoError(t, err)
		assert.True(t, d.Billable)
		assert.Equal(t, config.FreeLimit, d.Remaining)
	})

	t.Run("gate alone never charges", func(t *testing.T) {
		s, _, _ := newTestStore(t)

		for i := 0; i < 100; i++ {
			_, err := s.Gate(1, "alice")
			require.NoError(t, err)
		}
		acc, err := s.Account(1)
		require.NoError(t, err)
		assert.Equal(t, 0, acc.DailyUsed)
	})

	t.Run("exhausted allowance rejects with first notice exactly once", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		exhaust(t, s, 1)

		d, err := s.Gate(1, "alice")
		assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
		assert.True(t, d.FirstNotice)

		d, err = s.Gate(1, "alice")
		assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
		assert.False(t, d.FirstNotice)
	})

	t.Run("usage never exceeds the limit", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		exhaust(t, s, 1)

		for i := 0; i < 10; i++ {
			_, err := s.Gate(1, "alice")
			assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
		}
		acc, err := s.Account(1)
		require.NoError(t, err)
		assert.Equal(t, config.FreeLimit, acc.DailyUsed)
	})

	t.Run("admin is never billed", func(t *testing.T) {
		s, _, _ := newTestStore(t)

		d, err := s.Gate(adminID, "root")
		require.NoError(t, err)
		assert.True(t, d.Admin)
		assert.False(t, d.Billable)

		s.CommitUsage(adminID, "q", "a")
		acc, err := s.Account(adminID)
		require.NoError(t, err)
		assert.Equal(t, 0, acc.DailyUsed)
	})

	t.Run("premium is never billed", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.Touch(1, "alice")
		_, err := s.GrantPremium(1, domain.Term{Seconds: 3600})
		require.NoError(t, err)

		d, err := s.Gate(1, "alice")
		require.NoError(t, err)
		assert.True(t, d.Premium)

		s.CommitUsage(1, "q", "a")
		acc, err := s.Account(1)
		require.NoError(t, err)
		assert.Equal(t, 0, acc.DailyUsed)
	})

	t.Run("failure does not charge quota", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		_, err := s.Gate(1, "alice")
		require.NoError(t, err)

		s.CommitFailure(1, "q")
		acc, err := s.Account(1)
		require.NoError(t, err)
		assert.Equal(t, 0, acc.DailyUsed)
		assert.Len(t, acc.History, 2)
	})
}

func TestDailyReset(t *testing.T) {
	t.Run("allowance and notice flag reset on the next day", func(t *testing.T) {
		s, _, clk := newTestStore(t)
		exhaust(t, s, 1)
		_, err := s.Gate(1, "alice")
		require.ErrorIs(t, err, domain.ErrQuotaExceeded)

		clk.Advance(24 * time.Hour)

		d, err := s.Gate(1, "alice")
		require.NoError(t, err)
		assert.True(t, d.Billable)
		assert.Equal(t, config.FreeLimit, d.Remaining)

		// Exhausting again re-arms the verbose notice.
		exhaust(t, s, 1)
		d, err = s.Gate(1, "alice")
		assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
		assert.True(t, d.FirstNotice)
	})

	t.Run("reset is idempotent within the same day", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		_, err := s.Gate(1, "alice")
		require.NoError(t, err)
		s.CommitUsage(1, "q", "a")

		_, err = s.Gate(1, "alice")
		require.NoError(t, err)
		acc, err := s.Account(1)
		require.NoError(t, err)
		assert.Equal(t, 1, acc.DailyUsed)
	})
}

func TestPremiumLifecycle(t *testing.T) {
	t.Run("expired premium is reaped and billing resumes", func(t *testing.T) {
		s, _, clk := newTestStore(t)
		s.Touch(1, "alice")
		_, err := s.GrantPremium(1, domain.Term{Seconds: 3600})
		require.NoError(t, err)

		clk.Advance(2 * time.Hour)

		d, err := s.Gate(1, "alice")
		require.NoError(t, err)
		assert.True(t, d.Billable)

		acc, err := s.Account(1)
		require.NoError(t, err)
		assert.False(t, acc.Premium.Active)
		assert.Nil(t, acc.Premium.Until)
	})

	t.Run("admin grant overwrites the current expiry", func(t *testing.T) {
		s, _, clk := newTestStore(t)
		s.Touch(1, "alice")
		_, err := s.GrantPremium(1, domain.Term{Seconds: 30 * 86400})
		require.NoError(t, err)

		until, err := s.GrantPremium(1, domain.Term{Seconds: 3600})
		require.NoError(t, err)
		require.NotNil(t, until)
		assert.Equal(t, clk.Instant.Add(time.Hour), *until)
	})

	t.Run("forever grant has no expiry and survives time", func(t *testing.T) {
		s, _, clk := newTestStore(t)
		s.Touch(1, "alice")
		until, err := s.GrantPremium(1, domain.Term{Forever: true})
		require.NoError(t, err)
		assert.Nil(t, until)

		clk.Advance(365 * 24 * time.Hour)
		d, err := s.Gate(1, "alice")
		require.NoError(t, err)
		assert.True(t, d.Premium)
	})

	t.Run("grant to unknown account fails", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		_, err := s.GrantPremium(404, domain.Term{Forever: true})
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("revoke clears premium immediately", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.Touch(1, "alice")
		_, err := s.GrantPremium(1, domain.Term{Forever: true})
		require.NoError(t, err)

		require.NoError(t, s.RevokePremium(1))
		d, err := s.Gate(1, "alice")
		require.NoError(t, err)
		assert.True(t, d.Billable)
	})

	t.Run("revoke unknown account fails", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		assert.ErrorIs(t, s.RevokePremium(404), domain.ErrAccountNotFound)
	})
}

func TestRedeem(t *testing.T) {
	t.Run("code is case-insensitive and creates the account", func(t *testing.T) {
		s, _, clk := newTestStore(t)

		red, err := s.Redeem("  test1h ", 1)
		require.NoError(t, err)
		require.NotNil(t, red.Until)
		assert.Equal(t, clk.Instant.Add(time.Hour), *red.Until)

		d, err := s.Gate(1, "alice")
		require.NoError(t, err)
		assert.True(t, d.Premium)
	})

	t.Run("unknown code", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		_, err := s.Redeem("NOPE", 1)
		assert.ErrorIs(t, err, domain.ErrPromoNotFound)
	})

	t.Run("exhausted code", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.AddPromo("ONCE", domain.Term{Seconds: 3600}, 1)

		_, err := s.Redeem("ONCE", 1)
		require.NoError(t, err)
		_, err = s.Redeem("ONCE", 2)
		assert.ErrorIs(t, err, domain.ErrPromoExhausted)
	})

	t.Run("redeeming stacks on unexpired premium", func(t *testing.T) {
		s, _, clk := newTestStore(t)
		s.AddPromo("STACK", domain.Term{Seconds: 3600}, 10)

		_, err := s.Redeem("STACK", 1)
		require.NoError(t, err)
		red, err := s.Redeem("STACK", 1)
		require.NoError(t, err)
		require.NotNil(t, red.Until)
		assert.Equal(t, clk.Instant.Add(2*time.Hour), *red.Until)
	})

	t.Run("forever premium absorbs later grants", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.Touch(1, "alice")
		_, err := s.GrantPremium(1, domain.Term{Forever: true})
		require.NoError(t, err)

		red, err := s.Redeem("TEST1H", 1)
		require.NoError(t, err)
		assert.Nil(t, red.Until)
	})

	t.Run("single-use code grants exactly once under contention", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.AddPromo("LAST", domain.Term{Seconds: 3600}, 1)

		const users = 32
		var wg sync.WaitGroup
		granted := make(chan int64, users)
		for i := 0; i < users; i++ {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				if _, err := s.Redeem("LAST", id); err == nil {
					granted <- id
				}
			}(int64(i + 1))
		}
		wg.Wait()
		close(granted)

		var winners []int64
		for id := range granted {
			winners = append(winners, id)
		}
		require.Len(t, winners, 1)

		premium := 0
		for _, acc := range s.ListAccounts() {
			if acc.Premium.Active {
				premium++
			}
		}
		assert.Equal(t, 1, premium)
	})
}

func TestPromoLedger(t *testing.T) {
	t.Run("defaults are seeded on first start", func(t *testing.T) {
		s, _, _ := newTestStore(t)

		codes := make([]string, 0)
		for _, p := range s.ListPromos() {
			codes = append(codes, p.Code)
		}
		assert.Equal(t, []string{"PREMIUM7D", "TEST1H", "VIP30D", "WELCOME1D"}, codes)
	})

	t.Run("add canonicalises and upserts", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.AddPromo(" summer24 ", domain.Term{Seconds: 86400}, 5)
		s.AddPromo("SUMMER24", domain.Term{Seconds: 86400}, 7)

		for _, p := range s.ListPromos() {
			if p.Code == "SUMMER24" {
				assert.Equal(t, 7, p.UsesRemaining)
				return
			}
		}
		t.Fatal("SUMMER24 not found")
	})

	t.Run("remove", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		require.NoError(t, s.RemovePromo("test1h"))
		_, err := s.Redeem("TEST1H", 1)
		assert.ErrorIs(t, err, domain.ErrPromoNotFound)
		assert.ErrorIs(t, s.RemovePromo("TEST1H"), domain.ErrPromoNotFound)
	})
}

func TestHistory(t *testing.T) {
	t.Run("history is bounded dropping oldest first", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		_, err := s.Gate(1, "alice")
		require.NoError(t, err)

		for i := 0; i < 20; i++ {
			s.CommitUsage(1, "msg", "reply")
		}
		acc, err := s.Account(1)
		require.NoError(t, err)
		assert.Len(t, acc.History, config.HistoryCap)
	})

	t.Run("long replies are excerpted and flattened", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		_, err := s.Gate(1, "alice")
		require.NoError(t, err)

		long := strings.Repeat("ї", 300) + "\nnext line"
		s.CommitUsage(1, "msg", long)

		acc, err := s.Account(1)
		require.NoError(t, err)
		reply := acc.History[len(acc.History)-1]
		assert.True(t, strings.HasPrefix(reply, "🤖: "))
		assert.True(t, strings.HasSuffix(reply, "..."))
		assert.NotContains(t, reply, "\n")
		body := strings.TrimSuffix(strings.TrimPrefix(reply, "🤖: "), "...")
		assert.Equal(t, config.HistoryReplyExcerpt, len([]rune(body)))
	})
}

func TestEnabledFlag(t *testing.T) {
	s, _, _ := newTestStore(t)
	assert.True(t, s.Enabled())

	s.SetEnabled(false)

	_, err := s.Gate(1, "alice")
	assert.ErrorIs(t, err, domain.ErrBotDisabled)
	// The rejection must not create the account or touch any state.
	assert.Empty(t, s.ListAccounts())

	d, err := s.Gate(adminID, "root")
	require.NoError(t, err)
	assert.True(t, d.Admin)

	s.SetEnabled(true)
	_, err = s.Gate(1, "alice")
	assert.NoError(t, err)
}

func TestDisabledRejectionLeavesStateClean(t *testing.T) {
	s, fs, _ := newTestStore(t)
	s.SetEnabled(false)
	require.NoError(t, s.Flush(context.Background()))
	saves := fs.saves

	_, err := s.Gate(1, "alice")
	require.ErrorIs(t, err, domain.ErrBotDisabled)

	assert.Empty(t, s.ListAccounts())
	// The rejection dirtied nothing, so the next flush is a no-op.
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, saves, fs.saves)
}

func TestInflightLatch(t *testing.T) {
	s, _, _ := newTestStore(t)

	require.NoError(t, s.Begin(1))
	assert.ErrorIs(t, s.Begin(1), domain.ErrActiveRequest)
	assert.NoError(t, s.Begin(2))

	s.End(1)
	assert.NoError(t, s.Begin(1))
}

func TestAssembleContext(t *testing.T) {
	s, _, _ := newTestStore(t)

	res := s.AssembleContext(1, "розкажи про фільм Дюна")
	assert.Equal(t, "розкажи про фільм Дюна", res.NextMovieQuery)

	res = s.AssembleContext(1, "2021")
	assert.True(t, res.Stitched)
	assert.Equal(t, "розкажи про фільм Дюна 2021", res.FullQuery)

	acc, err := s.Account(1)
	require.NoError(t, err)
	assert.Equal(t, "розкажи про фільм Дюна", acc.LastMovieQuery)
}

func TestPersistence(t *testing.T) {
	t.Run("flush writes once and skips when clean", func(t *testing.T) {
		s, fs, _ := newTestStore(t)
		s.Touch(1, "alice")

		require.NoError(t, s.Flush(context.Background()))
		saves := fs.saves
		require.NoError(t, s.Flush(context.Background()))
		assert.Equal(t, saves, fs.saves)
	})

	t.Run("failed save keeps state dirty for the next attempt", func(t *testing.T) {
		s, fs, _ := newTestStore(t)
		s.Touch(1, "alice")

		fs.failSave = true
		assert.Error(t, s.Flush(context.Background()))

		fs.failSave = false
		require.NoError(t, s.Flush(context.Background()))
		require.NotNil(t, fs.snap)
		require.Len(t, fs.snap.Accounts, 1)
		assert.Equal(t, int64(1), fs.snap.Accounts[0].TelegramID)
	})

	t.Run("state survives a reload", func(t *testing.T) {
		s, fs, clk := newTestStore(t)
		s.Touch(1, "alice")
		_, err := s.GrantPremium(1, domain.Term{Seconds: 3600})
		require.NoError(t, err)
		s.SetEnabled(false)
		require.NoError(t, s.Close(context.Background()))

		reloaded := New(Options{Clock: clk, Storage: fs})
		require.NoError(t, reloaded.Open(context.Background()))

		assert.False(t, reloaded.Enabled())
		acc, err := reloaded.Account(1)
		require.NoError(t, err)
		assert.True(t, acc.Premium.Active)
		assert.Len(t, reloaded.ListPromos(), 4)
	})
}

func TestStats(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.Touch(1, "alice")
	s.Touch(2, "bob")
	_, err := s.GrantPremium(2, domain.Term{Seconds: 3600})
	require.NoError(t, err)
	_, err = s.Gate(1, "alice")
	require.NoError(t, err)
	s.CommitUsage(1, "q", "a")

	st := s.Stats()
	assert.Equal(t, 2, st.TotalAccounts)
	assert.Equal(t, 1, st.PremiumAccounts)
	assert.Equal(t, 1, st.DailyUsed)
}

func TestDeleteAccount(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.Touch(1, "alice")

	require.NoError(t, s.DeleteAccount(1))
	_, err := s.Account(1)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.ErrorIs(t, s.DeleteAccount(1), domain.ErrAccountNotFound)
}
