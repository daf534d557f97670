package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/olehsv/kinobot/internal/clock"
	"github.com/olehsv/kinobot/internal/domain"
)

// PostgresStore persists the snapshot as rows in three tables. Each save
// replaces the stored state in one transaction: upserts for everything in
// the snapshot, deletes for records that disappeared from it.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{Settings: domain.Settings{Enabled: true}}

	rows, err := p.pool.Query(ctx, `
		SELECT telegram_id, display_name, daily_used, reset_date,
		       premium_active, premium_until, history,
		       last_movie_query, last_code, limit_notified
		FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	seen := false
	for rows.Next() {
		seen = true
		var (
			acc       domain.Account
			resetDate time.Time
			until     *time.Time
		)
		if err := rows.Scan(&acc.TelegramID, &acc.DisplayName, &acc.DailyUsed, &resetDate,
			&acc.Premium.Active, &until, &acc.History,
			&acc.LastMovieQuery, &acc.LastCode, &acc.LimitNotified); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		acc.ResetDate = resetDate.Format(clock.DateLayout)
		acc.Premium.Until = until
		snap.Accounts = append(snap.Accounts, &acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	promoRows, err := p.pool.Query(ctx, `
		SELECT code, grant_seconds, uses_remaining FROM promo_codes`)
	if err != nil {
		return nil, fmt.Errorf("query promo codes: %w", err)
	}
	defer promoRows.Close()

	for promoRows.Next() {
		seen = true
		var (
			promo   domain.PromoCode
			seconds *int64
		)
		if err := promoRows.Scan(&promo.Code, &seconds, &promo.UsesRemaining); err != nil {
			return nil, fmt.Errorf("scan promo: %w", err)
		}
		if seconds == nil {
			promo.Grant = domain.Term{Forever: true}
		} else {
			promo.Grant = domain.Term{Seconds: *seconds}
		}
		snap.PromoCodes = append(snap.PromoCodes, &promo)
	}
	if err := promoRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promo codes: %w", err)
	}

	var enabled bool
	err = p.pool.QueryRow(ctx, `SELECT enabled FROM settings WHERE id = 1`).Scan(&enabled)
	switch err {
	case nil:
		seen = true
		snap.Settings.Enabled = enabled
	case pgx.ErrNoRows:
	default:
		return nil, fmt.Errorf("query settings: %w", err)
	}

	if !seen {
		return nil, nil
	}
	return snap, nil
}

func (p *PostgresStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	accountIDs := make([]int64, 0, len(snap.Accounts))
	for _, acc := range snap.Accounts {
		accountIDs = append(accountIDs, acc.TelegramID)

		resetDate, err := time.Parse(clock.DateLayout, acc.ResetDate)
		if err != nil {
			return fmt.Errorf("parse reset date for %d: %w", acc.TelegramID, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO accounts (telegram_id, display_name, daily_used, reset_date,
			                      premium_active, premium_until, history,
			                      last_movie_query, last_code, limit_notified)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (telegram_id) DO UPDATE SET
				display_name = EXCLUDED.display_name,
				daily_used = EXCLUDED.daily_used,
				reset_date = EXCLUDED.reset_date,
				premium_active = EXCLUDED.premium_active,
				premium_until = EXCLUDED.premium_until,
				history = EXCLUDED.history,
				last_movie_query = EXCLUDED.last_movie_query,
				last_code = EXCLUDED.last_code,
				limit_notified = EXCLUDED.limit_notified`,
			acc.TelegramID, acc.DisplayName, acc.DailyUsed, resetDate,
			acc.Premium.Active, acc.Premium.Until, acc.History,
			acc.LastMovieQuery, acc.LastCode, acc.LimitNotified)
		if err != nil {
			return fmt.Errorf("upsert account %d: %w", acc.TelegramID, err)
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM accounts WHERE NOT (telegram_id = ANY($1))`, accountIDs); err != nil {
		return fmt.Errorf("prune accounts: %w", err)
	}

	codes := make([]string, 0, len(snap.PromoCodes))
	for _, promo := range snap.PromoCodes {
		codes = append(codes, promo.Code)

		var seconds *int64
		if !promo.Grant.Forever {
			s := promo.Grant.Seconds
			seconds = &s
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO promo_codes (code, grant_seconds, uses_remaining)
			VALUES ($1, $2, $3)
			ON CONFLICT (code) DO UPDATE SET
				grant_seconds = EXCLUDED.grant_seconds,
				uses_remaining = EXCLUDED.uses_remaining`,
			promo.Code, seconds, promo.UsesRemaining)
		if err != nil {
			return fmt.Errorf("upsert promo %s: %w", promo.Code, err)
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM promo_codes WHERE NOT (code = ANY($1))`, codes); err != nil {
		return fmt.Errorf("prune promo codes: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO settings (id, enabled) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET enabled = EXCLUDED.enabled`,
		snap.Settings.Enabled)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	return tx.Commit(ctx)
}
