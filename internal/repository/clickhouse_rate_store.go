package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"FxPulse/internal/domain/models"
	pkgch "FxPulse/pkg/clickhouse"
	applogger "FxPulse/pkg/logger"
)

// Schema holds the DDL the store needs. ReplacingMergeTree keyed on
// (currency_code, rate_date) gives last-write-wins for a re-resolved day.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS rate_history (
        rate_date     Date,
        currency_code LowCardinality(String),
        rate          Decimal(10, 2),
        created_at    DateTime DEFAULT now()
    ) ENGINE = ReplacingMergeTree(created_at)
    ORDER BY (currency_code, rate_date)`,
}

// CHRateStore implements RateStore backed by ClickHouse.
type CHRateStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHRateStore(ch *pkgch.Client, l *applogger.Logger) *CHRateStore {
	return &CHRateStore{db: ch.DB(), l: l}
}

func (s *CHRateStore) Get(ctx context.Context, date time.Time, currency string) (*models.RateQuote, error) {
	const q = `
        SELECT rate_date, toString(rate), currency_code, created_at
        FROM rate_history FINAL
        WHERE currency_code = ? AND rate_date = ?
        LIMIT 1
    `
	quote, err := s.scanOne(s.db.QueryRowContext(ctx, q, currency, dateOnly(date)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get rate: %w", err)
	}
	return quote, nil
}

func (s *CHRateStore) Put(ctx context.Context, quote *models.RateQuote) error {
	const q = `
        INSERT INTO rate_history (rate_date, currency_code, rate, created_at)
        VALUES (?, ?, ?, ?)
    `
	created := quote.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	if _, err := s.db.ExecContext(ctx, q, dateOnly(quote.Date), quote.Currency, quote.Rate.StringFixed(2), created); err != nil {
		s.l.Error("clickhouse put rate error",
			applogger.String("date", quote.Date.Format("2006-01-02")),
			applogger.Error(err),
		)
		return fmt.Errorf("put rate: %w", err)
	}
	return nil
}

func (s *CHRateStore) ExistsForDate(ctx context.Context, date time.Time, currency string) (bool, error) {
	const q = `
        SELECT count() FROM rate_history
        WHERE currency_code = ? AND rate_date = ?
    `
	var n uint64
	if err := s.db.QueryRowContext(ctx, q, currency, dateOnly(date)).Scan(&n); err != nil {
		return false, fmt.Errorf("exists for date: %w", err)
	}
	return n > 0, nil
}

func (s *CHRateStore) LatestForCurrency(ctx context.Context, currency string) (*models.RateQuote, error) {
	const q = `
        SELECT rate_date, toString(rate), currency_code, created_at
        FROM rate_history FINAL
        WHERE currency_code = ?
        ORDER BY rate_date DESC
        LIMIT 1
    `
	quote, err := s.scanOne(s.db.QueryRowContext(ctx, q, currency))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("latest rate: %w", err)
	}
	return quote, nil
}

func (s *CHRateStore) Range(ctx context.Context, from time.Time, currency string) ([]models.RateQuote, error) {
	const q = `
        SELECT rate_date, toString(rate), currency_code, created_at
        FROM rate_history FINAL
        WHERE currency_code = ? AND rate_date >= ?
        ORDER BY rate_date ASC
    `
	rows, err := s.db.QueryContext(ctx, q, currency, dateOnly(from))
	if err != nil {
		return nil, fmt.Errorf("range rates: %w", err)
	}
	defer rows.Close()

	out := make([]models.RateQuote, 0, 32)
	for rows.Next() {
		var (
			quote models.RateQuote
			raw   string
		)
		if err := rows.Scan(&quote.Date, &raw, &quote.Currency, &quote.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		if quote.Rate, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("parse stored rate %q: %w", raw, err)
		}
		out = append(out, quote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHRateStore) Count(ctx context.Context) (int64, error) {
	var n uint64
	if err := s.db.QueryRowContext(ctx, `SELECT count() FROM rate_history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rates: %w", err)
	}
	return int64(n), nil
}

func (s *CHRateStore) Close() error { return nil }

func (s *CHRateStore) scanOne(row *sql.Row) (*models.RateQuote, error) {
	var (
		quote models.RateQuote
		raw   string
	)
	if err := row.Scan(&quote.Date, &raw, &quote.Currency, &quote.CreatedAt); err != nil {
		return nil, err
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("parse stored rate %q: %w", raw, err)
	}
	quote.Rate = rate
	return &quote, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
