package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"FxPulse/internal/domain/models"
)

// RateSource is one failable upstream quote provider. Fetch returns the rate
// for the given calendar day, or ok=false when the source has no value for it.
// Transport errors, timeouts, and malformed payloads are all reported as
// absence plus an error for logging; they never abort the fallback chain.
type RateSource interface {
	Name() string
	Fetch(ctx context.Context, date time.Time) (rate decimal.Decimal, ok bool, err error)
}

// RateStore is the durable keyed-by-date cache of resolved rates. Concurrent
// readers are safe; a write race on the same date resolves last-write-wins.
type RateStore interface {
	Get(ctx context.Context, date time.Time, currency string) (*models.RateQuote, error)
	Put(ctx context.Context, q *models.RateQuote) error
	ExistsForDate(ctx context.Context, date time.Time, currency string) (bool, error)
	LatestForCurrency(ctx context.Context, currency string) (*models.RateQuote, error)
	Range(ctx context.Context, from time.Time, currency string) ([]models.RateQuote, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}

// RatePublisher broadcasts newly resolved daily quotes to downstream
// consumers. Publishing is best-effort; failures must not block acquisition.
type RatePublisher interface {
	PublishQuote(ctx context.Context, q *models.RateQuote) error
	Close() error
}

// Clock abstracts "today" so tests pin the calendar.
type Clock interface {
	Today() time.Time
}

// Metrics records operational counters for the acquisition and analysis paths.
type Metrics interface {
	RecordFetch(source string, ok bool)
	RecordFallback(kind string)
	RecordLastRate(currency string, rate float64)
	RecordAnalysisDuration(seconds float64)
}
