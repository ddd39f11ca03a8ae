package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"FxPulse/internal/domain/models"
	domrepo "FxPulse/internal/domain/repository"
	"FxPulse/internal/service/cache"
	applogger "FxPulse/pkg/logger"
)

// CachedRateStore wraps a RateStore with a read-through byte cache. Historical
// quotes are immutable, so cache staleness is only a concern for the latest
// quote, which carries its own shorter TTL. Cache failures degrade to the
// underlying store and are logged, never surfaced.
type CachedRateStore struct {
	inner     domrepo.RateStore
	cache     cache.BytesCache
	ttl       time.Duration
	latestTTL time.Duration
	l         *applogger.Logger
}

func NewCachedRateStore(inner domrepo.RateStore, c cache.BytesCache, ttl time.Duration, l *applogger.Logger) *CachedRateStore {
	latestTTL := ttl / 4
	if latestTTL <= 0 {
		latestTTL = time.Minute
	}
	return &CachedRateStore{inner: inner, cache: c, ttl: ttl, latestTTL: latestTTL, l: l}
}

func quoteKey(currency string, date time.Time) string {
	return fmt.Sprintf("rate:%s:%s", currency, date.Format("2006-01-02"))
}

func latestKey(currency string) string {
	return "rate:latest:" + currency
}

func (s *CachedRateStore) Get(ctx context.Context, date time.Time, currency string) (*models.RateQuote, error) {
	key := quoteKey(currency, date)
	if quote := s.cached(ctx, key); quote != nil {
		return quote, nil
	}

	quote, err := s.inner.Get(ctx, date, currency)
	if err != nil || quote == nil {
		return quote, err
	}
	s.put(ctx, key, quote, s.ttl)
	return quote, nil
}

func (s *CachedRateStore) Put(ctx context.Context, quote *models.RateQuote) error {
	if err := s.inner.Put(ctx, quote); err != nil {
		return err
	}
	s.put(ctx, quoteKey(quote.Currency, quote.Date), quote, s.ttl)
	s.put(ctx, latestKey(quote.Currency), quote, s.latestTTL)
	return nil
}

func (s *CachedRateStore) ExistsForDate(ctx context.Context, date time.Time, currency string) (bool, error) {
	if quote := s.cached(ctx, quoteKey(currency, date)); quote != nil {
		return true, nil
	}
	return s.inner.ExistsForDate(ctx, date, currency)
}

func (s *CachedRateStore) LatestForCurrency(ctx context.Context, currency string) (*models.RateQuote, error) {
	key := latestKey(currency)
	if quote := s.cached(ctx, key); quote != nil {
		return quote, nil
	}

	quote, err := s.inner.LatestForCurrency(ctx, currency)
	if err != nil || quote == nil {
		return quote, err
	}
	s.put(ctx, key, quote, s.latestTTL)
	return quote, nil
}

func (s *CachedRateStore) Range(ctx context.Context, from time.Time, currency string) ([]models.RateQuote, error) {
	return s.inner.Range(ctx, from, currency)
}

func (s *CachedRateStore) Count(ctx context.Context) (int64, error) {
	return s.inner.Count(ctx)
}

func (s *CachedRateStore) Close() error { return s.inner.Close() }

func (s *CachedRateStore) cached(ctx context.Context, key string) *models.RateQuote {
	b, ok, err := s.cache.GetBytes(ctx, key)
	if err != nil {
		s.l.Warn("rate cache read error", applogger.String("key", key), applogger.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var quote models.RateQuote
	if err := json.Unmarshal(b, &quote); err != nil {
		s.l.Warn("rate cache decode error", applogger.String("key", key), applogger.Error(err))
		return nil
	}
	return &quote
}

func (s *CachedRateStore) put(ctx context.Context, key string, quote *models.RateQuote, ttl time.Duration) {
	b, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := s.cache.SetBytes(ctx, key, b, ttl); err != nil {
		s.l.Warn("rate cache write error", applogger.String("key", key), applogger.Error(err))
	}
}
