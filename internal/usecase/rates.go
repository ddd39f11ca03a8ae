package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"FxPulse/internal/domain/models"
	domrepo "FxPulse/internal/domain/repository"
	applogger "FxPulse/pkg/logger"
)

const dateLayout = "2006-01-02"

// chainAttempt is one step of the current-rate fallback order. The offset is
// subtracted from today before the fetch, which lets the institutional source
// appear twice (today, then yesterday) without a second adapter.
type chainAttempt struct {
	source    domrepo.RateSource
	dayOffset int
}

// RatesUseCase resolves the current USD/KRW rate and the trailing daily series
// from unreliable upstream sources. Every public method recovers internally;
// callers never see a fetch failure, only degraded (sentinel) values.
type RatesUseCase struct {
	chain         []chainAttempt
	institutional domrepo.RateSource
	store         domrepo.RateStore
	publisher     domrepo.RatePublisher
	clock         domrepo.Clock
	metrics       domrepo.Metrics
	lookbackDays  int
	windowDays    int
	l             *applogger.Logger
}

func NewRatesUseCase(
	live, institutional, backup, sentinel domrepo.RateSource,
	store domrepo.RateStore,
	publisher domrepo.RatePublisher,
	clock domrepo.Clock,
	metrics domrepo.Metrics,
	lookbackDays, windowDays int,
	l *applogger.Logger,
) *RatesUseCase {
	return &RatesUseCase{
		chain: []chainAttempt{
			{source: live},
			{source: institutional},
			{source: institutional, dayOffset: 1},
			{source: backup},
			{source: sentinel},
		},
		institutional: institutional,
		store:         store,
		publisher:     publisher,
		clock:         clock,
		metrics:       metrics,
		lookbackDays:  lookbackDays,
		windowDays:    windowDays,
		l:             l,
	}
}

// CurrentRate walks the fallback chain until a source produces a value. The
// terminal sentinel entry always succeeds, so a rate is always returned.
func (uc *RatesUseCase) CurrentRate(ctx context.Context) decimal.Decimal {
	today := uc.clock.Today()

	for i, att := range uc.chain {
		date := today.AddDate(0, 0, -att.dayOffset)
		rate, ok, err := att.source.Fetch(ctx, date)
		uc.metrics.RecordFetch(att.source.Name(), ok && err == nil)
		if err != nil {
			uc.l.Warn("rate source failed",
				applogger.String("source", att.source.Name()),
				applogger.String("date", date.Format(dateLayout)),
				applogger.Error(err),
			)
			continue
		}
		if !ok {
			continue
		}
		if i > 0 {
			uc.metrics.RecordFallback(att.source.Name())
		}
		if i == len(uc.chain)-1 {
			uc.l.Warn("all rate sources exhausted, using sentinel",
				applogger.String("rate", rate.String()),
			)
		}
		f, _ := rate.Float64()
		uc.metrics.RecordLastRate(models.USD, f)
		return rate
	}

	// Unreachable while the sentinel terminates the chain.
	return models.SentinelRate
}

// HistoricalSeries resolves one quote per calendar day for the last windowDays
// days. Days the institutional source never published (weekends, holidays) are
// filled by walking the cursor back up to the lookback bound; exhaustion fills
// with the sentinel. The returned series is chronologically ascending with no
// gaps, exactly windowDays long.
func (uc *RatesUseCase) HistoricalSeries(ctx context.Context, windowDays int) []models.RateQuote {
	if windowDays <= 0 {
		windowDays = uc.windowDays
	}
	today := uc.clock.Today()
	cache := make(map[string]decimal.Decimal, windowDays+uc.lookbackDays)
	series := make([]models.RateQuote, 0, windowDays)

	for i := 0; i < windowDays; i++ {
		target := today.AddDate(0, 0, -i)
		rate, found := uc.resolveDay(ctx, target, cache)
		if !found {
			rate = models.SentinelRate
			uc.metrics.RecordFallback("sentinel")
			uc.l.Warn("lookback exhausted, using sentinel",
				applogger.String("date", target.Format(dateLayout)),
			)
		}
		cache[target.Format(dateLayout)] = rate
		series = append(series, models.RateQuote{Date: target, Rate: rate, Currency: models.USD})
	}

	// Built newest-first; flip to ascending.
	for i, j := 0, len(series)-1; i < j; i, j = i+1, j-1 {
		series[i], series[j] = series[j], series[i]
	}
	return series
}

// resolveDay walks backward from the target date until a published rate is
// found or the lookback bound runs out. Each producing date is cached so later
// days' walks short-circuit.
func (uc *RatesUseCase) resolveDay(ctx context.Context, target time.Time, cache map[string]decimal.Decimal) (decimal.Decimal, bool) {
	cursor := target
	for lookback := 0; lookback < uc.lookbackDays; {
		key := cursor.Format(dateLayout)
		if rate, ok := cache[key]; ok {
			return rate, true
		}

		if quote, err := uc.store.Get(ctx, cursor, models.USD); err == nil && quote != nil {
			cache[key] = quote.Rate
			return quote.Rate, true
		}

		rate, ok, err := uc.institutional.Fetch(ctx, cursor)
		uc.metrics.RecordFetch(uc.institutional.Name(), ok && err == nil)
		if err != nil {
			uc.l.Warn("historical fetch failed",
				applogger.String("date", key),
				applogger.Error(err),
			)
		}
		if ok && err == nil {
			cache[key] = rate
			uc.persist(ctx, cursor, rate)
			return rate, true
		}

		cursor = cursor.AddDate(0, 0, -1)
		lookback++
	}
	return decimal.Zero, false
}

// persist writes a resolved day through to the store, at most once per date.
// Failures are logged only; acquisition never depends on the store.
func (uc *RatesUseCase) persist(ctx context.Context, date time.Time, rate decimal.Decimal) {
	exists, err := uc.store.ExistsForDate(ctx, date, models.USD)
	if err != nil {
		uc.l.Warn("rate store lookup failed", applogger.Error(err))
		return
	}
	if exists {
		return
	}
	quote := &models.RateQuote{Date: date, Rate: rate, Currency: models.USD, CreatedAt: time.Now()}
	if err := uc.store.Put(ctx, quote); err != nil {
		uc.l.Warn("rate store write failed",
			applogger.String("date", date.Format(dateLayout)),
			applogger.Error(err),
		)
	}
}

// Summary builds the exchange-rate overview: current rate, the 30-day series,
// and the 1/7/30-day change rates. Missing comparison dates fall back to the
// current rate, which yields a 0% change.
func (uc *RatesUseCase) Summary(ctx context.Context) *models.RateSummary {
	today := uc.clock.Today()
	current := uc.CurrentRate(ctx)
	series := uc.HistoricalSeries(ctx, uc.windowDays)

	byDate := make(map[string]decimal.Decimal, len(series))
	daily := make([]models.DailyRate, 0, len(series))
	for _, q := range series {
		key := q.Date.Format(dateLayout)
		byDate[key] = q.Rate
		daily = append(daily, models.DailyRate{Date: key, Rate: q.Rate})
	}

	rateAgo := func(days int) decimal.Decimal {
		if rate, ok := byDate[today.AddDate(0, 0, -days).Format(dateLayout)]; ok {
			return rate
		}
		return current
	}

	rate1 := rateAgo(1)
	rate7 := rateAgo(7)
	rate30 := rateAgo(30)

	return &models.RateSummary{
		CurrentRate:     current,
		ChangeRate1Day:  pctChange(current, rate1),
		ChangeRate7Day:  pctChange(current, rate7),
		ChangeRate30Day: pctChange(current, rate30),
		Rate1DayAgo:     rate1,
		Rate7DaysAgo:    rate7,
		Rate30DaysAgo:   rate30,
		Last30DaysRates: daily,
		LastUpdated:     today.Format(dateLayout),
	}
}

// Backfill seeds the store with the trailing series when it is empty. Called
// once at startup; a non-empty store makes it a no-op.
func (uc *RatesUseCase) Backfill(ctx context.Context) error {
	n, err := uc.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count rates: %w", err)
	}
	if n > 0 {
		return nil
	}

	uc.l.Info("rate store empty, backfilling", applogger.Int("days", uc.windowDays))
	for _, q := range uc.HistoricalSeries(ctx, uc.windowDays) {
		uc.persist(ctx, q.Date, q.Rate)
	}
	uc.l.Info("backfill complete")
	return nil
}

// RefreshToday resolves and persists today's rate once. A row already present
// for today makes it a no-op, so overlapping runs stay idempotent. The fresh
// quote is additionally published for downstream consumers, best-effort.
func (uc *RatesUseCase) RefreshToday(ctx context.Context) error {
	today := uc.clock.Today()

	exists, err := uc.store.ExistsForDate(ctx, today, models.USD)
	if err != nil {
		return fmt.Errorf("check today's rate: %w", err)
	}
	if exists {
		uc.l.Debug("today's rate already stored, skipping refresh")
		return nil
	}

	rate := uc.CurrentRate(ctx)
	quote := &models.RateQuote{Date: today, Rate: rate, Currency: models.USD, CreatedAt: time.Now()}
	if err := uc.store.Put(ctx, quote); err != nil {
		return fmt.Errorf("store today's rate: %w", err)
	}

	// Best-effort broadcast; the publisher logs its own failures.
	_ = uc.publisher.PublishQuote(ctx, quote)

	uc.l.Info("daily rate refreshed",
		applogger.String("date", today.Format(dateLayout)),
		applogger.String("rate", rate.String()),
	)
	return nil
}
