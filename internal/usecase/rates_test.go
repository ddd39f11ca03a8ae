package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"FxPulse/internal/domain/models"
	applogger "FxPulse/pkg/logger"
)

// scriptedSource serves fixed rates per date key and counts its calls.
type scriptedSource struct {
	name  string
	rates map[string]string
	err   error
	calls int
}

func (s *scriptedSource) Name() string { return s.name }

func (s *scriptedSource) Fetch(_ context.Context, date time.Time) (decimal.Decimal, bool, error) {
	s.calls++
	if s.err != nil {
		return decimal.Zero, false, s.err
	}
	if raw, ok := s.rates[date.Format(dateLayout)]; ok {
		return dec(raw), true, nil
	}
	return decimal.Zero, false, nil
}

type memStore struct {
	m map[string]*models.RateQuote
}

func newMemStore() *memStore { return &memStore{m: make(map[string]*models.RateQuote)} }

func (s *memStore) key(date time.Time, currency string) string {
	return currency + ":" + date.Format(dateLayout)
}

func (s *memStore) Get(_ context.Context, date time.Time, currency string) (*models.RateQuote, error) {
	return s.m[s.key(date, currency)], nil
}

func (s *memStore) Put(_ context.Context, q *models.RateQuote) error {
	cp := *q
	s.m[s.key(q.Date, q.Currency)] = &cp
	return nil
}

func (s *memStore) ExistsForDate(_ context.Context, date time.Time, currency string) (bool, error) {
	_, ok := s.m[s.key(date, currency)]
	return ok, nil
}

func (s *memStore) LatestForCurrency(_ context.Context, currency string) (*models.RateQuote, error) {
	var latest *models.RateQuote
	for _, q := range s.m {
		if q.Currency != currency {
			continue
		}
		if latest == nil || q.Date.After(latest.Date) {
			latest = q
		}
	}
	return latest, nil
}

func (s *memStore) Range(_ context.Context, from time.Time, currency string) ([]models.RateQuote, error) {
	out := make([]models.RateQuote, 0)
	for _, q := range s.m {
		if q.Currency == currency && !q.Date.Before(from) {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (s *memStore) Count(_ context.Context) (int64, error) { return int64(len(s.m)), nil }
func (s *memStore) Close() error                           { return nil }

type recordingPublisher struct {
	published []*models.RateQuote
}

func (p *recordingPublisher) PublishQuote(_ context.Context, q *models.RateQuote) error {
	p.published = append(p.published, q)
	return nil
}
func (p *recordingPublisher) Close() error { return nil }

type fixedClock struct{ t time.Time }

func (c fixedClock) Today() time.Time { return c.t }

type nopMetrics struct{}

func (nopMetrics) RecordFetch(string, bool)      {}
func (nopMetrics) RecordFallback(string)         {}
func (nopMetrics) RecordLastRate(string, float64) {}
func (nopMetrics) RecordAnalysisDuration(float64) {}

type sentinelSource struct{}

func (sentinelSource) Name() string { return "sentinel" }
func (sentinelSource) Fetch(context.Context, time.Time) (decimal.Decimal, bool, error) {
	return models.SentinelRate, true, nil
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

// today is a Friday so weekday math in the fixtures is easy to follow.
var testToday = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

type fixture struct {
	live          *scriptedSource
	institutional *scriptedSource
	backup        *scriptedSource
	store         *memStore
	publisher     *recordingPublisher
	uc            *RatesUseCase
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		live:          &scriptedSource{name: "naver", rates: map[string]string{}},
		institutional: &scriptedSource{name: "koreaexim", rates: map[string]string{}},
		backup:        &scriptedSource{name: "backup", rates: map[string]string{}},
		store:         newMemStore(),
		publisher:     &recordingPublisher{},
	}
	f.uc = NewRatesUseCase(
		f.live, f.institutional, f.backup, sentinelSource{},
		f.store, f.publisher, fixedClock{t: testToday}, nopMetrics{},
		7, 30, testLogger(t),
	)
	return f
}

func TestCurrentRateChain(t *testing.T) {
	today := testToday.Format(dateLayout)
	yesterday := testToday.AddDate(0, 0, -1).Format(dateLayout)

	tests := []struct {
		name  string
		setup func(*fixture)
		want  string
	}{
		{
			name: "live scrape wins",
			setup: func(f *fixture) {
				f.live.rates[today] = "1384.2"
				f.institutional.rates[today] = "1380.5"
			},
			want: "1384.2",
		},
		{
			name: "institutional today when scrape fails",
			setup: func(f *fixture) {
				f.live.err = errors.New("scrape broke")
				f.institutional.rates[today] = "1380.5"
			},
			want: "1380.5",
		},
		{
			name: "institutional yesterday when today unpublished",
			setup: func(f *fixture) {
				f.institutional.rates[yesterday] = "1379"
			},
			want: "1379",
		},
		{
			name: "backup when institutional dark",
			setup: func(f *fixture) {
				f.institutional.err = errors.New("api down")
				f.backup.rates[today] = "1382.7"
			},
			want: "1382.7",
		},
		{
			name:  "sentinel when everything is absent",
			setup: func(*fixture) {},
			want:  "1380",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)
			got := f.uc.CurrentRate(context.Background())
			if !got.Equal(dec(tt.want)) {
				t.Errorf("CurrentRate = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHistoricalSeriesFillsGaps(t *testing.T) {
	f := newFixture(t)
	// Publish rates for weekdays only; the two weekend days must inherit
	// Friday's value through the lookback walk.
	for i := 0; i < 40; i++ {
		d := testToday.AddDate(0, 0, -i)
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		f.institutional.rates[d.Format(dateLayout)] = "1380." + d.Format("02")
	}

	series := f.uc.HistoricalSeries(context.Background(), 30)

	if len(series) != 30 {
		t.Fatalf("len = %d, want 30", len(series))
	}
	for i, q := range series {
		wantDate := testToday.AddDate(0, 0, -(29 - i))
		if !q.Date.Equal(wantDate) {
			t.Errorf("series[%d].Date = %s, want %s", i, q.Date.Format(dateLayout), wantDate.Format(dateLayout))
		}
		if q.Rate.Sign() <= 0 {
			t.Errorf("series[%d] has non-positive rate %s", i, q.Rate)
		}
	}

	// Sunday 2026-08-23 inherits Friday 2026-08-21's rate.
	sunday := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	friday := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	var sundayRate, fridayRate decimal.Decimal
	for _, q := range series {
		switch {
		case q.Date.Equal(sunday):
			sundayRate = q.Rate
		case q.Date.Equal(friday):
			fridayRate = q.Rate
		}
	}
	if !sundayRate.Equal(fridayRate) {
		t.Errorf("sunday rate %s, want friday's %s", sundayRate, fridayRate)
	}
}

func TestHistoricalSeriesSentinelOnExhaustion(t *testing.T) {
	f := newFixture(t)
	f.institutional.err = errors.New("api permanently down")

	series := f.uc.HistoricalSeries(context.Background(), 30)

	if len(series) != 30 {
		t.Fatalf("len = %d, want 30", len(series))
	}
	for i, q := range series {
		if !q.Rate.Equal(models.SentinelRate) {
			t.Errorf("series[%d].Rate = %s, want sentinel %s", i, q.Rate, models.SentinelRate)
		}
	}
}

func TestHistoricalSeriesCachesWithinCall(t *testing.T) {
	f := newFixture(t)
	// A single published day far enough back to cover every lookback walk.
	for i := 0; i < 37; i++ {
		d := testToday.AddDate(0, 0, -i)
		f.institutional.rates[d.Format(dateLayout)] = "1381"
	}

	f.uc.HistoricalSeries(context.Background(), 30)

	// Every requested day resolves on its first fetch, so exactly one upstream
	// call per day.
	if f.institutional.calls != 30 {
		t.Errorf("institutional calls = %d, want 30", f.institutional.calls)
	}
}

func TestHistoricalSeriesIdempotentViaStore(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 37; i++ {
		d := testToday.AddDate(0, 0, -i)
		f.institutional.rates[d.Format(dateLayout)] = "1381.5"
	}

	first := f.uc.HistoricalSeries(context.Background(), 30)
	callsAfterFirst := f.institutional.calls
	second := f.uc.HistoricalSeries(context.Background(), 30)

	if f.institutional.calls != callsAfterFirst {
		t.Errorf("second call hit upstream %d more times, want 0", f.institutional.calls-callsAfterFirst)
	}
	for i := range first {
		if !first[i].Rate.Equal(second[i].Rate) || !first[i].Date.Equal(second[i].Date) {
			t.Errorf("series diverged at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestSummaryChangeRates(t *testing.T) {
	f := newFixture(t)
	f.live.rates[testToday.Format(dateLayout)] = "1400"
	for i := 0; i < 37; i++ {
		d := testToday.AddDate(0, 0, -i)
		f.institutional.rates[d.Format(dateLayout)] = "1380"
	}

	summary := f.uc.Summary(context.Background())

	if !summary.CurrentRate.Equal(dec("1400")) {
		t.Errorf("currentRate = %s, want 1400", summary.CurrentRate)
	}
	if !summary.Rate1DayAgo.Equal(dec("1380")) {
		t.Errorf("rate1DayAgo = %s, want 1380", summary.Rate1DayAgo)
	}
	if !summary.ChangeRate1Day.Equal(dec("1.45")) {
		t.Errorf("changeRate1Day = %s, want 1.45", summary.ChangeRate1Day)
	}
	// Day 30 lies outside the 30-point window, so the comparison falls back
	// to the current rate and the change reads zero.
	if !summary.Rate30DaysAgo.Equal(dec("1400")) {
		t.Errorf("rate30DaysAgo = %s, want 1400", summary.Rate30DaysAgo)
	}
	if !summary.ChangeRate30Day.IsZero() {
		t.Errorf("changeRate30Day = %s, want 0", summary.ChangeRate30Day)
	}
	if len(summary.Last30DaysRates) != 30 {
		t.Errorf("series len = %d, want 30", len(summary.Last30DaysRates))
	}
	if summary.LastUpdated != testToday.Format(dateLayout) {
		t.Errorf("lastUpdated = %s, want %s", summary.LastUpdated, testToday.Format(dateLayout))
	}
}

func TestBackfill(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 37; i++ {
		d := testToday.AddDate(0, 0, -i)
		f.institutional.rates[d.Format(dateLayout)] = "1381"
	}

	if err := f.uc.Backfill(context.Background()); err != nil {
		t.Fatalf("backfill: %v", err)
	}
	n, _ := f.store.Count(context.Background())
	if n != 30 {
		t.Errorf("store rows = %d, want 30", n)
	}

	// A populated store makes backfill a no-op.
	calls := f.institutional.calls
	if err := f.uc.Backfill(context.Background()); err != nil {
		t.Fatalf("second backfill: %v", err)
	}
	if f.institutional.calls != calls {
		t.Error("second backfill hit upstream, want no-op")
	}
}

func TestRefreshToday(t *testing.T) {
	f := newFixture(t)
	f.live.rates[testToday.Format(dateLayout)] = "1391.3"

	if err := f.uc.RefreshToday(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	quote, _ := f.store.Get(context.Background(), testToday, models.USD)
	if quote == nil || !quote.Rate.Equal(dec("1391.3")) {
		t.Fatalf("stored quote = %v, want rate 1391.3", quote)
	}
	if len(f.publisher.published) != 1 {
		t.Fatalf("published = %d quotes, want 1", len(f.publisher.published))
	}

	// A second run on the same day must not write or publish again.
	if err := f.uc.RefreshToday(context.Background()); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if len(f.publisher.published) != 1 {
		t.Errorf("published = %d quotes after rerun, want still 1", len(f.publisher.published))
	}
}
