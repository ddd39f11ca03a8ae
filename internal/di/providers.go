package di

import (
	"context"
	"fmt"
	"time"

	domrepo "FxPulse/internal/domain/repository"
	domsvc "FxPulse/internal/domain/service"
	"FxPulse/internal/handler/api"
	internalrepo "FxPulse/internal/repository"
	"FxPulse/internal/scheduler"
	"FxPulse/internal/service/cache"
	"FxPulse/internal/service/narrative"
	"FxPulse/internal/service/sources"
	"FxPulse/internal/usecase"
	pkgch "FxPulse/pkg/clickhouse"
	"FxPulse/pkg/config"
	xhttp "FxPulse/pkg/http"
	pkgkafka "FxPulse/pkg/kafka"
	applogger "FxPulse/pkg/logger"
	"FxPulse/pkg/metrics"
	"FxPulse/pkg/server"
)

// localClock reports "today" as the calendar date in the configured timezone,
// normalized to midnight UTC so date keys compare cleanly.
type localClock struct {
	loc *time.Location
}

func (c localClock) Today() time.Time {
	y, m, d := time.Now().In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideClock creates the timezone-aware calendar clock.
func ProvideClock(cfg *config.Config) (domrepo.Clock, error) {
	loc, err := time.LoadLocation(cfg.Sources.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Sources.Timezone, err)
	}
	return localClock{loc: loc}, nil
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and runs the schema DDL.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideBytesCache picks redis when configured, in-process TTL cache otherwise.
func ProvideBytesCache(cfg *config.Config) cache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return cache.NewTTLCache()
}

// ProvideRateStore creates the ClickHouse store wrapped with the quote cache.
func ProvideRateStore(chClient *pkgch.Client, c cache.BytesCache, cfg *config.Config, l *applogger.Logger) domrepo.RateStore {
	store := internalrepo.NewCHRateStore(chClient, l)
	return internalrepo.NewCachedRateStore(store, c, cfg.Cache.TTL, l)
}

// ProvideRatePublisher creates the Kafka publisher, or a no-op when disabled.
func ProvideRatePublisher(cfg *config.Config, l *applogger.Logger) (domrepo.RatePublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopRatePublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaRatePublisher(producer, cfg.Kafka.Topic, l), nil
}

// ProvideNarrative creates the Claude-backed writer, or pure templates when no
// API key is configured.
func ProvideNarrative(cfg *config.Config, l *applogger.Logger) domsvc.Narrative {
	if cfg.Narrative.APIKey == "" {
		return narrative.NewFallback()
	}
	return narrative.NewClaude(
		cfg.Narrative.APIKey,
		cfg.Narrative.Model,
		int64(cfg.Narrative.MaxTokens),
		cfg.Narrative.Timeout,
		l,
	)
}

// ProvideRatesUseCase builds the acquisition pipeline with its source chain.
func ProvideRatesUseCase(
	cfg *config.Config,
	store domrepo.RateStore,
	publisher domrepo.RatePublisher,
	clock domrepo.Clock,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.RatesUseCase {
	timeout := cfg.Sources.Timeout
	return usecase.NewRatesUseCase(
		sources.NewNaverScrape(cfg.Sources.NaverURL, timeout),
		sources.NewKoreaExim(cfg.Sources.KoreaeximURL, cfg.Sources.KoreaeximAPIKey, timeout),
		sources.NewBackup(cfg.Sources.BackupURL, timeout),
		sources.NewSentinel(),
		store, publisher, clock, m,
		cfg.Sources.LookbackDays, cfg.Sources.WindowDays,
		l,
	)
}

// ProvideAnalysisUseCase creates the analysis engine.
func ProvideAnalysisUseCase(rates *usecase.RatesUseCase, n domsvc.Narrative, m domrepo.Metrics) *usecase.AnalysisUseCase {
	return usecase.NewAnalysisUseCase(rates, n, m)
}

// ProvideReportUseCase creates the final-report orchestrator.
func ProvideReportUseCase(rates *usecase.RatesUseCase, analysis *usecase.AnalysisUseCase, n domsvc.Narrative, l *applogger.Logger) *usecase.ReportUseCase {
	return usecase.NewReportUseCase(rates, analysis, n, l)
}

// ProvideHandler creates the HTTP route handler.
func ProvideHandler(
	l *applogger.Logger,
	rates *usecase.RatesUseCase,
	analysis *usecase.AnalysisUseCase,
	report *usecase.ReportUseCase,
) xhttp.Handler {
	return api.NewAnalysisHandler(l, rates, analysis, report)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	rates *usecase.RatesUseCase,
	sched *scheduler.Scheduler,
	handler xhttp.Handler,
	store domrepo.RateStore,
	publisher domrepo.RatePublisher,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, l, rates, sched, handler, store, publisher, chClient)
}

// ProvideScheduler creates the daily refresh scheduler, nil when disabled.
func ProvideScheduler(cfg *config.Config, rates *usecase.RatesUseCase, l *applogger.Logger) (*scheduler.Scheduler, error) {
	if !cfg.Scheduler.Enabled {
		return nil, nil
	}
	s, err := scheduler.New(rates, cfg.Sources.Timezone, l)
	if err != nil {
		return nil, err
	}
	if err := s.Register(cfg.Scheduler.RefreshCron); err != nil {
		return nil, err
	}
	return s, nil
}
