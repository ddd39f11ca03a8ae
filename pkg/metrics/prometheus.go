package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	fetchTotal       *prometheus.CounterVec
	fallbackTotal    *prometheus.CounterVec
	lastRate         *prometheus.GaugeVec
	analysisDuration prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxpulse_source_fetch_total",
				Help: "Upstream fetch attempts by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		fallbackTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxpulse_fallback_total",
				Help: "Fallback recoveries by kind (lookback, sentinel, narrative)",
			},
			[]string{"kind"},
		),
		lastRate: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fxpulse_last_rate",
				Help: "Last resolved exchange rate per currency",
			},
			[]string{"currency"},
		),
		analysisDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fxpulse_analysis_duration_seconds",
				Help:    "Wall time of one full analysis computation",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (r *Recorder) RecordFetch(source string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "miss"
	}
	r.fetchTotal.WithLabelValues(source, outcome).Inc()
}

func (r *Recorder) RecordFallback(kind string) {
	r.fallbackTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLastRate(currency string, rate float64) {
	r.lastRate.WithLabelValues(currency).Set(rate)
}

func (r *Recorder) RecordAnalysisDuration(seconds float64) {
	r.analysisDuration.Observe(seconds)
}
