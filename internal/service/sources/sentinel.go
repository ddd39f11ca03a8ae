package sources

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"FxPulse/internal/domain/models"
)

// Sentinel is the terminal entry of the source chain. It always succeeds with
// a fixed fallback rate so the pipeline never returns an empty current rate.
type Sentinel struct{}

// NewSentinel creates the fixed-rate fallback source.
func NewSentinel() *Sentinel { return &Sentinel{} }

func (s *Sentinel) Name() string { return "sentinel" }

func (s *Sentinel) Fetch(_ context.Context, _ time.Time) (decimal.Decimal, bool, error) {
	return models.SentinelRate, true, nil
}
