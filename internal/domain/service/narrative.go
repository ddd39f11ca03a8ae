package service

import (
	"context"

	"github.com/shopspring/decimal"
)

// Narrative turns numeric analysis context into human-readable prose. Every
// implementation must degrade to deterministic template text when the backing
// service is unconfigured or fails; callers never receive an empty string.
type Narrative interface {
	// Evaluate explains the current-rate position against the two break
	// points. Only numeric inputs cross this boundary, never company identity.
	Evaluate(ctx context.Context, currentRate, breakEvenRate, targetRate, targetMarginRate decimal.Decimal) string

	// MonitoringStrategy proposes watch points and hedging advice.
	MonitoringStrategy(ctx context.Context, currentRate, breakEvenRate, targetRate, changeRate30Day decimal.Decimal) string

	// FinalReport writes the long-form report from the two JSON payloads.
	FinalReport(ctx context.Context, summaryJSON, analysisJSON string) string
}
