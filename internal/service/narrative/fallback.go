package narrative

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Fallback produces deterministic narrative text from the numbers alone. It is
// both the no-API-key implementation and the degradation target when the
// model call fails.
type Fallback struct{}

// NewFallback creates the template-based narrative writer.
func NewFallback() *Fallback { return &Fallback{} }

func (f *Fallback) Evaluate(_ context.Context, currentRate, breakEvenRate, targetRate, targetMarginRate decimal.Decimal) string {
	current, _ := currentRate.Float64()
	breakEven, _ := breakEvenRate.Float64()
	target, _ := targetRate.Float64()
	margin, _ := targetMarginRate.Float64()

	switch {
	case currentRate.Cmp(targetRate) <= 0:
		return fmt.Sprintf(
			"The current rate (%.1f KRW/USD) sits in the optimal band where the %.1f%% target margin is achievable. "+
				"Aggressive ordering is recommended; consider building inventory before the rate climbs.",
			current, margin)
	case currentRate.Cmp(breakEvenRate) <= 0:
		return fmt.Sprintf(
			"The current rate (%.1f KRW/USD) keeps orders profitable but falls short of the target margin. "+
				"Selective ordering of essential volume is recommended.",
			current)
	default:
		return fmt.Sprintf(
			"The current rate (%.1f KRW/USD) exceeds the break-even rate (%.1f KRW/USD), so orders risk a loss. "+
				"If possible, delay ordering and wait for the rate to fall toward %.1f KRW/USD.",
			current, breakEven, target)
	}
}

func (f *Fallback) MonitoringStrategy(_ context.Context, _, _, targetRate, _ decimal.Decimal) string {
	target, _ := targetRate.Float64()
	return fmt.Sprintf(
		"1. Review an immediate order whenever the rate drops to %.1f KRW/USD or below.\n\n"+
			"2. If the rate is trending up, consider a forward contract to lock the rate in.\n\n"+
			"3. Manage rate exposure against the 30-day inventory holding period.",
		target)
}

func (f *Fallback) FinalReport(_ context.Context, summaryJSON, analysisJSON string) string {
	return fmt.Sprintf(
		"# Auto-Generated Report (Fallback)\n\n"+
			"## Summary\n"+
			"The narrative service was unavailable, so this report carries the raw analysis output only.\n\n"+
			"## Rate Summary\n```json\n%s\n```\n\n"+
			"## Full Analysis\n```json\n%s\n```\n\n"+
			"## Recommendation\n"+
			"- If the rate is near break-even, consider splitting orders and hedging.\n"+
			"- Review the numbers manually when the generated report is unavailable.\n",
		summaryJSON, analysisJSON)
}
