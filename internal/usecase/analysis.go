package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"FxPulse/internal/domain/models"
	domrepo "FxPulse/internal/domain/repository"
	domsvc "FxPulse/internal/domain/service"
)

var (
	seventyFive = decimal.NewFromInt(75)
	rangeWidth  = decimal.NewFromInt(150)
)

// AnalysisUseCase runs the profit/loss engine over a fresh rate snapshot.
// The numeric computation is pure; only the rate summary and the narrative
// calls touch I/O.
type AnalysisUseCase struct {
	rates     *RatesUseCase
	narrative domsvc.Narrative
	metrics   domrepo.Metrics
}

func NewAnalysisUseCase(rates *RatesUseCase, narrative domsvc.Narrative, metrics domrepo.Metrics) *AnalysisUseCase {
	return &AnalysisUseCase{rates: rates, narrative: narrative, metrics: metrics}
}

// Analyze produces the full analysis for one company input. Always returns a
// fully populated result; the engine itself cannot fail.
func (uc *AnalysisUseCase) Analyze(ctx context.Context, input models.CompanyInput) *models.AnalysisResult {
	summary := uc.rates.Summary(ctx)
	return uc.analyzeWithSummary(ctx, input, summary)
}

// Dashboard bundles the summary, the analysis over it, and the echoed input
// into one response, sharing a single rate snapshot.
func (uc *AnalysisUseCase) Dashboard(ctx context.Context, input models.CompanyInput) *models.Dashboard {
	summary := uc.rates.Summary(ctx)
	analysis := uc.analyzeWithSummary(ctx, input, summary)
	return &models.Dashboard{
		ExchangeRate: *summary,
		Analysis:     *analysis,
		CompanyInput: input,
	}
}

func (uc *AnalysisUseCase) analyzeWithSummary(ctx context.Context, input models.CompanyInput, summary *models.RateSummary) *models.AnalysisResult {
	start := time.Now()
	current := summary.CurrentRate

	profitLoss := computeRealTimeProfitLoss(input, current, summary.Rate30DaysAgo)
	guide := computeOrderTimingGuide(input)
	status := computeRateStatus(current, guide.BreakEvenExchangeRate, guide.TargetExchangeRate)
	status.AiEvaluation = uc.narrative.Evaluate(ctx, current, guide.BreakEvenExchangeRate, guide.TargetExchangeRate, input.TargetMarginRate)
	strategy := uc.narrative.MonitoringStrategy(ctx, current, guide.BreakEvenExchangeRate, guide.TargetExchangeRate, summary.ChangeRate30Day)

	result := &models.AnalysisResult{
		RealTimeProfitLoss:   profitLoss,
		OrderTimingGuide:     guide,
		ExchangeRateStatus:   status,
		MonitoringStrategy:   strategy,
		ScenarioAnalysisList: computeScenarios(input, current),
		MarginRateChanges:    computeMarginCurve(input, current),
		DetailedCostAnalysis: computeDetailedCost(input, current),
	}

	uc.metrics.RecordAnalysisDuration(time.Since(start).Seconds())
	return result
}

// totalCost is the single cost formula every downstream calculation reuses:
// material cost in KRW, inflated by the material ratio, plus the other costs.
// The ratio fraction is fixed at 4 decimal places, the division at 2.
func totalCost(input models.CompanyInput, rate decimal.Decimal) decimal.Decimal {
	materialKrw := input.MaterialCostUsd.Mul(rate)
	return materialKrw.DivRound(ratioFraction(input.MaterialRatio), 2).Add(input.OtherCostsKrw)
}

func computeRealTimeProfitLoss(input models.CompanyInput, currentRate, rate30DaysAgo decimal.Decimal) models.RealTimeProfitLoss {
	currentCost := totalCost(input, currentRate)
	cost30DaysAgo := totalCost(input, rate30DaysAgo)

	currentMargin := input.SellingPriceKrw.Sub(currentCost)
	currentMarginRate := currentMargin.DivRound(input.SellingPriceKrw, 4).Mul(hundred).Round(2)

	targetMargin := input.SellingPriceKrw.Mul(input.TargetMarginRate).DivRound(hundred, 2)
	targetGap := currentMargin.Sub(targetMargin)

	return models.RealTimeProfitLoss{
		CurrentCost:         currentCost.Round(0),
		CostChangeRate30Day: pctChange(currentCost, cost30DaysAgo),
		CurrentMargin:       currentMargin.Round(0),
		CurrentMarginRate:   currentMarginRate,
		TargetMargin:        targetMargin.Round(0),
		TargetMarginRate:    input.TargetMarginRate,
		TargetGap:           targetGap.Round(0),
		TargetAchieved:      targetGap.Sign() >= 0,
	}
}

// computeOrderTimingGuide inverts the cost function at two break points:
// cost(rate) == sellingPrice, and cost(rate) == sellingPrice·(1−targetMargin).
func computeOrderTimingGuide(input models.CompanyInput) models.OrderTimingGuide {
	ratio := ratioFraction(input.MaterialRatio)

	breakEven := input.SellingPriceKrw.
		Sub(input.OtherCostsKrw).
		Mul(ratio).
		DivRound(input.MaterialCostUsd, 2)

	marginFraction := ratioFraction(input.TargetMarginRate)
	maxAllowedCost := input.SellingPriceKrw.Mul(decimal.NewFromInt(1).Sub(marginFraction))
	target := maxAllowedCost.
		Sub(input.OtherCostsKrw).
		Mul(ratio).
		DivRound(input.MaterialCostUsd, 2)

	be, _ := breakEven.Float64()
	tm, _ := input.TargetMarginRate.Float64()

	return models.OrderTimingGuide{
		BreakEvenExchangeRate: breakEven,
		BreakEvenMessage:      fmt.Sprintf("Orders placed at %.1f KRW/USD or below turn a profit", be),
		TargetExchangeRate:    target,
		TargetMessage:         fmt.Sprintf("Target margin of %.1f%% achievable", tm),
	}
}

func computeRateStatus(currentRate, breakEvenRate, targetRate decimal.Decimal) models.ExchangeRateStatus {
	minRange := targetRate.Sub(seventyFive)
	maxRange := targetRate.Add(seventyFive)

	position := currentRate.Sub(minRange).DivRound(rangeWidth, 4).Mul(hundred).Round(1)
	if position.Sign() < 0 {
		position = decimal.Zero
	}
	if position.Cmp(hundred) > 0 {
		position = hundred
	}

	var level, message string
	switch {
	case currentRate.Cmp(targetRate) <= 0:
		level, message = models.StatusExcellent, "Optimal ordering band (strongly recommended)"
	case currentRate.Cmp(breakEvenRate) <= 0:
		level, message = models.StatusGood, "Favorable ordering band (recommended)"
	case currentRate.Cmp(breakEvenRate.Add(twenty)) <= 0:
		level, message = models.StatusNormal, "Neutral band (order selectively)"
	case currentRate.Cmp(breakEvenRate.Add(twenty.Mul(decimal.NewFromInt(2)))) <= 0:
		level, message = models.StatusWarning, "Caution band (hold back orders)"
	default:
		level, message = models.StatusDanger, "Danger band (delay orders)"
	}

	return models.ExchangeRateStatus{
		CurrentRate:   currentRate,
		MinRange:      minRange,
		MaxRange:      maxRange,
		Position:      position,
		StatusLevel:   level,
		StatusMessage: message,
	}
}

// computeScenarios rounds the current rate to the nearest 20 and builds the
// 5-row what-if table at offsets -40..+40. Exactly one row is flagged current.
func computeScenarios(input models.CompanyInput, currentRate decimal.Decimal) []models.ScenarioAnalysis {
	rounded := currentRate.DivRound(twenty, 0).Mul(twenty)

	scenarios := make([]models.ScenarioAnalysis, 0, 5)
	for i := -2; i <= 2; i++ {
		rate := rounded.Add(twenty.Mul(decimal.NewFromInt(int64(i))))
		cost := totalCost(input, rate)
		margin := input.SellingPriceKrw.Sub(cost)
		marginRate := margin.DivRound(input.SellingPriceKrw, 4).Mul(hundred).Round(2)

		scenarios = append(scenarios, models.ScenarioAnalysis{
			ExchangeRate: rate,
			Cost:         cost.Round(0),
			Margin:       margin.Round(0),
			MarginRate:   marginRate,
			IsCurrent:    i == 0,
		})
	}
	return scenarios
}

// computeMarginCurve charts the margin rate across currentRate±100 in steps of
// 10, always exactly 21 points.
func computeMarginCurve(input models.CompanyInput, currentRate decimal.Decimal) []models.MarginRateChange {
	ten := decimal.NewFromInt(10)
	start := currentRate.Sub(hundred)

	curve := make([]models.MarginRateChange, 0, 21)
	for i := 0; i <= 20; i++ {
		rate := start.Add(ten.Mul(decimal.NewFromInt(int64(i))))
		margin := input.SellingPriceKrw.Sub(totalCost(input, rate))
		marginRate := margin.DivRound(input.SellingPriceKrw, 4).Mul(hundred).Round(2)
		curve = append(curve, models.MarginRateChange{ExchangeRate: rate, MarginRate: marginRate})
	}
	return curve
}

// computeDetailedCost rounds the material cost to whole KRW before inflating
// it, so the breakdown's total can differ by a few KRW from the scenario cost.
func computeDetailedCost(input models.CompanyInput, currentRate decimal.Decimal) models.DetailedCostAnalysis {
	materialKrw := input.MaterialCostUsd.Mul(currentRate).Round(0)
	total := materialKrw.DivRound(ratioFraction(input.MaterialRatio), 0).Add(input.OtherCostsKrw)

	netMargin := input.SellingPriceKrw.Sub(total)
	netMarginRate := netMargin.DivRound(input.SellingPriceKrw, 4).Mul(hundred).Round(2)

	return models.DetailedCostAnalysis{
		MaterialCostUsd:     input.MaterialCostUsd,
		AppliedExchangeRate: currentRate,
		MaterialCostKrw:     materialKrw,
		OtherCosts:          input.OtherCostsKrw,
		TotalCost:           total,
		SellingPrice:        input.SellingPriceKrw,
		NetMargin:           netMargin,
		NetMarginRate:       netMarginRate,
	}
}
