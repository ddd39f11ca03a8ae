package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompanyInput carries the pricing inputs for one analysis run. Values are
// already validated at the HTTP edge (see CompanyInputRequest); the engine
// never mutates them.
type CompanyInput struct {
	MaterialCostUsd  decimal.Decimal `json:"materialCostUsd"`
	MaterialRatio    decimal.Decimal `json:"materialRatio"`
	SellingPriceKrw  decimal.Decimal `json:"sellingPriceKrw"`
	TargetMarginRate decimal.Decimal `json:"targetMarginRate"`
	OtherCostsKrw    decimal.Decimal `json:"otherCostsKrw"`
}

// RealTimeProfitLoss compares today's cost and margin against the 30-day-ago
// snapshot and the configured target.
type RealTimeProfitLoss struct {
	CurrentCost         decimal.Decimal `json:"currentCost"`
	CostChangeRate30Day decimal.Decimal `json:"costChangeRate30Day"`
	CurrentMargin       decimal.Decimal `json:"currentMargin"`
	CurrentMarginRate   decimal.Decimal `json:"currentMarginRate"`
	TargetMargin        decimal.Decimal `json:"targetMargin"`
	TargetMarginRate    decimal.Decimal `json:"targetMarginRate"`
	TargetGap           decimal.Decimal `json:"targetGap"`
	TargetAchieved      bool            `json:"targetAchieved"`
}

// OrderTimingGuide holds the two break points of the inverted cost function.
type OrderTimingGuide struct {
	BreakEvenExchangeRate decimal.Decimal `json:"breakEvenExchangeRate"`
	BreakEvenMessage      string          `json:"breakEvenMessage"`
	TargetExchangeRate    decimal.Decimal `json:"targetExchangeRate"`
	TargetMessage         string          `json:"targetMessage"`
}

// Status levels for ExchangeRateStatus, ordered best to worst.
const (
	StatusExcellent = "EXCELLENT"
	StatusGood      = "GOOD"
	StatusNormal    = "NORMAL"
	StatusWarning   = "WARNING"
	StatusDanger    = "DANGER"
)

// ExchangeRateStatus places the current rate inside a targetRate±75 display
// window and classifies it into one of five bands.
type ExchangeRateStatus struct {
	CurrentRate   decimal.Decimal `json:"currentRate"`
	MinRange      decimal.Decimal `json:"minRange"`
	MaxRange      decimal.Decimal `json:"maxRange"`
	Position      decimal.Decimal `json:"position"`
	StatusLevel   string          `json:"statusLevel"`
	StatusMessage string          `json:"statusMessage"`
	AiEvaluation  string          `json:"aiEvaluation"`
}

// ScenarioAnalysis is one what-if row of the 5-scenario table.
type ScenarioAnalysis struct {
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	Cost         decimal.Decimal `json:"cost"`
	Margin       decimal.Decimal `json:"margin"`
	MarginRate   decimal.Decimal `json:"marginRate"`
	IsCurrent    bool            `json:"isCurrent"`
}

// MarginRateChange is one point of the 21-point margin curve.
type MarginRateChange struct {
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	MarginRate   decimal.Decimal `json:"marginRate"`
}

// DetailedCostAnalysis breaks the total cost down field by field.
// Currency fields are rounded to 0 decimals, percentages to 2.
type DetailedCostAnalysis struct {
	MaterialCostUsd     decimal.Decimal `json:"materialCostUsd"`
	AppliedExchangeRate decimal.Decimal `json:"appliedExchangeRate"`
	MaterialCostKrw     decimal.Decimal `json:"materialCostKrw"`
	OtherCosts          decimal.Decimal `json:"otherCosts"`
	TotalCost           decimal.Decimal `json:"totalCost"`
	SellingPrice        decimal.Decimal `json:"sellingPrice"`
	NetMargin           decimal.Decimal `json:"netMargin"`
	NetMarginRate       decimal.Decimal `json:"netMarginRate"`
}

// AnalysisResult aggregates the seven derived records of one analysis run.
type AnalysisResult struct {
	RealTimeProfitLoss   RealTimeProfitLoss   `json:"realTimeProfitLoss"`
	OrderTimingGuide     OrderTimingGuide     `json:"orderTimingGuide"`
	ExchangeRateStatus   ExchangeRateStatus   `json:"exchangeRateStatus"`
	MonitoringStrategy   string               `json:"monitoringStrategy"`
	ScenarioAnalysisList []ScenarioAnalysis   `json:"scenarioAnalysisList"`
	MarginRateChanges    []MarginRateChange   `json:"marginRateChanges"`
	DetailedCostAnalysis DetailedCostAnalysis `json:"detailedCostAnalysis"`
}

// Dashboard bundles the rate summary, analysis, and the echoed input.
type Dashboard struct {
	ExchangeRate RateSummary    `json:"exchangeRate"`
	Analysis     AnalysisResult `json:"analysis"`
	CompanyInput CompanyInput   `json:"companyInput"`
}

// FinalReport is the AI-written (or fallback) prose report plus the JSON
// context it was generated from.
type FinalReport struct {
	ReportMarkdown   string    `json:"reportMarkdown"`
	AiContextJson    string    `json:"aiContextJson"`
	FullAnalysisJson string    `json:"fullAnalysisJson"`
	GeneratedAt      time.Time `json:"generatedAt"`
}
