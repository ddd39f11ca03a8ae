package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// USD is the only currency code the system tracks.
const USD = "USD"

// SentinelRate is the fixed fallback used only when every live and historical
// source is exhausted. It is stable across a whole response so derived
// scenario math stays internally consistent.
var SentinelRate = decimal.New(138000, -2)

// RateQuote is one resolved USD/KRW rate for a calendar day.
// Immutable once resolved; Rate is always > 0.
type RateQuote struct {
	Date      time.Time       `json:"date"`
	Rate      decimal.Decimal `json:"rate"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"createdAt,omitempty"`
}

// DailyRate is the wire shape for one point of the 30-day series.
type DailyRate struct {
	Date string          `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// RateSummary is the exchange-rate overview returned by GET /api/exchange-rate.
type RateSummary struct {
	CurrentRate     decimal.Decimal `json:"currentRate"`
	ChangeRate1Day  decimal.Decimal `json:"changeRate1Day"`
	ChangeRate7Day  decimal.Decimal `json:"changeRate7Day"`
	ChangeRate30Day decimal.Decimal `json:"changeRate30Day"`

	Rate1DayAgo   decimal.Decimal `json:"rate1DayAgo"`
	Rate7DaysAgo  decimal.Decimal `json:"rate7DaysAgo"`
	Rate30DaysAgo decimal.Decimal `json:"rate30DaysAgo"`

	Last30DaysRates []DailyRate `json:"last30DaysRates"`
	LastUpdated     string      `json:"lastUpdated"`
}
