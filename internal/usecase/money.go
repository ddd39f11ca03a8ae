package usecase

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	twenty  = decimal.NewFromInt(20)
)

// pctChange returns (current-past)/past as a percentage at 2 decimal places,
// half-up. A zero divisor yields 0 rather than an error.
func pctChange(current, past decimal.Decimal) decimal.Decimal {
	if past.IsZero() {
		return decimal.Zero
	}
	return current.Sub(past).DivRound(past, 4).Mul(hundred).Round(2)
}

// ratioFraction converts a percentage like 60 into 0.6 at 4 decimal places,
// half-up, matching the fixed rounding point of the cost formula.
func ratioFraction(pct decimal.Decimal) decimal.Decimal {
	return pct.DivRound(hundred, 4)
}
