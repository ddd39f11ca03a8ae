package usecase

import (
	"testing"

	"github.com/shopspring/decimal"

	"FxPulse/internal/domain/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleInput() models.CompanyInput {
	return models.CompanyInput{
		MaterialCostUsd:  dec("1000"),
		MaterialRatio:    dec("60"),
		SellingPriceKrw:  dec("2500000"),
		TargetMarginRate: dec("20"),
		OtherCostsKrw:    dec("200000"),
	}
}

func TestTotalCost(t *testing.T) {
	input := sampleInput()

	tests := []struct {
		rate string
		want string
	}{
		{"1380", "2500000"},
		{"1300", "2366666.67"},
		{"1400", "2533333.33"},
	}

	for _, tt := range tests {
		if got := totalCost(input, dec(tt.rate)); !got.Equal(dec(tt.want)) {
			t.Errorf("totalCost(%s) = %s, want %s", tt.rate, got, tt.want)
		}
	}
}

func TestTotalCostStrictlyIncreasing(t *testing.T) {
	input := sampleInput()
	prev := totalCost(input, dec("1000"))
	for rate := dec("1010"); rate.Cmp(dec("1500")) <= 0; rate = rate.Add(dec("10")) {
		cur := totalCost(input, rate)
		if cur.Cmp(prev) <= 0 {
			t.Fatalf("cost not increasing at rate %s: %s <= %s", rate, cur, prev)
		}
		prev = cur
	}
}

func TestComputeOrderTimingGuide(t *testing.T) {
	guide := computeOrderTimingGuide(sampleInput())

	if !guide.BreakEvenExchangeRate.Equal(dec("1380")) {
		t.Errorf("breakEven = %s, want 1380", guide.BreakEvenExchangeRate)
	}
	if !guide.TargetExchangeRate.Equal(dec("1080")) {
		t.Errorf("target = %s, want 1080", guide.TargetExchangeRate)
	}

	// The inversion must match the forward formula: cost at break-even equals
	// the selling price.
	cost := totalCost(sampleInput(), guide.BreakEvenExchangeRate)
	if cost.Sub(dec("2500000")).Abs().Cmp(dec("0.01")) > 0 {
		t.Errorf("cost(breakEven) = %s, want 2500000 within a cent", cost)
	}
}

func TestTargetRateNeverAboveBreakEven(t *testing.T) {
	for _, margin := range []string{"0", "5", "20", "50", "100"} {
		input := sampleInput()
		input.TargetMarginRate = dec(margin)
		guide := computeOrderTimingGuide(input)
		if guide.TargetExchangeRate.Cmp(guide.BreakEvenExchangeRate) > 0 {
			t.Errorf("margin %s%%: target %s > breakEven %s",
				margin, guide.TargetExchangeRate, guide.BreakEvenExchangeRate)
		}
		if margin == "0" && !guide.TargetExchangeRate.Equal(guide.BreakEvenExchangeRate) {
			t.Errorf("margin 0%%: target %s should coincide with breakEven %s",
				guide.TargetExchangeRate, guide.BreakEvenExchangeRate)
		}
	}
}

func TestComputeRealTimeProfitLoss(t *testing.T) {
	got := computeRealTimeProfitLoss(sampleInput(), dec("1300"), dec("1380"))

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"currentCost", got.CurrentCost, "2366667"},
		{"costChangeRate30Day", got.CostChangeRate30Day, "-5.33"},
		{"currentMargin", got.CurrentMargin, "133333"},
		{"currentMarginRate", got.CurrentMarginRate, "5.33"},
		{"targetMargin", got.TargetMargin, "500000"},
		{"targetGap", got.TargetGap, "-366667"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if got.TargetAchieved {
		t.Error("targetAchieved = true, want false")
	}
}

func TestComputeRateStatusBands(t *testing.T) {
	breakEven := dec("1380")
	target := dec("1080")

	tests := []struct {
		rate string
		want string
	}{
		{"1080", models.StatusExcellent},
		{"1079.99", models.StatusExcellent},
		{"1380", models.StatusGood},
		{"1400", models.StatusNormal},
		{"1420", models.StatusWarning},
		{"1420.01", models.StatusDanger},
	}

	for _, tt := range tests {
		got := computeRateStatus(dec(tt.rate), breakEven, target)
		if got.StatusLevel != tt.want {
			t.Errorf("rate %s: level = %s, want %s", tt.rate, got.StatusLevel, tt.want)
		}
	}
}

func TestComputeRateStatusPosition(t *testing.T) {
	breakEven := dec("1380")
	target := dec("1080")

	tests := []struct {
		rate string
		want string
	}{
		{"1005", "0"},   // window minimum
		{"1080", "50"},  // window center
		{"1155", "100"}, // window maximum
		{"900", "0"},    // clamped low
		{"1380", "100"}, // clamped high
	}

	for _, tt := range tests {
		got := computeRateStatus(dec(tt.rate), breakEven, target)
		if !got.Position.Equal(dec(tt.want)) {
			t.Errorf("rate %s: position = %s, want %s", tt.rate, got.Position, tt.want)
		}
	}
}

func TestComputeScenarios(t *testing.T) {
	scenarios := computeScenarios(sampleInput(), dec("1384.5"))

	if len(scenarios) != 5 {
		t.Fatalf("len = %d, want 5", len(scenarios))
	}

	wantRates := []string{"1340", "1360", "1380", "1400", "1420"}
	currents := 0
	for i, s := range scenarios {
		if !s.ExchangeRate.Equal(dec(wantRates[i])) {
			t.Errorf("scenario %d rate = %s, want %s", i, s.ExchangeRate, wantRates[i])
		}
		if i > 0 && s.ExchangeRate.Cmp(scenarios[i-1].ExchangeRate) <= 0 {
			t.Errorf("scenarios not ascending at %d", i)
		}
		if s.IsCurrent {
			currents++
			if !s.ExchangeRate.Equal(dec("1380")) {
				t.Errorf("current scenario at %s, want 1380", s.ExchangeRate)
			}
		}
	}
	if currents != 1 {
		t.Errorf("current scenarios = %d, want exactly 1", currents)
	}
}

func TestComputeMarginCurve(t *testing.T) {
	curve := computeMarginCurve(sampleInput(), dec("1380"))

	if len(curve) != 21 {
		t.Fatalf("len = %d, want 21", len(curve))
	}
	if !curve[0].ExchangeRate.Equal(dec("1280")) {
		t.Errorf("first point = %s, want 1280", curve[0].ExchangeRate)
	}
	if !curve[20].ExchangeRate.Equal(dec("1480")) {
		t.Errorf("last point = %s, want 1480", curve[20].ExchangeRate)
	}
	for i := 1; i < len(curve); i++ {
		step := curve[i].ExchangeRate.Sub(curve[i-1].ExchangeRate)
		if !step.Equal(dec("10")) {
			t.Fatalf("step at %d = %s, want 10", i, step)
		}
		// Higher rate means higher cost, hence lower margin.
		if curve[i].MarginRate.Cmp(curve[i-1].MarginRate) >= 0 {
			t.Fatalf("margin rate not decreasing at %d", i)
		}
	}
	// The break-even point sits in the middle of this window.
	if !curve[10].MarginRate.Equal(dec("0")) {
		t.Errorf("margin at 1380 = %s, want 0", curve[10].MarginRate)
	}
}

func TestComputeDetailedCost(t *testing.T) {
	tests := []struct {
		rate          string
		wantMatKrw    string
		wantTotal     string
		wantNetMargin string
		wantNetRate   string
	}{
		{"1380", "1380000", "2500000", "0", "0"},
		{"1300", "1300000", "2366667", "133333", "5.33"},
	}

	for _, tt := range tests {
		got := computeDetailedCost(sampleInput(), dec(tt.rate))
		if !got.MaterialCostKrw.Equal(dec(tt.wantMatKrw)) {
			t.Errorf("rate %s: materialCostKrw = %s, want %s", tt.rate, got.MaterialCostKrw, tt.wantMatKrw)
		}
		if !got.TotalCost.Equal(dec(tt.wantTotal)) {
			t.Errorf("rate %s: totalCost = %s, want %s", tt.rate, got.TotalCost, tt.wantTotal)
		}
		if !got.NetMargin.Equal(dec(tt.wantNetMargin)) {
			t.Errorf("rate %s: netMargin = %s, want %s", tt.rate, got.NetMargin, tt.wantNetMargin)
		}
		if !got.NetMarginRate.Equal(dec(tt.wantNetRate)) {
			t.Errorf("rate %s: netMarginRate = %s, want %s", tt.rate, got.NetMarginRate, tt.wantNetRate)
		}
	}
}

func TestPctChange(t *testing.T) {
	tests := []struct {
		name    string
		current string
		past    string
		want    string
	}{
		{"rise", "1400", "1380", "1.45"},
		{"fall", "1300", "1380", "-5.8"},
		{"flat", "1380", "1380", "0"},
		{"zero divisor", "1380", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pctChange(dec(tt.current), dec(tt.past)); !got.Equal(dec(tt.want)) {
				t.Errorf("pctChange(%s, %s) = %s, want %s", tt.current, tt.past, got, tt.want)
			}
		})
	}
}
