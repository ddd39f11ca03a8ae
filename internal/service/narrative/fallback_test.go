package narrative

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFallbackEvaluateBands(t *testing.T) {
	f := NewFallback()
	breakEven := dec("1380")
	target := dec("1320")
	margin := dec("20")

	tests := []struct {
		name    string
		current string
		want    string
	}{
		{"at or below target", "1310", "optimal band"},
		{"between target and break even", "1360", "falls short of the target margin"},
		{"above break even", "1405", "risk a loss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Evaluate(context.Background(), dec(tt.current), breakEven, target, margin)
			if got == "" {
				t.Fatal("evaluation must never be blank")
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("evaluation %q does not mention %q", got, tt.want)
			}
		})
	}
}

func TestFallbackMonitoringStrategyMentionsTarget(t *testing.T) {
	f := NewFallback()
	got := f.MonitoringStrategy(context.Background(), dec("1384"), dec("1380"), dec("1322.5"), dec("-1.2"))
	if !strings.Contains(got, "1322.5") {
		t.Errorf("strategy %q does not carry the target rate", got)
	}
}

func TestFallbackFinalReportEmbedsPayloads(t *testing.T) {
	f := NewFallback()
	got := f.FinalReport(context.Background(), `{"currentRate":"1384.5"}`, `{"realTimeProfitLoss":{}}`)
	if !strings.Contains(got, `"currentRate":"1384.5"`) {
		t.Error("report does not embed the rate summary JSON")
	}
	if !strings.Contains(got, "realTimeProfitLoss") {
		t.Error("report does not embed the analysis JSON")
	}
}
