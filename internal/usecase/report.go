package usecase

import (
	"context"
	"encoding/json"
	"time"

	"FxPulse/internal/domain/models"
	domsvc "FxPulse/internal/domain/service"
	applogger "FxPulse/pkg/logger"
)

// ReportUseCase assembles the long-form report: it gathers the rate summary
// and the full analysis as JSON and hands both to the narrative writer.
// Serialization failures degrade to "{}" so the report is always produced.
type ReportUseCase struct {
	rates     *RatesUseCase
	analysis  *AnalysisUseCase
	narrative domsvc.Narrative
	l         *applogger.Logger
}

func NewReportUseCase(rates *RatesUseCase, analysis *AnalysisUseCase, narrative domsvc.Narrative, l *applogger.Logger) *ReportUseCase {
	return &ReportUseCase{rates: rates, analysis: analysis, narrative: narrative, l: l}
}

func (uc *ReportUseCase) Generate(ctx context.Context, input models.CompanyInput) *models.FinalReport {
	started := time.Now()

	summaryJSON := uc.marshal(uc.rates.Summary(ctx), "rate summary")
	analysisJSON := uc.marshal(uc.analysis.Analyze(ctx, input), "analysis")

	markdown := uc.narrative.FinalReport(ctx, summaryJSON, analysisJSON)

	return &models.FinalReport{
		ReportMarkdown:   markdown,
		AiContextJson:    summaryJSON,
		FullAnalysisJson: analysisJSON,
		GeneratedAt:      started,
	}
}

func (uc *ReportUseCase) marshal(v interface{}, what string) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		uc.l.Warn("report payload serialization failed",
			applogger.String("payload", what),
			applogger.Error(err),
		)
		return "{}"
	}
	return string(b)
}
