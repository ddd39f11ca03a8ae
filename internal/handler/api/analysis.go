package api

import (
	"FxPulse/internal/domain/models"
	"FxPulse/internal/usecase"
	xhttp "FxPulse/pkg/http"
	xlogger "FxPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler serves the exchange-rate and profit/loss endpoints.
type AnalysisHandler struct {
	logger   *xlogger.Logger
	rates    *usecase.RatesUseCase
	analysis *usecase.AnalysisUseCase
	report   *usecase.ReportUseCase
}

func NewAnalysisHandler(logger *xlogger.Logger, rates *usecase.RatesUseCase, analysis *usecase.AnalysisUseCase, report *usecase.ReportUseCase) *AnalysisHandler {
	return &AnalysisHandler{logger: logger, rates: rates, analysis: analysis, report: report}
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/exchange-rate", h.ExchangeRate)
	g.POST("/analyze", h.Analyze)
	g.POST("/dashboard", h.Dashboard)
	g.POST("/report/final", h.FinalReport)
}

// ExchangeRate returns the current rate plus the trailing 30-day overview.
func (h *AnalysisHandler) ExchangeRate(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.rates.Summary(c.Request().Context()))
}

// Analyze runs the full profit/loss analysis for one company input.
func (h *AnalysisHandler) Analyze(c echo.Context) error {
	req := &models.CompanyInputRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.analysis.Analyze(c.Request().Context(), req.ToInput()))
}

// Dashboard bundles the rate summary and the analysis in one call.
func (h *AnalysisHandler) Dashboard(c echo.Context) error {
	req := &models.CompanyInputRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.analysis.Dashboard(c.Request().Context(), req.ToInput()))
}

// FinalReport generates the long-form prose report.
func (h *AnalysisHandler) FinalReport(c echo.Context) error {
	req := &models.CompanyInputRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.report.Generate(c.Request().Context(), req.ToInput()))
}
