package handler

import (
	"context"
	"net/http"

	"github.com/segyhp/family-ledger/internal/domain"
	customError "github.com/segyhp/family-ledger/pkg/errors"
	"github.com/segyhp/family-ledger/pkg/response"
	"github.com/segyhp/family-ledger/pkg/utils"
)

// AnalyticsService is the read-only reporting surface.
type AnalyticsService interface {
	GetPaymentStatistics(ctx context.Context, dateRange *domain.DateRange) (*domain.PaymentStatistics, error)
	CalculateTotalRevenue(ctx context.Context, period domain.Period) (*domain.RevenueResponse, error)
	GetOverduePayments(ctx context.Context) ([]*domain.Payment, error)
	GetPaymentsByCategory(ctx context.Context) (map[domain.Category]domain.CategorySummary, error)
	GetMemberContributions(ctx context.Context) ([]domain.MemberContribution, error)
	GenerateFinancialReport(ctx context.Context, opts domain.ReportOptions) (*domain.FinancialReport, error)
}

type ReportHandler struct {
	analytics AnalyticsService
	debug     bool
}

func NewReportHandler(analytics AnalyticsService, debug bool) *ReportHandler {
	return &ReportHandler{analytics: analytics, debug: debug}
}

// Revenue handles GET /api/v1/reports/revenue?period=month|quarter|year
func (h *ReportHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	revenue, err := h.analytics.CalculateTotalRevenue(r.Context(), period)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	response.Success(w, revenue)
}

// Categories handles GET /api/v1/reports/categories
func (h *ReportHandler) Categories(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.GetPaymentsByCategory(r.Context())
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	response.Success(w, summary)
}

// Contributions handles GET /api/v1/reports/contributions
func (h *ReportHandler) Contributions(w http.ResponseWriter, r *http.Request) {
	list, err := h.analytics.GetMemberContributions(r.Context())
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	response.Success(w, list)
}

// Financial handles GET /api/v1/reports/financial. Each include_* flag
// switches on one optional section.
func (h *ReportHandler) Financial(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	query := r.URL.Query()
	report, err := h.analytics.GenerateFinancialReport(r.Context(), domain.ReportOptions{
		Period:             period,
		IncludeCharts:      utils.ParseBool(query.Get("include_charts")),
		IncludeMemberStats: utils.ParseBool(query.Get("include_member_stats")),
		IncludeOverdue:     utils.ParseBool(query.Get("include_overdue")),
	})
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	response.Success(w, report)
}

func parsePeriod(r *http.Request) (domain.Period, error) {
	period, err := domain.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		return "", customError.WrapInvalidField("period", "must be one of month, quarter, year")
	}
	return period, nil
}
