package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/segyhp/family-ledger/internal/domain"
	"github.com/segyhp/family-ledger/internal/hijri"
	"github.com/segyhp/family-ledger/internal/repository"
	customError "github.com/segyhp/family-ledger/pkg/errors"
)

// AnalyticsService aggregates the ledger. It never writes.
//
// Every sum goes through Amount.OrZero so a malformed row counts as zero
// instead of failing the whole report.
type AnalyticsService struct {
	PaymentRepo repository.PaymentRepository

	calendar *hijri.Manager
	policy   domain.LedgerPolicy
	logger   *zap.Logger
}

func NewAnalyticsService(paymentRepo repository.PaymentRepository, calendar *hijri.Manager, policy domain.LedgerPolicy, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		PaymentRepo: paymentRepo,
		calendar:    calendar,
		policy:      policy,
		logger:      logger.Named("analytics"),
	}
}

// GetPaymentStatistics summarises pending and paid payments created inside
// the optional range. MonthlyRevenue covers the current Hijri month.
func (s *AnalyticsService) GetPaymentStatistics(ctx context.Context, dateRange *domain.DateRange) (*domain.PaymentStatistics, error) {
	filter := domain.PaymentFilter{
		Statuses: []domain.Status{domain.StatusPending, domain.StatusPaid},
	}
	if dateRange != nil {
		filter.CreatedFrom = dateRange.From
		filter.CreatedBefore = dateRange.To
	}

	payments, err := s.list(ctx, "payment statistics", filter)
	if err != nil {
		return nil, err
	}

	current := s.calendar.CurrentHijriDate()
	pendingAmount := decimal.Zero
	revenue := decimal.Zero
	monthly := decimal.Zero
	stats := &domain.PaymentStatistics{}

	for _, p := range payments {
		amount := p.Amount.OrZero()
		switch p.Status {
		case domain.StatusPending:
			stats.Pending++
			pendingAmount = pendingAmount.Add(amount)
		case domain.StatusPaid:
			stats.TotalPaid++
			revenue = revenue.Add(amount)
			if inPeriod(s.calendar.SnapshotOf(p), current, domain.PeriodMonth) {
				monthly = monthly.Add(amount)
			}
		}
	}

	stats.PendingAmount = domain.NewAmount(pendingAmount)
	stats.TotalRevenue = domain.NewAmount(revenue)
	stats.MonthlyRevenue = domain.NewAmount(monthly)
	return stats, nil
}

// CalculateTotalRevenue sums paid payments whose Hijri snapshot falls in
// the current month, quarter or year.
func (s *AnalyticsService) CalculateTotalRevenue(ctx context.Context, period domain.Period) (*domain.RevenueResponse, error) {
	current := s.calendar.CurrentHijriDate()
	payments, err := s.paidAround(ctx, current, period)
	if err != nil {
		return nil, err
	}

	return &domain.RevenueResponse{
		Period:    period,
		HijriDate: current,
		Total:     domain.NewAmount(s.revenueIn(payments, current, period)),
	}, nil
}

// GetOverduePayments returns pending payments older than the grace period,
// newest Hijri date first. Overdue is computed on every call.
func (s *AnalyticsService) GetOverduePayments(ctx context.Context) ([]*domain.Payment, error) {
	cutoff := s.calendar.Now().Add(-s.policy.OverdueGrace).UTC()
	payments, err := s.list(ctx, "overdue payments", domain.PaymentFilter{
		Statuses:      []domain.Status{domain.StatusPending},
		CreatedBefore: &cutoff,
		SortBy:        domain.SortHijri,
	})
	if err != nil {
		return nil, err
	}
	s.calendar.SortByHijri(payments)
	return payments, nil
}

// GetPaymentsByCategory totals paid payments per category. Every category
// is present, with zero values when it has no payments.
func (s *AnalyticsService) GetPaymentsByCategory(ctx context.Context) (map[domain.Category]domain.CategorySummary, error) {
	payments, err := s.paid(ctx)
	if err != nil {
		return nil, err
	}
	return s.byCategory(payments), nil
}

// GetMemberContributions totals paid payments per payer, largest first.
// Members without payments are absent.
func (s *AnalyticsService) GetMemberContributions(ctx context.Context) ([]domain.MemberContribution, error) {
	payments, err := s.paid(ctx)
	if err != nil {
		return nil, err
	}
	return contributions(payments), nil
}

// GenerateFinancialReport composes the views above. Disabled sections stay
// nil.
func (s *AnalyticsService) GenerateFinancialReport(ctx context.Context, opts domain.ReportOptions) (*domain.FinancialReport, error) {
	if opts.Period == "" {
		opts.Period = domain.PeriodMonth
	}

	stats, err := s.GetPaymentStatistics(ctx, nil)
	if err != nil {
		return nil, err
	}

	paid, err := s.paid(ctx)
	if err != nil {
		return nil, err
	}

	current := s.calendar.CurrentHijriDate()
	report := &domain.FinancialReport{
		Period:     opts.Period,
		HijriDate:  current,
		Statistics: *stats,
		Revenue:    domain.NewAmount(s.revenueIn(paid, current, opts.Period)),
	}

	if opts.IncludeCharts {
		report.Charts = &domain.ReportCharts{
			Monthly:    s.monthlySeries(paid),
			ByCategory: s.byCategory(paid),
		}
	}

	if opts.IncludeMemberStats {
		list := contributions(paid)
		report.MemberStats = &domain.MemberStatsSection{Contributors: list, Count: len(list)}
	}

	if opts.IncludeOverdue {
		overdue, err := s.GetOverduePayments(ctx)
		if err != nil {
			return nil, err
		}
		total := decimal.Zero
		for _, p := range overdue {
			total = total.Add(p.Amount.OrZero())
		}
		report.Overdue = &domain.OverdueSection{
			Count:       len(overdue),
			TotalAmount: domain.NewAmount(total),
			Payments:    overdue,
		}
	}

	return report, nil
}

func (s *AnalyticsService) revenueIn(payments []*domain.Payment, current domain.HijriDate, period domain.Period) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if inPeriod(s.calendar.SnapshotOf(p), current, period) {
			total = total.Add(p.Amount.OrZero())
		}
	}
	return total
}

func (s *AnalyticsService) byCategory(payments []*domain.Payment) map[domain.Category]domain.CategorySummary {
	totals := make(map[domain.Category]decimal.Decimal, len(domain.Categories))
	counts := make(map[domain.Category]int, len(domain.Categories))
	for _, c := range domain.Categories {
		totals[c] = decimal.Zero
	}

	for _, p := range payments {
		category := p.Category
		if !category.Valid() {
			s.logger.Warn("unknown payment category counted as other",
				zap.String("id", p.ID.String()),
				zap.String("category", string(category)),
			)
			category = domain.CategoryOther
		}
		counts[category]++
		totals[category] = totals[category].Add(p.Amount.OrZero())
	}

	summary := make(map[domain.Category]domain.CategorySummary, len(totals))
	for c, total := range totals {
		summary[c] = domain.CategorySummary{Count: counts[c], TotalAmount: domain.NewAmount(total)}
	}
	return summary
}

// monthlySeries returns one point per Hijri month, oldest first.
func (s *AnalyticsService) monthlySeries(payments []*domain.Payment) []domain.MonthlyPoint {
	groups := s.calendar.GroupByHijriMonth(payments)
	keys := hijri.SortedGroupKeys(groups)

	points := make([]domain.MonthlyPoint, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		g := groups[keys[i]]
		points = append(points, domain.MonthlyPoint{
			Key:       g.Key,
			Year:      g.Year,
			Month:     g.Month,
			MonthName: g.MonthName,
			Count:     len(g.Payments),
			Total:     g.Subtotal,
		})
	}
	return points
}

func (s *AnalyticsService) paid(ctx context.Context) ([]*domain.Payment, error) {
	return s.list(ctx, "paid payments", domain.PaymentFilter{
		Statuses: []domain.Status{domain.StatusPaid},
	})
}

// paidAround narrows the scan to paid rows created near the Hijri period.
// The bounds are widened by a day so rows snapshotted in another zone still
// reach the snapshot check in revenueIn.
func (s *AnalyticsService) paidAround(ctx context.Context, current domain.HijriDate, period domain.Period) ([]*domain.Payment, error) {
	from, before, err := s.calendar.PeriodBounds(current, period)
	if err != nil {
		s.logger.Error("hijri period bounds failed", zap.String("period", string(period)), zap.Error(err))
		return nil, customError.WrapStoreError(err)
	}
	from = from.AddDate(0, 0, -1).UTC()
	before = before.AddDate(0, 0, 1).UTC()

	return s.list(ctx, "paid payments", domain.PaymentFilter{
		Statuses:      []domain.Status{domain.StatusPaid},
		CreatedFrom:   &from,
		CreatedBefore: &before,
	})
}

func (s *AnalyticsService) list(ctx context.Context, what string, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("query "+what+" failed", zap.Error(err))
		return nil, customError.WrapStoreError(err)
	}
	if payments == nil {
		payments = []*domain.Payment{}
	}
	return payments, nil
}

func contributions(payments []*domain.Payment) []domain.MemberContribution {
	totals := make(map[uuid.UUID]decimal.Decimal)
	counts := make(map[uuid.UUID]int)
	for _, p := range payments {
		if _, ok := totals[p.PayerID]; !ok {
			totals[p.PayerID] = decimal.Zero
		}
		totals[p.PayerID] = totals[p.PayerID].Add(p.Amount.OrZero())
		counts[p.PayerID]++
	}

	list := make([]domain.MemberContribution, 0, len(totals))
	for id, total := range totals {
		list = append(list, domain.MemberContribution{
			MemberID:         id,
			TotalContributed: domain.NewAmount(total),
			PaymentCount:     counts[id],
		})
	}

	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if c := a.TotalContributed.Decimal.Cmp(b.TotalContributed.Decimal); c != 0 {
			return c > 0
		}
		if a.PaymentCount != b.PaymentCount {
			return a.PaymentCount > b.PaymentCount
		}
		return a.MemberID.String() < b.MemberID.String()
	})
	return list
}

func inPeriod(h, current domain.HijriDate, period domain.Period) bool {
	if h.Year != current.Year {
		return false
	}
	switch period {
	case domain.PeriodYear:
		return true
	case domain.PeriodQuarter:
		return hijri.QuarterOf(h.Month) == hijri.QuarterOf(current.Month)
	default:
		return h.Month == current.Month
	}
}
