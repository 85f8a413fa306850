package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerPolicy carries the process-wide thresholds of the ledger.
type LedgerPolicy struct {
	MinimumBalance   decimal.Decimal
	MinimumPayment   decimal.Decimal
	OverdueGrace     time.Duration
	ReferencePrefix  string
	CalendarLocation *time.Location
}

// DefaultLedgerPolicy is used by tests and by callers without configuration.
func DefaultLedgerPolicy() LedgerPolicy {
	return LedgerPolicy{
		MinimumBalance:   decimal.NewFromInt(100),
		MinimumPayment:   decimal.NewFromInt(1),
		OverdueGrace:     30 * 24 * time.Hour,
		ReferencePrefix:  "PAY",
		CalendarLocation: time.UTC,
	}
}

// Period is a reporting window relative to the current Hijri date.
type Period string

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodMonth, PeriodQuarter, PeriodYear:
		return p, nil
	case "":
		return PeriodMonth, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// DateRange bounds a query by Gregorian creation time. Either end may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

type PaymentStatistics struct {
	Pending        int    `json:"pending"`
	PendingAmount  Amount `json:"pending_amount"`
	TotalPaid      int    `json:"total_paid"`
	TotalRevenue   Amount `json:"total_revenue"`
	MonthlyRevenue Amount `json:"monthly_revenue"`
}

type CategorySummary struct {
	Count       int    `json:"count"`
	TotalAmount Amount `json:"total_amount"`
}

type MemberContribution struct {
	MemberID         uuid.UUID `json:"member_id"`
	TotalContributed Amount    `json:"total_contributed"`
	PaymentCount     int       `json:"payment_count"`
}

type RevenueResponse struct {
	Period    Period    `json:"period"`
	HijriDate HijriDate `json:"hijri_date"`
	Total     Amount    `json:"total"`
}

type ReportOptions struct {
	Period             Period
	IncludeCharts      bool
	IncludeMemberStats bool
	IncludeOverdue     bool
}

type MonthlyPoint struct {
	Key       string `json:"key"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Count     int    `json:"count"`
	Total     Amount `json:"total"`
}

type ReportCharts struct {
	Monthly    []MonthlyPoint               `json:"monthly"`
	ByCategory map[Category]CategorySummary `json:"by_category"`
}

type MemberStatsSection struct {
	Contributors []MemberContribution `json:"contributors"`
	Count        int                  `json:"count"`
}

type OverdueSection struct {
	Count       int        `json:"count"`
	TotalAmount Amount     `json:"total_amount"`
	Payments    []*Payment `json:"payments"`
}

// FinancialReport composes the analytics views. Optional sections are nil
// when disabled and omitted from JSON.
type FinancialReport struct {
	Period      Period              `json:"period"`
	HijriDate   HijriDate           `json:"hijri_date"`
	Statistics  PaymentStatistics   `json:"statistics"`
	Revenue     Amount              `json:"revenue"`
	Charts      *ReportCharts       `json:"charts,omitempty"`
	MemberStats *MemberStatsSection `json:"member_stats,omitempty"`
	Overdue     *OverdueSection     `json:"overdue,omitempty"`
}
