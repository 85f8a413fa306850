package hijri

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/segyhp/family-ledger/internal/domain"
)

// GroupKey is the zero padded "<year>-<month>" key; its lexicographic order
// is the chronological order.
func GroupKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// SnapshotOf returns the payment's frozen Hijri date. Legacy rows without a
// snapshot fall back to converting CreatedAt; the payment is not modified.
func (m *Manager) SnapshotOf(p *domain.Payment) domain.HijriDate {
	if p.HasHijri() {
		h := p.Hijri()
		if h.MonthName == "" {
			props, _ := MonthProperties(h.Month)
			h.MonthName = props.NameAr
		}
		return h
	}
	return m.ConvertToHijri(p.CreatedAt)
}

// GroupByHijriMonth buckets payments by their Hijri month. Every payment
// lands in exactly one group; subtotals treat unreadable amounts as zero.
func (m *Manager) GroupByHijriMonth(payments []*domain.Payment) map[string]*domain.HijriMonthGroup {
	groups := make(map[string]*domain.HijriMonthGroup)
	for _, p := range payments {
		if p == nil {
			continue
		}
		h := m.SnapshotOf(p)
		key := GroupKey(h.Year, h.Month)
		g, ok := groups[key]
		if !ok {
			g = &domain.HijriMonthGroup{
				Key:       key,
				MonthName: h.MonthName,
				Year:      h.Year,
				Month:     h.Month,
				Payments:  make([]*domain.Payment, 0, 4),
				Subtotal:  domain.NewAmount(decimal.Zero),
			}
			groups[key] = g
		}
		g.Payments = append(g.Payments, p)
		g.Subtotal = domain.NewAmount(g.Subtotal.Decimal.Add(p.Amount.OrZero()))
	}
	return groups
}

// SortedGroupKeys returns the group keys newest month first.
func SortedGroupKeys(groups map[string]*domain.HijriMonthGroup) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

// SortByHijri orders payments by (year, month, day) descending, newest
// CreatedAt first within the same day. The sort is stable.
func (m *Manager) SortByHijri(payments []*domain.Payment) {
	type keyed struct {
		h domain.HijriDate
		p *domain.Payment
	}
	items := make([]keyed, len(payments))
	for i, p := range payments {
		items[i] = keyed{h: m.SnapshotOf(p), p: p}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].h, items[j].h
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Month != b.Month {
			return a.Month > b.Month
		}
		if a.Day != b.Day {
			return a.Day > b.Day
		}
		return items[i].p.CreatedAt.After(items[j].p.CreatedAt)
	})
	for i := range items {
		payments[i] = items[i].p
	}
}
