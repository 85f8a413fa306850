package hijri

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/family-ledger/internal/domain"
)

func paymentOn(m *Manager, at time.Time, amount domain.Amount) *domain.Payment {
	p := &domain.Payment{ID: uuid.New(), Amount: amount, CreatedAt: at}
	p.SetHijri(m.ConvertToHijri(at))
	return p
}

func TestGroupByHijriMonth(t *testing.T) {
	m := NewManager(time.UTC)

	payments := []*domain.Payment{
		paymentOn(m, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), domain.AmountFromInt(100)), // 1445-09
		paymentOn(m, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), domain.AmountFromInt(50)),  // 1445-09
		paymentOn(m, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), domain.AmountFromInt(25)),  // 1445-10
		paymentOn(m, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), domain.ParseAmount("x")),   // 1445-08
		paymentOn(m, time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC), domain.ParseAmount("12.5")),
	}

	groups := m.GroupByHijriMonth(payments)
	require.Len(t, groups, 3)

	seen := make(map[uuid.UUID]int)
	for key, g := range groups {
		assert.Equal(t, GroupKey(g.Year, g.Month), key)
		sum := decimal.Zero
		for _, p := range g.Payments {
			seen[p.ID]++
			sum = sum.Add(p.Amount.OrZero())
		}
		assert.True(t, sum.Equal(g.Subtotal.Decimal), "group %s", key)
	}
	assert.Len(t, seen, len(payments))
	for _, n := range seen {
		assert.Equal(t, 1, n)
	}

	ramadan := groups["1445-09"]
	require.NotNil(t, ramadan)
	assert.Equal(t, "رمضان", ramadan.MonthName)
	assert.True(t, decimal.NewFromInt(150).Equal(ramadan.Subtotal.Decimal))
	assert.True(t, decimal.NewFromFloat(12.5).Equal(groups["1445-08"].Subtotal.Decimal))

	assert.Equal(t, []string{"1445-10", "1445-09", "1445-08"}, SortedGroupKeys(groups))
}

func TestGroupByHijriMonth_Empty(t *testing.T) {
	m := NewManager(time.UTC)
	assert.Empty(t, m.GroupByHijriMonth(nil))
}

func TestGroupKey_OrderMatchesChronology(t *testing.T) {
	assert.Less(t, GroupKey(1445, 9), GroupKey(1445, 10))
	assert.Less(t, GroupKey(999, 12), GroupKey(1000, 1))
	assert.Equal(t, "1445-01", GroupKey(1445, 1))
}

func TestSortByHijri_UsesSnapshotNotCreatedAt(t *testing.T) {
	m := NewManager(time.UTC)

	// Imported row: backfilled CreatedAt is recent but the staff-entered
	// Hijri snapshot says it belongs to an older month.
	imported := &domain.Payment{
		ID:        uuid.New(),
		CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	imported.SetHijri(NewDate(1444, 2, 10))

	recent := paymentOn(m, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), domain.AmountFromInt(1))
	older := paymentOn(m, time.Date(2023, 7, 19, 0, 0, 0, 0, time.UTC), domain.AmountFromInt(1))

	payments := []*domain.Payment{imported, older, recent}
	m.SortByHijri(payments)

	assert.Equal(t, []uuid.UUID{recent.ID, older.ID, imported.ID},
		[]uuid.UUID{payments[0].ID, payments[1].ID, payments[2].ID})
}

func TestSnapshotOf_FallsBackForLegacyRows(t *testing.T) {
	m := NewManager(time.UTC)
	legacy := &domain.Payment{CreatedAt: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)}

	h := m.SnapshotOf(legacy)
	assert.Equal(t, 1445, h.Year)
	assert.Equal(t, 9, h.Month)
	assert.False(t, legacy.HasHijri())
}

func TestSetHijri_IsWriteOnce(t *testing.T) {
	p := &domain.Payment{}
	p.SetHijri(NewDate(1445, 9, 1))
	p.SetHijri(NewDate(1446, 1, 1))

	assert.Equal(t, 1445, p.HijriYear)
	assert.Equal(t, 9, p.HijriMonth)
}
