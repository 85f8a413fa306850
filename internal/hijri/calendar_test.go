package hijri

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/family-ledger/internal/domain"
)

func TestConvertToHijri(t *testing.T) {
	m := NewManager(time.UTC)

	tests := []struct {
		name      string
		date      time.Time
		year      int
		month     int
		day       int
		monthName string
	}{
		{
			name:      "first of ramadan 1445",
			date:      time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC),
			year:      1445,
			month:     9,
			day:       1,
			monthName: "رمضان",
		},
		{
			name:      "new year 1445",
			date:      time.Date(2023, 7, 19, 0, 0, 0, 0, time.UTC),
			year:      1445,
			month:     1,
			day:       1,
			monthName: "محرم",
		},
		{
			name:      "end of dhu al-hijjah 1446",
			date:      time.Date(2025, 6, 26, 23, 59, 0, 0, time.UTC),
			year:      1446,
			month:     12,
			day:       29,
			monthName: "ذو الحجة",
		},
		{
			name:      "millennium",
			date:      time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			year:      1420,
			month:     9,
			day:       24,
			monthName: "رمضان",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := m.ConvertToHijri(tt.date)
			assert.Equal(t, tt.year, h.Year)
			assert.Equal(t, tt.month, h.Month)
			assert.Equal(t, tt.day, h.Day)
			assert.Equal(t, tt.monthName, h.MonthName)
			assert.Equal(t,
				strconv.Itoa(tt.day)+"/"+strconv.Itoa(tt.month)+" "+tt.monthName+" "+strconv.Itoa(tt.year)+" هـ",
				h.FormattedString)
		})
	}
}

func TestConvertToHijri_UsesConfiguredZone(t *testing.T) {
	riyadh := time.FixedZone("AST", 3*60*60)
	m := NewManager(riyadh)

	// 22:30 UTC on 10 March is already 11 March in Riyadh.
	h := m.ConvertToHijri(time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC))
	assert.Equal(t, 1445, h.Year)
	assert.Equal(t, 9, h.Month)
	assert.Equal(t, 1, h.Day)

	utc := NewManager(time.UTC).ConvertToHijri(time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC))
	assert.Equal(t, 8, utc.Month)
}

func TestConvertToHijri_RoundTripThroughDisplay(t *testing.T) {
	m := NewManager(time.UTC)
	start := time.Date(2019, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3000; i += 7 {
		d := start.AddDate(0, 0, i)
		first := m.ConvertToHijri(d)
		second := m.ConvertToHijri(d)
		require.Equal(t, first, second)

		display := FormatHijriDisplay(first.FormattedString)
		require.True(t, strings.HasPrefix(display, strconv.Itoa(second.Day)+" "), display)
		require.Contains(t, display, second.MonthName)
		require.Contains(t, display, strconv.Itoa(second.Year))

		year, month, day, ok := ParseHijriString(first.FormattedString)
		require.True(t, ok)
		require.Equal(t, [3]int{second.Year, second.Month, second.Day}, [3]int{year, month, day})
	}
}

func TestToGregorian_InvertsConversion(t *testing.T) {
	m := NewManager(time.UTC)
	start := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 20000; i += 13 {
		d := start.AddDate(0, 0, i)
		h := m.ConvertToHijri(d)
		back, err := m.ToGregorian(h.Year, h.Month, h.Day)
		require.NoError(t, err)
		require.True(t, back.Equal(d), "%s -> %+v -> %s", d, h, back)
	}
}

func TestToGregorian_RejectsInvalidInput(t *testing.T) {
	m := NewManager(time.UTC)

	_, err := m.ToGregorian(1445, 13, 1)
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = m.ToGregorian(1445, 1, 31)
	assert.Error(t, err)
}

func TestPeriodBounds(t *testing.T) {
	m := NewManager(time.UTC)

	tests := []struct {
		name   string
		date   [3]int
		period domain.Period
		from   [3]int
		before [3]int
	}{
		{"month", [3]int{1445, 9, 14}, domain.PeriodMonth, [3]int{1445, 9, 1}, [3]int{1445, 10, 1}},
		{"last month of year", [3]int{1445, 12, 3}, domain.PeriodMonth, [3]int{1445, 12, 1}, [3]int{1446, 1, 1}},
		{"quarter", [3]int{1445, 9, 14}, domain.PeriodQuarter, [3]int{1445, 7, 1}, [3]int{1445, 10, 1}},
		{"last quarter", [3]int{1445, 11, 2}, domain.PeriodQuarter, [3]int{1445, 10, 1}, [3]int{1446, 1, 1}},
		{"year", [3]int{1445, 9, 14}, domain.PeriodYear, [3]int{1445, 1, 1}, [3]int{1446, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, before, err := m.PeriodBounds(NewDate(tt.date[0], tt.date[1], tt.date[2]), tt.period)
			require.NoError(t, err)

			first := m.ConvertToHijri(from)
			next := m.ConvertToHijri(before)
			last := m.ConvertToHijri(before.AddDate(0, 0, -1))
			assert.Equal(t, tt.from, [3]int{first.Year, first.Month, first.Day})
			assert.Equal(t, tt.before, [3]int{next.Year, next.Month, next.Day})
			assert.NotEqual(t, tt.before, [3]int{last.Year, last.Month, last.Day})
			assert.True(t, from.Before(before))
		})
	}
}

func TestCurrentHijriDate(t *testing.T) {
	fixed := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	m := NewManager(time.UTC).WithClock(func() time.Time { return fixed })

	h := m.CurrentHijriDate()
	assert.Equal(t, 1448, h.Year)
	assert.Equal(t, 5, h.Month)
	assert.Equal(t, 3, h.Day)
}

func TestYearRange(t *testing.T) {
	fixed := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	m := NewManager(time.UTC).WithClock(func() time.Time { return fixed })

	assert.Equal(t, []int{1443, 1444, 1445, 1446, 1447}, m.YearRange(2))
	assert.Equal(t, []int{1445}, m.YearRange(0))
	assert.Equal(t, []int{1445}, m.YearRange(-3))
}

func TestMonths(t *testing.T) {
	all := Months()
	require.Len(t, all, 12)
	for i, mo := range all {
		assert.Equal(t, i+1, mo.Index)
		assert.NotEmpty(t, mo.NameAr)
		assert.NotEmpty(t, mo.NameEn)
	}
	assert.Equal(t, "Ramadan", all[8].NameEn)

	// callers cannot corrupt the reference table
	all[0].NameEn = "changed"
	assert.Equal(t, "Muharram", Months()[0].NameEn)
}

func TestMonthProperties(t *testing.T) {
	props, err := MonthProperties(12)
	require.NoError(t, err)
	assert.Equal(t, "ذو الحجة", props.NameAr)
	assert.Equal(t, "Dhu al-Hijjah", props.NameEn)

	for _, n := range []int{0, -1, 13} {
		props, err = MonthProperties(n)
		assert.ErrorIs(t, err, ErrInvalidMonth)
		assert.Equal(t, "Unknown", props.NameEn)
	}
}

func TestQuarterOf(t *testing.T) {
	assert.Equal(t, 1, QuarterOf(1))
	assert.Equal(t, 1, QuarterOf(3))
	assert.Equal(t, 2, QuarterOf(4))
	assert.Equal(t, 4, QuarterOf(12))
	assert.Equal(t, 0, QuarterOf(13))
}
