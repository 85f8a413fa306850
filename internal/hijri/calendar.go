// Package hijri converts between the Gregorian and the tabular Hijri
// calendars and orders ledger rows by their Hijri snapshot.
package hijri

import (
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/family-ledger/internal/domain"
)

// ErrInvalidMonth is returned for month numbers outside 1-12.
var ErrInvalidMonth = errors.New("invalid hijri month")

// Suffix marks a Hijri date in Arabic text.
const Suffix = "هـ"

// islamicEpoch is the Julian day number of 1 Muharram 1 AH (civil epoch).
const islamicEpoch = 1948440

var months = []domain.HijriMonth{
	{Index: 1, NameAr: "محرم", NameEn: "Muharram"},
	{Index: 2, NameAr: "صفر", NameEn: "Safar"},
	{Index: 3, NameAr: "ربيع الأول", NameEn: "Rabi al-Awwal"},
	{Index: 4, NameAr: "ربيع الآخر", NameEn: "Rabi al-Thani"},
	{Index: 5, NameAr: "جمادى الأولى", NameEn: "Jumada al-Awwal"},
	{Index: 6, NameAr: "جمادى الآخرة", NameEn: "Jumada al-Thani"},
	{Index: 7, NameAr: "رجب", NameEn: "Rajab"},
	{Index: 8, NameAr: "شعبان", NameEn: "Shaban"},
	{Index: 9, NameAr: "رمضان", NameEn: "Ramadan"},
	{Index: 10, NameAr: "شوال", NameEn: "Shawwal"},
	{Index: 11, NameAr: "ذو القعدة", NameEn: "Dhu al-Qadah"},
	{Index: 12, NameAr: "ذو الحجة", NameEn: "Dhu al-Hijjah"},
}

var unknownMonth = domain.MonthProperties{NameAr: "غير معروف", NameEn: "Unknown"}

// Manager is the calendar service. It holds no mutable state; the clock is
// injectable so tests can pin "now".
type Manager struct {
	loc *time.Location
	now func() time.Time
}

// NewManager creates a Manager that normalizes instants to calendar days in
// loc. A nil loc means UTC.
func NewManager(loc *time.Location) *Manager {
	if loc == nil {
		loc = time.UTC
	}
	return &Manager{loc: loc, now: time.Now}
}

// WithClock returns a copy of m that reads the current time from now.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	return &Manager{loc: m.loc, now: now}
}

// Location returns the zone used to pick the calendar day.
func (m *Manager) Location() *time.Location {
	return m.loc
}

// Now returns the current instant according to the manager's clock.
func (m *Manager) Now() time.Time {
	return m.now()
}

// ConvertToHijri converts the calendar day of t (in the manager's zone) to
// the tabular Hijri calendar.
func (m *Manager) ConvertToHijri(t time.Time) domain.HijriDate {
	local := t.In(m.loc)
	year, month, day := fromJulianDay(julianDay(local.Year(), int(local.Month()), local.Day()))
	return NewDate(year, month, day)
}

// CurrentHijriDate converts the manager's current time.
func (m *Manager) CurrentHijriDate() domain.HijriDate {
	return m.ConvertToHijri(m.now())
}

// ToGregorian returns midnight, in the manager's zone, of the Gregorian day
// matching the given Hijri date.
func (m *Manager) ToGregorian(year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, ErrInvalidMonth
	}
	if year < 1 || day < 1 || day > 30 {
		return time.Time{}, fmt.Errorf("invalid hijri date %d/%d/%d", day, month, year)
	}
	jd := (11*year+3)/30 + 354*year + 30*month - (month-1)/2 + day + islamicEpoch - 385
	gy, gm, gd := gregorianFromJulianDay(jd)
	return time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, m.loc), nil
}

// MonthStart returns the first Gregorian instant of a Hijri month.
func (m *Manager) MonthStart(year, month int) (time.Time, error) {
	return m.ToGregorian(year, month, 1)
}

// PeriodBounds returns the Gregorian instants enclosing the Hijri month,
// quarter or year that contains h. The end bound is exclusive.
func (m *Manager) PeriodBounds(h domain.HijriDate, period domain.Period) (time.Time, time.Time, error) {
	startYear, startMonth, months := h.Year, h.Month, 1
	switch period {
	case domain.PeriodYear:
		startMonth, months = 1, 12
	case domain.PeriodQuarter:
		startMonth, months = (QuarterOf(h.Month)-1)*3+1, 3
	}

	from, err := m.MonthStart(startYear, startMonth)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMonth := startMonth + months
	endYear := startYear + (endMonth-1)/12
	endMonth = (endMonth-1)%12 + 1
	before, err := m.MonthStart(endYear, endMonth)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, before, nil
}

// NewDate builds a HijriDate with its Arabic month name and display string.
func NewDate(year, month, day int) domain.HijriDate {
	props, _ := MonthProperties(month)
	return domain.HijriDate{
		Year:            year,
		Month:           month,
		Day:             day,
		MonthName:       props.NameAr,
		FormattedString: fmt.Sprintf("%d/%d %s %d %s", day, month, props.NameAr, year, Suffix),
	}
}

// Months returns the twelve Hijri months in order.
func Months() []domain.HijriMonth {
	return append([]domain.HijriMonth(nil), months...)
}

// MonthProperties returns the names of month n. Out of range months yield a
// placeholder together with ErrInvalidMonth so reports can carry on.
func MonthProperties(n int) (domain.MonthProperties, error) {
	if n < 1 || n > 12 {
		return unknownMonth, ErrInvalidMonth
	}
	mo := months[n-1]
	return domain.MonthProperties{NameAr: mo.NameAr, NameEn: mo.NameEn}, nil
}

// YearRange lists the Hijri years from current-span to current+span.
func (m *Manager) YearRange(span int) []int {
	if span < 0 {
		span = 0
	}
	current := m.CurrentHijriDate().Year
	years := make([]int, 0, 2*span+1)
	for y := current - span; y <= current+span; y++ {
		years = append(years, y)
	}
	return years
}

// QuarterOf maps a month to its quarter of the Hijri year (1-4).
func QuarterOf(month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	return (month-1)/3 + 1
}

func julianDay(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	mo := month + 12*a - 3
	return day + (153*mo+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

func gregorianFromJulianDay(jd int) (int, int, int) {
	a := jd + 32044
	b := (4*a + 3) / 146097
	c := a - 146097*b/4
	d := (4*c + 3) / 1461
	e := c - 1461*d/4
	mo := (5*e + 2) / 153
	day := e - (153*mo+2)/5 + 1
	month := mo + 3 - 12*(mo/10)
	year := 100*b + d - 4800 + mo/10
	return year, month, day
}

func fromJulianDay(jd int) (int, int, int) {
	l := jd - islamicEpoch + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	month := (24 * l) / 709
	day := l - (709*month)/24
	year := 30*n + j - 30
	return year, month, day
}
