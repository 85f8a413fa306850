package hijri

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// "<day>/<month> <name> <year> هـ", as written by NewDate.
	reSnapshot = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})\s+\D+?\s+(\d{1,4})(?:\s*` + Suffix + `)?$`)
	// "<year>-<month>-<day>" or with slashes.
	reNumeric = regexp.MustCompile(`^(\d{3,4})[-/](\d{1,2})[-/](\d{1,2})$`)
)

var gregorianLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatHijriDisplay renders a stored Hijri string as "<day> <month> <year> هـ".
// Input it cannot parse is returned unchanged.
func FormatHijriDisplay(s string) string {
	raw := strings.TrimSpace(s)
	year, month, day, ok := parseHijri(raw)
	if !ok {
		return s
	}
	props, err := MonthProperties(month)
	if err != nil || day < 1 || day > 30 {
		return s
	}
	return fmt.Sprintf("%d %s %d %s", day, props.NameAr, year, Suffix)
}

// ParseHijriString extracts year, month and day from a stored Hijri string.
func ParseHijriString(s string) (year, month, day int, ok bool) {
	return parseHijri(strings.TrimSpace(s))
}

func parseHijri(raw string) (int, int, int, bool) {
	if m := reSnapshot.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return year, month, day, true
	}
	if m := reNumeric.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return year, month, day, true
	}
	return 0, 0, 0, false
}

// FormatGregorianSecondary renders a Gregorian date string as "dd/mm/yyyy م"
// in the manager's zone. Input it cannot parse is returned unchanged.
func (m *Manager) FormatGregorianSecondary(s string) string {
	raw := strings.TrimSpace(s)
	for _, layout := range gregorianLayouts {
		t, err := time.ParseInLocation(layout, raw, m.loc)
		if err == nil {
			return m.FormatGregorian(t)
		}
	}
	return s
}

// FormatGregorian renders t as "dd/mm/yyyy م".
func (m *Manager) FormatGregorian(t time.Time) string {
	return t.In(m.loc).Format("02/01/2006") + " م"
}
