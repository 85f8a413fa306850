package hijri

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatHijriDisplay(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "snapshot string", input: "1/9 رمضان 1445 هـ", expected: "1 رمضان 1445 هـ"},
		{name: "snapshot without suffix", input: "15/3 ربيع الأول 1446", expected: "15 ربيع الأول 1446 هـ"},
		{name: "numeric dashes", input: "1445-09-01", expected: "1 رمضان 1445 هـ"},
		{name: "numeric slashes", input: "1446/12/29", expected: "29 ذو الحجة 1446 هـ"},
		{name: "garbage", input: "not a date", expected: "not a date"},
		{name: "empty", input: "", expected: ""},
		{name: "month out of range", input: "1445-13-01", expected: "1445-13-01"},
		{name: "day out of range", input: "40/1 محرم 1445 هـ", expected: "40/1 محرم 1445 هـ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.expected, FormatHijriDisplay(tt.input))
			})
		})
	}
}

func TestFormatGregorianSecondary(t *testing.T) {
	m := NewManager(time.FixedZone("AST", 3*60*60))

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "date only", input: "2024-03-11", expected: "11/03/2024 م"},
		{name: "rfc3339 crosses midnight", input: "2024-03-10T22:30:00Z", expected: "11/03/2024 م"},
		{name: "sql timestamp", input: "2024-03-11 08:00:00", expected: "11/03/2024 م"},
		{name: "legacy garbage", input: "11th of March", expected: "11th of March"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.FormatGregorianSecondary(tt.input))
		})
	}
}
