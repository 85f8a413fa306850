package domain

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places the ledger stores.
const AmountScale = 2

// MaxAmount is the largest value a NUMERIC(14,2) column holds.
var MaxAmount = decimal.RequireFromString("999999999999.99")

// Amount is a stored monetary value. Reading it never fails: NULL, empty
// and non-numeric values become an invalid amount whose Decimal is zero.
type Amount struct {
	Decimal decimal.Decimal
	Valid   bool
}

// NewAmount wraps a decimal as a valid amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d, Valid: true}
}

// AmountFromInt is a convenience for whole units.
func AmountFromInt(v int64) Amount {
	return NewAmount(decimal.NewFromInt(v))
}

// ParseAmount coerces any raw column or JSON value into an Amount.
func ParseAmount(v any) Amount {
	switch t := v.(type) {
	case nil:
		return Amount{}
	case Amount:
		return t
	case decimal.Decimal:
		return NewAmount(t)
	case int:
		return AmountFromInt(int64(t))
	case int32:
		return AmountFromInt(int64(t))
	case int64:
		return AmountFromInt(t)
	case float32:
		return NewAmount(decimal.NewFromFloat32(t))
	case float64:
		return NewAmount(decimal.NewFromFloat(t))
	case []byte:
		return parseAmountString(string(t))
	case string:
		return parseAmountString(t)
	default:
		return parseAmountString(fmt.Sprint(t))
	}
}

func parseAmountString(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}
	}
	return NewAmount(d)
}

// OrZero returns the decimal value, zero when the amount is invalid.
func (a Amount) OrZero() decimal.Decimal {
	if !a.Valid {
		return decimal.Zero
	}
	return a.Decimal
}

// IsPositive reports whether the amount is valid and greater than zero.
func (a Amount) IsPositive() bool {
	return a.Valid && a.Decimal.IsPositive()
}

func (a Amount) String() string {
	return a.OrZero().StringFixed(2)
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(src any) error {
	*a = ParseAmount(src)
	return nil
}

// Value implements driver.Valuer.
func (a Amount) Value() (driver.Value, error) {
	if !a.Valid {
		return nil, nil
	}
	return a.Decimal.String(), nil
}

// MarshalJSON writes the amount as a bare JSON number, or null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}
	*a = parseAmountString(string(bytes.Trim(data, `"`)))
	return nil
}
