package domain

import (
	"github.com/shopspring/decimal"
)

// Amount is a decimal quantity (money, percentages) that travels as a JSON
// number. decimal.Decimal alone would be quoted on the wire.
type Amount struct {
	value decimal.Decimal
}

// A builds an Amount from a float or integer literal. Integers convert
// exactly; floats take their shortest decimal representation.
func A[T float64 | int | int64](v T) Amount {
	if f, ok := any(v).(float64); ok {
		return Amount{value: decimal.NewFromFloat(f)}
	}
	return Amount{value: decimal.NewFromInt(int64(v))}
}

// NewAmount wraps a decimal.
func NewAmount(d decimal.Decimal) Amount { return Amount{value: d} }

// ParseAmount parses a decimal string such as "1250.50".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidArgument.WithDetails("amount " + s).WithCause(err)
	}
	return Amount{value: d}, nil
}

// Decimal returns the underlying decimal.
func (a Amount) Decimal() decimal.Decimal { return a.value }

// Equal compares by numeric value, so 1.50 equals 1.5.
func (a Amount) Equal(b Amount) bool { return a.value.Equal(b.value) }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return Amount{value: a.value.Add(b.value)} }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return Amount{value: a.value.Sub(b.value)} }

// IsZero reports whether the amount is zero. The zero Amount is zero.
func (a Amount) IsZero() bool { return a.value.IsZero() }

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool { return a.value.IsNegative() }

// Float64 returns the nearest float64. Use it for display and charts only.
func (a Amount) Float64() float64 { return a.value.InexactFloat64() }

// String formats the amount without trailing zeros, e.g. "1250.5".
func (a Amount) String() string { return a.value.String() }

// StringFixed rounds to the given number of decimal places.
func (a Amount) StringFixed(places int32) string { return a.value.StringFixed(places) }

// MarshalJSON writes the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.value.String()), nil
}

// UnmarshalJSON accepts both numbers and quoted decimal strings.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		a.value = decimal.Zero
		return nil
	}
	return a.value.UnmarshalJSON(b)
}

// MarshalYAML writes the amount as a number.
func (a Amount) MarshalYAML() (interface{}, error) {
	return a.value.InexactFloat64(), nil
}
