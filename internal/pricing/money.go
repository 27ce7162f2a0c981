package pricing

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (1/100 of the API's unit).
// The upstream API speaks decimal numbers; conversion never goes through float64.
type Money int64

const (
	minorPerUnit = 100
	minorDigits  = 2
)

var ErrInvalidAmount = errors.New("invalid money amount")

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// FromUnits builds a Money from whole currency units.
func FromUnits(units int64) Money { return Money(units * minorPerUnit) }

// ParseMoney parses a decimal string such as "2000000", "19.9" or "-5.25".
// More than two fractional digits are rejected rather than rounded.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// FromDecimal converts an exact decimal amount in currency units.
func FromDecimal(d decimal.Decimal) (Money, error) {
	minor := d.Shift(minorDigits)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: %s has sub-minor precision", ErrInvalidAmount, d)
	}
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return 0, fmt.Errorf("%w: %s out of range", ErrInvalidAmount, d)
	}
	return Money(minor.IntPart()), nil
}

// Decimal is the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -minorDigits)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(minorDigits)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts JSON numbers, numeric strings and null (zero).
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = 0
		return nil
	}
	if b[0] == '"' {
		unq, err := strconv.Unquote(string(b))
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidAmount, b)
		}
		b = []byte(unq)
	}
	v, err := ParseMoney(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
