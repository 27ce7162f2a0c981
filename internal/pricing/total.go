package pricing

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNegativeAmount = errors.New("negative amount")
	ErrOverflow       = errors.New("amount overflow")
)

// ComputeTotal returns base + variantDelta + sum(addOns). The order of addOns
// does not matter. Any negative input is rejected, never clamped.
func ComputeTotal(base, variantDelta Money, addOns []Money) (Money, error) {
	if base < 0 {
		return 0, fmt.Errorf("%w: base price %s", ErrNegativeAmount, base)
	}
	if variantDelta < 0 {
		return 0, fmt.Errorf("%w: variant delta %s", ErrNegativeAmount, variantDelta)
	}
	total, err := add(base, variantDelta)
	if err != nil {
		return 0, err
	}
	for i, a := range addOns {
		if a < 0 {
			return 0, fmt.Errorf("%w: add-on #%d price %s", ErrNegativeAmount, i, a)
		}
		if total, err = add(total, a); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Sum is ComputeTotal without a base or variant, used for service bookings.
func Sum(items []Money) (Money, error) {
	return ComputeTotal(0, 0, items)
}

func add(a, b Money) (Money, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}
