// Package checked provides int64 arithmetic that panics with a
// checked_overflow defect instead of wrapping.
package checked

import (
	"fmt"
	"math"

	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
)

func overflow(op string, a, b int64) {
	panic(errors.Defect(errors.CheckedOverflow, fmt.Sprintf("%d %s %d overflows int64", a, op, b), nil))
}

// Add returns a+b and panics on overflow/underflow.
func Add(a, b int64) int64 {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		overflow("+", a, b)
	}
	return a + b
}

// Sub returns a-b and panics on overflow/underflow.
func Sub(a, b int64) int64 {
	if (b > 0 && a < math.MinInt64+b) || (b < 0 && a > math.MaxInt64+b) {
		overflow("-", a, b)
	}
	return a - b
}

// Mul returns a*b and panics on overflow/underflow.
func Mul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > 0 {
		if b > 0 {
			if a > math.MaxInt64/b {
				overflow("*", a, b)
			}
		} else if b < math.MinInt64/a {
			overflow("*", a, b)
		}
	} else {
		if b > 0 {
			if a < math.MinInt64/b {
				overflow("*", a, b)
			}
		} else if a < math.MaxInt64/b {
			overflow("*", a, b)
		}
	}
	return a * b
}

// Min returns the smaller of a and b.
func Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// NonNegative clamps negative values to zero.
func NonNegative(a int64) int64 {
	if a < 0 {
		return 0
	}
	return a
}
