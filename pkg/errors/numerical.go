package errors

import (
	"math"
)

// CheckFinite returns a NonFiniteInputError for the first NaN or Inf in values.
// When mask is non-nil, positions where mask[i] == 0 are skipped: those samples
// carry no observation and their raw value is never read.
func CheckFinite(operation, input string, values, mask []float64) error {
	for i, v := range values {
		if mask != nil && mask[i] == 0 {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNonFiniteInputError(operation, input, i, v)
		}
	}
	return nil
}

// ClipValue clips a value to the range [lo, hi].
func ClipValue(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
