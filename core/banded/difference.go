// Package banded builds and solves the symmetric banded systems behind
// penalized least squares smoothing.
//
// The penalty operator D is stored row-compact: row i touches columns
// i..i+order only. The normal-equations matrix A = W + λ·DᵗD is held in a
// gonum SymBandDense with half-bandwidth order and factored in O(n·order²).
package banded

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scismooth/pkg/errors"
)

// DifferenceOperator is a (length-order)×length finite-difference matrix.
// It is immutable once built and safe to share between goroutines.
type DifferenceOperator struct {
	length int
	order  int
	// coeffs[i*(order+1)+j] is D(i, i+j)
	coeffs []float64
}

// ValidateXInput checks that x is finite, strictly increasing and spaced at
// least errors.XEpsilon apart.
func ValidateXInput(op string, x []float64) error {
	if err := errors.CheckFinite(op, "x_input", x, nil); err != nil {
		return err
	}
	for i := 0; i+1 < len(x); i++ {
		gap := x[i+1] - x[i]
		if gap <= 0 {
			return errors.NewNonMonotonicInputError(op, i)
		}
		if gap < errors.XEpsilon {
			return errors.NewSampleRateError(op, i, gap)
		}
	}
	return nil
}

// NewDifferenceOperator builds the order-th difference operator for length
// samples. With x nil the samples are evenly spaced and each level is a plain
// backward difference. Otherwise every composition level k divides row i by
// x[i+k]-x[i], so that D·z approximates a derivative of the given order.
func NewDifferenceOperator(length, order int, x []float64) (*DifferenceOperator, error) {
	const op = "NewDifferenceOperator"
	if order < 1 || order >= length {
		return nil, errors.NewInvalidOrderError(op, order, length)
	}
	if x != nil {
		if len(x) != length {
			return nil, errors.NewLengthMismatchError(op, "x_input", length, len(x))
		}
		if err := ValidateXInput(op, x); err != nil {
			return nil, err
		}
	}

	width := order + 1
	// level 0 is the identity; prev holds width-strided rows of the previous level.
	prev := make([]float64, length*width)
	for i := 0; i < length; i++ {
		prev[i*width] = 1
	}
	for k := 1; k <= order; k++ {
		rows := length - k
		next := make([]float64, rows*width)
		for i := 0; i < rows; i++ {
			scale := 1.0
			if x != nil {
				scale = 1 / (x[i+k] - x[i])
			}
			// row i+1 of the previous level starts one column later
			for j := 0; j <= k; j++ {
				var v float64
				if j >= 1 {
					v += prev[(i+1)*width+j-1]
				}
				if j < k {
					v -= prev[i*width+j]
				}
				next[i*width+j] = v * scale
			}
		}
		prev = next
	}

	return &DifferenceOperator{length: length, order: order, coeffs: prev}, nil
}

// Length returns the number of columns.
func (d *DifferenceOperator) Length() int { return d.length }

// Order returns the difference order.
func (d *DifferenceOperator) Order() int { return d.order }

// Rows returns length-order.
func (d *DifferenceOperator) Rows() int { return d.length - d.order }

// Row returns the order+1 nonzero coefficients of row i, starting at column i.
// The returned slice must not be modified.
func (d *DifferenceOperator) Row(i int) []float64 {
	w := d.order + 1
	return d.coeffs[i*w : (i+1)*w : (i+1)*w]
}

// Apply computes dst = D·z. dst is allocated when nil.
func (d *DifferenceOperator) Apply(dst, z []float64) []float64 {
	if len(z) != d.length {
		panic(mat.ErrShape)
	}
	rows := d.Rows()
	if dst == nil {
		dst = make([]float64, rows)
	}
	for i := 0; i < rows; i++ {
		var s float64
		for j, c := range d.Row(i) {
			s += c * z[i+j]
		}
		dst[i] = s
	}
	return dst
}

// Penalty returns |D·z|².
func (d *DifferenceOperator) Penalty(z []float64) float64 {
	var s float64
	for _, v := range d.Apply(nil, z) {
		s += v * v
	}
	return s
}

// Matrix returns D as a gonum band matrix with no sub-diagonals and order
// super-diagonals. The data is copied.
func (d *DifferenceOperator) Matrix() *mat.BandDense {
	data := make([]float64, len(d.coeffs))
	copy(data, d.coeffs)
	return mat.NewBandDense(d.Rows(), d.length, 0, d.order, data)
}
