package banded

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scismooth/pkg/errors"
)

// System is an assembled and factored A = W + λ·DᵗD.
// It is immutable and safe for concurrent solves.
type System struct {
	n       int
	k       int
	lambda  float64
	weights []float64 // nil means unit weights
	a       *mat.SymBandDense
	chol    *Cholesky
}

// Assemble builds A = diag(weights) + λ·DᵗD and factors it.
// weights may be nil for unit weights; it is not copied and must not be
// modified afterwards. A non-positive pivot yields a SingularSystemError.
func Assemble(weights []float64, op *DifferenceOperator, lambda float64) (*System, error) {
	const opName = "Assemble"
	n, k := op.Length(), op.Order()
	if weights != nil && len(weights) != n {
		return nil, errors.NewLengthMismatchError(opName, "weights", n, len(weights))
	}
	if lambda < 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return nil, errors.NewInvalidLambdaError(opName, lambda)
	}

	w := k + 1
	data := make([]float64, n*w)
	// each row r of D contributes λ·dᵗd to the block starting at (r, r)
	for r := 0; r < op.Rows(); r++ {
		row := op.Row(r)
		for p := 0; p <= k; p++ {
			lp := lambda * row[p]
			for q := p; q <= k; q++ {
				data[(r+p)*w+q-p] += lp * row[q]
			}
		}
	}
	for i := 0; i < n; i++ {
		if weights == nil {
			data[i*w]++
		} else {
			data[i*w] += weights[i]
		}
	}
	a := mat.NewSymBandDense(n, k, data)

	chol, row, pivot := factorize(a)
	if chol == nil {
		return nil, errors.NewSingularSystemError("Factorize", row, pivot, lambda)
	}
	if ratio := chol.PivotRatio(); ratio > IllConditionedThreshold {
		errors.Warn(errors.NewIllConditionedWarning(lambda, ratio))
	}

	return &System{n: n, k: k, lambda: lambda, weights: weights, a: a, chol: chol}, nil
}

// Len returns the system size.
func (s *System) Len() int { return s.n }

// Bandwidth returns the half-bandwidth.
func (s *System) Bandwidth() int { return s.k }

// Lambda returns the smoothing parameter the system was assembled with.
func (s *System) Lambda() float64 { return s.lambda }

// Matrix returns A. It must not be modified.
func (s *System) Matrix() *mat.SymBandDense { return s.a }

// Factor returns the Cholesky factor of A.
func (s *System) Factor() *Cholesky { return s.chol }

// Solve returns z with A·z = W·y. Samples with zero weight do not enter the
// right-hand side, so their value in y is never read.
func (s *System) Solve(y []float64) ([]float64, error) {
	if len(y) != s.n {
		return nil, errors.NewLengthMismatchError("Solve", "y", s.n, len(y))
	}
	z := make([]float64, s.n)
	if s.weights == nil {
		copy(z, y)
	} else {
		for i, w := range s.weights {
			if w != 0 {
				z[i] = w * y[i]
			}
		}
	}
	s.chol.SolveTo(z, z)
	return z, nil
}

// Leverage returns the diagonal of the hat matrix H = A⁻¹·W, h_i = w_i·(A⁻¹)ii.
func (s *System) Leverage() []float64 {
	h := s.chol.InverseDiagonal()
	if s.weights != nil {
		for i, w := range s.weights {
			h[i] *= w
		}
	}
	return h
}
