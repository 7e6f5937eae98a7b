package banded

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// IllConditionedThreshold is the squared pivot spread max(Uii²)/min(Uii²)
// above which a factorization is reported as ill-conditioned.
const IllConditionedThreshold = 1e12

// pivotTolerance scales the largest diagonal of A to the smallest pivot that
// is still treated as positive.
const pivotTolerance = 64 * 0x1p-52

// Cholesky is the upper factor U of a symmetric positive definite band
// matrix, A = UᵀU, with the same half-bandwidth as A.
//
// mat.BandCholesky keeps its factor private; the selected inverse needs U.
type Cholesky struct {
	n, k int
	// u[i*(k+1)+(j-i)] is U(i, j) for i <= j <= i+k
	u []float64
}

// factorize computes U row by row. On failure it returns the offending row and
// the pivot value that was not positive.
func factorize(a *mat.SymBandDense) (c *Cholesky, row int, pivot float64) {
	raw := a.RawSymBand()
	n, k, stride := raw.N, raw.K, raw.Stride
	w := k + 1

	var maxDiag float64
	for i := 0; i < n; i++ {
		maxDiag = math.Max(maxDiag, math.Abs(raw.Data[i*stride]))
	}
	tol := pivotTolerance * maxDiag

	u := make([]float64, n*w)
	for i := 0; i < n; i++ {
		jmax := min(i+k, n-1)
		for j := i; j <= jmax; j++ {
			s := raw.Data[i*stride+j-i]
			for m := max(0, j-k); m < i; m++ {
				s -= u[m*w+i-m] * u[m*w+j-m]
			}
			if j == i {
				if !(s > tol) {
					return nil, i, s
				}
				u[i*w] = math.Sqrt(s)
				continue
			}
			u[i*w+j-i] = s / u[i*w]
		}
	}
	return &Cholesky{n: n, k: k, u: u}, -1, 0
}

// at returns U(i, j) for i <= j.
func (c *Cholesky) at(i, j int) float64 {
	if j < i || j-i > c.k {
		return 0
	}
	return c.u[i*(c.k+1)+j-i]
}

// SolveTo solves A·dst = b in place of dst, which may alias b.
func (c *Cholesky) SolveTo(dst, b []float64) {
	if len(dst) != c.n || len(b) != c.n {
		panic(mat.ErrShape)
	}
	w := c.k + 1
	if &dst[0] != &b[0] {
		copy(dst, b)
	}
	// Uᵀ·t = b
	for i := 0; i < c.n; i++ {
		s := dst[i]
		for m := max(0, i-c.k); m < i; m++ {
			s -= c.u[m*w+i-m] * dst[m]
		}
		dst[i] = s / c.u[i*w]
	}
	// U·z = t
	for i := c.n - 1; i >= 0; i-- {
		s := dst[i]
		jmax := min(i+c.k, c.n-1)
		for j := i + 1; j <= jmax; j++ {
			s -= c.u[i*w+j-i] * dst[j]
		}
		dst[i] = s / c.u[i*w]
	}
}

// PivotRatio returns max(Uii²)/min(Uii²).
func (c *Cholesky) PivotRatio() float64 {
	w := c.k + 1
	lo, hi := math.Inf(1), 0.0
	for i := 0; i < c.n; i++ {
		p := c.u[i*w] * c.u[i*w]
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	return hi / lo
}

// LogDet returns log det(A).
func (c *Cholesky) LogDet() float64 {
	w := c.k + 1
	var s float64
	for i := 0; i < c.n; i++ {
		s += math.Log(c.u[i*w])
	}
	return 2 * s
}

// Factor returns U as a gonum triangular band matrix. The data is copied.
func (c *Cholesky) Factor() *mat.TriBandDense {
	data := make([]float64, len(c.u))
	copy(data, c.u)
	return mat.NewTriBandDense(c.n, c.k, mat.Upper, data)
}
