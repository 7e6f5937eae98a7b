package banded

// SelectedInverse returns the entries of A⁻¹ inside the band of A, in the
// same row-compact layout as the factor: s[i*(k+1)+(j-i)] is (A⁻¹)(i, j).
//
// With Σ = A⁻¹ and A = UᵀU, U·Σ = U⁻ᵀ is lower triangular with diagonal
// 1/Uii, which gives for j >= i
//
//	Σ(i, j) = (δij/Uii − Σ_{m=i+1}^{i+k} U(i, m)·Σ(m, j)) / Uii
//
// Rows are filled from the bottom so every Σ(m, j) on the right is already
// known and lies within the band. Cost is O(n·k²).
func (c *Cholesky) SelectedInverse() []float64 {
	n, k := c.n, c.k
	w := k + 1
	s := make([]float64, n*w)

	sigma := func(i, j int) float64 {
		if j < i {
			i, j = j, i
		}
		return s[i*w+j-i]
	}

	for i := n - 1; i >= 0; i-- {
		uii := c.u[i*w]
		mmax := min(i+k, n-1)
		for j := mmax; j >= i; j-- {
			var acc float64
			for m := i + 1; m <= mmax; m++ {
				acc += c.u[i*w+m-i] * sigma(m, j)
			}
			v := -acc
			if j == i {
				v += 1 / uii
			}
			s[i*w+j-i] = v / uii
		}
	}
	return s
}

// InverseDiagonal returns the diagonal of A⁻¹.
func (c *Cholesky) InverseDiagonal() []float64 {
	w := c.k + 1
	s := c.SelectedInverse()
	diag := make([]float64, c.n)
	for i := range diag {
		diag[i] = s[i*w]
	}
	return diag
}
