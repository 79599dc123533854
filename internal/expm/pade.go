// Package expm computes dense matrix exponentials of small square matrices
// via the irreducible degree-6 diagonal Pade approximant with scaling and
// squaring. Matrices are flat row-major slices.
package expm

import (
	"errors"
	"math"
)

// Domain errors for dense exponentiation.
var (
	// ErrShape indicates the slice does not hold an n x n matrix.
	ErrShape = errors.New("expm: matrix size mismatch")

	// ErrSingular indicates a numerically singular Pade denominator.
	ErrSingular = errors.New("expm: pade denominator is singular")
)

const ideg = 6

// Pade returns e^a for the n x n row-major matrix a. The input is not
// modified.
func Pade(a []float64, n int) ([]float64, error) {
	if n <= 0 || len(a) < n*n {
		return nil, ErrShape
	}

	// Pade coefficients for the degree-6 approximant.
	c := make([]float64, ideg+1)
	c[0] = 1
	for k := 1; k <= ideg; k++ {
		c[k] = c[k-1] * float64(ideg+1-k) / float64(k*(2*ideg+1-k))
	}

	// Scale by a power of two so the inf-norm is O(1).
	nrm := 0.0
	for i := 0; i < n; i++ {
		row := 0.0
		for j := 0; j < n; j++ {
			row += math.Abs(a[i*n+j])
		}
		nrm = math.Max(nrm, row)
	}
	ns := 0
	if nrm > 0 {
		ns = int(math.Floor(math.Log2(nrm))) + 2
		if ns < 0 {
			ns = 0
		}
	}
	scale := math.Ldexp(1, -ns)

	h := make([]float64, n*n)
	for i := range h {
		h[i] = scale * a[i]
	}
	h2 := make([]float64, n*n)
	matmul(h2, h, h, n)

	// Horner evaluation of the numerator and denominator in h2, odd and
	// even coefficients interleaved.
	q := diag(c[ideg], n)
	p := diag(c[ideg-1], n)
	tmp := make([]float64, n*n)
	odd := true
	for k := ideg - 2; k >= 0; k-- {
		if odd {
			matmul(tmp, q, h2, n)
			addDiag(tmp, c[k], n)
			q, tmp = tmp, q
		} else {
			matmul(tmp, p, h2, n)
			addDiag(tmp, c[k], n)
			p, tmp = tmp, p
		}
		odd = !odd
	}
	if odd {
		matmul(tmp, q, h, n)
		q, tmp = tmp, q
	} else {
		matmul(tmp, p, h, n)
		p, tmp = tmp, p
	}

	for i := range q {
		q[i] -= p[i]
	}
	x, err := solve(q, p, n)
	if err != nil {
		return nil, err
	}
	for i := range x {
		x[i] *= 2
	}
	addDiag(x, 1, n)
	if odd {
		for i := range x {
			x[i] = -x[i]
		}
	}

	// Undo the scaling by repeated squaring.
	e := x
	for s := 0; s < ns; s++ {
		matmul(tmp, e, e, n)
		e, tmp = tmp, e
	}
	out := make([]float64, n*n)
	copy(out, e)
	return out, nil
}

func matmul(dst, a, b []float64, n int) {
	for i := 0; i < n; i++ {
		row := dst[i*n : i*n+n]
		for j := range row {
			row[j] = 0
		}
		for k := 0; k < n; k++ {
			aik := a[i*n+k]
			if aik == 0 {
				continue
			}
			bk := b[k*n : k*n+n]
			for j := range row {
				row[j] += aik * bk[j]
			}
		}
	}
}

func diag(v float64, n int) []float64 {
	d := make([]float64, n*n)
	for i := 0; i < n; i++ {
		d[i*n+i] = v
	}
	return d
}

func addDiag(a []float64, v float64, n int) {
	for i := 0; i < n; i++ {
		a[i*n+i] += v
	}
}

// solve computes X satisfying q*X = p by LU factorization with partial
// pivoting. q and p are clobbered; the returned X aliases p.
func solve(q, p []float64, n int) ([]float64, error) {
	for k := 0; k < n; k++ {
		// Pivot on the largest magnitude in column k.
		piv := k
		pmax := math.Abs(q[k*n+k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(q[i*n+k]); v > pmax {
				piv, pmax = i, v
			}
		}
		if pmax == 0 {
			return nil, ErrSingular
		}
		if piv != k {
			swapRows(q, piv, k, n)
			swapRows(p, piv, k, n)
		}

		inv := 1 / q[k*n+k]
		for i := k + 1; i < n; i++ {
			l := q[i*n+k] * inv
			if l == 0 {
				continue
			}
			q[i*n+k] = 0
			for j := k + 1; j < n; j++ {
				q[i*n+j] -= l * q[k*n+j]
			}
			for j := 0; j < n; j++ {
				p[i*n+j] -= l * p[k*n+j]
			}
		}
	}

	// Back substitution, all right-hand sides at once.
	for k := n - 1; k >= 0; k-- {
		inv := 1 / q[k*n+k]
		for j := 0; j < n; j++ {
			s := p[k*n+j]
			for i := k + 1; i < n; i++ {
				s -= q[k*n+i] * p[i*n+j]
			}
			p[k*n+j] = s * inv
		}
	}
	return p, nil
}

func swapRows(a []float64, i, j, n int) {
	ri, rj := a[i*n:i*n+n], a[j*n:j*n+n]
	for k := range ri {
		ri[k], rj[k] = rj[k], ri[k]
	}
}
