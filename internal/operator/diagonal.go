package operator

import "math"

// Diagonal is a diagonal operator; MulVec costs O(n).
type Diagonal struct {
	d []float64
}

// NewDiagonal copies d into a diagonal operator.
func NewDiagonal(d []float64) *Diagonal {
	if len(d) == 0 {
		panic("operator: empty diagonal")
	}
	c := make([]float64, len(d))
	copy(c, d)
	return &Diagonal{d: c}
}

func (m *Diagonal) Dims() (int, int) { return len(m.d), len(m.d) }

// Diag returns a copy of the diagonal entries.
func (m *Diagonal) Diag() []float64 {
	c := make([]float64, len(m.d))
	copy(c, m.d)
	return c
}

func (m *Diagonal) MulVec(dst, x []float64) {
	if len(x) != len(m.d) || len(dst) != len(m.d) {
		panic("operator: dimension mismatch")
	}
	for i, di := range m.d {
		dst[i] = di * x[i]
	}
}

func (m *Diagonal) NormInf() float64 {
	nrm := 0.0
	for _, di := range m.d {
		nrm = math.Max(nrm, math.Abs(di))
	}
	return nrm
}
