package operator

import (
	"errors"
	"math"
)

// ErrRagged indicates rows of unequal length.
var ErrRagged = errors.New("operator: rows have unequal length")

// Dense is a dense row-major matrix.
type Dense struct {
	rows, cols int
	data       []float64
}

// NewDense returns a zero r x c matrix.
func NewDense(r, c int) *Dense {
	if r <= 0 || c <= 0 {
		panic("operator: non-positive dimension")
	}
	return &Dense{rows: r, cols: c, data: make([]float64, r*c)}
}

// FromRows builds a dense matrix from a slice of equal-length rows.
func FromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("operator: empty matrix")
	}
	c := len(rows[0])
	m := NewDense(len(rows), c)
	for i, row := range rows {
		if len(row) != c {
			return nil, ErrRagged
		}
		copy(m.data[i*c:(i+1)*c], row)
	}
	return m, nil
}

func (m *Dense) Dims() (int, int) { return m.rows, m.cols }

func (m *Dense) At(i, j int) float64 {
	m.check(i, j)
	return m.data[i*m.cols+j]
}

func (m *Dense) Set(i, j int, v float64) {
	m.check(i, j)
	m.data[i*m.cols+j] = v
}

func (m *Dense) check(i, j int) {
	if i < 0 || m.rows <= i {
		panic("operator: row index out of range")
	}
	if j < 0 || m.cols <= j {
		panic("operator: column index out of range")
	}
}

// MulVec computes dst = A*x.
func (m *Dense) MulVec(dst, x []float64) {
	if len(x) != m.cols || len(dst) != m.rows {
		panic("operator: dimension mismatch")
	}
	for i := 0; i < m.rows; i++ {
		row := m.data[i*m.cols : (i+1)*m.cols]
		s := 0.0
		for j, v := range row {
			s += v * x[j]
		}
		dst[i] = s
	}
}

// NormInf returns the maximum absolute row sum.
func (m *Dense) NormInf() float64 {
	nrm := 0.0
	for i := 0; i < m.rows; i++ {
		s := 0.0
		for _, v := range m.data[i*m.cols : (i+1)*m.cols] {
			s += math.Abs(v)
		}
		nrm = math.Max(nrm, s)
	}
	return nrm
}
