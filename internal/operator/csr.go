package operator

import (
	"errors"
	"math"
	"sort"
)

// ErrIndexOutOfRange indicates a triplet outside the matrix bounds.
var ErrIndexOutOfRange = errors.New("operator: entry index out of range")

// Triplet is one coordinate-format matrix entry. Duplicate coordinates
// accumulate on assembly.
type Triplet struct {
	Row, Col int
	Val      float64
}

// CSR is a compressed sparse row matrix.
type CSR struct {
	rows, cols int
	rowptr     []int
	colind     []int
	val        []float64
}

// NewCSR assembles an r x c sparse matrix from coordinate triplets.
func NewCSR(r, c int, entries []Triplet) (*CSR, error) {
	if r <= 0 || c <= 0 {
		return nil, errors.New("operator: non-positive dimension")
	}
	for _, e := range entries {
		if e.Row < 0 || r <= e.Row || e.Col < 0 || c <= e.Col {
			return nil, ErrIndexOutOfRange
		}
	}

	sorted := make([]Triplet, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})

	m := &CSR{
		rows:   r,
		cols:   c,
		rowptr: make([]int, r+1),
		colind: make([]int, 0, len(sorted)),
		val:    make([]float64, 0, len(sorted)),
	}
	lastRow, lastCol := -1, -1
	for _, e := range sorted {
		if e.Row == lastRow && e.Col == lastCol {
			m.val[len(m.val)-1] += e.Val
			continue
		}
		m.colind = append(m.colind, e.Col)
		m.val = append(m.val, e.Val)
		m.rowptr[e.Row+1]++
		lastRow, lastCol = e.Row, e.Col
	}
	for i := 0; i < r; i++ {
		m.rowptr[i+1] += m.rowptr[i]
	}
	return m, nil
}

func (m *CSR) Dims() (int, int) { return m.rows, m.cols }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.val) }

func (m *CSR) MulVec(dst, x []float64) {
	if len(x) != m.cols || len(dst) != m.rows {
		panic("operator: dimension mismatch")
	}
	for i := 0; i < m.rows; i++ {
		s := 0.0
		for k := m.rowptr[i]; k < m.rowptr[i+1]; k++ {
			s += m.val[k] * x[m.colind[k]]
		}
		dst[i] = s
	}
}

func (m *CSR) NormInf() float64 {
	nrm := 0.0
	for i := 0; i < m.rows; i++ {
		s := 0.0
		for k := m.rowptr[i]; k < m.rowptr[i+1]; k++ {
			s += math.Abs(m.val[k])
		}
		nrm = math.Max(nrm, s)
	}
	return nrm
}

// Laplacian1D returns the n x n second-difference operator with Dirichlet
// boundaries on a grid of spacing h, scaled by 1/h^2.
func Laplacian1D(n int, h float64) *CSR {
	if n <= 0 || h <= 0 {
		panic("operator: invalid grid")
	}
	inv := 1 / (h * h)
	entries := make([]Triplet, 0, 3*n)
	for i := 0; i < n; i++ {
		entries = append(entries, Triplet{Row: i, Col: i, Val: -2 * inv})
		if i > 0 {
			entries = append(entries, Triplet{Row: i, Col: i - 1, Val: inv})
		}
		if i < n-1 {
			entries = append(entries, Triplet{Row: i, Col: i + 1, Val: inv})
		}
	}
	m, err := NewCSR(n, n, entries)
	if err != nil {
		panic(err)
	}
	return m
}
