package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSR_MatchesDense(t *testing.T) {
	// Unsorted triplets with one duplicate coordinate.
	entries := []Triplet{
		{Row: 2, Col: 0, Val: 5},
		{Row: 0, Col: 1, Val: 2},
		{Row: 1, Col: 1, Val: -3},
		{Row: 0, Col: 0, Val: 1},
		{Row: 0, Col: 1, Val: 0.5}, // accumulates onto {0,1}
		{Row: 2, Col: 2, Val: 4},
	}
	sp, err := NewCSR(3, 3, entries)
	require.NoError(t, err)
	assert.Equal(t, 5, sp.NNZ())

	dn, err := FromRows([][]float64{
		{1, 2.5, 0},
		{0, -3, 0},
		{5, 0, 4},
	})
	require.NoError(t, err)

	for _, x := range [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{1, -2, 3},
	} {
		got := make([]float64, 3)
		want := make([]float64, 3)
		sp.MulVec(got, x)
		dn.MulVec(want, x)
		assert.Equal(t, want, got, "x = %v", x)
	}

	assert.Equal(t, dn.NormInf(), sp.NormInf())
}

func TestCSR_IndexOutOfRange(t *testing.T) {
	_, err := NewCSR(2, 2, []Triplet{{Row: 2, Col: 0, Val: 1}})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = NewCSR(2, 2, []Triplet{{Row: 0, Col: -1, Val: 1}})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestCSR_Empty(t *testing.T) {
	m, err := NewCSR(3, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.NNZ())

	dst := []float64{9, 9, 9}
	m.MulVec(dst, []float64{1, 1, 1})
	assert.Equal(t, []float64{0, 0, 0}, dst)
	assert.Equal(t, 0.0, m.NormInf())
}

func TestLaplacian1D(t *testing.T) {
	n := 5
	h := 0.5
	m := Laplacian1D(n, h)

	r, c := m.Dims()
	assert.Equal(t, n, r)
	assert.Equal(t, n, c)

	inv := 1 / (h * h)
	ones := []float64{1, 1, 1, 1, 1}
	dst := make([]float64, n)
	m.MulVec(dst, ones)

	// Interior rows sum to zero; boundary rows feel the Dirichlet wall.
	assert.InDelta(t, -inv, dst[0], 1e-12)
	for i := 1; i < n-1; i++ {
		assert.InDelta(t, 0, dst[i], 1e-12, "row %d", i)
	}
	assert.InDelta(t, -inv, dst[n-1], 1e-12)

	assert.InDelta(t, 4*inv, m.NormInf(), 1e-12)
	assert.Panics(t, func() { Laplacian1D(0, 1) })
}
