package krylov

import (
	"math"
	"testing"
)

func newTestPropagator(t *testing.T, a Operator, m int) *propagator {
	t.Helper()
	_, n := a.Dims()
	opts, err := (&Options{M: m, Anorm: 1}).resolve(a, n)
	if err != nil {
		t.Fatalf("resolve options: %v", err)
	}
	return &propagator{a: a, opts: opts, ws: newWorkspace(n, m), stats: &Stats{}}
}

func TestArnoldi_Orthonormal(t *testing.T) {
	n, m := 30, 8
	a := laplaceOp(n)
	w := make([]float64, n)
	for i := range w {
		w[i] = math.Sin(float64(i+1)) + 0.1*float64(i)
	}
	beta := norm2(w)

	pr := newTestPropagator(t, a, m)
	res := pr.buildBasis(w, beta)
	if res.breakdown {
		t.Fatal("unexpected happy breakdown")
	}
	if res.size != m {
		t.Fatalf("basis size %d, want %d", res.size, m)
	}
	if res.avnorm <= 0 {
		t.Errorf("avnorm should be positive, got %v", res.avnorm)
	}

	// Orthonormality of the m+1 basis vectors.
	for i := 0; i <= m; i++ {
		for j := i; j <= m; j++ {
			got := dot(pr.ws.vm[i], pr.ws.vm[j])
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(got-want) > 1e-10 {
				t.Errorf("<v%d, v%d> = %v, want %v", i, j, got, want)
			}
		}
	}

	// Arnoldi relation: A v_j = sum_{i <= j+1} h[i,j] v_i.
	ld := m + 2
	av := make([]float64, n)
	for j := 0; j < m; j++ {
		a.MulVec(av, pr.ws.vm[j])
		for i := 0; i <= j+1; i++ {
			axpy(-pr.ws.hm[i*ld+j], pr.ws.vm[i], av)
		}
		if r := norm2(av); r > 1e-10 {
			t.Errorf("column %d: Arnoldi residual %e", j, r)
		}
	}

	// Hessenberg shape below the first subdiagonal, padding entry aside.
	for j := 0; j < m; j++ {
		for i := j + 2; i < m+2; i++ {
			if i == m+1 && j == m-1 {
				continue
			}
			if h := pr.ws.hm[i*ld+j]; h != 0 {
				t.Errorf("hm[%d,%d] = %v, want 0", i, j, h)
			}
		}
	}
	if pr.ws.hm[(m+1)*ld+m] != 1 {
		t.Errorf("padding entry hm[m+1,m] = %v, want 1", pr.ws.hm[(m+1)*ld+m])
	}
}

type denseOp [][]float64

func (d denseOp) Dims() (int, int) { return len(d), len(d) }

func (d denseOp) MulVec(dst, x []float64) {
	for i, row := range d {
		s := 0.0
		for j, v := range row {
			s += v * x[j]
		}
		dst[i] = s
	}
}

func TestArnoldi_HappyBreakdown(t *testing.T) {
	// v spans a two-dimensional invariant subspace (a rotation block), so
	// the basis cannot grow past two vectors.
	a := denseOp{
		{0, -1, 0, 0},
		{1, 0, 0, 0},
		{0, 0, 2, 0},
		{0, 0, 0, 3},
	}
	w := []float64{1, 0.5, 0, 0}
	beta := norm2(w)

	pr := newTestPropagator(t, a, 4)
	res := pr.buildBasis(w, beta)
	if !res.breakdown {
		t.Fatal("expected happy breakdown")
	}
	if res.size != 2 {
		t.Errorf("breakdown size %d, want 2", res.size)
	}
}

func TestArnoldi_BreakdownAtOne(t *testing.T) {
	a := diagOp([]float64{2, 3, 5})
	w := []float64{1, 0, 0}

	pr := newTestPropagator(t, a, 3)
	res := pr.buildBasis(w, 1)
	if !res.breakdown || res.size != 1 {
		t.Errorf("eigenvector start: got breakdown=%v size=%d, want breakdown at size 1", res.breakdown, res.size)
	}
}

func TestRoundStep(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.123456, 0.13},
		{1.01, 1.1},
		{173.2, 180},
		{0.0567, 0.057},
	}
	for _, tt := range tests {
		if got := roundStep(tt.in); math.Abs(got-tt.want) > 1e-12*tt.want {
			t.Errorf("roundStep(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
