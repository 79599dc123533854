package sweep

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/expmv/internal/krylov"
)

type diagOp struct{ d []float64 }

func (o diagOp) Dims() (int, int) { return len(o.d), len(o.d) }

func (o diagOp) MulVec(dst, x []float64) {
	for i, di := range o.d {
		dst[i] = di * x[i]
	}
}

func (o diagOp) NormInf() float64 {
	m := 0.0
	for _, di := range o.d {
		if a := math.Abs(di); a > m {
			m = a
		}
	}
	return m
}

func TestSweepRun(t *testing.T) {
	n := 40
	d := make([]float64, n)
	v := make([]float64, n)
	for i := range d {
		d[i] = -float64(i+1) / 10
		v[i] = 1
	}
	a := diagOp{d: d}

	tols := []float64{1e-4, 1e-7, 1e-10}
	sw := New(1.0, a, v, krylov.Options{M: 10})

	results, err := sw.Run(context.Background(), tols)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != len(tols) {
		t.Fatalf("got %d results, want %d", len(results), len(tols))
	}

	for _, res := range results {
		if res.Stats.Steps == 0 {
			t.Errorf("tol %g: no steps recorded", res.Tol)
		}
		for i := range v {
			want := math.Exp(d[i])
			if diff := math.Abs(res.W[i] - want); diff > 100*res.Tol {
				t.Errorf("tol %g: component %d off by %.3e", res.Tol, i, diff)
			}
		}
	}
}

func TestSweepCanceledContext(t *testing.T) {
	a := diagOp{d: []float64{-1, -2}}
	sw := New(1.0, a, []float64{1, 1}, krylov.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := sw.Run(ctx, []float64{1e-7}); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
