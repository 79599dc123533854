package expm

import (
	"errors"
	"math"
	"testing"
)

func TestPade_Zero(t *testing.T) {
	n := 4
	e, err := Pade(make([]float64, n*n), n)
	if err != nil {
		t.Fatalf("Pade returned error: %v", err)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(e[i*n+j]-want) > 1e-15 {
				t.Errorf("e[%d,%d] = %v, want %v", i, j, e[i*n+j], want)
			}
		}
	}
}

func TestPade_Diagonal(t *testing.T) {
	d := []float64{1, -2, 0.5}
	n := len(d)
	a := make([]float64, n*n)
	for i, di := range d {
		a[i*n+i] = di
	}

	e, err := Pade(a, n)
	if err != nil {
		t.Fatalf("Pade returned error: %v", err)
	}
	for i, di := range d {
		want := math.Exp(di)
		if math.Abs(e[i*n+i]-want) > 1e-12*want {
			t.Errorf("e[%d,%d] = %v, want %v", i, i, e[i*n+i], want)
		}
		for j := 0; j < n; j++ {
			if j != i && math.Abs(e[i*n+j]) > 1e-13 {
				t.Errorf("off-diagonal e[%d,%d] = %v, want 0", i, j, e[i*n+j])
			}
		}
	}
}

func TestPade_Rotation(t *testing.T) {
	theta := 0.7
	a := []float64{0, -theta, theta, 0}

	e, err := Pade(a, 2)
	if err != nil {
		t.Fatalf("Pade returned error: %v", err)
	}
	want := []float64{math.Cos(theta), -math.Sin(theta), math.Sin(theta), math.Cos(theta)}
	for i := range want {
		if math.Abs(e[i]-want[i]) > 1e-13 {
			t.Errorf("entry %d: got %v, want %v", i, e[i], want[i])
		}
	}
}

func TestPade_Nilpotent(t *testing.T) {
	// exp([[0,1],[0,0]]) = [[1,1],[0,1]].
	e, err := Pade([]float64{0, 1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Pade returned error: %v", err)
	}
	want := []float64{1, 1, 0, 1}
	for i := range want {
		if math.Abs(e[i]-want[i]) > 1e-14 {
			t.Errorf("entry %d: got %v, want %v", i, e[i], want[i])
		}
	}
}

func TestPade_LargeNorm(t *testing.T) {
	// Exercises the scaling-and-squaring branch.
	d := []float64{10, -10}
	a := []float64{d[0], 0, 0, d[1]}

	e, err := Pade(a, 2)
	if err != nil {
		t.Fatalf("Pade returned error: %v", err)
	}
	for i, di := range d {
		want := math.Exp(di)
		if math.Abs(e[i*2+i]-want) > 1e-11*want {
			t.Errorf("e[%d,%d] = %v, want %v", i, i, e[i*2+i], want)
		}
	}
}

func TestPade_AgainstTaylor(t *testing.T) {
	a := []float64{
		0.2, -0.1, 0.05,
		0.3, 0.1, -0.2,
		-0.15, 0.25, 0.05,
	}
	n := 3

	// Taylor reference; the norm is small enough for fast convergence.
	ref := make([]float64, n*n)
	term := make([]float64, n*n)
	next := make([]float64, n*n)
	for i := 0; i < n; i++ {
		ref[i*n+i] = 1
		term[i*n+i] = 1
	}
	for k := 1; k <= 25; k++ {
		matmul(next, term, a, n)
		for i := range next {
			next[i] /= float64(k)
		}
		term, next = next, term
		for i := range ref {
			ref[i] += term[i]
		}
	}

	e, err := Pade(a, n)
	if err != nil {
		t.Fatalf("Pade returned error: %v", err)
	}
	for i := range ref {
		if math.Abs(e[i]-ref[i]) > 1e-12 {
			t.Errorf("entry %d: got %v, want %v", i, e[i], ref[i])
		}
	}
}

func TestPade_Shape(t *testing.T) {
	if _, err := Pade([]float64{1, 2, 3}, 2); !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape, got %v", err)
	}
	if _, err := Pade(nil, 0); !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape for n=0, got %v", err)
	}
}
