// Package sweep runs the same propagation under several tolerances
// concurrently, for accuracy/cost studies.
package sweep

import (
	"context"
	"sync"

	"github.com/san-kum/expmv/internal/krylov"
)

// Result holds the outcome of one propagation in a sweep.
type Result struct {
	Tol   float64
	Stats krylov.Stats
	W     []float64
}

// Sweep propagates a fixed (t, A, v) problem once per tolerance.
type Sweep struct {
	t    float64
	a    krylov.Operator
	v    []float64
	base krylov.Options
}

func New(t float64, a krylov.Operator, v []float64, base krylov.Options) *Sweep {
	return &Sweep{t: t, a: a, v: v, base: base}
}

// Run launches one propagation per tolerance and waits for all of them.
// The base options' observer is not carried into the workers; observers
// are not safe for concurrent use.
func (s *Sweep) Run(ctx context.Context, tols []float64) ([]Result, error) {
	results := make([]Result, len(tols))
	errs := make([]error, len(tols))

	var wg sync.WaitGroup
	for i, tol := range tols {
		wg.Add(1)
		go func(idx int, tol float64) {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}

			opts := s.base
			opts.Tol = tol
			opts.Observer = nil

			w := make([]float64, len(s.v))
			stats, err := krylov.ExpmvTo(w, s.t, s.a, s.v, &opts)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx] = Result{Tol: tol, Stats: stats, W: w}
		}(i, tol)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
