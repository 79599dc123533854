// Package trace records accepted propagation steps for later inspection,
// plotting, and export.
package trace

import "github.com/san-kum/expmv/internal/krylov"

// Recorder collects every accepted step, in order. It implements
// krylov.StepObserver.
type Recorder struct {
	Steps []krylov.Step
}

func NewRecorder() *Recorder {
	return &Recorder{Steps: make([]krylov.Step, 0, 64)}
}

func (r *Recorder) OnStep(s krylov.Step) {
	r.Steps = append(r.Steps, s)
}

func (r *Recorder) Reset() {
	r.Steps = r.Steps[:0]
}

// Times returns the cumulative time after each accepted step.
func (r *Recorder) Times() []float64 {
	return r.column(func(s krylov.Step) float64 { return s.Time })
}

// Taus returns the accepted step sizes.
func (r *Recorder) Taus() []float64 {
	return r.column(func(s krylov.Step) float64 { return s.Tau })
}

// Errs returns the local error estimates.
func (r *Recorder) Errs() []float64 {
	return r.column(func(s krylov.Step) float64 { return s.Err })
}

// Norms returns the state-vector norm after each step.
func (r *Recorder) Norms() []float64 {
	return r.column(func(s krylov.Step) float64 { return s.Norm })
}

func (r *Recorder) column(f func(krylov.Step) float64) []float64 {
	out := make([]float64, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = f(s)
	}
	return out
}
