package krylov

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/expmv/internal/expm"
)

// Operator is a finite-dimensional linear operator. Implementations must
// treat MulVec as a pure function: dst is fully overwritten with A*x and x is
// never modified.
type Operator interface {
	Dims() (r, c int)
	MulVec(dst, x []float64)
}

// NormEstimator is optionally implemented by operators that can bound their
// own operator norm. The estimate seeds the initial step size; a loose bound
// only costs extra (self-correcting) steps.
type NormEstimator interface {
	NormInf() float64
}

// NormFunc computes a vector norm. It must be compatible with the Euclidean
// inner product used by the Arnoldi orthogonalization.
type NormFunc func(x []float64) float64

// ExpmFunc computes the dense matrix exponential of an n x n row-major
// matrix, returning a freshly allocated n x n result.
type ExpmFunc func(a []float64, n int) ([]float64, error)

// Step describes one accepted propagation step.
type Step struct {
	Time      float64 `json:"time"`       // cumulative propagated time after the step
	Tau       float64 `json:"tau"`        // accepted step size
	Err       float64 `json:"err"`        // local error estimate (round-off clamped)
	Norm      float64 `json:"norm"`       // norm of the state vector after the step
	BasisSize int     `json:"basis_size"` // Krylov basis size used; < m only on happy breakdown
}

// StepObserver receives every accepted step, in order.
type StepObserver interface {
	OnStep(s Step)
}

// Options configures a propagation. The zero value of every field means
// "use the default".
type Options struct {
	// Tol is the local error tolerance per unit step. Default 1e-7.
	Tol float64

	// M is the maximum Krylov subspace dimension. Default min(30, dim).
	M int

	// Anorm is an estimate of the operator norm of A. If zero, the operator's
	// NormInf is used when available, otherwise 1.0 with a warning.
	Anorm float64

	// Norm computes vector norms. Default is the Euclidean norm.
	Norm NormFunc

	// Expm computes the small dense matrix exponential. Default is
	// expm.Pade.
	Expm ExpmFunc

	// Observer, if non-nil, is notified of every accepted step.
	Observer StepObserver

	// Warnf handles non-fatal warnings. Default writes to stderr.
	Warnf func(format string, args ...any)
}

// DefaultOptions returns the documented defaults for a dimension-n problem.
func DefaultOptions(n int) *Options {
	return &Options{
		Tol:  defaultTol,
		M:    min(maxDefaultDim, n),
		Norm: norm2,
		Expm: expm.Pade,
	}
}

// Stats reports what the adaptive loop did during one call.
type Stats struct {
	Steps         int     // accepted time steps
	Rejected      int     // rejected step attempts
	MatVecs       int     // operator applications
	Breakdowns    int     // steps accepted via happy breakdown
	BasisDim      int     // Krylov subspace dimension in effect, after defaulting
	LastTau       float64 // size of the last accepted step
	ErrorEstimate float64 // accumulated local error estimates
}

// resolved carries per-call options with all defaults filled in.
type resolved struct {
	tol      float64
	m        int
	anorm    float64
	norm     NormFunc
	expm     ExpmFunc
	observer StepObserver
	warnf    func(format string, args ...any)
}

func (o *Options) resolve(a Operator, n int) (resolved, error) {
	var r resolved
	if o == nil {
		o = &Options{}
	}

	r.tol = o.Tol
	if r.tol == 0 {
		r.tol = defaultTol
	}
	if r.tol < 0 || math.IsNaN(r.tol) {
		return r, ErrNonPositiveTol
	}

	r.m = o.M
	if r.m == 0 {
		r.m = min(maxDefaultDim, n)
	}
	// The two-term error estimate needs at least two basis vectors; m = 1 is
	// only meaningful for a one-dimensional operator.
	if r.m < 1 || r.m > n || (r.m == 1 && n > 1) {
		return r, ErrInvalidKrylovDim
	}

	r.norm = o.Norm
	if r.norm == nil {
		r.norm = norm2
	}
	r.expm = o.Expm
	if r.expm == nil {
		r.expm = expm.Pade
	}
	r.observer = o.Observer

	r.warnf = o.Warnf
	if r.warnf == nil {
		r.warnf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}

	r.anorm = o.Anorm
	if r.anorm <= 0 {
		if ne, ok := a.(NormEstimator); ok {
			r.anorm = ne.NormInf()
		}
		if r.anorm <= 0 {
			r.anorm = 1
			r.warnf("krylov: no operator norm estimate available, using 1.0")
		}
	}
	return r, nil
}
