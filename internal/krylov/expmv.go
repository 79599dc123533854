package krylov

import "math"

// Expmv returns a newly allocated approximation to e^(tA)v.
func Expmv(t float64, a Operator, v []float64, o *Options) ([]float64, error) {
	w := make([]float64, len(v))
	if _, err := ExpmvTo(w, t, a, v, o); err != nil {
		return nil, err
	}
	return w, nil
}

// ExpmvTo writes an approximation to e^(tA)v into w and reports per-call
// statistics. On error w is left untouched unless a propagation step failed
// mid-flight, in which case w holds the last accepted state.
//
// The time-marching loop clamps every trial step to the remaining time, so
// the propagated time covers |t| exactly.
func ExpmvTo(w []float64, t float64, a Operator, v []float64, o *Options) (Stats, error) {
	var stats Stats

	r, c := a.Dims()
	if r != c {
		return stats, ErrNotSquare
	}
	n := c
	if len(v) != n || len(w) != n {
		return stats, ErrDimensionMismatch
	}
	opts, err := o.resolve(a, n)
	if err != nil {
		return stats, err
	}
	stats.BasisDim = opts.m

	copy(w, v)
	tf := math.Abs(t)
	if tf == 0 {
		return stats, nil
	}
	tsgn := 1.0
	if t < 0 {
		tsgn = -1
	}

	beta := opts.norm(w)
	if beta == 0 {
		// e^(tA) applied to the zero vector.
		return stats, nil
	}

	m := opts.m
	tol := opts.tol
	xm := 1 / float64(m)
	rndoff := opts.anorm * (math.Nextafter(1, 2) - 1)

	// A-priori first step from the Krylov truncation bound.
	fact := math.Pow(float64(m+1)/math.E, float64(m+1)) * math.Sqrt(2*math.Pi*float64(m+1))
	tauNext := roundStep((1 / opts.anorm) * math.Pow((fact*tol)/(4*beta*opts.anorm), xm))

	pr := &propagator{a: a, opts: opts, ws: newWorkspace(n, m), stats: &stats}

	tk := 0.0
	for step := 0; tk < tf; step++ {
		remain := tf - tk
		tau := math.Min(remain, tauNext)

		basis := pr.buildBasis(w, beta)

		var errLoc float64
		var size int
		if basis.breakdown {
			// The approximation is exact up to rounding; the whole remaining
			// time is representable in this step.
			tau = remain
			errLoc = btol
			size = basis.size
			f, err := pr.smallExp(tsgn*tau, size)
			if err != nil {
				return stats, &StepError{Step: step, Time: tk, Tau: tau, Wrapped: err}
			}
			pr.assemble(w, beta, f, size, size)
			stats.Breakdowns++
		} else {
			// The Hessenberg projection does not depend on tau, so a
			// rejected step only recomputes the small exponential.
			size = m
			accepted := false
			for iter := 1; iter <= maxReject; iter++ {
				f, err := pr.smallExp(tsgn*tau, m+2)
				if err != nil {
					return stats, &StepError{Step: step, Time: tk, Tau: tau, Wrapped: err}
				}

				err1 := math.Abs(beta * f[m*(m+2)])
				err2 := math.Abs(beta * f[(m+1)*(m+2)] * basis.avnorm)
				switch {
				case err1 > 10*err2:
					errLoc = err2
					xm = 1 / float64(m)
				case err1 > err2:
					errLoc = err1 * err2 / (err1 - err2)
					xm = 1 / float64(m)
				default:
					errLoc = err1
					xm = 1 / float64(m-1)
				}

				if errLoc <= delta*tau*math.Pow(tau*tol/errLoc, xm) {
					pr.assemble(w, beta, f, m+2, m+1)
					accepted = true
					break
				}
				tau = roundStep(gamma * tau * math.Pow(tau*tol/errLoc, xm))
				stats.Rejected++
			}
			if !accepted {
				return stats, &StepError{Step: step, Time: tk, Tau: tau, Wrapped: ErrNoConvergence}
			}
		}

		beta = opts.norm(w)
		if tau == remain {
			tk = tf
		} else {
			tk += tau
		}
		tauNext = roundStep(gamma * tau * math.Pow(tau*tol/errLoc, xm))

		errLoc = math.Max(errLoc, rndoff)
		stats.ErrorEstimate += errLoc
		stats.Steps++
		stats.LastTau = tau

		if opts.observer != nil {
			opts.observer.OnStep(Step{
				Time:      tk,
				Tau:       tau,
				Err:       errLoc,
				Norm:      beta,
				BasisSize: size,
			})
		}
	}

	return stats, nil
}
