package krylov

// Algorithm constants, after Expokit's EXPV.
const (
	defaultTol    = 1e-7 // local error tolerance
	maxDefaultDim = 30   // default Krylov dimension cap
	btol          = 1e-7 // happy-breakdown threshold on the residual norm
	gamma         = 0.9  // step-shrink safety factor
	delta         = 1.2  // step-acceptance safety factor
	maxReject     = 10   // retry budget per step
)

// workspace holds the per-call scratch buffers. It is owned by the step
// controller and fully overwritten by each Arnoldi pass before being read.
type workspace struct {
	vm [][]float64 // m+1 orthonormal basis vectors of length n
	hm []float64   // (m+2) x (m+2) Hessenberg projection, row-major
	em []float64   // scaled copy of hm handed to the dense exponential
	p  []float64   // scratch vector of length n
}

func newWorkspace(n, m int) *workspace {
	vm := make([][]float64, m+1)
	for i := range vm {
		vm[i] = make([]float64, n)
	}
	ld := m + 2
	return &workspace{
		vm: vm,
		hm: make([]float64, ld*ld),
		em: make([]float64, ld*ld),
		p:  make([]float64, n),
	}
}

// basisResult is the tagged outcome of one Arnoldi pass.
type basisResult struct {
	breakdown bool    // subspace became invariant before reaching m
	size      int     // basis vectors in use: m normally, < m on breakdown
	avnorm    float64 // |A*vm[m+1]|, second-order error term (normal case only)
}

// propagator binds the operator and resolved options to the workspace for
// the duration of one call.
type propagator struct {
	a     Operator
	opts  resolved
	ws    *workspace
	stats *Stats
}

// buildBasis runs modified Gram-Schmidt Arnoldi from w/beta, filling the
// workspace basis and Hessenberg projection. Orthogonalization is sequential
// against every previously built vector, not just the last one.
func (pr *propagator) buildBasis(w []float64, beta float64) basisResult {
	m := pr.opts.m
	ld := m + 2
	ws := pr.ws

	for i := range ws.hm {
		ws.hm[i] = 0
	}
	inv := 1 / beta
	for i, wi := range w {
		ws.vm[0][i] = wi * inv
	}

	for j := 0; j < m; j++ {
		pr.a.MulVec(ws.p, ws.vm[j])
		pr.stats.MatVecs++

		for i := 0; i <= j; i++ {
			h := dot(ws.vm[i], ws.p)
			ws.hm[i*ld+j] = h
			axpy(-h, ws.vm[i], ws.p)
		}

		s := pr.opts.norm(ws.p)
		if s < btol {
			// The subspace is numerically invariant under A; no further
			// basis growth can improve accuracy.
			return basisResult{breakdown: true, size: j + 1}
		}
		ws.hm[(j+1)*ld+j] = s
		inv = 1 / s
		for i, pi := range ws.p {
			ws.vm[j+1][i] = pi * inv
		}
	}

	// Padding entry consumed by the second-order error estimate.
	ws.hm[(m+1)*ld+m] = 1
	pr.a.MulVec(ws.p, ws.vm[m])
	pr.stats.MatVecs++
	return basisResult{size: m, avnorm: pr.opts.norm(ws.p)}
}

// smallExp exponentiates the leading k x k block of the Hessenberg projection
// scaled by t, via the injected dense exponential.
func (pr *propagator) smallExp(t float64, k int) ([]float64, error) {
	ld := pr.opts.m + 2
	em := pr.ws.em[:k*k]
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			em[i*k+j] = t * pr.ws.hm[i*ld+j]
		}
	}
	return pr.opts.expm(em, k)
}

// assemble overwrites w with beta * sum_k f[k,0] * vm[k] over the first k
// basis vectors.
func (pr *propagator) assemble(w []float64, beta float64, f []float64, ldf, k int) {
	for i := range w {
		w[i] = 0
	}
	for j := 0; j < k; j++ {
		axpy(beta*f[j*ldf], pr.ws.vm[j], w)
	}
}
