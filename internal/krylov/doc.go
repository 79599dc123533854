// Package krylov computes the action of a matrix exponential on a vector,
// w = e^(tA)v, without forming e^(tA).
//
// The propagation is Arnoldi-based: each time step projects A onto a small
// Krylov subspace, exponentiates the resulting upper-Hessenberg matrix, and
// folds the increment back into the state vector. Step sizes adapt
// continuously from a per-step local error estimate, so the caller only
// supplies a tolerance:
//
//	a := operator.NewDiagonal([]float64{1, -1})
//	w, err := krylov.Expmv(1.0, a, []float64{1, 1}, nil)
//
// The core types are:
//
//   - [Operator]: a square linear operator offering a matrix-vector product
//   - [Options]: tolerance, subspace size, norm and dense-exponential hooks
//   - [Stats]: per-call integration statistics
//   - [StepObserver]: callback invoked once per accepted time step
//
// # Thread Safety
//
// A single call owns all of its workspace; concurrent calls are safe as long
// as the operator's MulVec is a pure function of its arguments.
package krylov
