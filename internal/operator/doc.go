// Package operator provides concrete linear operators for Krylov
// propagation: dense row-major matrices, diagonal operators, and compressed
// sparse row matrices assembled from coordinate triplets.
//
// Every operator implements the krylov Operator contract (Dims, MulVec) plus
// NormInf, so the propagator can derive step sizes without caller-supplied
// norm estimates.
package operator
