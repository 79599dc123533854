package krylov

import "math"

func norm2(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func dot(x, y []float64) float64 {
	sum := 0.0
	for i := range x {
		sum += x[i] * y[i]
	}
	return sum
}

// axpy computes y += alpha*x.
func axpy(alpha float64, x, y []float64) {
	for i := range x {
		y[i] += alpha * x[i]
	}
}

// roundStep rounds x up to two significant digits, taming floating-point
// noise in the step-size sequence.
func roundStep(x float64) float64 {
	if x <= 0 || math.IsInf(x, 1) || math.IsNaN(x) {
		return x
	}
	s := math.Pow(10, math.Floor(math.Log10(x))-1)
	return math.Ceil(x/s) * s
}
