package tensor

import "github.com/klauspost/cpuid/v2"

// Dot returns the inner product of a and b, len(b) >= len(a)
var Dot func(a, b []float64) float64

// Unrolled reports whether the unrolled kernel was selected for this CPU
var Unrolled bool

func init() {
	// wide FMA units keep four independent accumulators busy
	if cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3) {
		Dot = dotUnrolled
		Unrolled = true
	} else {
		Dot = dotPlain
	}
}

func dotPlain(a, b []float64) (s float64) {
	b = b[:len(a)]
	for i, v := range a {
		s += v * b[i]
	}
	return
}

func dotUnrolled(a, b []float64) float64 {
	b = b[:len(a)]
	var s0, s1, s2, s3 float64
	i := 0
	for ; i+4 <= len(a); i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	for ; i < len(a); i++ {
		s0 += a[i] * b[i]
	}
	return (s0 + s1) + (s2 + s3)
}

// Axpy computes y += alpha * x
func Axpy(alpha float64, x, y []float64) {
	y = y[:len(x)]
	for i, v := range x {
		y[i] += alpha * v
	}
}
