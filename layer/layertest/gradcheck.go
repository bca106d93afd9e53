// Package layertest provides numeric gradient checks for layer implementations
package layertest

import "math"
import "math/rand/v2"
import "testing"

import "github.com/neurlang/audiogan/layer"
import "github.com/neurlang/audiogan/tensor"

const eps = 1e-6

// maxProbes bounds how many coordinates of each tensor are perturbed
const maxProbes = 48

// Build builds l for the per-sample input shape or fails the test
func Build(tb testing.TB, l layer.Layer, in ...int) []int {
	tb.Helper()
	out, err := l.Build(in)
	if err != nil {
		tb.Fatalf("build %v: %v", in, err)
	}
	return out
}

// GradCheck compares Backward against central differences of the scalar
// loss sum(Forward(x) * r) for a random projection r.
func GradCheck(tb testing.TB, l layer.Layer, rng *rand.Rand, shape ...int) {
	tb.Helper()
	x := tensor.Normal(rng, shape...)
	y := l.Forward(x, true)
	r := tensor.Normal(rng, y.Shape...)

	for _, p := range l.Params() {
		p.ZeroGrad()
	}
	dx := l.Backward(r)
	if !tensor.SameShape(dx.Shape, x.Shape) {
		tb.Fatalf("dx shape %v, x shape %v", dx.Shape, x.Shape)
	}

	loss := func() float64 {
		return tensor.Dot(l.Forward(x, true).Data, r.Data)
	}
	check := func(name string, values, analytic []float64) {
		for _, i := range probes(rng, len(values)) {
			old := values[i]
			values[i] = old + eps
			plus := loss()
			values[i] = old - eps
			minus := loss()
			values[i] = old
			numeric := (plus - minus) / (2 * eps)
			scale := math.Max(1, math.Max(math.Abs(numeric), math.Abs(analytic[i])))
			if math.Abs(numeric-analytic[i]) > 1e-4*scale {
				tb.Errorf("%s[%d]: analytic %g numeric %g", name, i, analytic[i], numeric)
			}
		}
	}
	check("input", x.Data, dx.Data)
	for _, p := range l.Params() {
		check(p.Name, p.Value.Data, p.Grad.Data)
	}
}

func probes(rng *rand.Rand, n int) []int {
	if n <= maxProbes {
		o := make([]int, n)
		for i := range o {
			o[i] = i
		}
		return o
	}
	return rng.Perm(n)[:maxProbes]
}
