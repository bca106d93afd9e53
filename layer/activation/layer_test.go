package activation

import "math/rand/v2"
import "testing"

import "github.com/neurlang/audiogan/layer/layertest"
import "github.com/neurlang/audiogan/tensor"

func TestActivationRanges(t *testing.T) {
	x := tensor.MustFromSlice([]float64{-50, -1, 0, 1, 50}, 1, 5)
	for _, tc := range []struct {
		kind   string
		lo, hi float64
	}{
		{Tanh, -1, 1},
		{Sigmoid, 0, 1},
		{ReLU, 0, 50},
	} {
		y := MustNew(tc.kind).Forward(x, false)
		for i, v := range y.Data {
			if v < tc.lo || v > tc.hi {
				t.Errorf("%s(%g) = %g outside [%g, %g]", tc.kind, x.Data[i], v, tc.lo, tc.hi)
			}
		}
	}
	if _, err := New("softmax"); err == nil {
		t.Errorf("unknown activation accepted")
	}
}

func TestActivationGradient(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 4))
	for _, kind := range []string{Tanh, Sigmoid, ReLU} {
		t.Run(kind, func(t *testing.T) {
			l := MustNew(kind)
			layertest.Build(t, l, 5, 2)
			layertest.GradCheck(t, l, rng, 3, 5, 2)
		})
	}
}
