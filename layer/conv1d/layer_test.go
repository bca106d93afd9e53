package conv1d

import "math/rand/v2"
import "testing"

import "github.com/neurlang/audiogan/layer/layertest"
import "github.com/neurlang/audiogan/tensor"

func TestConv1DShapes(t *testing.T) {
	testCases := []struct {
		name    string
		kernel  int
		padding string
		want    []int
	}{
		{"same even kernel", 2, Same, []int{10, 4}},
		{"same odd kernel", 3, Same, []int{10, 4}},
		{"valid", 3, Valid, []int{8, 4}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := MustNew(4, tc.kernel, tc.padding, nil)
			out := layertest.Build(t, l, 10, 2)
			if !tensor.SameShape(out, tc.want) {
				t.Errorf("got %v want %v", out, tc.want)
			}
		})
	}
	if _, err := MustNew(1, 5, Valid, nil).Build([]int{3, 1}); err == nil {
		t.Errorf("kernel longer than input accepted")
	}
	if _, err := New(1, 2, "causal", nil); err == nil {
		t.Errorf("unknown padding accepted")
	}
}

// kernel 2 with same padding reads the current and the next step, zero past the end
func TestConv1DSamePaddingTaps(t *testing.T) {
	l := MustNew(1, 2, Same, nil)
	layertest.Build(t, l, 3, 1)
	copy(l.weight.Value.Data, []float64{1, 10})
	x := tensor.MustFromSlice([]float64{1, 2, 3}, 1, 3, 1)
	y := l.Forward(x, false)
	want := []float64{21, 32, 3}
	for i := range want {
		if y.Data[i] != want[i] {
			t.Errorf("y[%d] = %g want %g", i, y.Data[i], want[i])
		}
	}
}

func TestConv1DGradient(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	for _, padding := range []string{Same, Valid} {
		l := MustNew(3, 2, padding, rng)
		layertest.Build(t, l, 6, 2)
		layertest.GradCheck(t, l, rng, 2, 6, 2)
	}
}
