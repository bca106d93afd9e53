package maxpool1d

import "math/rand/v2"
import "testing"

import "github.com/neurlang/audiogan/layer/layertest"
import "github.com/neurlang/audiogan/tensor"

func TestMaxPoolPicksWindowMaximum(t *testing.T) {
	l := MustNew(2)
	out := layertest.Build(t, l, 5, 2)
	if !tensor.SameShape(out, []int{2, 2}) {
		t.Fatalf("odd trailing step not dropped: %v", out)
	}
	x := tensor.MustFromSlice([]float64{
		1, -1,
		3, -4,
		-2, 5,
		0, 2,
		9, 9,
	}, 1, 5, 2)
	y := l.Forward(x, true)
	want := []float64{3, -1, 0, 5}
	for i := range want {
		if y.Data[i] != want[i] {
			t.Errorf("y[%d] = %g want %g", i, y.Data[i], want[i])
		}
	}
	dx := l.Backward(tensor.MustFromSlice([]float64{1, 2, 3, 4}, 1, 2, 2))
	wantDx := []float64{0, 2, 1, 0, 0, 4, 3, 0, 0, 0}
	for i := range wantDx {
		if dx.Data[i] != wantDx[i] {
			t.Errorf("dx[%d] = %g want %g", i, dx.Data[i], wantDx[i])
		}
	}
}

func TestMaxPoolGradient(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	l := MustNew(2)
	layertest.Build(t, l, 8, 3)
	layertest.GradCheck(t, l, rng, 2, 8, 3)
}

func TestMaxPoolTooShort(t *testing.T) {
	if _, err := MustNew(4).Build([]int{3, 1}); err == nil {
		t.Errorf("pool longer than input accepted")
	}
}
