package full

import "math/rand/v2"
import "testing"

import "github.com/neurlang/audiogan/layer/layertest"
import "github.com/neurlang/audiogan/tensor"

func TestFullShapes(t *testing.T) {
	l := MustNew(5, nil)
	out := layertest.Build(t, l, 7, 3)
	if !tensor.SameShape(out, []int{7, 5}) {
		t.Errorf("time distributed output shape %v", out)
	}
	y := l.Forward(tensor.New(2, 7, 3), false)
	if !tensor.SameShape(y.Shape, []int{2, 7, 5}) {
		t.Errorf("forward shape %v", y.Shape)
	}
	if _, err := New(0, nil); err == nil {
		t.Errorf("zero units accepted")
	}
}

func TestFullGradient(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	for _, shape := range [][]int{{4, 6}, {3, 5, 6}} {
		l := MustNew(4, rng)
		layertest.Build(t, l, shape[1:]...)
		layertest.GradCheck(t, l, rng, shape...)
	}
}
