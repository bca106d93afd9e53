package reshape

import "testing"

import "github.com/neurlang/audiogan/tensor"

func TestReshapeRoundTrip(t *testing.T) {
	l := MustNew(6, 1)
	if _, err := l.Build([]int{5}); err == nil {
		t.Fatalf("volume change accepted")
	}
	if _, err := l.Build([]int{6}); err != nil {
		t.Fatal(err)
	}
	x := tensor.New(2, 6)
	y := l.Forward(x, true)
	if !tensor.SameShape(y.Shape, []int{2, 6, 1}) {
		t.Errorf("forward shape %v", y.Shape)
	}
	if dx := l.Backward(y); !tensor.SameShape(dx.Shape, x.Shape) {
		t.Errorf("backward shape %v", dx.Shape)
	}
}
