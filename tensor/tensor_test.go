package tensor

import "math"
import "math/rand/v2"
import "testing"

func TestReshapeSharesData(t *testing.T) {
	a := New(2, 3)
	b, err := a.Reshape(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	b.Data[4] = 7
	if a.Data[4] != 7 {
		t.Errorf("reshape copied data")
	}
	if _, err := a.Reshape(4, 2); err == nil {
		t.Errorf("reshape to wrong volume succeeded")
	}
}

func TestRow(t *testing.T) {
	a := MustFromSlice([]float64{1, 2, 3, 4, 5, 6}, 3, 2)
	if a.Batch() != 3 || a.SampleLen() != 2 {
		t.Fatalf("bad dims %d %d", a.Batch(), a.SampleLen())
	}
	if r := a.Row(1); r[0] != 3 || r[1] != 4 {
		t.Errorf("row 1 is %v", r)
	}
}

// TestDotKernels verifies that both kernels agree with each other
func TestDotKernels(t *testing.T) {
	testCases := []struct {
		name string
		size int
	}{
		{"single", 1},
		{"small", 8},
		{"odd", 17},
		{"prime", 31},
		{"large", 1024},
	}
	rng := rand.New(rand.NewPCG(1, 2))
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := Normal(rng, tc.size).Data
			b := Normal(rng, tc.size).Data
			p, u := dotPlain(a, b), dotUnrolled(a, b)
			if math.Abs(p-u) > 1e-9*float64(tc.size) {
				t.Errorf("dot mismatch: plain %g unrolled %g", p, u)
			}
			if Dot(a, b) != p && Dot(a, b) != u {
				t.Errorf("Dot is neither kernel")
			}
		})
	}
}

func TestGlorotUniformBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	w := New(64, 32)
	GlorotUniform(rng, w, 32, 64)
	limit := math.Sqrt(6.0 / 96)
	for _, v := range w.Data {
		if math.Abs(v) > limit {
			t.Fatalf("value %g out of [-%g, %g]", v, limit, limit)
		}
	}
}
