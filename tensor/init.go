package tensor

import "math"
import "math/rand/v2"

// GlorotUniform fills t with values drawn from U(-l, l), l = sqrt(6 / (fanIn + fanOut))
func GlorotUniform(rng *rand.Rand, t *Tensor, fanIn, fanOut int) {
	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	for i := range t.Data {
		t.Data[i] = (2*rng.Float64() - 1) * limit
	}
}

// Normal draws a tensor of independent standard normal values. Used for latent vectors.
func Normal(rng *rand.Rand, shape ...int) *Tensor {
	t := New(shape...)
	for i := range t.Data {
		t.Data[i] = rng.NormFloat64()
	}
	return t
}
