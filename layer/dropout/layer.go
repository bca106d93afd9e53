// Package dropout implements inverted dropout
package dropout

import "encoding/json"
import "fmt"
import "math/rand/v2"

import "github.com/neurlang/audiogan/layer"
import "github.com/neurlang/audiogan/tensor"

// DropoutLayer zeroes a fraction of its inputs while training and scales the rest
// by 1/(1-rate), so inference is the identity.
type DropoutLayer struct {
	rate float64
	rng  *rand.Rand

	mask []float64
}

// Config is the topology record of a dropout layer
type Config struct {
	Rate float64 `json:"rate"`
}

// MustNew creates a new dropout layer
func MustNew(rate float64, rng *rand.Rand) *DropoutLayer {
	o, err := New(rate, rng)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new dropout layer dropping rate of the inputs
func New(rate float64, rng *rand.Rand) (*DropoutLayer, error) {
	if rate < 0 || rate >= 1 {
		return nil, fmt.Errorf("New Dropout: rate %g not in [0, 1)", rate)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0))
	}
	return &DropoutLayer{rate: rate, rng: rng}, nil
}

// FromConfig recreates a dropout layer from its topology record
func FromConfig(raw json.RawMessage) (layer.Layer, error) {
	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return New(c.Rate, nil)
}

// Build accepts any shape
func (d *DropoutLayer) Build(in []int) ([]int, error) {
	return in, nil
}

// Forward drops inputs when training
func (d *DropoutLayer) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	if !training {
		return x
	}
	y := tensor.New(x.Shape...)
	d.mask = make([]float64, x.Len())
	keep := 1 / (1 - d.rate)
	for i, v := range x.Data {
		if d.rng.Float64() >= d.rate {
			d.mask[i] = keep
			y.Data[i] = v * keep
		}
	}
	return y
}

// Backward applies the mask of the last training Forward
func (d *DropoutLayer) Backward(dy *tensor.Tensor) *tensor.Tensor {
	dx := tensor.New(dy.Shape...)
	for i, g := range dy.Data {
		dx.Data[i] = g * d.mask[i]
	}
	return dx
}

// Params is empty
func (d *DropoutLayer) Params() []*tensor.Param {
	return nil
}

// Topology describes the layer
func (d *DropoutLayer) Topology() layer.Topology {
	return layer.Topology{ClassName: "Dropout", Config: Config{Rate: d.rate}}
}
