// Package full implements a fully connected (dense) layer
package full

import "encoding/json"
import "fmt"
import "math/rand/v2"

import "github.com/neurlang/audiogan/layer"
import "github.com/neurlang/audiogan/tensor"

// FullLayer is a dense layer applied over the last axis of its input. On inputs with
// a time axis it acts per time step, which is how the discriminator scores frames.
type FullLayer struct {
	units int
	in    int
	rng   *rand.Rand

	weight *tensor.Param // units x in
	bias   *tensor.Param

	x *tensor.Tensor
}

// Config is the topology record of a full layer
type Config struct {
	Units    int `json:"units"`
	InputDim int `json:"input_dim,omitempty"`
}

// MustNew creates a new full layer with units outputs
func MustNew(units int, rng *rand.Rand) *FullLayer {
	o, err := New(units, rng)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new full layer with units outputs, initialised from rng
func New(units int, rng *rand.Rand) (o *FullLayer, err error) {
	if units <= 0 {
		return nil, fmt.Errorf("New Full: units %d must be positive", units)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0))
	}
	o = new(FullLayer)
	o.units = units
	o.rng = rng
	return
}

// FromConfig recreates a full layer from its topology record
func FromConfig(raw json.RawMessage) (layer.Layer, error) {
	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return New(c.Units, nil)
}

// Build allocates the weights for the last input axis
func (f *FullLayer) Build(in []int) ([]int, error) {
	if len(in) == 0 || in[len(in)-1] <= 0 {
		return nil, fmt.Errorf("%w: full layer got %v", layer.ErrShape, in)
	}
	f.in = in[len(in)-1]
	f.weight = tensor.NewParam("kernel", f.units, f.in)
	f.bias = tensor.NewParam("bias", f.units)
	tensor.GlorotUniform(f.rng, f.weight.Value, f.in, f.units)
	out := append([]int(nil), in...)
	out[len(out)-1] = f.units
	return out, nil
}

// Params returns kernel and bias
func (f *FullLayer) Params() []*tensor.Param {
	return []*tensor.Param{f.weight, f.bias}
}

// Topology describes the layer
func (f *FullLayer) Topology() layer.Topology {
	return layer.Topology{ClassName: "Dense", Config: Config{Units: f.units, InputDim: f.in}}
}
