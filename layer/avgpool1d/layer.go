// Package avgpool1d implements global average pooling over the time axis
package avgpool1d

import "encoding/json"
import "fmt"

import "github.com/neurlang/audiogan/layer"
import "github.com/neurlang/audiogan/tensor"

// AvgPool1DLayer reduces a (steps, channels) input to (channels)
type AvgPool1DLayer struct {
	steps, channels int
}

// New creates a new global average pooling layer
func New() *AvgPool1DLayer {
	return new(AvgPool1DLayer)
}

// FromConfig recreates the layer, it has no configuration
func FromConfig(json.RawMessage) (layer.Layer, error) {
	return New(), nil
}

// Build expects a (steps, channels) input
func (a *AvgPool1DLayer) Build(in []int) ([]int, error) {
	if len(in) != 2 || in[0] == 0 {
		return nil, fmt.Errorf("%w: global average pooling wants (steps, channels), got %v", layer.ErrShape, in)
	}
	a.steps, a.channels = in[0], in[1]
	return []int{a.channels}, nil
}

// Forward averages every channel over time
func (a *AvgPool1DLayer) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	batch := x.Batch()
	y := tensor.New(batch, a.channels)
	scale := 1 / float64(a.steps)
	for n := 0; n < batch; n++ {
		xs, ys := x.Row(n), y.Row(n)
		for t := 0; t < a.steps; t++ {
			tensor.Axpy(scale, xs[t*a.channels:(t+1)*a.channels], ys)
		}
	}
	return y
}

// Backward spreads each gradient evenly over the time steps
func (a *AvgPool1DLayer) Backward(dy *tensor.Tensor) *tensor.Tensor {
	batch := dy.Batch()
	dx := tensor.New(batch, a.steps, a.channels)
	scale := 1 / float64(a.steps)
	for n := 0; n < batch; n++ {
		dxs, dys := dx.Row(n), dy.Row(n)
		for t := 0; t < a.steps; t++ {
			tensor.Axpy(scale, dys, dxs[t*a.channels:(t+1)*a.channels])
		}
	}
	return dx
}

// Params is empty
func (a *AvgPool1DLayer) Params() []*tensor.Param {
	return nil
}

// Topology describes the layer
func (a *AvgPool1DLayer) Topology() layer.Topology {
	return layer.Topology{ClassName: "GlobalAveragePooling1D", Config: struct{}{}}
}
