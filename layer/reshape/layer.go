// Package reshape implements a layer changing the per-sample shape
package reshape

import "encoding/json"
import "fmt"

import "github.com/neurlang/audiogan/layer"
import "github.com/neurlang/audiogan/tensor"

type ReshapeLayer struct {
	target []int
	in     []int
}

// Config is the topology record of a reshape layer
type Config struct {
	TargetShape []int `json:"target_shape"`
}

// MustNew creates a new reshape layer
func MustNew(target ...int) *ReshapeLayer {
	o, err := New(target...)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new reshape layer producing the per-sample target shape
func New(target ...int) (*ReshapeLayer, error) {
	if len(target) == 0 {
		return nil, fmt.Errorf("New Reshape: empty target shape")
	}
	return &ReshapeLayer{target: append([]int(nil), target...)}, nil
}

// FromConfig recreates a reshape layer from its topology record
func FromConfig(raw json.RawMessage) (layer.Layer, error) {
	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return New(c.TargetShape...)
}

// Build checks that the volume is preserved
func (r *ReshapeLayer) Build(in []int) ([]int, error) {
	if tensor.Volume(in) != tensor.Volume(r.target) {
		return nil, fmt.Errorf("%w: cannot reshape %v to %v", layer.ErrShape, in, r.target)
	}
	r.in = append([]int(nil), in...)
	return r.target, nil
}

// Forward views x with the target shape
func (r *ReshapeLayer) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	return tensor.MustFromSlice(x.Data, append([]int{x.Batch()}, r.target...)...)
}

// Backward views dy with the input shape
func (r *ReshapeLayer) Backward(dy *tensor.Tensor) *tensor.Tensor {
	return tensor.MustFromSlice(dy.Data, append([]int{dy.Batch()}, r.in...)...)
}

// Params is empty
func (r *ReshapeLayer) Params() []*tensor.Param {
	return nil
}

// Topology describes the layer
func (r *ReshapeLayer) Topology() layer.Topology {
	return layer.Topology{ClassName: "Reshape", Config: Config{TargetShape: r.target}}
}
