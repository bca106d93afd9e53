// Package activation implements elementwise activation layers
package activation

import "encoding/json"
import "fmt"
import "math"

import "github.com/neurlang/audiogan/layer"
import "github.com/neurlang/audiogan/tensor"

// Activation names
const (
	Tanh    = "tanh"
	Sigmoid = "sigmoid"
	ReLU    = "relu"
)

type ActivationLayer struct {
	kind string
	y    *tensor.Tensor
}

// Config is the topology record of an activation layer
type Config struct {
	Activation string `json:"activation"`
}

// MustNew creates a new activation layer of kind
func MustNew(kind string) *ActivationLayer {
	o, err := New(kind)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new activation layer of kind (tanh, sigmoid or relu)
func New(kind string) (*ActivationLayer, error) {
	switch kind {
	case Tanh, Sigmoid, ReLU:
		return &ActivationLayer{kind: kind}, nil
	}
	return nil, fmt.Errorf("New Activation: unknown activation %q", kind)
}

// FromConfig recreates an activation layer from its topology record
func FromConfig(raw json.RawMessage) (layer.Layer, error) {
	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return New(c.Activation)
}

// SigmoidOf is the logistic function
func SigmoidOf(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

// Build accepts any shape
func (a *ActivationLayer) Build(in []int) ([]int, error) {
	return in, nil
}

// Forward applies the activation
func (a *ActivationLayer) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	y := tensor.New(x.Shape...)
	for i, v := range x.Data {
		switch a.kind {
		case Tanh:
			y.Data[i] = math.Tanh(v)
		case Sigmoid:
			y.Data[i] = SigmoidOf(v)
		case ReLU:
			if v > 0 {
				y.Data[i] = v
			}
		}
	}
	if training {
		a.y = y
	}
	return y
}

// Backward multiplies by the derivative, expressed through the cached output
func (a *ActivationLayer) Backward(dy *tensor.Tensor) *tensor.Tensor {
	dx := tensor.New(dy.Shape...)
	for i, g := range dy.Data {
		y := a.y.Data[i]
		switch a.kind {
		case Tanh:
			dx.Data[i] = g * (1 - y*y)
		case Sigmoid:
			dx.Data[i] = g * y * (1 - y)
		case ReLU:
			if y > 0 {
				dx.Data[i] = g
			}
		}
	}
	return dx
}

// Params is empty
func (a *ActivationLayer) Params() []*tensor.Param {
	return nil
}

// Topology describes the layer
func (a *ActivationLayer) Topology() layer.Topology {
	return layer.Topology{ClassName: "Activation", Config: Config{Activation: a.kind}}
}
