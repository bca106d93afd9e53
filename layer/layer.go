// Package layer defines the layer interface shared by all audiogan network layers
package layer

import "encoding/json"
import "errors"

import "github.com/neurlang/audiogan/tensor"

// ErrShape is returned by Build when a layer cannot accept the input shape
var ErrShape = errors.New("layer: incompatible input shape")

// Layer is one differentiable stage of a feedforward network. Shapes passed to
// Build exclude the batch dimension; tensors passed to Forward and Backward include it.
type Layer interface {

	// Build fixes the layer to the per-sample input shape and returns its output shape.
	// Trainable parameters are allocated here.
	Build(in []int) (out []int, err error)

	// Forward computes the layer output. When training is true the layer keeps what
	// Backward needs and applies training-only behaviour such as dropout.
	Forward(x *tensor.Tensor, training bool) *tensor.Tensor

	// Backward takes the loss gradient with respect to the last Forward output, adds
	// parameter gradients into Params()[i].Grad and returns the gradient for the input.
	Backward(dy *tensor.Tensor) *tensor.Tensor

	// Params returns the trainable parameters, empty for stateless layers.
	Params() []*tensor.Param

	// Topology describes the layer for the model.json file
	Topology() Topology
}

// Topology is the serialized layer description
type Topology struct {
	ClassName string `json:"class_name"`
	Config    any    `json:"config"`
}

// RawTopology is Topology as read back from disk
type RawTopology struct {
	ClassName string          `json:"class_name"`
	Config    json.RawMessage `json:"config"`
}
