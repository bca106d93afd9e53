// Package feedforward implements a feedforward (sequential) network type
package feedforward

import "errors"
import "fmt"

import "github.com/neurlang/audiogan/layer"
import "github.com/neurlang/audiogan/tensor"

// ErrShapeMismatch is returned when a tensor does not match the shape a network expects
var ErrShapeMismatch = errors.New("feedforward: shape mismatch")

// ErrNonFinite is returned when weights holding NaN or infinity are written
var ErrNonFinite = errors.New("feedforward: non-finite weight")

// FeedforwardNetwork is a stack of layers applied in order
type FeedforwardNetwork struct {
	name   string
	input  []int
	layers []layer.Layer
	shapes [][]int
}

// New creates an empty network accepting samples of the input shape
func New(name string, input ...int) *FeedforwardNetwork {
	return &FeedforwardNetwork{
		name:  name,
		input: append([]int(nil), input...),
	}
}

// Name returns the network name
func (f *FeedforwardNetwork) Name() string {
	return f.name
}

// NewLayer builds l against the current output shape and adds it to the end of network
func (f *FeedforwardNetwork) NewLayer(l layer.Layer) error {
	out, err := l.Build(f.OutputShape())
	if err != nil {
		return fmt.Errorf("%s layer %d: %w", f.name, len(f.layers), err)
	}
	f.layers = append(f.layers, l)
	f.shapes = append(f.shapes, out)
	return nil
}

// MustNewLayer is NewLayer which panics on error
func (f *FeedforwardNetwork) MustNewLayer(l layer.Layer) {
	if err := f.NewLayer(l); err != nil {
		panic(err.Error())
	}
}

// LenLayers returns the number of layers
func (f *FeedforwardNetwork) LenLayers() int {
	return len(f.layers)
}

// GetLayer returns the n-th layer
func (f *FeedforwardNetwork) GetLayer(n int) layer.Layer {
	return f.layers[n]
}

// InputShape is the per-sample input shape
func (f *FeedforwardNetwork) InputShape() []int {
	return f.input
}

// OutputShape is the per-sample output shape of the last layer
func (f *FeedforwardNetwork) OutputShape() []int {
	if len(f.shapes) == 0 {
		return f.input
	}
	return f.shapes[len(f.shapes)-1]
}

// Forward runs all layers. The sample shape of x must equal InputShape.
func (f *FeedforwardNetwork) Forward(x *tensor.Tensor, training bool) (*tensor.Tensor, error) {
	if !tensor.SameShape(x.SampleShape(), f.input) {
		return nil, fmt.Errorf("%w: %s expects %v per sample, got %v", ErrShapeMismatch, f.name, f.input, x.SampleShape())
	}
	if x.Batch() == 0 {
		return nil, fmt.Errorf("%w: %s got an empty batch", ErrShapeMismatch, f.name)
	}
	for _, l := range f.layers {
		x = l.Forward(x, training)
	}
	return x, nil
}

// Backward propagates dy (gradient of the last training Forward output) through all
// layers, accumulating parameter gradients, and returns the input gradient.
func (f *FeedforwardNetwork) Backward(dy *tensor.Tensor) *tensor.Tensor {
	for i := len(f.layers) - 1; i >= 0; i-- {
		dy = f.layers[i].Backward(dy)
	}
	return dy
}

// Params returns the trainable parameters of all layers
func (f *FeedforwardNetwork) Params() (o []*tensor.Param) {
	for _, l := range f.layers {
		o = append(o, l.Params()...)
	}
	return
}

// ZeroGrad clears all parameter gradients
func (f *FeedforwardNetwork) ZeroGrad() {
	for _, p := range f.Params() {
		p.ZeroGrad()
	}
}

// Len returns the number of trainable scalars in the network
func (f *FeedforwardNetwork) Len() (o int) {
	for _, p := range f.Params() {
		o += p.Value.Len()
	}
	return
}

// qualifiedParams names every parameter by network and layer position
func (f *FeedforwardNetwork) qualifiedParams() (names []string, params []*tensor.Param) {
	for i, l := range f.layers {
		for _, p := range l.Params() {
			names = append(names, fmt.Sprintf("%s/layer_%d/%s", f.name, i, p.Name))
			params = append(params, p)
		}
	}
	return
}
