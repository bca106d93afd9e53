// Package conv1d implements a 1D convolution layer over (time, channels) inputs
package conv1d

import "encoding/json"
import "fmt"
import "math/rand/v2"

import "github.com/neurlang/audiogan/layer"
import "github.com/neurlang/audiogan/tensor"

// Padding modes
const (
	Same  = "same"
	Valid = "valid"
)

type Conv1DLayer struct {
	filters, kernel int
	padding         string
	rng             *rand.Rand

	steps, channels, outSteps, padLeft int

	weight *tensor.Param // filters x kernel x channels
	bias   *tensor.Param

	x *tensor.Tensor
}

// Config is the topology record of a conv1d layer
type Config struct {
	Filters    int    `json:"filters"`
	KernelSize int    `json:"kernel_size"`
	Padding    string `json:"padding"`
}

// MustNew creates a new Conv1D layer with filters, kernel size and padding
func MustNew(filters, kernel int, padding string, rng *rand.Rand) *Conv1DLayer {
	o, err := New(filters, kernel, padding, rng)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new Conv1D layer with filters, kernel size and padding
func New(filters, kernel int, padding string, rng *rand.Rand) (o *Conv1DLayer, err error) {
	if filters <= 0 || kernel <= 0 {
		return nil, fmt.Errorf("New Conv1D: filters %d and kernel %d must be positive", filters, kernel)
	}
	if padding != Same && padding != Valid {
		return nil, fmt.Errorf("New Conv1D: unknown padding %q", padding)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0))
	}
	o = new(Conv1DLayer)
	o.filters = filters
	o.kernel = kernel
	o.padding = padding
	o.rng = rng
	return
}

// FromConfig recreates a conv1d layer from its topology record
func FromConfig(raw json.RawMessage) (layer.Layer, error) {
	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return New(c.Filters, c.KernelSize, c.Padding, nil)
}

// Build expects a (steps, channels) input
func (c *Conv1DLayer) Build(in []int) ([]int, error) {
	if len(in) != 2 {
		return nil, fmt.Errorf("%w: conv1d wants (steps, channels), got %v", layer.ErrShape, in)
	}
	c.steps, c.channels = in[0], in[1]
	if c.padding == Same {
		c.outSteps = c.steps
		c.padLeft = (c.kernel - 1) / 2
	} else {
		c.outSteps = c.steps - c.kernel + 1
		c.padLeft = 0
	}
	if c.outSteps <= 0 {
		return nil, fmt.Errorf("%w: conv1d kernel %d longer than %d steps", layer.ErrShape, c.kernel, c.steps)
	}
	c.weight = tensor.NewParam("kernel", c.filters, c.kernel, c.channels)
	c.bias = tensor.NewParam("bias", c.filters)
	tensor.GlorotUniform(c.rng, c.weight.Value, c.kernel*c.channels, c.kernel*c.filters)
	return []int{c.outSteps, c.filters}, nil
}

// Params returns kernel and bias
func (c *Conv1DLayer) Params() []*tensor.Param {
	return []*tensor.Param{c.weight, c.bias}
}

// Topology describes the layer
func (c *Conv1DLayer) Topology() layer.Topology {
	return layer.Topology{ClassName: "Conv1D", Config: Config{Filters: c.filters, KernelSize: c.kernel, Padding: c.padding}}
}
