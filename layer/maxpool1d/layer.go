// Package maxpool1d implements max pooling over the time axis
package maxpool1d

import "encoding/json"
import "fmt"

import "github.com/neurlang/audiogan/layer"
import "github.com/neurlang/audiogan/tensor"

type MaxPool1DLayer struct {
	pool int

	steps, channels, outSteps int

	inShape []int
	argmax  []int
}

// Config is the topology record of a max pooling layer
type Config struct {
	PoolSize int `json:"pool_size"`
	Strides  int `json:"strides"`
}

// MustNew creates a new MaxPool1D layer with pool size (and equal stride)
func MustNew(pool int) *MaxPool1DLayer {
	o, err := New(pool)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new MaxPool1D layer with pool size (and equal stride)
func New(pool int) (o *MaxPool1DLayer, err error) {
	if pool <= 0 {
		return nil, fmt.Errorf("New MaxPool1D: pool size %d must be positive", pool)
	}
	return &MaxPool1DLayer{pool: pool}, nil
}

// FromConfig recreates a max pooling layer from its topology record
func FromConfig(raw json.RawMessage) (layer.Layer, error) {
	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return New(c.PoolSize)
}

// Build expects a (steps, channels) input. Trailing steps that do not fill a window are dropped.
func (m *MaxPool1DLayer) Build(in []int) ([]int, error) {
	if len(in) != 2 {
		return nil, fmt.Errorf("%w: maxpool1d wants (steps, channels), got %v", layer.ErrShape, in)
	}
	m.steps, m.channels = in[0], in[1]
	m.outSteps = m.steps / m.pool
	if m.outSteps == 0 {
		return nil, fmt.Errorf("%w: pool %d longer than %d steps", layer.ErrShape, m.pool, m.steps)
	}
	return []int{m.outSteps, m.channels}, nil
}

// Params is empty
func (m *MaxPool1DLayer) Params() []*tensor.Param {
	return nil
}

// Topology describes the layer
func (m *MaxPool1DLayer) Topology() layer.Topology {
	return layer.Topology{ClassName: "MaxPooling1D", Config: Config{PoolSize: m.pool, Strides: m.pool}}
}
