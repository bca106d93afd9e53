// Package lstm implements a long short-term memory recurrent layer
package lstm

import "encoding/json"
import "fmt"
import "math/rand/v2"

import "github.com/neurlang/audiogan/layer"
import "github.com/neurlang/audiogan/tensor"

// LSTMLayer consumes (steps, features) and yields either the whole hidden state
// sequence (steps, units) or the last hidden state (units).
//
// Gates are laid out i, f, g, o along the first axis of every weight matrix.
type LSTMLayer struct {
	units  int
	seq    bool
	rng    *rand.Rand
	steps  int
	inputs int

	kernel    *tensor.Param // 4u x inputs
	recurrent *tensor.Param // 4u x u
	bias      *tensor.Param // 4u

	// training cache, indexed by (sample*steps + step)
	x     *tensor.Tensor
	gates []float64
	cells []float64
	hides []float64
}

// Config is the topology record of an lstm layer
type Config struct {
	Units           int  `json:"units"`
	ReturnSequences bool `json:"return_sequences"`
}

// MustNew creates a new LSTM layer
func MustNew(units int, returnSequences bool, rng *rand.Rand) *LSTMLayer {
	o, err := New(units, returnSequences, rng)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new LSTM layer with units hidden cells
func New(units int, returnSequences bool, rng *rand.Rand) (*LSTMLayer, error) {
	if units <= 0 {
		return nil, fmt.Errorf("New LSTM: units %d must be positive", units)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0))
	}
	return &LSTMLayer{units: units, seq: returnSequences, rng: rng}, nil
}

// FromConfig recreates an lstm layer from its topology record
func FromConfig(raw json.RawMessage) (layer.Layer, error) {
	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return New(c.Units, c.ReturnSequences, nil)
}

// Build expects a (steps, features) input
func (l *LSTMLayer) Build(in []int) ([]int, error) {
	if len(in) != 2 || in[0] <= 0 || in[1] <= 0 {
		return nil, fmt.Errorf("%w: lstm wants (steps, features), got %v", layer.ErrShape, in)
	}
	l.steps, l.inputs = in[0], in[1]
	u := l.units
	l.kernel = tensor.NewParam("kernel", 4*u, l.inputs)
	l.recurrent = tensor.NewParam("recurrent_kernel", 4*u, u)
	l.bias = tensor.NewParam("bias", 4*u)
	tensor.GlorotUniform(l.rng, l.kernel.Value, l.inputs, 4*u)
	tensor.GlorotUniform(l.rng, l.recurrent.Value, u, 4*u)
	// forget gate starts open
	for j := u; j < 2*u; j++ {
		l.bias.Value.Data[j] = 1
	}
	if l.seq {
		return []int{l.steps, u}, nil
	}
	return []int{u}, nil
}

// Params returns kernel, recurrent kernel and bias
func (l *LSTMLayer) Params() []*tensor.Param {
	return []*tensor.Param{l.kernel, l.recurrent, l.bias}
}

// Topology describes the layer
func (l *LSTMLayer) Topology() layer.Topology {
	return layer.Topology{ClassName: "LSTM", Config: Config{Units: l.units, ReturnSequences: l.seq}}
}
