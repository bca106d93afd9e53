package gan

import "encoding/json"
import "fmt"
import "io"

import "github.com/neurlang/audiogan/learning"
import "github.com/neurlang/audiogan/net/feedforward"
import "github.com/neurlang/audiogan/tensor"

// Combined chains the generator into a frozen discriminator. It shares the generator
// network, so training it moves the generator weights. The discriminator weights are
// never updated by it.
type Combined struct {
	gen, disc *feedforward.FeedforwardNetwork
	opt       *learning.Adam
}

// NewCombined creates the combined model with its own optimizer over the generator parameters
func NewCombined(gen, disc *Network, h learning.HyperParameters) (*Combined, error) {
	if !tensor.SameShape(gen.net.OutputShape(), disc.net.InputShape()) {
		return nil, fmt.Errorf("%w: generator emits %v, discriminator takes %v",
			ErrShapeMismatch, gen.net.OutputShape(), disc.net.InputShape())
	}
	return &Combined{
		gen:  gen.net,
		disc: disc.net,
		opt:  learning.NewAdam(h, gen.net.Params()),
	}, nil
}

// Name is the artifact name of the combined model
func (c *Combined) Name() string {
	return "combined"
}

// Predict scores generated frames for the noise x
func (c *Combined) Predict(x *tensor.Tensor) (*tensor.Tensor, error) {
	g, err := c.gen.Forward(x, false)
	if err != nil {
		return nil, err
	}
	return c.disc.Forward(g, false)
}

// TrainOnBatch updates the generator so the discriminator scores its output as y
func (c *Combined) TrainOnBatch(x, y *tensor.Tensor) (float64, error) {
	g, err := c.gen.Forward(x, true)
	if err != nil {
		return 0, err
	}
	p, err := c.disc.Forward(g, true)
	if err != nil {
		return 0, err
	}
	loss, dp, err := learning.BinaryCrossentropy(p, y)
	if err != nil {
		return 0, fmt.Errorf("combined: %w", err)
	}
	c.gen.Backward(c.disc.Backward(dp))
	c.disc.ZeroGrad()
	c.opt.Step()
	return loss, nil
}

type combinedTopology struct {
	ClassName string `json:"class_name"`
	Name      string `json:"name"`
	Config    struct {
		Models []feedforward.Topology `json:"models"`
	} `json:"config"`
}

// WriteTopology writes model.json listing both chained networks
func (c *Combined) WriteTopology(w io.Writer) error {
	var t combinedTopology
	t.ClassName = "Model"
	t.Name = c.Name()
	t.Config.Models = []feedforward.Topology{c.gen.Topology(), c.disc.Topology()}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// WriteWeights writes the weights of both chained networks
func (c *Combined) WriteWeights(w io.Writer, half bool) error {
	return feedforward.WriteCompressedWeights(w, half, c.gen, c.disc)
}

// ReadWeights loads the weights of both chained networks
func (c *Combined) ReadWeights(r io.Reader) error {
	return feedforward.ReadCompressedWeights(r, c.gen, c.disc)
}
