package gan

import "fmt"
import "io"
import "math/rand/v2"

import "github.com/neurlang/audiogan/layer"
import "github.com/neurlang/audiogan/layer/activation"
import "github.com/neurlang/audiogan/layer/avgpool1d"
import "github.com/neurlang/audiogan/layer/conv1d"
import "github.com/neurlang/audiogan/layer/dropout"
import "github.com/neurlang/audiogan/layer/full"
import "github.com/neurlang/audiogan/layer/lstm"
import "github.com/neurlang/audiogan/layer/maxpool1d"
import "github.com/neurlang/audiogan/layer/reshape"
import "github.com/neurlang/audiogan/learning"
import "github.com/neurlang/audiogan/net/feedforward"
import "github.com/neurlang/audiogan/tensor"

// ErrShapeMismatch is returned when tensors or networks do not fit together
var ErrShapeMismatch = feedforward.ErrShapeMismatch

// Network is a feedforward network trained alone with Adam on binary cross entropy
type Network struct {
	net *feedforward.FeedforwardNetwork
	opt *learning.Adam
}

// NewNetwork wraps net with an optimizer over all of its parameters
func NewNetwork(net *feedforward.FeedforwardNetwork, h learning.HyperParameters) *Network {
	return &Network{net: net, opt: learning.NewAdam(h, net.Params())}
}

// NewGenerator builds the LSTM generator mapping (latent_steps, latent_dim) noise to
// (frame_size, 1) frames in [-1, 1]
func NewGenerator(c Config, rng *rand.Rand) (*Network, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	net := feedforward.New("generator", c.LatentSteps, c.LatentDim)
	err := addLayers(net,
		lstm.MustNew(c.RecurrentUnits, true, rng),
		dropout.MustNew(c.GeneratorDropout, rng),
		lstm.MustNew(c.RecurrentUnits, true, rng),
		dropout.MustNew(c.GeneratorDropout, rng),
		lstm.MustNew(c.RecurrentUnits, false, rng),
		full.MustNew(c.DenseUnits, rng),
		dropout.MustNew(c.GeneratorDropout, rng),
		full.MustNew(c.FrameSize, rng),
		activation.MustNew(activation.Tanh),
		reshape.MustNew(c.FrameSize, 1),
	)
	if err != nil {
		return nil, err
	}
	return NewNetwork(net, c.Optimizer), nil
}

// NewDiscriminator builds the convolutional discriminator scoring (frame_size, 1) frames
func NewDiscriminator(c Config, rng *rand.Rand) (*Network, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	net := feedforward.New("discriminator", c.FrameSize, 1)
	err := addLayers(net,
		conv1d.MustNew(c.ConvFilters, c.KernelSize, conv1d.Same, rng),
		maxpool1d.MustNew(c.PoolSize),
		dropout.MustNew(c.DiscriminatorDropout, rng),
		full.MustNew(c.DiscriminatorUnits, rng),
		activation.MustNew(activation.ReLU),
		dropout.MustNew(c.DiscriminatorDropout, rng),
		full.MustNew(c.DiscriminatorUnits, rng),
		full.MustNew(1, rng),
		avgpool1d.New(),
		activation.MustNew(activation.Sigmoid),
	)
	if err != nil {
		return nil, err
	}
	return NewNetwork(net, c.Optimizer), nil
}

func addLayers(net *feedforward.FeedforwardNetwork, layers ...layer.Layer) error {
	for _, l := range layers {
		if err := net.NewLayer(l); err != nil {
			return err
		}
	}
	return nil
}

// Name is the artifact name of the network
func (n *Network) Name() string {
	return n.net.Name()
}

// Net returns the underlying feedforward network
func (n *Network) Net() *feedforward.FeedforwardNetwork {
	return n.net
}

// Predict runs the network in inference mode
func (n *Network) Predict(x *tensor.Tensor) (*tensor.Tensor, error) {
	return n.net.Forward(x, false)
}

// TrainOnBatch performs one optimizer step on (x, y) and returns the loss before the step
func (n *Network) TrainOnBatch(x, y *tensor.Tensor) (float64, error) {
	p, err := n.net.Forward(x, true)
	if err != nil {
		return 0, err
	}
	loss, dp, err := learning.BinaryCrossentropy(p, y)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", n.Name(), err)
	}
	n.net.Backward(dp)
	n.opt.Step()
	return loss, nil
}

// WriteTopology writes model.json
func (n *Network) WriteTopology(w io.Writer) error {
	return n.net.WriteTopology(w)
}

// WriteWeights writes the compressed weights
func (n *Network) WriteWeights(w io.Writer, half bool) error {
	return feedforward.WriteCompressedWeights(w, half, n.net)
}

// ReadWeights loads compressed weights written by WriteWeights
func (n *Network) ReadWeights(r io.Reader) error {
	return feedforward.ReadCompressedWeights(r, n.net)
}
