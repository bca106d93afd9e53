// Package gan builds the generator, the discriminator and the combined model of the audio GAN
package gan

import "fmt"

import "github.com/neurlang/audiogan/learning"

// Config sizes both networks
type Config struct {
	LatentDim            int                      `mapstructure:"latent_dim" yaml:"latent_dim"`
	LatentSteps          int                      `mapstructure:"latent_steps" yaml:"latent_steps"`
	FrameSize            int                      `mapstructure:"-" yaml:"-"` // follows the data frame size
	RecurrentUnits       int                      `mapstructure:"recurrent_units" yaml:"recurrent_units"`
	DenseUnits           int                      `mapstructure:"dense_units" yaml:"dense_units"`
	GeneratorDropout     float64                  `mapstructure:"generator_dropout" yaml:"generator_dropout"`
	ConvFilters          int                      `mapstructure:"conv_filters" yaml:"conv_filters"`
	KernelSize           int                      `mapstructure:"kernel_size" yaml:"kernel_size"`
	PoolSize             int                      `mapstructure:"pool_size" yaml:"pool_size"`
	DiscriminatorUnits   int                      `mapstructure:"discriminator_units" yaml:"discriminator_units"`
	DiscriminatorDropout float64                  `mapstructure:"discriminator_dropout" yaml:"discriminator_dropout"`
	Optimizer            learning.HyperParameters `mapstructure:"optimizer" yaml:"optimizer"`
}

// DefaultConfig returns the reference architecture for frames of frameSize samples
func DefaultConfig(frameSize int) Config {
	return Config{
		LatentDim:            100,
		LatentSteps:          1,
		FrameSize:            frameSize,
		RecurrentUnits:       512,
		DenseUnits:           256,
		GeneratorDropout:     0.3,
		ConvFilters:          32,
		KernelSize:           2,
		PoolSize:             2,
		DiscriminatorUnits:   128,
		DiscriminatorDropout: 0.25,
		Optimizer:            learning.Default(),
	}
}

// Validate checks the sizes and the coupling between the two networks
func (c Config) Validate() error {
	for _, v := range []struct {
		name  string
		value int
	}{
		{"latent_dim", c.LatentDim},
		{"latent_steps", c.LatentSteps},
		{"frame_size", c.FrameSize},
		{"recurrent_units", c.RecurrentUnits},
		{"dense_units", c.DenseUnits},
		{"conv_filters", c.ConvFilters},
		{"kernel_size", c.KernelSize},
		{"pool_size", c.PoolSize},
		{"discriminator_units", c.DiscriminatorUnits},
	} {
		if v.value <= 0 {
			return fmt.Errorf("model %s must be positive, got %d", v.name, v.value)
		}
	}
	if c.FrameSize < c.PoolSize {
		return fmt.Errorf("model frame_size %d is smaller than pool_size %d", c.FrameSize, c.PoolSize)
	}
	if c.FrameSize < c.KernelSize {
		return fmt.Errorf("model frame_size %d is smaller than kernel_size %d", c.FrameSize, c.KernelSize)
	}
	for _, rate := range []float64{c.GeneratorDropout, c.DiscriminatorDropout} {
		if rate < 0 || rate >= 1 {
			return fmt.Errorf("model dropout %g must be in [0, 1)", rate)
		}
	}
	return c.Optimizer.Validate()
}
