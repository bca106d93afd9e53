// Package learning implements the optimizer and the loss used to train the networks
package learning

import "fmt"

// HyperParameters configure the Adam optimizer
type HyperParameters struct {
	LearningRate float64 `mapstructure:"learning_rate" yaml:"learning_rate"`
	Beta1        float64 `mapstructure:"beta1" yaml:"beta1"`
	Beta2        float64 `mapstructure:"beta2" yaml:"beta2"`
	Epsilon      float64 `mapstructure:"epsilon" yaml:"epsilon"`
}

// Default returns the optimizer settings used for both the discriminator and the combined model
func Default() HyperParameters {
	return HyperParameters{
		LearningRate: 0.0002,
		Beta1:        0.5,
		Beta2:        0.999,
		Epsilon:      1e-7,
	}
}

// Validate checks the ranges of the hyperparameters
func (h HyperParameters) Validate() error {
	if h.LearningRate <= 0 {
		return fmt.Errorf("learning rate %g must be positive", h.LearningRate)
	}
	if h.Beta1 < 0 || h.Beta1 >= 1 || h.Beta2 < 0 || h.Beta2 >= 1 {
		return fmt.Errorf("betas %g, %g must be in [0, 1)", h.Beta1, h.Beta2)
	}
	if h.Epsilon <= 0 {
		return fmt.Errorf("epsilon %g must be positive", h.Epsilon)
	}
	return nil
}
