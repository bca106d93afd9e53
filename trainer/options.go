package trainer

import "fmt"

import "github.com/neurlang/audiogan/audio"

// Options control the training loop
type Options struct {
	Epochs             int     `mapstructure:"epochs" yaml:"epochs"`
	BatchSize          int     `mapstructure:"batch_size" yaml:"batch_size"`
	Seed               uint64  `mapstructure:"seed" yaml:"seed"`
	CheckpointInterval int     `mapstructure:"checkpoint_interval" yaml:"checkpoint_interval"`
	SampleInterval     int     `mapstructure:"sample_interval" yaml:"sample_interval"`
	Duration           float64 `mapstructure:"duration" yaml:"duration"`
	SynthMode          string  `mapstructure:"synth_mode" yaml:"synth_mode"`
}

// Output names where the artifacts of a run go
type Output struct {
	ModelDir    string `mapstructure:"model_dir" yaml:"model_dir"`
	ImageDir    string `mapstructure:"image_dir" yaml:"image_dir"`
	WavPath     string `mapstructure:"wav_path" yaml:"wav_path"`
	HalfWeights bool   `mapstructure:"half_weights" yaml:"half_weights"`
}

// Validate checks the loop settings
func (o Options) Validate() error {
	if o.Epochs <= 0 {
		return fmt.Errorf("train epochs must be positive, got %d", o.Epochs)
	}
	if o.BatchSize < 2 {
		return fmt.Errorf("train batch_size must be at least 2, got %d", o.BatchSize)
	}
	if o.CheckpointInterval < 0 || o.SampleInterval < 0 {
		return fmt.Errorf("train intervals must not be negative")
	}
	if o.Duration <= 0 {
		return fmt.Errorf("train duration must be positive, got %g", o.Duration)
	}
	if o.SynthMode != audio.Once && o.SynthMode != audio.Tile {
		return fmt.Errorf("train synth_mode %q is not once or tile", o.SynthMode)
	}
	return nil
}

// Validate checks the output paths
func (o Output) Validate() error {
	if o.ModelDir == "" || o.WavPath == "" {
		return fmt.Errorf("output model_dir and wav_path must be set")
	}
	return nil
}
