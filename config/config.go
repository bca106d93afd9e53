// Package config loads the training configuration from file, environment and defaults.
package config

import "bytes"
import "fmt"
import "io"
import "strings"

import "github.com/spf13/viper"
import "gopkg.in/yaml.v3"

import "github.com/neurlang/audiogan/audio"
import clips "github.com/neurlang/audiogan/datasets/audio"
import "github.com/neurlang/audiogan/gan"
import "github.com/neurlang/audiogan/trainer"

// EnvPrefix prefixes environment overrides, e.g. AUDIOGAN_TRAIN_EPOCHS
const EnvPrefix = "AUDIOGAN"

// Config stores the application configuration.
type Config struct {
	LogLevel string          `mapstructure:"log_level" yaml:"log_level"`
	Data     clips.Options   `mapstructure:"data" yaml:"data"`
	Model    gan.Config      `mapstructure:"model" yaml:"model"`
	Train    trainer.Options `mapstructure:"train" yaml:"train"`
	Output   trainer.Output  `mapstructure:"output" yaml:"output"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	const frameSize = 4096
	return Config{
		LogLevel: "info",
		Data: clips.Options{
			ParentDir:  "cv-valid-train",
			SubDir:     "data",
			SampleRate: 22050,
			FrameSize:  frameSize,
			Labels:     clips.LabelNone,
			KeyColumn:  "filename",
			TagField:   clips.TagGenre,
		},
		Model: gan.DefaultConfig(frameSize),
		Train: trainer.Options{
			Epochs:    100,
			BatchSize: 32,
			Duration:  5,
			SynthMode: audio.Once,
		},
		Output: trainer.Output{
			ModelDir: "saved_model",
			ImageDir: "images",
			WavPath:  "test.wav",
		},
	}
}

// Load reads the configuration file at path on top of the defaults and applies
// AUDIOGAN_<SECTION>_<KEY> environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	defaults, err := yaml.Marshal(Default())
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("read default config: %w", err)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Model.FrameSize = cfg.Data.FrameSize
	return &cfg, nil
}

// Validate checks every section and the coupling between them
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not debug, info, warn or error", c.LogLevel)
	}
	if err := c.Data.Validate(); err != nil {
		return err
	}
	if c.Model.FrameSize != c.Data.FrameSize {
		return fmt.Errorf("model frame_size %d differs from data frame_size %d", c.Model.FrameSize, c.Data.FrameSize)
	}
	if err := c.Model.Validate(); err != nil {
		return err
	}
	if err := c.Train.Validate(); err != nil {
		return err
	}
	return c.Output.Validate()
}

// WriteYAML writes the effective configuration
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
