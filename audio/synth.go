// Package audio turns generator output into waveforms and renders audio diagnostics
package audio

import "errors"
import "fmt"

import "go.uber.org/zap"

import "github.com/neurlang/audiogan/tensor"

// Synthesis modes
const (
	Once = "once"
	Tile = "tile"
)

// ErrEmptyOutput is returned when the generator produces no samples
var ErrEmptyOutput = errors.New("generator produced no samples")

// Predictor maps a noise batch to generated frames
type Predictor interface {
	Predict(x *tensor.Tensor) (*tensor.Tensor, error)
}

// Samples is the buffer length for duration seconds at rate
func Samples(rate int, duration float64) int {
	return int(float64(rate) * duration)
}

// Synthesize fills a buffer of exactly rate*duration samples from the generator. Noise
// returns a fresh single sample latent batch on every call. In Once mode the generator
// runs once and a shorter output is zero padded; in Tile mode fresh frames are appended
// until the buffer is full.
func Synthesize(gen Predictor, noise func() *tensor.Tensor, rate int, duration float64, mode string, log *zap.Logger) ([]float64, error) {
	if log == nil {
		log = zap.NewNop()
	}
	total := Samples(rate, duration)
	if total <= 0 {
		return nil, fmt.Errorf("synthesize: %d samples for rate %d and duration %g", total, rate, duration)
	}
	if mode != Once && mode != Tile {
		return nil, fmt.Errorf("synthesize: unknown mode %q", mode)
	}
	out := make([]float64, total)
	for pos := 0; pos < total; {
		frame, err := gen.Predict(noise())
		if err != nil {
			return nil, fmt.Errorf("synthesize: %w", err)
		}
		if frame.Len() == 0 {
			return nil, ErrEmptyOutput
		}
		pos += copy(out[pos:], frame.Data)
		if mode == Once {
			if pos < total {
				log.Warn("generator output shorter than requested audio, padding with silence",
					zap.Int("generated", pos),
					zap.Int("requested", total),
				)
			}
			break
		}
	}
	return out, nil
}
