// Package datasets defines how the trainer draws real audio frames
package datasets

import "fmt"
import "math/rand/v2"

import "github.com/neurlang/audiogan/tensor"

// Sampler gives random access to fixed length mono frames
type Sampler interface {
	// Len is the number of frames
	Len() int

	// Batch returns the frames at idx as a (len(idx), frame_size, 1) tensor
	Batch(idx []int) (*tensor.Tensor, error)

	// Labels returns the label ids of the frames at idx
	Labels(idx []int) []int

	// SampleRate of the frames in Hz
	SampleRate() int
}

// RandomIndices draws k indices in [0, n) uniformly with replacement
func RandomIndices(rng *rand.Rand, n, k int) []int {
	o := make([]int, k)
	for i := range o {
		o[i] = rng.IntN(n)
	}
	return o
}

// Frames is an in-memory Sampler
type Frames struct {
	Data  [][]float64
	Label []int
	Rate  int
}

// Len is the number of frames
func (f *Frames) Len() int {
	return len(f.Data)
}

// Batch copies the frames at idx into a tensor
func (f *Frames) Batch(idx []int) (*tensor.Tensor, error) {
	return Stack(idx, func(i int) ([]float64, error) {
		if i < 0 || i >= len(f.Data) {
			return nil, fmt.Errorf("frame %d out of %d", i, len(f.Data))
		}
		return f.Data[i], nil
	})
}

// Labels returns the label ids at idx, zero when unlabeled
func (f *Frames) Labels(idx []int) []int {
	o := make([]int, len(idx))
	for j, i := range idx {
		if i < len(f.Label) {
			o[j] = f.Label[i]
		}
	}
	return o
}

// SampleRate of the frames in Hz
func (f *Frames) SampleRate() int {
	return f.Rate
}

// Stack gathers equally long frames returned by get into a (len(idx), frame, 1) tensor
func Stack(idx []int, get func(i int) ([]float64, error)) (*tensor.Tensor, error) {
	var t *tensor.Tensor
	for j, i := range idx {
		frame, err := get(i)
		if err != nil {
			return nil, err
		}
		if t == nil {
			t = tensor.New(len(idx), len(frame), 1)
		}
		if len(frame) != t.Shape[1] {
			return nil, fmt.Errorf("frame %d has %d samples, want %d", i, len(frame), t.Shape[1])
		}
		copy(t.Row(j), frame)
	}
	if t == nil {
		return nil, fmt.Errorf("empty batch")
	}
	return t, nil
}
