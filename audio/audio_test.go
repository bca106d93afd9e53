package audio

import "image/png"
import "io"
import "math"
import "os"
import "path/filepath"
import "testing"

import "github.com/faiface/beep"
import "github.com/faiface/beep/wav"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"
import "go.uber.org/zap/zaptest"

import "github.com/neurlang/audiogan/tensor"

// counter emits frames of n samples whose values count the calls
type counter struct {
	n, calls int
}

func (c *counter) Predict(x *tensor.Tensor) (*tensor.Tensor, error) {
	c.calls++
	t := tensor.New(x.Batch(), c.n, 1)
	t.Fill(float64(c.calls) / 10)
	return t, nil
}

func noise() *tensor.Tensor {
	return tensor.New(1, 1, 4)
}

func TestSynthesize(t *testing.T) {
	tests := []struct {
		name  string
		frame int
		mode  string
		calls int
		want  []float64
	}{
		{"once pads", 5, Once, 1, []float64{.1, .1, .1, .1, .1, 0, 0, 0}},
		{"once truncates", 10, Once, 1, []float64{.1, .1, .1, .1, .1, .1, .1, .1}},
		{"tile refills", 3, Tile, 3, []float64{.1, .1, .1, .2, .2, .2, .3, .3}},
	}
	for _, tt := range tests {
		gen := &counter{n: tt.frame}
		out, err := Synthesize(gen, noise, 4, 2, tt.mode, zaptest.NewLogger(t))
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.calls, gen.calls, tt.name)
		assert.InDeltaSlice(t, tt.want, out, 1e-12, tt.name)
	}

	_, err := Synthesize(&counter{n: 1}, noise, 4, 0, Once, nil)
	assert.Error(t, err)
	_, err = Synthesize(&counter{n: 1}, noise, 4, 1, "loop", nil)
	assert.Error(t, err)
	_, err = Synthesize(&counter{n: 0}, noise, 4, 1, Tile, nil)
	assert.ErrorIs(t, err, ErrEmptyOutput)
}

func TestWavRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	samples := make([]float64, 22050)
	for i := range samples {
		samples[i] = 0.8 * math.Sin(2*math.Pi*440*float64(i)/22050)
	}
	samples[0] = 3

	require.NoError(t, os.WriteFile(path, make([]byte, 1<<16), 0644))
	require.NoError(t, WriteWav(path, samples, 22050))
	got, rate, err := ReadWav(path)
	require.NoError(t, err)
	assert.Equal(t, 22050, rate)
	require.Len(t, got, len(samples))
	assert.InDelta(t, 1, got[0], 1e-3)
	for i := 1; i < len(samples); i += 97 {
		assert.InDelta(t, samples[i], got[i], 1e-3)
	}
}

func TestDecodeWavFullScale(t *testing.T) {
	values := []float64{1, -1, 0.9, -0.25, 0}
	for _, precision := range []int{1, 2, 3} {
		file, err := os.Create(filepath.Join(t.TempDir(), "pcm.wav"))
		require.NoError(t, err)
		rest := values
		s := beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
			if len(rest) == 0 {
				return 0, false
			}
			for n < len(samples) && n < len(rest) {
				samples[n] = [2]float64{rest[n], rest[n]}
				n++
			}
			rest = rest[n:]
			return n, true
		})
		format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: precision}
		require.NoError(t, wav.Encode(file, s, format))
		_, err = file.Seek(0, io.SeekStart)
		require.NoError(t, err)

		stream, got, err := DecodeWav(file)
		require.NoError(t, err)
		assert.Equal(t, precision, got.Precision)
		out := make([][2]float64, len(values))
		n, _ := stream.Stream(out)
		require.Equal(t, len(values), n)
		for i, v := range values {
			assert.InDelta(t, v, out[i][0], 1e-2, "precision %d sample %d", precision, i)
			assert.GreaterOrEqual(t, out[i][0], -1.0)
			assert.LessOrEqual(t, out[i][0], 1.0)
		}
		require.NoError(t, file.Close())
	}
}

func TestSpectralCentroid(t *testing.T) {
	samples := make([]float64, 800)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / 8000)
	}
	assert.InDelta(t, 1000, SpectralCentroid(samples, 8000), 1)
	assert.Zero(t, SpectralCentroid(make([]float64, 16), 8000))
	assert.Zero(t, SpectralCentroid(nil, 8000))
}

func TestSpectrogramPNG(t *testing.T) {
	samples := make([]float64, 1024)
	for i := range samples {
		samples[i] = math.Sin(float64(i) / 3)
	}
	spec := Spectrogram(samples, 64, 256)
	require.NotEmpty(t, spec)
	assert.Len(t, spec[0], 129)

	short := Spectrogram(samples[:10], 64, 256)
	assert.Len(t, short, 1)

	path := filepath.Join(t.TempDir(), "0.png")
	require.NoError(t, WriteSpectrogramPNG(path, spec))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, len(spec), img.Bounds().Dx())
	assert.Equal(t, 129, img.Bounds().Dy())
}
