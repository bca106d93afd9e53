package audio

import "image"
import "image/color"
import "image/png"
import "math"
import "math/cmplx"
import "os"

import "github.com/mjibson/go-dsp/fft"
import "github.com/r9y9/gossp/stft"

// SpectralCentroid is the magnitude weighted mean frequency of samples in Hz
func SpectralCentroid(samples []float64, rate int) float64 {
	if len(samples) == 0 {
		return 0
	}
	spectrum := fft.FFTReal(samples)
	var num, den float64
	for k := 0; k <= len(samples)/2; k++ {
		m := cmplx.Abs(spectrum[k])
		num += m * float64(k) * float64(rate) / float64(len(samples))
		den += m
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Spectrogram returns STFT magnitudes, one row of frameLen/2+1 bins per frame
func Spectrogram(samples []float64, frameShift, frameLen int) [][]float64 {
	if len(samples) < frameLen {
		samples = append(samples[:len(samples):len(samples)], make([]float64, frameLen-len(samples))...)
	}
	frames := stft.New(frameShift, frameLen).STFT(samples)
	out := make([][]float64, len(frames))
	for i, f := range frames {
		row := make([]float64, frameLen/2+1)
		for k := range row {
			row[k] = cmplx.Abs(f[k])
		}
		out[i] = row
	}
	return out
}

// WriteSpectrogramPNG renders log magnitudes with time left to right and low
// frequencies at the bottom
func WriteSpectrogramPNG(path string, spec [][]float64) error {
	bins := 0
	if len(spec) > 0 {
		bins = len(spec[0])
	}
	img := image.NewGray(image.Rect(0, 0, len(spec), bins))

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range spec {
		for _, v := range row {
			l := math.Log1p(v)
			lo, hi = math.Min(lo, l), math.Max(hi, l)
		}
	}
	for x, row := range spec {
		for y, v := range row {
			var g uint8
			if hi > lo {
				g = uint8(255 * (math.Log1p(v) - lo) / (hi - lo))
			}
			img.SetGray(x, bins-y-1, color.Gray{Y: g})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
