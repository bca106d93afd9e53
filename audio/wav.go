package audio

import "io"
import "os"

import "github.com/faiface/beep"
import "github.com/faiface/beep/wav"

// WriteWav writes mono samples as 16 bit PCM, replacing any existing file
func WriteWav(path string, samples []float64, rate int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	format := beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 1, Precision: 2}
	rest := samples
	s := beep.StreamerFunc(func(buf [][2]float64) (n int, ok bool) {
		if len(rest) == 0 {
			return 0, false
		}
		for n < len(buf) && n < len(rest) {
			v := rest[n]
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			buf[n][0], buf[n][1] = v, v
			n++
		}
		rest = rest[n:]
		return n, true
	})
	if err := wav.Encode(file, s, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadWav reads a wav file as mono samples and returns them with the sample rate
func ReadWav(path string) ([]float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()
	stream, format, err := DecodeWav(file)
	if err != nil {
		return nil, 0, err
	}
	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := stream.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, 0.5*(buf[i][0]+buf[i][1]))
		}
		if !ok {
			break
		}
	}
	return out, int(format.SampleRate), stream.Err()
}

// DecodeWav decodes a wav stream with 16 and 24 bit PCM brought back to full scale.
// wav.Decode divides those by 1<<bits-1, halving every sample; the gain restores the
// 1<<(bits-1)-1 scale that wav.Encode and beep.Format.DecodeSigned use.
func DecodeWav(r io.Reader) (beep.Streamer, beep.Format, error) {
	stream, format, err := wav.Decode(r)
	if err != nil {
		return nil, format, err
	}
	switch format.Precision {
	case 2, 3:
		bits := uint(8 * format.Precision)
		gain := float64(int64(1)<<bits-1) / float64(int64(1)<<(bits-1)-1)
		return gained{Streamer: stream, gain: gain}, format, nil
	}
	return stream, format, nil
}

type gained struct {
	beep.Streamer
	gain float64
}

func (g gained) Stream(samples [][2]float64) (int, bool) {
	n, ok := g.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		samples[i][0] = max(-1, min(1, samples[i][0]*g.gain))
		samples[i][1] = max(-1, min(1, samples[i][1]*g.gain))
	}
	return n, ok
}
