package audio

import "io"
import "os"

import "github.com/faiface/beep"
import "github.com/faiface/beep/mp3"
import "github.com/h2non/filetype"
import "github.com/mewkiz/flac"
import "github.com/pkg/errors"

import sound "github.com/neurlang/audiogan/audio"

// ErrUnsupported is returned for files that are not wav, mp3 or flac
var ErrUnsupported = errors.New("unsupported audio format")

// resampleQuality is the beep.Resample interpolation quality
const resampleQuality = 4

// Sniff returns the audio kind of the file (wav, mp3 or flac) from its content
func Sniff(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	head := make([]byte, 261)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", errors.Wrapf(err, "sniff %s", path)
	}
	kind, err := filetype.Match(head[:n])
	if err != nil {
		return "", errors.Wrapf(err, "sniff %s", path)
	}
	switch kind.Extension {
	case "wav", "mp3", "flac":
		return kind.Extension, nil
	}
	return "", errors.Wrapf(ErrUnsupported, "sniff %s: %q", path, kind.Extension)
}

// Decode reads the start of a clip as mono samples in [-1, 1] at rate, truncated or zero
// padded to frame samples
func Decode(path, kind string, rate, frame int) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var stream beep.Streamer
	var format beep.Format
	switch kind {
	case "wav":
		s, f, err := sound.DecodeWav(file)
		if err != nil {
			return nil, errors.Wrapf(err, "decode wav %s", path)
		}
		stream, format = s, f
	case "mp3":
		s, f, err := mp3.Decode(file)
		if err != nil {
			return nil, errors.Wrapf(err, "decode mp3 %s", path)
		}
		stream, format = s, f
	case "flac":
		mono, sr, err := decodeFlac(file, frame, rate)
		if err != nil {
			return nil, errors.Wrapf(err, "decode flac %s", path)
		}
		stream, format = sliceStreamer(mono), beep.Format{SampleRate: beep.SampleRate(sr), NumChannels: 1, Precision: 2}
	default:
		return nil, errors.Wrapf(ErrUnsupported, "decode %s: %q", path, kind)
	}
	if int(format.SampleRate) != rate {
		stream = beep.Resample(resampleQuality, format.SampleRate, beep.SampleRate(rate), stream)
	}
	out := readMono(stream, frame)
	if err := stream.Err(); err != nil {
		return nil, errors.Wrapf(err, "stream %s", path)
	}
	return out, nil
}

// readMono averages both channels of up to frame samples; the rest stays zero
func readMono(s beep.Streamer, frame int) []float64 {
	out := make([]float64, frame)
	buf := make([][2]float64, 512)
	for pos := 0; pos < frame; {
		want := len(buf)
		if frame-pos < want {
			want = frame - pos
		}
		n, ok := s.Stream(buf[:want])
		for i := 0; i < n; i++ {
			out[pos+i] = 0.5 * (buf[i][0] + buf[i][1])
		}
		pos += n
		if !ok {
			break
		}
	}
	return out
}

// sliceStreamer plays mono samples on both channels
func sliceStreamer(mono []float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if len(mono) == 0 {
			return 0, false
		}
		for n < len(samples) && n < len(mono) {
			samples[n][0], samples[n][1] = mono[n], mono[n]
			n++
		}
		mono = mono[n:]
		return n, true
	})
}

// decodeFlac mixes enough flac frames to mono to cover frame samples at rate
func decodeFlac(r io.Reader, frame, rate int) ([]float64, int, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close()

	sr := int(stream.Info.SampleRate)
	if sr <= 0 {
		return nil, 0, errors.Errorf("sample rate %d", sr)
	}
	need := frame*sr/rate + resampleQuality*64
	scale := 1 / float64(int64(1)<<(stream.Info.BitsPerSample-1))

	var mono []float64
	for len(mono) < need {
		f, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		channels := len(f.Subframes)
		for i := range f.Subframes[0].Samples {
			var sum float64
			for _, sub := range f.Subframes {
				sum += float64(sub.Samples[i])
			}
			mono = append(mono, sum*scale/float64(channels))
		}
	}
	return mono, sr, nil
}
