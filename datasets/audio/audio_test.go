package audio

import "math"
import "os"
import "path/filepath"
import "testing"

import "github.com/faiface/beep"
import "github.com/faiface/beep/mp3"
import "github.com/faiface/beep/wav"
import "github.com/mewkiz/flac"
import "github.com/mewkiz/flac/frame"
import "github.com/mewkiz/flac/meta"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"
import "go.uber.org/zap/zaptest"

func writeWav(t *testing.T, path string, rate int, value float64, n int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	left := n
	s := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if left == 0 {
			return 0, false
		}
		k := 0
		for k < len(samples) && k < left {
			samples[k] = [2]float64{value, value}
			k++
		}
		left -= k
		return k, true
	})
	require.NoError(t, wav.Encode(file, s, beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 1, Precision: 2}))
}

// writeFlac writes verbatim 16 bit channels in blocks of 256 samples
func writeFlac(t *testing.T, path string, rate int, channels ...[]int32) {
	t.Helper()
	const block = 256
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	info := &meta.StreamInfo{
		BlockSizeMin:  block,
		BlockSizeMax:  block,
		SampleRate:    uint32(rate),
		NChannels:     uint8(len(channels)),
		BitsPerSample: 16,
	}
	enc, err := flac.NewEncoder(file, info)
	require.NoError(t, err)
	layout := frame.ChannelsMono
	if len(channels) == 2 {
		layout = frame.ChannelsLR
	}
	for off := 0; off < len(channels[0]); off += block {
		f := &frame.Frame{Header: frame.Header{
			HasFixedBlockSize: true,
			BlockSize:         block,
			SampleRate:        uint32(rate),
			Channels:          layout,
			BitsPerSample:     16,
		}}
		for _, ch := range channels {
			f.Subframes = append(f.Subframes, &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   ch[off : off+block],
				NSamples:  block,
			})
		}
		require.NoError(t, enc.WriteFrame(f))
	}
	require.NoError(t, enc.Close())
}

func constant(v int32, n int) []int32 {
	o := make([]int32, n)
	for i := range o {
		o[i] = v
	}
	return o
}

// id3Genre is an ID3v2.3 tag holding only a TCON frame
func id3Genre(genre string) []byte {
	body := append([]byte{0}, genre...)
	tcon := append([]byte("TCON"), byte(len(body)>>24), byte(len(body)>>16), byte(len(body)>>8), byte(len(body)), 0, 0)
	tcon = append(tcon, body...)
	n := len(tcon)
	tag := []byte{'I', 'D', '3', 3, 0, 0, byte(n >> 21 & 0x7f), byte(n >> 14 & 0x7f), byte(n >> 7 & 0x7f), byte(n & 0x7f)}
	return append(tag, tcon...)
}

func copyMp3(t *testing.T, path string, prefix []byte) {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "gunshot.mp3"))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, append(prefix, b...), 0644))
}

func fixture(t *testing.T) string {
	dir := t.TempDir()
	writeWav(t, filepath.Join(dir, "clips", "a", "x.wav"), 8000, 0.5, 300)
	writeWav(t, filepath.Join(dir, "clips", "b", "y.wav"), 8000, 0.25, 100)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clips", "notes.txt"), []byte("not audio"), 0644))
	return dir
}

func options(dir string) Options {
	return Options{ParentDir: dir, SubDir: "clips", SampleRate: 8000, FrameSize: 200, Labels: LabelDir}
}

func TestLoadEager(t *testing.T) {
	d, err := Load(options(fixture(t)), zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())
	assert.Equal(t, []string{"a", "b"}, d.LabelNames())
	assert.Equal(t, []int{1, 0}, d.Labels([]int{1, 0}))

	b, err := d.Batch([]int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 200, 1}, b.Shape)
	for i := 0; i < 200; i++ {
		assert.InDelta(t, 0.5, b.Data[i], 1e-3)
	}
	for i := 0; i < 100; i++ {
		assert.InDelta(t, 0.25, b.Data[200+i], 1e-3)
	}
	for i := 100; i < 200; i++ {
		assert.Zero(t, b.Data[200+i])
	}
}

func TestLoadLazyMatchesEager(t *testing.T) {
	dir := fixture(t)
	eager, err := Load(options(dir), nil)
	require.NoError(t, err)
	o := options(dir)
	o.CacheSize = 1
	lazy, err := Load(o, nil)
	require.NoError(t, err)

	idx := []int{1, 0, 1}
	want, err := eager.Batch(idx)
	require.NoError(t, err)
	got, err := lazy.Batch(idx)
	require.NoError(t, err)
	assert.Equal(t, want.Data, got.Data)
}

func TestLoadMaxFilesAndEmpty(t *testing.T) {
	o := options(fixture(t))
	o.MaxFiles = 1
	d, err := Load(o, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	empty := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(empty, "clips"), 0755))
	_, err = Load(options(empty), nil)
	assert.ErrorIs(t, err, ErrNoClips)
}

func TestResample(t *testing.T) {
	dir := t.TempDir()
	writeWav(t, filepath.Join(dir, "clips", "hi.wav"), 16000, 0.5, 400)
	d, err := Load(Options{ParentDir: dir, SubDir: "clips", SampleRate: 8000, FrameSize: 100}, nil)
	require.NoError(t, err)
	f, err := d.Frame(0)
	require.NoError(t, err)
	require.Len(t, f, 100)
	assert.InDelta(t, 0.5, f[50], 0.05)
}

func TestBrokenClip(t *testing.T) {
	dir := t.TempDir()
	writeWav(t, filepath.Join(dir, "clips", "good.wav"), 8000, 0.5, 300)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clips", "bad.wav"), []byte("RIFF\x00\x00\x00\x00WAVEjunk"), 0644))

	eager, err := Load(Options{ParentDir: dir, SubDir: "clips", SampleRate: 8000, FrameSize: 200}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 1, eager.Len())

	lazy, err := Load(Options{ParentDir: dir, SubDir: "clips", SampleRate: 8000, FrameSize: 200, CacheSize: 4}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, 2, lazy.Len())
	for round := 0; round < 2; round++ {
		b, err := lazy.Batch([]int{0, 1})
		require.NoError(t, err)
		for i := 0; i < 400; i++ {
			assert.InDelta(t, 0.5, b.Data[i], 1e-3)
		}
	}
}

func TestBrokenClipsOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "clips"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clips", "bad.wav"), []byte("RIFF\x00\x00\x00\x00WAVEjunk"), 0644))

	_, err := Load(Options{ParentDir: dir, SubDir: "clips", SampleRate: 8000, FrameSize: 200}, nil)
	assert.ErrorIs(t, err, ErrNoClips)

	lazy, err := Load(Options{ParentDir: dir, SubDir: "clips", SampleRate: 8000, FrameSize: 200, CacheSize: 4}, nil)
	require.NoError(t, err)
	_, err = lazy.Batch([]int{0})
	assert.ErrorIs(t, err, ErrFileNotLoaded)
}

func TestMaxFilesCountsDecodedClips(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "clips"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clips", "a.wav"), []byte("RIFF\x00\x00\x00\x00WAVEjunk"), 0644))
	writeWav(t, filepath.Join(dir, "clips", "b.wav"), 8000, 0.5, 300)
	writeWav(t, filepath.Join(dir, "clips", "c.wav"), 8000, 0.25, 300)

	d, err := Load(Options{ParentDir: dir, SubDir: "clips", SampleRate: 8000, FrameSize: 200, MaxFiles: 1}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, d.Len())
	assert.Equal(t, filepath.Join(dir, "clips", "b.wav"), d.Files()[0])
	f, err := d.Frame(0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, f[0], 1e-3)
}

func TestLabelsOutOfRange(t *testing.T) {
	d, err := Load(options(fixture(t)), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1}, d.Labels([]int{-1, 7, 1}))
}

func TestFlac(t *testing.T) {
	dir := t.TempDir()
	writeFlac(t, filepath.Join(dir, "clips", "st.flac"), 8000, constant(16384, 512), constant(-8192, 512))

	kind, err := Sniff(filepath.Join(dir, "clips", "st.flac"))
	require.NoError(t, err)
	assert.Equal(t, "flac", kind)

	d, err := Load(Options{ParentDir: dir, SubDir: "clips", SampleRate: 8000, FrameSize: 600}, nil)
	require.NoError(t, err)
	f, err := d.Frame(0)
	require.NoError(t, err)
	require.Len(t, f, 600)
	for i := 0; i < 512; i++ {
		assert.InDelta(t, 0.125, f[i], 1e-9)
	}
	for i := 512; i < 600; i++ {
		assert.Zero(t, f[i])
	}
}

func TestFlacResample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clips", "hi.flac")
	writeFlac(t, path, 16000, constant(16384, 1024))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	mono, rate, err := decodeFlac(file, 100, 8000)
	require.NoError(t, err)
	assert.Equal(t, 16000, rate)
	assert.Len(t, mono, 512)

	d, err := Load(Options{ParentDir: dir, SubDir: "clips", SampleRate: 8000, FrameSize: 100}, nil)
	require.NoError(t, err)
	f, err := d.Frame(0)
	require.NoError(t, err)
	require.Len(t, f, 100)
	assert.InDelta(t, 0.5, f[50], 0.05)
}

func TestMp3(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clips", "shot.mp3")
	copyMp3(t, path, nil)

	kind, err := Sniff(path)
	require.NoError(t, err)
	assert.Equal(t, "mp3", kind)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	stream, format, err := mp3.Decode(file)
	require.NoError(t, err)
	const n = 24000
	want := readMono(stream, n)

	got, err := Decode(path, kind, int(format.SampleRate), n)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	var peak float64
	for _, v := range got {
		assert.LessOrEqual(t, math.Abs(v), 1.0)
		peak = math.Max(peak, math.Abs(v))
	}
	assert.Greater(t, peak, 0.01)

	d, err := Load(Options{ParentDir: dir, SubDir: "clips", SampleRate: 8000, FrameSize: 400}, nil)
	require.NoError(t, err)
	f, err := d.Frame(0)
	require.NoError(t, err)
	assert.Len(t, f, 400)
}

func TestTagLabels(t *testing.T) {
	dir := t.TempDir()
	copyMp3(t, filepath.Join(dir, "clips", "a.mp3"), id3Genre("Blues"))
	copyMp3(t, filepath.Join(dir, "clips", "b.mp3"), nil)

	d, err := Load(Options{
		ParentDir:  dir,
		SubDir:     "clips",
		SampleRate: 8000,
		FrameSize:  400,
		Labels:     LabelTag,
		TagField:   TagGenre,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())
	assert.Equal(t, []string{"Blues", Unknown}, d.LabelNames())
	assert.Equal(t, []int{0, 1}, d.Labels([]int{0, 1}))
}

func TestCSVLabels(t *testing.T) {
	dir := fixture(t)
	manifest := filepath.Join(dir, "manifest.csv")
	require.NoError(t, os.WriteFile(manifest, []byte("filename,text,gender\nclips/a/x.wav,hello,female\n"), 0644))
	o := options(dir)
	o.Labels = LabelCSV
	o.LabelFile = manifest
	o.LabelColumn = "gender"
	d, err := Load(o, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"female", Unknown}, d.LabelNames())
	assert.Equal(t, []int{0, 1}, d.Labels([]int{0, 1}))
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		o    Options
		ok   bool
	}{
		{"plain", Options{SampleRate: 8000, FrameSize: 10}, true},
		{"rate", Options{FrameSize: 10}, false},
		{"frame", Options{SampleRate: 8000}, false},
		{"csv without file", Options{SampleRate: 8000, FrameSize: 10, Labels: LabelCSV}, false},
		{"tag genre", Options{SampleRate: 8000, FrameSize: 10, Labels: LabelTag, TagField: TagGenre}, true},
		{"tag field", Options{SampleRate: 8000, FrameSize: 10, Labels: LabelTag, TagField: "year"}, false},
		{"strategy", Options{SampleRate: 8000, FrameSize: 10, Labels: "speaker"}, false},
	}
	for _, tt := range tests {
		err := tt.o.Validate()
		assert.Equal(t, tt.ok, err == nil, tt.name)
	}
}
