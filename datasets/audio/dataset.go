package audio

import "io/fs"
import "path/filepath"

import "github.com/hashicorp/golang-lru/v2"
import "github.com/pkg/errors"
import "go.uber.org/zap"

import "github.com/neurlang/audiogan/datasets"
import "github.com/neurlang/audiogan/parallel"
import "github.com/neurlang/audiogan/tensor"

// ErrNoClips is returned when no decodable clip was found
var ErrNoClips = errors.New("no audio clips found")

// ErrFileNotLoaded is returned when no lazily loaded clip decodes
var ErrFileNotLoaded = errors.New("audio file not loaded")

// Dataset is a datasets.Sampler over audio clips on disk
type Dataset struct {
	opts   Options
	log    *zap.Logger
	files  []string
	kinds  []string
	labels []int
	names  []string

	frames [][]float64
	cache  *lru.Cache[int, []float64]
	broken map[int]bool
}

var _ datasets.Sampler = (*Dataset)(nil)

// Load finds the clips under <parent_dir>/<sub_dir>. With cache_size zero clips are
// decoded now, failures are skipped and max_files counts decoded clips. Otherwise clips
// are decoded on first use and kept in an LRU cache of cache_size frames, and max_files
// counts the files found.
func Load(o Options, log *zap.Logger) (*Dataset, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	root := filepath.Join(o.ParentDir, o.SubDir)
	d := &Dataset{opts: o, log: log}

	err := filepath.WalkDir(root, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !e.Type().IsRegular() {
			return nil
		}
		if o.CacheSize > 0 && o.MaxFiles > 0 && len(d.files) >= o.MaxFiles {
			return filepath.SkipAll
		}
		kind, err := Sniff(path)
		if err != nil {
			log.Debug("skipping file", zap.String("path", path), zap.Error(err))
			return nil
		}
		d.files = append(d.files, path)
		d.kinds = append(d.kinds, kind)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}

	if o.CacheSize > 0 {
		d.cache, err = lru.New[int, []float64](o.CacheSize)
		if err != nil {
			return nil, err
		}
		d.broken = make(map[int]bool)
	} else {
		d.decodeAll()
	}
	if len(d.files) == 0 {
		return nil, errors.Wrapf(ErrNoClips, "in %s", root)
	}

	texts, err := labelNames(o, d.files)
	if err != nil {
		return nil, err
	}
	d.labels, d.names = enumerate(texts)

	log.Info("audio clips loaded",
		zap.String("root", root),
		zap.Int("clips", len(d.files)),
		zap.Int("labels", len(d.names)),
		zap.Bool("lazy", d.cache != nil),
	)
	return d, nil
}

// decodeAll decodes clips in parallel until max_files of them succeed, dropping the ones
// that fail
func (d *Dataset) decodeAll() {
	var files, kinds []string
	for next := 0; next < len(d.files); {
		want := len(d.files) - next
		if d.opts.MaxFiles > 0 {
			if len(files) >= d.opts.MaxFiles {
				break
			}
			want = min(want, d.opts.MaxFiles-len(files))
		}
		frames := make([][]float64, want)
		errs := make([]error, want)
		parallel.ForEach(want, parallel.Threads, func(k int) {
			i := next + k
			frames[k], errs[k] = Decode(d.files[i], d.kinds[i], d.opts.SampleRate, d.opts.FrameSize)
		})
		for k, err := range errs {
			i := next + k
			if err != nil {
				d.log.Warn("skipping clip", zap.String("path", d.files[i]), zap.Error(err))
				continue
			}
			files = append(files, d.files[i])
			kinds = append(kinds, d.kinds[i])
			d.frames = append(d.frames, frames[k])
		}
		next += want
	}
	d.files, d.kinds = files, kinds
}

// Len is the number of clips
func (d *Dataset) Len() int {
	return len(d.files)
}

// Files returns the clip paths in index order
func (d *Dataset) Files() []string {
	return d.files
}

// Frame returns the decoded frame of clip i. A lazily loaded clip that fails to decode is
// logged once and the next decodable clip stands in for it. Frame is not safe for
// concurrent use.
func (d *Dataset) Frame(i int) ([]float64, error) {
	if i < 0 || i >= len(d.files) {
		return nil, errors.Errorf("clip %d out of %d", i, len(d.files))
	}
	if d.cache == nil {
		return d.frames[i], nil
	}
	for k := 0; k < len(d.files); k++ {
		j := (i + k) % len(d.files)
		if d.broken[j] {
			continue
		}
		if f, ok := d.cache.Get(j); ok {
			return f, nil
		}
		f, err := Decode(d.files[j], d.kinds[j], d.opts.SampleRate, d.opts.FrameSize)
		if err != nil {
			d.log.Warn("skipping clip", zap.String("path", d.files[j]), zap.Error(err))
			d.broken[j] = true
			continue
		}
		d.cache.Add(j, f)
		return f, nil
	}
	return nil, errors.Wrapf(ErrFileNotLoaded, "none of %d clips under %s decodes", len(d.files), d.opts.SubDir)
}

// Batch returns the frames at idx as a (len(idx), frame_size, 1) tensor
func (d *Dataset) Batch(idx []int) (*tensor.Tensor, error) {
	return datasets.Stack(idx, d.Frame)
}

// Labels returns the label ids of the clips at idx, zero for indices out of range
func (d *Dataset) Labels(idx []int) []int {
	o := make([]int, len(idx))
	for j, i := range idx {
		if i >= 0 && i < len(d.labels) {
			o[j] = d.labels[i]
		}
	}
	return o
}

// LabelNames returns the label texts indexed by label id
func (d *Dataset) LabelNames() []string {
	return d.names
}

// SampleRate of the frames in Hz
func (d *Dataset) SampleRate() int {
	return d.opts.SampleRate
}
