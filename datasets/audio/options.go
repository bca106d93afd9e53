// Package audio loads directories of audio clips as fixed length mono frames
package audio

import "fmt"

// Label strategies
const (
	LabelNone = "none"
	LabelDir  = "dir"
	LabelCSV  = "csv"
	LabelTag  = "tag"
)

// Tag fields usable with the tag label strategy
const (
	TagGenre  = "genre"
	TagArtist = "artist"
	TagAlbum  = "album"
)

// Options select and shape the clips
type Options struct {
	ParentDir  string `mapstructure:"parent_dir" yaml:"parent_dir"`
	SubDir     string `mapstructure:"sub_dir" yaml:"sub_dir"`
	SampleRate int    `mapstructure:"sample_rate" yaml:"sample_rate"`
	FrameSize  int    `mapstructure:"frame_size" yaml:"frame_size"`
	// MaxFiles caps the decoded clips, or the files found when CacheSize is set
	MaxFiles   int    `mapstructure:"max_files" yaml:"max_files"`
	CacheSize  int    `mapstructure:"cache_size" yaml:"cache_size"`

	Labels      string `mapstructure:"labels" yaml:"labels"`
	LabelFile   string `mapstructure:"label_file" yaml:"label_file"`
	KeyColumn   string `mapstructure:"key_column" yaml:"key_column"`
	LabelColumn string `mapstructure:"label_column" yaml:"label_column"`
	TagField    string `mapstructure:"tag_field" yaml:"tag_field"`
}

// Validate checks the options before any file is touched
func (o Options) Validate() error {
	if o.SampleRate <= 0 {
		return fmt.Errorf("data sample_rate must be positive, got %d", o.SampleRate)
	}
	if o.FrameSize <= 0 {
		return fmt.Errorf("data frame_size must be positive, got %d", o.FrameSize)
	}
	if o.MaxFiles < 0 || o.CacheSize < 0 {
		return fmt.Errorf("data max_files %d and cache_size %d must not be negative", o.MaxFiles, o.CacheSize)
	}
	switch o.Labels {
	case "", LabelNone, LabelDir:
	case LabelCSV:
		if o.LabelFile == "" || o.LabelColumn == "" {
			return fmt.Errorf("data labels csv needs label_file and label_column")
		}
	case LabelTag:
		switch o.TagField {
		case TagGenre, TagArtist, TagAlbum:
		default:
			return fmt.Errorf("data tag_field %q is not genre, artist or album", o.TagField)
		}
	default:
		return fmt.Errorf("data labels %q is not none, dir, csv or tag", o.Labels)
	}
	return nil
}
