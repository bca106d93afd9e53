package audio

import "encoding/csv"
import "io"
import "os"
import "path/filepath"
import "sort"

import "github.com/dhowden/tag"
import "github.com/pkg/errors"

// Unknown is the label of clips the strategy has no value for
const Unknown = "unknown"

// labelNames returns the label text of every file under the strategy in o
func labelNames(o Options, files []string) ([]string, error) {
	out := make([]string, len(files))
	switch o.Labels {
	case "", LabelNone:
		for i := range out {
			out[i] = Unknown
		}
	case LabelDir:
		for i, f := range files {
			out[i] = filepath.Base(filepath.Dir(f))
		}
	case LabelCSV:
		manifest, err := readManifest(o.LabelFile, o.KeyColumn, o.LabelColumn)
		if err != nil {
			return nil, err
		}
		for i, f := range files {
			if v, ok := manifest[filepath.Base(f)]; ok && v != "" {
				out[i] = v
			} else {
				out[i] = Unknown
			}
		}
	case LabelTag:
		for i, f := range files {
			out[i] = tagField(f, o.TagField)
		}
	}
	return out, nil
}

// readManifest maps the base name in keyColumn to labelColumn
func readManifest(path, keyColumn, labelColumn string) (map[string]string, error) {
	if keyColumn == "" {
		keyColumn = "filename"
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "read header of %s", path)
	}
	key, label := -1, -1
	for i, h := range header {
		switch h {
		case keyColumn:
			key = i
		case labelColumn:
			label = i
		}
	}
	if key < 0 || label < 0 {
		return nil, errors.Errorf("%s has no %q or %q column", path, keyColumn, labelColumn)
	}
	out := make(map[string]string)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		if key < len(rec) && label < len(rec) {
			out[filepath.Base(rec[key])] = rec[label]
		}
	}
	return out, nil
}

func tagField(path, field string) string {
	file, err := os.Open(path)
	if err != nil {
		return Unknown
	}
	defer file.Close()
	m, err := tag.ReadFrom(file)
	if err != nil {
		return Unknown
	}
	var v string
	switch field {
	case TagGenre:
		v = m.Genre()
	case TagArtist:
		v = m.Artist()
	case TagAlbum:
		v = m.Album()
	}
	if v == "" {
		return Unknown
	}
	return v
}

// enumerate maps label texts to ids in sorted order
func enumerate(texts []string) (ids []int, names []string) {
	seen := make(map[string]int)
	for _, t := range texts {
		seen[t] = 0
	}
	for t := range seen {
		names = append(names, t)
	}
	sort.Strings(names)
	for i, n := range names {
		seen[n] = i
	}
	ids = make([]int, len(texts))
	for i, t := range texts {
		ids[i] = seen[t]
	}
	return
}
