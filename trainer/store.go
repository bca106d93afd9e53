package trainer

import "errors"
import "fmt"
import "io"
import "os"
import "path/filepath"

// Artifact file names inside a model directory
const (
	TopologyFile = "model.json"
	WeightsFile  = "model_weights.lzw"
	ConfigFile   = "config.yaml"
)

// ErrNotArtifact is returned when a run directory holds no saved model
var ErrNotArtifact = errors.New("not a saved model")

// Artifact can be written to and restored from a model directory
type Artifact interface {
	Name() string
	WriteTopology(w io.Writer) error
	WriteWeights(w io.Writer, half bool) error
	ReadWeights(r io.Reader) error
}

// Persister stores the models of a run under its id
type Persister interface {
	Save(runID string, models ...Artifact) error
	Load(runID string, models ...Artifact) error
}

// DirStore keeps every model of a run in <Dir>/<run-id>/<model-name>/
type DirStore struct {
	Dir  string
	Half bool

	// Snapshot writes config.yaml next to the models when set
	Snapshot func(w io.Writer) error
}

// ModelDir is the directory of one model of a run
func (s *DirStore) ModelDir(runID, name string) string {
	return filepath.Join(s.Dir, runID, name)
}

// Save writes model.json and model_weights.lzw of every model
func (s *DirStore) Save(runID string, models ...Artifact) error {
	for _, m := range models {
		dir := s.ModelDir(runID, m.Name())
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(dir, TopologyFile), m.WriteTopology); err != nil {
			return fmt.Errorf("save %s topology: %w", m.Name(), err)
		}
		err := writeFile(filepath.Join(dir, WeightsFile), func(w io.Writer) error {
			return m.WriteWeights(w, s.Half)
		})
		if err != nil {
			return fmt.Errorf("save %s weights: %w", m.Name(), err)
		}
	}
	if s.Snapshot != nil {
		if err := os.MkdirAll(filepath.Join(s.Dir, runID), 0755); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(s.Dir, runID, ConfigFile), s.Snapshot); err != nil {
			return fmt.Errorf("save config snapshot: %w", err)
		}
	}
	return nil
}

// Load reads the weights of every model saved under runID
func (s *DirStore) Load(runID string, models ...Artifact) error {
	for _, m := range models {
		name := filepath.Join(s.ModelDir(runID, m.Name()), WeightsFile)
		file, err := os.Open(name)
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotArtifact, name)
		}
		if err != nil {
			return err
		}
		err = m.ReadWeights(file)
		file.Close()
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

func writeFile(name string, write func(w io.Writer) error) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = write(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}
