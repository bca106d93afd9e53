package feedforward

import "encoding/json"
import "fmt"
import "io"
import "os"

import "github.com/neurlang/audiogan/layer"
import "github.com/neurlang/audiogan/layer/activation"
import "github.com/neurlang/audiogan/layer/avgpool1d"
import "github.com/neurlang/audiogan/layer/conv1d"
import "github.com/neurlang/audiogan/layer/dropout"
import "github.com/neurlang/audiogan/layer/full"
import "github.com/neurlang/audiogan/layer/lstm"
import "github.com/neurlang/audiogan/layer/maxpool1d"
import "github.com/neurlang/audiogan/layer/reshape"

// registry maps model.json class names to layer constructors
var registry = map[string]func(json.RawMessage) (layer.Layer, error){
	"Activation":             activation.FromConfig,
	"Conv1D":                 conv1d.FromConfig,
	"Dense":                  full.FromConfig,
	"Dropout":                dropout.FromConfig,
	"GlobalAveragePooling1D": avgpool1d.FromConfig,
	"LSTM":                   lstm.FromConfig,
	"MaxPooling1D":           maxpool1d.FromConfig,
	"Reshape":                reshape.FromConfig,
}

// Topology is the model.json document of a network
type Topology struct {
	ClassName   string         `json:"class_name"`
	Name        string         `json:"name"`
	InputShape  []int          `json:"input_shape"`
	OutputShape []int          `json:"output_shape"`
	Config      TopologyLayers `json:"config"`
}

// TopologyLayers lists the layers of a network
type TopologyLayers struct {
	Layers []layer.Topology `json:"layers"`
}

type rawTopology struct {
	ClassName  string `json:"class_name"`
	Name       string `json:"name"`
	InputShape []int  `json:"input_shape"`
	Config     struct {
		Layers []layer.RawTopology `json:"layers"`
	} `json:"config"`
}

// Topology describes the network architecture
func (f *FeedforwardNetwork) Topology() Topology {
	t := Topology{
		ClassName:   "Sequential",
		Name:        f.name,
		InputShape:  f.InputShape(),
		OutputShape: f.OutputShape(),
	}
	for _, l := range f.layers {
		t.Config.Layers = append(t.Config.Layers, l.Topology())
	}
	return t
}

// WriteTopology writes the model.json document
func (f *FeedforwardNetwork) WriteTopology(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f.Topology())
}

// WriteTopologyToFile writes the model.json document to a file
func (f *FeedforwardNetwork) WriteTopologyToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = f.WriteTopology(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadTopology rebuilds an untrained network from a model.json document
func ReadTopology(r io.Reader) (*FeedforwardNetwork, error) {
	var raw rawTopology
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("read topology: %w", err)
	}
	if raw.ClassName != "Sequential" {
		return nil, fmt.Errorf("read topology: unsupported class %q", raw.ClassName)
	}
	f := New(raw.Name, raw.InputShape...)
	for i, lt := range raw.Config.Layers {
		ctor, ok := registry[lt.ClassName]
		if !ok {
			return nil, fmt.Errorf("read topology: layer %d has unknown class %q", i, lt.ClassName)
		}
		l, err := ctor(lt.Config)
		if err != nil {
			return nil, fmt.Errorf("read topology: layer %d: %w", i, err)
		}
		if err := f.NewLayer(l); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ReadTopologyFromFile rebuilds a network from a model.json file
func ReadTopologyFromFile(name string) (*FeedforwardNetwork, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadTopology(file)
}
