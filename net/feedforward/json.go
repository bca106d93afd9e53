package feedforward

import "compress/lzw"
import "encoding/json"
import "fmt"
import "io"
import "math"
import "os"

import "github.com/x448/float16"

import "github.com/neurlang/audiogan/tensor"

// Weight record data types
const (
	Float64 = "float64"
	Float16 = "float16"
)

type weightRecord struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	DType string    `json:"dtype"`
	Data  []float64 `json:"data,omitempty"`
	Bits  []uint16  `json:"bits,omitempty"`
}

// WriteCompressedWeightsToFile writes model weights to a lzw file
func (f *FeedforwardNetwork) WriteCompressedWeightsToFile(name string, half bool) error {
	return WriteCompressedWeightsToFile(name, half, f)
}

// ReadCompressedWeightsFromFile reads model weights from a lzw file
func (f *FeedforwardNetwork) ReadCompressedWeightsFromFile(name string) error {
	return ReadCompressedWeightsFromFile(name, f)
}

// WriteCompressedWeightsToFile writes the weights of all nets to a lzw file
func WriteCompressedWeightsToFile(name string, half bool, nets ...*FeedforwardNetwork) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = WriteCompressedWeights(file, half, nets...)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadCompressedWeightsFromFile reads the weights of all nets from a lzw file
func ReadCompressedWeightsFromFile(name string, nets ...*FeedforwardNetwork) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return ReadCompressedWeights(file, nets...)
}

// WriteCompressedWeights writes model weights to a writer as a lzw compressed json
// array with one record per parameter. With half the values are stored as IEEE 754
// half precision bits. A NaN or infinite weight fails with ErrNonFinite.
func WriteCompressedWeights(w io.Writer, half bool, nets ...*FeedforwardNetwork) (err error) {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	defer func() {
		if cerr := lw.Close(); err == nil {
			err = cerr
		}
	}()
	enc := json.NewEncoder(lw)

	if _, err = lw.Write([]byte("[\n")); err != nil {
		return err
	}
	first := true
	for _, f := range nets {
		names, params := f.qualifiedParams()
		for i, p := range params {
			for j, v := range p.Value.Data {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return fmt.Errorf("%w: %s[%d] is %v", ErrNonFinite, names[i], j, v)
				}
			}
			if !first {
				if _, err = lw.Write([]byte(",")); err != nil {
					return err
				}
			}
			first = false
			rec := weightRecord{Name: names[i], Shape: p.Value.Shape, DType: Float64}
			if half {
				rec.DType = Float16
				rec.Bits = make([]uint16, p.Value.Len())
				for j, v := range p.Value.Data {
					rec.Bits[j] = float16.Fromfloat32(float32(v)).Bits()
				}
			} else {
				rec.Data = p.Value.Data
			}
			if err = enc.Encode(rec); err != nil {
				return fmt.Errorf("write weights %s: %w", names[i], err)
			}
		}
	}
	_, err = lw.Write([]byte("]\n"))
	return err
}

// ReadCompressedWeights reads model weights from a reader. Every parameter of nets
// must be present with the same name and shape.
func ReadCompressedWeights(r io.Reader, nets ...*FeedforwardNetwork) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()

	var records []weightRecord
	if err := json.NewDecoder(lr).Decode(&records); err != nil {
		return fmt.Errorf("read weights: %w", err)
	}
	byName := make(map[string]*weightRecord, len(records))
	for i := range records {
		byName[records[i].Name] = &records[i]
	}
	for _, f := range nets {
		names, params := f.qualifiedParams()
		for i, p := range params {
			rec, ok := byName[names[i]]
			if !ok {
				return fmt.Errorf("read weights: %s missing", names[i])
			}
			if !tensor.SameShape(rec.Shape, p.Value.Shape) {
				return fmt.Errorf("%w: weights %s have shape %v, want %v", ErrShapeMismatch, names[i], rec.Shape, p.Value.Shape)
			}
			switch rec.DType {
			case Float16:
				if len(rec.Bits) != p.Value.Len() {
					return fmt.Errorf("read weights: %s has %d values", names[i], len(rec.Bits))
				}
				for j, b := range rec.Bits {
					p.Value.Data[j] = float64(float16.Frombits(b).Float32())
				}
			case Float64:
				if len(rec.Data) != p.Value.Len() {
					return fmt.Errorf("read weights: %s has %d values", names[i], len(rec.Data))
				}
				copy(p.Value.Data, rec.Data)
			default:
				return fmt.Errorf("read weights: %s has unknown dtype %q", names[i], rec.DType)
			}
		}
	}
	return nil
}
