// Package tensor implements the dense float tensors used by the audiogan layers
package tensor

import "fmt"

// Tensor is a row-major dense tensor. The first dimension is the batch.
type Tensor struct {
	Shape []int
	Data  []float64
}

// New allocates a zero tensor with shape
func New(shape ...int) *Tensor {
	return &Tensor{
		Shape: append([]int(nil), shape...),
		Data:  make([]float64, Volume(shape)),
	}
}

// FromSlice wraps data into a tensor with shape. The data is not copied.
func FromSlice(data []float64, shape ...int) (*Tensor, error) {
	if Volume(shape) != len(data) {
		return nil, fmt.Errorf("tensor: %d values do not fit shape %v", len(data), shape)
	}
	return &Tensor{Shape: append([]int(nil), shape...), Data: data}, nil
}

// MustFromSlice is FromSlice which panics on error
func MustFromSlice(data []float64, shape ...int) *Tensor {
	t, err := FromSlice(data, shape...)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// Volume returns the number of elements of shape
func Volume(shape []int) int {
	n := 1
	for _, v := range shape {
		n *= v
	}
	return n
}

// Len returns the number of elements
func (t *Tensor) Len() int {
	return len(t.Data)
}

// Batch returns the size of the first dimension
func (t *Tensor) Batch() int {
	if len(t.Shape) == 0 {
		return 0
	}
	return t.Shape[0]
}

// SampleShape returns the shape without the batch dimension
func (t *Tensor) SampleShape() []int {
	if len(t.Shape) == 0 {
		return nil
	}
	return t.Shape[1:]
}

// SampleLen returns the number of elements of one sample
func (t *Tensor) SampleLen() int {
	return Volume(t.SampleShape())
}

// Row returns the n-th sample. The slice aliases the tensor data.
func (t *Tensor) Row(n int) []float64 {
	s := t.SampleLen()
	return t.Data[n*s : (n+1)*s]
}

// Reshape returns a tensor sharing data with t but viewed as shape
func (t *Tensor) Reshape(shape ...int) (*Tensor, error) {
	return FromSlice(t.Data, shape...)
}

// Clone deep copies the tensor
func (t *Tensor) Clone() *Tensor {
	o := New(t.Shape...)
	copy(o.Data, t.Data)
	return o
}

// Zero sets all elements to zero
func (t *Tensor) Zero() {
	for i := range t.Data {
		t.Data[i] = 0
	}
}

// Fill sets all elements to v
func (t *Tensor) Fill(v float64) {
	for i := range t.Data {
		t.Data[i] = v
	}
}

// SameShape reports whether a and b have equal shapes
func SameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Param is a trainable tensor with its gradient accumulator
type Param struct {
	Name  string
	Value *Tensor
	Grad  *Tensor
}

// NewParam allocates a zero parameter and its gradient
func NewParam(name string, shape ...int) *Param {
	return &Param{
		Name:  name,
		Value: New(shape...),
		Grad:  New(shape...),
	}
}

// ZeroGrad clears the accumulated gradient
func (p *Param) ZeroGrad() {
	p.Grad.Zero()
}
