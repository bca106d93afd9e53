package learning

import "math"

import "github.com/neurlang/audiogan/parallel"
import "github.com/neurlang/audiogan/tensor"

// Adam holds first and second moment estimates for a fixed set of parameters
type Adam struct {
	h      HyperParameters
	params []*tensor.Param
	m, v   [][]float64
	t      int
}

// NewAdam creates an optimizer updating params
func NewAdam(h HyperParameters, params []*tensor.Param) *Adam {
	a := &Adam{h: h, params: params}
	for _, p := range params {
		a.m = append(a.m, make([]float64, p.Value.Len()))
		a.v = append(a.v, make([]float64, p.Value.Len()))
	}
	return a
}

// Params returns the parameters updated by this optimizer
func (a *Adam) Params() []*tensor.Param {
	return a.params
}

// Steps returns how many updates were applied
func (a *Adam) Steps() int {
	return a.t
}

// Step applies one update from the accumulated gradients and clears them
func (a *Adam) Step() {
	a.t++
	b1, b2 := a.h.Beta1, a.h.Beta2
	lr := a.h.LearningRate * math.Sqrt(1-math.Pow(b2, float64(a.t))) / (1 - math.Pow(b1, float64(a.t)))
	eps := a.h.Epsilon
	for i, p := range a.params {
		m, v := a.m[i], a.v[i]
		w, g := p.Value.Data, p.Grad.Data
		parallel.ForRange(len(w), parallel.Threads, func(lo, hi int) {
			for j := lo; j < hi; j++ {
				m[j] = b1*m[j] + (1-b1)*g[j]
				v[j] = b2*v[j] + (1-b2)*g[j]*g[j]
				w[j] -= lr * m[j] / (math.Sqrt(v[j]) + eps)
				g[j] = 0
			}
		})
	}
}
