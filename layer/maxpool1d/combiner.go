package maxpool1d

import "github.com/neurlang/audiogan/parallel"
import "github.com/neurlang/audiogan/tensor"

// Forward keeps the largest value of each window, per channel
func (m *MaxPool1DLayer) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	batch := x.Batch()
	y := tensor.New(batch, m.outSteps, m.channels)
	argmax := make([]int, y.Len())
	parallel.ForRange(batch, parallel.Threads, func(lo, hi int) {
		for n := lo; n < hi; n++ {
			base := n * m.steps * m.channels
			for t := 0; t < m.outSteps; t++ {
				for c := 0; c < m.channels; c++ {
					best := base + (t*m.pool)*m.channels + c
					for k := 1; k < m.pool; k++ {
						if i := base + (t*m.pool+k)*m.channels + c; x.Data[i] > x.Data[best] {
							best = i
						}
					}
					o := (n*m.outSteps+t)*m.channels + c
					y.Data[o] = x.Data[best]
					argmax[o] = best
				}
			}
		}
	})
	if training {
		m.inShape = x.Shape
		m.argmax = argmax
	}
	return y
}

// Backward routes each gradient to the input that won its window
func (m *MaxPool1DLayer) Backward(dy *tensor.Tensor) *tensor.Tensor {
	dx := tensor.New(m.inShape...)
	for o, g := range dy.Data {
		dx.Data[m.argmax[o]] += g
	}
	return dx
}
