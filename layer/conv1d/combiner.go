package conv1d

import "github.com/neurlang/audiogan/parallel"
import "github.com/neurlang/audiogan/tensor"

// tap returns the input step read by kernel tap k for output step t, or -1 when padded
func (c *Conv1DLayer) tap(t, k int) int {
	s := t + k - c.padLeft
	if s < 0 || s >= c.steps {
		return -1
	}
	return s
}

// Forward convolves every sample
func (c *Conv1DLayer) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	batch := x.Batch()
	y := tensor.New(batch, c.outSteps, c.filters)
	w, b := c.weight.Value.Data, c.bias.Value.Data
	ch := c.channels

	parallel.ForRange(batch*c.outSteps, parallel.Threads, func(lo, hi int) {
		for row := lo; row < hi; row++ {
			n, t := row/c.outSteps, row%c.outSteps
			xs := x.Row(n)
			yr := y.Data[row*c.filters : (row+1)*c.filters]
			for o := range yr {
				sum := b[o]
				for k := 0; k < c.kernel; k++ {
					if s := c.tap(t, k); s >= 0 {
						wk := w[(o*c.kernel+k)*ch : (o*c.kernel+k+1)*ch]
						sum += tensor.Dot(wk, xs[s*ch:(s+1)*ch])
					}
				}
				yr[o] = sum
			}
		}
	})
	if training {
		c.x = x
	}
	return y
}

// Backward accumulates kernel and bias gradients and returns dx
func (c *Conv1DLayer) Backward(dy *tensor.Tensor) *tensor.Tensor {
	x := c.x
	batch := x.Batch()
	dx := tensor.New(x.Shape...)
	w := c.weight.Value.Data
	dw, db := c.weight.Grad.Data, c.bias.Grad.Data
	ch := c.channels

	parallel.ForRange(batch, parallel.Threads, func(lo, hi int) {
		for n := lo; n < hi; n++ {
			dxs := dx.Row(n)
			dys := dy.Row(n)
			for t := 0; t < c.outSteps; t++ {
				for o, g := range dys[t*c.filters : (t+1)*c.filters] {
					if g == 0 {
						continue
					}
					for k := 0; k < c.kernel; k++ {
						if s := c.tap(t, k); s >= 0 {
							tensor.Axpy(g, w[(o*c.kernel+k)*ch:(o*c.kernel+k+1)*ch], dxs[s*ch:(s+1)*ch])
						}
					}
				}
			}
		}
	})
	parallel.ForRange(c.filters, parallel.Threads, func(lo, hi int) {
		for o := lo; o < hi; o++ {
			for n := 0; n < batch; n++ {
				xs := x.Row(n)
				dys := dy.Row(n)
				for t := 0; t < c.outSteps; t++ {
					g := dys[t*c.filters+o]
					if g == 0 {
						continue
					}
					db[o] += g
					for k := 0; k < c.kernel; k++ {
						if s := c.tap(t, k); s >= 0 {
							tensor.Axpy(g, xs[s*ch:(s+1)*ch], dw[(o*c.kernel+k)*ch:(o*c.kernel+k+1)*ch])
						}
					}
				}
			}
		}
	})
	return dx
}
