package lstm

import "math"

import "github.com/neurlang/audiogan/layer/activation"
import "github.com/neurlang/audiogan/parallel"
import "github.com/neurlang/audiogan/tensor"

// Forward runs the recurrence over all steps of every sample
func (l *LSTMLayer) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	batch, u, T := x.Batch(), l.units, l.steps
	g4 := 4 * u
	gates := make([]float64, batch*T*g4)
	cells := make([]float64, batch*T*u)
	hides := make([]float64, batch*T*u)
	w, r, b := l.kernel.Value.Data, l.recurrent.Value.Data, l.bias.Value.Data

	for t := 0; t < T; t++ {
		// pre-activations, one row per (sample, gate unit)
		parallel.ForRange(batch*g4, parallel.Threads, func(lo, hi int) {
			for row := lo; row < hi; row++ {
				n, k := row/g4, row%g4
				xt := x.Data[(n*T+t)*l.inputs : (n*T+t+1)*l.inputs]
				z := b[k] + tensor.Dot(w[k*l.inputs:(k+1)*l.inputs], xt)
				if t > 0 {
					z += tensor.Dot(r[k*u:(k+1)*u], hides[(n*T+t-1)*u:(n*T+t)*u])
				}
				gates[(n*T+t)*g4+k] = z
			}
		})
		for n := 0; n < batch; n++ {
			gt := gates[(n*T+t)*g4 : (n*T+t+1)*g4]
			for j := 0; j < u; j++ {
				i := activation.SigmoidOf(gt[j])
				f := activation.SigmoidOf(gt[u+j])
				g := math.Tanh(gt[2*u+j])
				o := activation.SigmoidOf(gt[3*u+j])
				gt[j], gt[u+j], gt[2*u+j], gt[3*u+j] = i, f, g, o
				var prev float64
				if t > 0 {
					prev = cells[(n*T+t-1)*u+j]
				}
				c := f*prev + i*g
				cells[(n*T+t)*u+j] = c
				hides[(n*T+t)*u+j] = o * math.Tanh(c)
			}
		}
	}

	if training {
		l.x, l.gates, l.cells, l.hides = x, gates, cells, hides
	}
	if l.seq {
		return tensor.MustFromSlice(hides, batch, T, u)
	}
	y := tensor.New(batch, u)
	for n := 0; n < batch; n++ {
		copy(y.Row(n), hides[(n*T+T-1)*u:(n*T+T)*u])
	}
	return y
}

// Backward runs backpropagation through time
func (l *LSTMLayer) Backward(dy *tensor.Tensor) *tensor.Tensor {
	x := l.x
	batch, u, T := x.Batch(), l.units, l.steps
	g4 := 4 * u
	w, r := l.kernel.Value.Data, l.recurrent.Value.Data
	dw, dr, db := l.kernel.Grad.Data, l.recurrent.Grad.Data, l.bias.Grad.Data

	dx := tensor.New(x.Shape...)
	dhNext := make([]float64, batch*u)
	dcNext := make([]float64, batch*u)
	dz := make([]float64, batch*g4)

	for t := T - 1; t >= 0; t-- {
		for n := 0; n < batch; n++ {
			gt := l.gates[(n*T+t)*g4 : (n*T+t+1)*g4]
			for j := 0; j < u; j++ {
				dh := dhNext[n*u+j]
				if l.seq {
					dh += dy.Data[(n*T+t)*u+j]
				} else if t == T-1 {
					dh += dy.Data[n*u+j]
				}
				i, f, g, o := gt[j], gt[u+j], gt[2*u+j], gt[3*u+j]
				var prev float64
				if t > 0 {
					prev = l.cells[(n*T+t-1)*u+j]
				}
				tc := math.Tanh(l.cells[(n*T+t)*u+j])
				dc := dcNext[n*u+j] + dh*o*(1-tc*tc)
				dcNext[n*u+j] = dc * f
				dz[n*g4+j] = dc * g * i * (1 - i)
				dz[n*g4+u+j] = dc * prev * f * (1 - f)
				dz[n*g4+2*u+j] = dc * i * (1 - g*g)
				dz[n*g4+3*u+j] = dh * tc * o * (1 - o)
			}
		}

		parallel.ForRange(g4, parallel.Threads, func(lo, hi int) {
			for k := lo; k < hi; k++ {
				for n := 0; n < batch; n++ {
					g := dz[n*g4+k]
					if g == 0 {
						continue
					}
					db[k] += g
					tensor.Axpy(g, x.Data[(n*T+t)*l.inputs:(n*T+t+1)*l.inputs], dw[k*l.inputs:(k+1)*l.inputs])
					if t > 0 {
						tensor.Axpy(g, l.hides[(n*T+t-1)*u:(n*T+t)*u], dr[k*u:(k+1)*u])
					}
				}
			}
		})

		parallel.ForRange(batch, parallel.Threads, func(lo, hi int) {
			for n := lo; n < hi; n++ {
				dxt := dx.Data[(n*T+t)*l.inputs : (n*T+t+1)*l.inputs]
				dh := dhNext[n*u : (n+1)*u]
				for j := range dh {
					dh[j] = 0
				}
				for k, g := range dz[n*g4 : (n+1)*g4] {
					if g == 0 {
						continue
					}
					tensor.Axpy(g, w[k*l.inputs:(k+1)*l.inputs], dxt)
					tensor.Axpy(g, r[k*u:(k+1)*u], dh)
				}
			}
		})
	}
	return dx
}
