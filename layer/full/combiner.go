package full

import "github.com/neurlang/audiogan/parallel"
import "github.com/neurlang/audiogan/tensor"

// Forward computes y = x W^T + b row by row
func (f *FullLayer) Forward(x *tensor.Tensor, training bool) *tensor.Tensor {
	rows := x.Len() / f.in
	shape := append([]int(nil), x.Shape...)
	shape[len(shape)-1] = f.units
	y := tensor.New(shape...)
	w, b := f.weight.Value.Data, f.bias.Value.Data
	parallel.ForRange(rows, parallel.Threads, func(lo, hi int) {
		for r := lo; r < hi; r++ {
			xr := x.Data[r*f.in : (r+1)*f.in]
			yr := y.Data[r*f.units : (r+1)*f.units]
			for o := range yr {
				yr[o] = b[o] + tensor.Dot(w[o*f.in:(o+1)*f.in], xr)
			}
		}
	})
	if training {
		f.x = x
	}
	return y
}

// Backward accumulates kernel and bias gradients and returns dx
func (f *FullLayer) Backward(dy *tensor.Tensor) *tensor.Tensor {
	x := f.x
	rows := x.Len() / f.in
	dx := tensor.New(x.Shape...)
	w := f.weight.Value.Data
	dw, db := f.weight.Grad.Data, f.bias.Grad.Data

	parallel.ForRange(rows, parallel.Threads, func(lo, hi int) {
		for r := lo; r < hi; r++ {
			dxr := dx.Data[r*f.in : (r+1)*f.in]
			for o, g := range dy.Data[r*f.units : (r+1)*f.units] {
				if g != 0 {
					tensor.Axpy(g, w[o*f.in:(o+1)*f.in], dxr)
				}
			}
		}
	})
	parallel.ForRange(f.units, parallel.Threads, func(lo, hi int) {
		for o := lo; o < hi; o++ {
			dwo := dw[o*f.in : (o+1)*f.in]
			for r := 0; r < rows; r++ {
				g := dy.Data[r*f.units+o]
				if g == 0 {
					continue
				}
				tensor.Axpy(g, x.Data[r*f.in:(r+1)*f.in], dwo)
				db[o] += g
			}
		}
	})
	return dx
}
