package learning

import "fmt"
import "math"

import "github.com/neurlang/audiogan/tensor"

// Clip bounds predictions away from 0 and 1 inside the cross entropy
const Clip = 1e-7

// BinaryCrossentropy returns the mean binary cross entropy of predictions p against
// targets y and its gradient with respect to p.
func BinaryCrossentropy(p, y *tensor.Tensor) (loss float64, dp *tensor.Tensor, err error) {
	if p.Len() != y.Len() || p.Len() == 0 {
		return 0, nil, fmt.Errorf("binary crossentropy: %d predictions for %d targets", p.Len(), y.Len())
	}
	n := float64(p.Len())
	dp = tensor.New(p.Shape...)
	for i, v := range p.Data {
		t := y.Data[i]
		c := math.Min(math.Max(v, Clip), 1-Clip)
		loss -= t*math.Log(c) + (1-t)*math.Log(1-c)
		if v > Clip && v < 1-Clip {
			dp.Data[i] = (c - t) / (c * (1 - c)) / n
		}
	}
	return loss / n, dp, nil
}
