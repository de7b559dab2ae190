package intent

import (
	"fmt"
	"math"
	"slices"
)

// Head is a softmax regression layer mapping an embedding to a probability
// distribution over the label space.
type Head struct {
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

func newHead(classes, dims int) *Head {
	w := make([][]float64, classes)
	for k := range w {
		w[k] = make([]float64, dims)
	}
	return &Head{
		Weights: w,
		Bias:    make([]float64, classes),
	}
}

// Classes returns the number of output classes.
func (h *Head) Classes() int {
	return len(h.Bias)
}

// Dims returns the expected input dimensionality.
func (h *Head) Dims() int {
	if len(h.Weights) == 0 {
		return 0
	}
	return len(h.Weights[0])
}

func (h *Head) validate() error {
	if len(h.Bias) == 0 || len(h.Weights) != len(h.Bias) {
		return fmt.Errorf("head shape: %d weight rows, %d biases", len(h.Weights), len(h.Bias))
	}
	d := h.Dims()
	if d == 0 {
		return fmt.Errorf("head has zero input dimensions")
	}
	for k, row := range h.Weights {
		if len(row) != d {
			return fmt.Errorf("head row %d: got %d dims, want %d", k, len(row), d)
		}
		for _, w := range row {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("head row %d contains non-finite weight", k)
			}
		}
	}
	return nil
}

func (h *Head) clone() *Head {
	w := make([][]float64, len(h.Weights))
	for k, row := range h.Weights {
		w[k] = slices.Clone(row)
	}
	return &Head{Weights: w, Bias: slices.Clone(h.Bias)}
}

func (h *Head) logits(x []float32) []float64 {
	z := make([]float64, len(h.Bias))
	for k, row := range h.Weights {
		s := h.Bias[k]
		for j, w := range row {
			s += w * float64(x[j])
		}
		z[k] = s
	}
	return z
}

// Probabilities returns the softmax distribution for embedding x.
func (h *Head) Probabilities(x []float32) []float64 {
	return softmax(h.logits(x))
}

// predict returns the most probable class and its probability.
// Ties resolve to the lowest index.
func (h *Head) predict(x []float32) (int, float64) {
	p := h.Probabilities(x)
	best := argmax(p)
	return best, p[best]
}

// loss returns the mean cross-entropy and accuracy of the head over xs/ys.
func (h *Head) loss(xs [][]float32, ys []int) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var total float64
	var correct int
	for i, x := range xs {
		z := h.logits(x)
		total += logSumExp(z) - z[ys[i]]
		if argmax(z) == ys[i] {
			correct++
		}
	}
	n := float64(len(xs))
	return total / n, float64(correct) / n
}

// step applies one mini-batch gradient descent update and returns the batch loss.
func (h *Head) step(xs [][]float32, ys []int, lr, decay float64) float64 {
	classes, dims := h.Classes(), h.Dims()
	gw := make([][]float64, classes)
	for k := range gw {
		gw[k] = make([]float64, dims)
	}
	gb := make([]float64, classes)

	var total float64
	for i, x := range xs {
		z := h.logits(x)
		total += logSumExp(z) - z[ys[i]]
		p := softmax(z)
		p[ys[i]] -= 1

		for k := range classes {
			gb[k] += p[k]
			for j := range dims {
				gw[k][j] += p[k] * float64(x[j])
			}
		}
	}

	n := float64(len(xs))
	for k := range classes {
		for j := range dims {
			h.Weights[k][j] -= lr * (gw[k][j]/n + decay*h.Weights[k][j])
		}
		h.Bias[k] -= lr * gb[k] / n
	}
	return total / n
}

func softmax(z []float64) []float64 {
	m := slices.Max(z)
	out := make([]float64, len(z))
	var sum float64
	for i, v := range z {
		out[i] = math.Exp(v - m)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func logSumExp(z []float64) float64 {
	m := slices.Max(z)
	var sum float64
	for _, v := range z {
		sum += math.Exp(v - m)
	}
	return m + math.Log(sum)
}

func argmax(z []float64) int {
	best := 0
	for k := 1; k < len(z); k++ {
		if z[k] > z[best] {
			best = k
		}
	}
	return best
}
