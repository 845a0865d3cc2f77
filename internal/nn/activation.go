package nn

import (
	"fmt"

	"github.com/chewxy/math32"
)

// activationCache holds the state shared by all activation layers.
//
// output is refreshed on every Forward. input and derivative are only
// populated by a cached Forward and consumed by the next Backward.
type activationCache struct {
	input      []float32
	output     []float32
	derivative []float32
	cached     bool
}

// Output returns the last computed output.
func (a *activationCache) Output() []float32 {
	return a.output
}

// OutputSize returns the length of the last output.
//
// Activations have no fixed width; the size is 0 until the first Forward.
func (a *activationCache) OutputSize() int {
	return len(a.output)
}

// store records a forward result and, when cache is set, its input and
// local derivative.
func (a *activationCache) store(input, output, derivative []float32, cache bool) []float32 {
	a.output = output
	a.cached = cache
	if cache {
		a.input = clone(input)
		a.derivative = derivative
	}
	return clone(output)
}

// consume checks that a cached forward preceded this backward and releases it.
func (a *activationCache) consume(op string, outputGradient []float32) error {
	if !a.cached {
		return fmt.Errorf("%s: %w", op, ErrNotCached)
	}
	if len(outputGradient) != len(a.output) {
		return dimensionError(op, len(a.output), len(outputGradient))
	}
	a.cached = false
	return nil
}

// Identity is the linear activation f(x) = x.
//
// Its local derivative is the identity matrix, which is never materialized.
type Identity struct {
	activationCache
}

// NewIdentity creates a new Identity activation layer.
func NewIdentity() *Identity {
	return &Identity{}
}

// Forward returns the input values unchanged.
func (l *Identity) Forward(input []float32, cache bool) ([]float32, error) {
	return l.store(input, clone(input), nil, cache), nil
}

// Backward returns the output gradient unchanged.
func (l *Identity) Backward(outputGradient []float32, _ float32) ([]float32, error) {
	if err := l.consume("Identity.Backward", outputGradient); err != nil {
		return nil, err
	}
	return clone(outputGradient), nil
}

// ReLU is a Rectified Linear Unit activation layer.
//
// Applies the element-wise function: f(x) = max(0, x)
//
// The derivative at x == 0 is taken as 0.
type ReLU struct {
	activationCache
}

// NewReLU creates a new ReLU activation layer.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies max(0, x) and caches the mask x > 0.
func (l *ReLU) Forward(input []float32, cache bool) ([]float32, error) {
	out := make([]float32, len(input))
	for i, x := range input {
		out[i] = math32.Max(0, x)
	}

	var mask []float32
	if cache {
		mask = make([]float32, len(input))
		for i, x := range input {
			if x > 0 {
				mask[i] = 1
			}
		}
	}
	return l.store(input, out, mask, cache), nil
}

// Backward multiplies the output gradient by the cached mask.
func (l *ReLU) Backward(outputGradient []float32, _ float32) ([]float32, error) {
	if err := l.consume("ReLU.Backward", outputGradient); err != nil {
		return nil, err
	}
	grad := make([]float32, len(outputGradient))
	for i, g := range outputGradient {
		grad[i] = g * l.derivative[i]
	}
	return grad, nil
}

// Softmax is the normalized exponential activation layer.
//
// Computes p[i] = exp(x[i] - max(x)) / sum_j exp(x[j] - max(x)).
//
// Only the probability vector is cached. The Jacobian
// dp[i]/dx[j] = p[i] * (delta_ij - p[j]) is never built; Backward uses the
// closed-form product p * (g - p·g).
type Softmax struct {
	activationCache
}

// NewSoftmax creates a new Softmax activation layer.
func NewSoftmax() *Softmax {
	return &Softmax{}
}

// Forward applies softmax with the max shift for numerical stability.
func (l *Softmax) Forward(input []float32, cache bool) ([]float32, error) {
	out := softmax(input)
	var probs []float32
	if cache {
		probs = clone(out)
	}
	return l.store(input, out, probs, cache), nil
}

// Backward returns p * (g - p·g) for the cached probabilities p.
func (l *Softmax) Backward(outputGradient []float32, _ float32) ([]float32, error) {
	if err := l.consume("Softmax.Backward", outputGradient); err != nil {
		return nil, err
	}
	p := l.derivative

	var dot float32
	for i, g := range outputGradient {
		dot += p[i] * g
	}

	grad := make([]float32, len(p))
	for i, g := range outputGradient {
		grad[i] = p[i] * (g - dot)
	}
	return grad, nil
}

// softmax computes the shifted normalized exponential of x.
func softmax(x []float32) []float32 {
	out := make([]float32, len(x))
	if len(x) == 0 {
		return out
	}

	maxVal := math32.Inf(-1)
	for _, v := range x {
		maxVal = math32.Max(maxVal, v)
	}

	var sum float32
	for i, v := range x {
		out[i] = math32.Exp(v - maxVal)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// softmaxJacobianProduct computes J^T g with the explicit O(N²) Jacobian
// J[i][j] = p[i] * (delta_ij - p[j]).
//
// Slower reference for the closed form used by Softmax.Backward.
func softmaxJacobianProduct(p, g []float32) []float32 {
	out := make([]float32, len(p))
	for i := range p {
		for j := range p {
			var delta float32
			if i == j {
				delta = 1
			}
			out[i] += p[i] * (delta - p[j]) * g[j]
		}
	}
	return out
}
