package nn

import (
	"math/rand/v2"
)

// Neuron is a single affine unit: z = b + w·x.
//
// The neuron applies no activation of its own; activation functions are
// separate layers stacked after a Dense layer.
type Neuron struct {
	weights   []float32 // [inputSize]
	bias      float32
	inputSize int
}

// NewNeuron creates a neuron with weights and bias drawn uniformly from
// [-0.5, 0.5) using the process-wide random generator.
func NewNeuron(inputSize int) *Neuron {
	return NewNeuronWithRand(inputSize, nil)
}

// NewNeuronWithRand is like NewNeuron but draws from r.
//
// Passing a seeded generator makes initialization reproducible.
func NewNeuronWithRand(inputSize int, r *rand.Rand) *Neuron {
	weights := Uniform(inputSize, r)
	return &Neuron{
		weights:   weights,
		bias:      uniform(r),
		inputSize: inputSize,
	}
}

// Forward computes the weighted sum b + w·x.
//
// The returned value is both the pre-activation z and the raw output.
// Returns ErrDimensionMismatch if len(input) differs from InputSize.
func (n *Neuron) Forward(input []float32) (float32, error) {
	if len(input) != n.inputSize {
		return 0, dimensionError("Neuron.Forward", n.inputSize, len(input))
	}
	sum := n.bias
	for i, w := range n.weights {
		sum += w * input[i]
	}
	return sum, nil
}

// InputSize returns the fixed input dimension.
func (n *Neuron) InputSize() int {
	return n.inputSize
}

// Weights returns a copy of the weight vector.
func (n *Neuron) Weights() []float32 {
	return clone(n.weights)
}

// Bias returns the bias.
func (n *Neuron) Bias() float32 {
	return n.bias
}

// SetWeights replaces the weight vector.
//
// The replacement must have exactly the current length; otherwise
// ErrDimensionMismatch is returned and the weights are left untouched.
func (n *Neuron) SetWeights(weights []float32) error {
	if len(weights) != len(n.weights) {
		return dimensionError("Neuron.SetWeights", len(n.weights), len(weights))
	}
	copy(n.weights, weights)
	return nil
}

// SetBias replaces the bias.
func (n *Neuron) SetBias(bias float32) {
	n.bias = bias
}
