package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/tensor"
)

// Dense implements a fully connected (affine) layer as a collection of neurons.
//
// Performs the transformation: y[i] = b[i] + W[i]·x
// where each row W[i] and bias b[i] belong to neuron i. The layer applies
// no activation; stack an activation layer after it.
//
// Example:
//
//	layer := nn.NewDense(784, 128)
//	out, err := layer.Forward(image, true)
//	grad, err := layer.Backward(outGrad, 0.05)
type Dense struct {
	neurons     []*Neuron
	inputSize   int
	cachedInput []float32
	cached      bool
	output      []float32
}

// NewDense creates a Dense layer with outputSize neurons of inputSize inputs.
//
// Weights and biases are drawn uniformly from [-0.5, 0.5).
func NewDense(inputSize, outputSize int) *Dense {
	return NewDenseWithRand(inputSize, outputSize, nil)
}

// NewDenseWithRand is like NewDense but draws initial values from r.
func NewDenseWithRand(inputSize, outputSize int, r *rand.Rand) *Dense {
	neurons := make([]*Neuron, outputSize)
	for i := range neurons {
		neurons[i] = NewNeuronWithRand(inputSize, r)
	}
	return &Dense{
		neurons:   neurons,
		inputSize: inputSize,
		output:    make([]float32, outputSize),
	}
}

// Forward computes every neuron's weighted sum of input.
//
// Input shape: [inputSize]
// Output shape: [outputSize]
//
// A failed forward discards any cache left by an earlier pass.
func (d *Dense) Forward(input []float32, cache bool) ([]float32, error) {
	out := make([]float32, len(d.neurons))
	for i, n := range d.neurons {
		z, err := n.Forward(input)
		if err != nil {
			d.cached = false
			return nil, fmt.Errorf("Dense.Forward: neuron %d: %w", i, err)
		}
		out[i] = z
	}

	d.output = out
	d.cached = cache
	if cache {
		d.cachedInput = clone(input)
	}
	return clone(out), nil
}

// Backward applies one gradient descent step and returns dLoss/dInput.
//
// For neuron j with incoming gradient g[j]:
//
//	dW[j] = x * g[j]      W[j] -= lr * dW[j]
//	db[j] = g[j]          b[j] -= lr * db[j]
//	dx   += W[j] * g[j]   (weights before this step)
func (d *Dense) Backward(outputGradient []float32, learningRate float32) ([]float32, error) {
	if !d.cached {
		return nil, fmt.Errorf("Dense.Backward: %w", ErrNotCached)
	}
	if len(outputGradient) != len(d.neurons) {
		return nil, dimensionError("Dense.Backward", len(d.neurons), len(outputGradient))
	}
	d.cached = false

	inputGradient := make([]float32, d.inputSize)
	x := d.cachedInput
	for j, n := range d.neurons {
		g := outputGradient[j]
		w := n.weights
		for i := range w {
			inputGradient[i] += w[i] * g
			w[i] -= learningRate * x[i] * g
		}
		n.bias -= learningRate * g
	}
	return inputGradient, nil
}

// OutputSize returns the number of neurons.
func (d *Dense) OutputSize() int {
	return len(d.neurons)
}

// InputSize returns the input dimension shared by all neurons.
func (d *Dense) InputSize() int {
	return d.inputSize
}

// Output returns the last computed output.
func (d *Dense) Output() []float32 {
	return d.output
}

// Neuron returns neuron i.
//
// Panics if i is out of range.
func (d *Dense) Neuron(i int) *Neuron {
	return d.neurons[i]
}

// Weights returns a copy of neuron i's weights.
func (d *Dense) Weights(i int) []float32 {
	return d.neurons[i].Weights()
}

// Bias returns neuron i's bias.
func (d *Dense) Bias(i int) float32 {
	return d.neurons[i].bias
}

// SetWeights replaces neuron i's weights.
func (d *Dense) SetWeights(i int, weights []float32) error {
	return d.neurons[i].SetWeights(weights)
}

// SetBias replaces neuron i's bias.
func (d *Dense) SetBias(i int, bias float32) {
	d.neurons[i].SetBias(bias)
}

// StateDict returns the layer parameters as raw tensors.
//
// Keys: "weight" with shape [outputSize, inputSize] (row i is neuron i),
// "bias" with shape [outputSize].
func (d *Dense) StateDict() map[string]*tensor.RawTensor {
	weight := make([]float32, 0, len(d.neurons)*d.inputSize)
	bias := make([]float32, len(d.neurons))
	for i, n := range d.neurons {
		weight = append(weight, n.weights...)
		bias[i] = n.bias
	}

	return map[string]*tensor.RawTensor{
		"weight": tensor.MustFromSlice(weight, tensor.Shape{len(d.neurons), d.inputSize}),
		"bias":   tensor.MustFromSlice(bias, tensor.Shape{len(d.neurons)}),
	}
}

// LoadStateDict loads parameters from a state dictionary.
//
// Both tensors are validated before any neuron is modified.
func (d *Dense) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	weightRaw, ok := stateDict["weight"]
	if !ok {
		return fmt.Errorf("missing weight in state dict")
	}
	expectedWeightShape := tensor.Shape{len(d.neurons), d.inputSize}
	if !weightRaw.Shape().Equal(expectedWeightShape) {
		return fmt.Errorf("weight shape mismatch: %w: expected %v, got %v",
			ErrDimensionMismatch, expectedWeightShape, weightRaw.Shape())
	}

	biasRaw, ok := stateDict["bias"]
	if !ok {
		return fmt.Errorf("missing bias in state dict")
	}
	expectedBiasShape := tensor.Shape{len(d.neurons)}
	if !biasRaw.Shape().Equal(expectedBiasShape) {
		return fmt.Errorf("bias shape mismatch: %w: expected %v, got %v",
			ErrDimensionMismatch, expectedBiasShape, biasRaw.Shape())
	}

	weights := weightRaw.AsFloat32()
	biases := biasRaw.AsFloat32()
	for i, n := range d.neurons {
		copy(n.weights, weights[i*d.inputSize:(i+1)*d.inputSize])
		n.bias = biases[i]
	}
	return nil
}
