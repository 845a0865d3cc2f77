// Package nn implements a small feed-forward neural network from first principles.
//
// This package provides:
//   - Neuron: a single affine unit owning a weight vector and a bias
//   - Layer interface: the forward/backward contract shared by every layer
//   - Dense: a fully connected layer built from neurons
//   - DenseMatrix: the same affine map stored as a weight matrix
//   - Activations: Identity, ReLU, Softmax
//   - Loss functions: MSE, CrossEntropy
//   - Network: an ordered stack of layers driving the training step
//
// Computation is one sample at a time. Gradients are derived by hand per
// layer type and parameters are updated in place with plain gradient descent
// during the backward pass.
package nn

// Layer is the interface implemented by every network stage.
//
// A forward call with caching enabled retains whatever the layer needs for
// its next Backward call. Backward consumes that cache, updates the layer's
// own parameters (if it has any) and returns the gradient with respect to
// the layer input.
//
//	net, err := nn.NewNetwork(
//	    nn.NewDense(784, 128),
//	    nn.NewReLU(),
//	    nn.NewDense(128, 10),
//	    nn.NewSoftmax(),
//	)
type Layer interface {
	// Forward computes the layer output for input.
	//
	// When cache is true the layer retains its input (and local derivative)
	// for the following Backward call. With cache false the output is still
	// correct but Backward must not be called.
	Forward(input []float32, cache bool) ([]float32, error)

	// Backward takes dLoss/dOutput and returns dLoss/dInput.
	//
	// Parameterized layers apply a gradient descent step with the given
	// learning rate. Returns ErrNotCached when no cached forward preceded it.
	Backward(outputGradient []float32, learningRate float32) ([]float32, error)

	// OutputSize returns the length of the layer output.
	OutputSize() int

	// Output returns the most recently computed output.
	//
	// The returned slice is owned by the layer and must not be modified.
	Output() []float32
}
