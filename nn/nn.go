// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/serialization"
)

// Errors

var (
	// ErrDimensionMismatch is returned when vector lengths disagree.
	ErrDimensionMismatch = nn.ErrDimensionMismatch

	// ErrInvalidConfiguration is returned for unusable network definitions.
	ErrInvalidConfiguration = nn.ErrInvalidConfiguration

	// ErrNotCached is returned by Backward without a preceding cached Forward.
	ErrNotCached = nn.ErrNotCached
)

// Layer is the common interface of every network stage.
type Layer = nn.Layer

// LossFunction scores a prediction and produces its gradient.
type LossFunction = nn.LossFunction

// Neuron

// Neuron is a single weighted-sum unit.
type Neuron = nn.Neuron

// NewNeuron creates a neuron with weights and bias drawn uniformly from [-0.5, 0.5).
func NewNeuron(inputSize int) *Neuron {
	return nn.NewNeuron(inputSize)
}

// NewNeuronWithRand is like NewNeuron but draws from r.
func NewNeuronWithRand(inputSize int, r *rand.Rand) *Neuron {
	return nn.NewNeuronWithRand(inputSize, r)
}

// Layers

// Dense is a fully connected layer that stores one Neuron per output.
type Dense = nn.Dense

// NewDense creates a fully connected layer.
//
// Example:
//
//	layer := nn.NewDense(784, 128)
func NewDense(inputSize, outputSize int) *Dense {
	return nn.NewDense(inputSize, outputSize)
}

// NewDenseWithRand is like NewDense but draws initial values from r.
//
// Example:
//
//	r := rand.New(rand.NewPCG(1, 2))
//	layer := nn.NewDenseWithRand(784, 128, r)
func NewDenseWithRand(inputSize, outputSize int, r *rand.Rand) *Dense {
	return nn.NewDenseWithRand(inputSize, outputSize, r)
}

// DenseMatrix is the matrix form of Dense backed by gonum.
type DenseMatrix = nn.DenseMatrix

// NewDenseMatrix creates a matrix-backed fully connected layer.
func NewDenseMatrix(inputSize, outputSize int, r *rand.Rand) *DenseMatrix {
	return nn.NewDenseMatrix(inputSize, outputSize, r)
}

// DenseMatrixFrom copies the parameters of d into a new DenseMatrix.
func DenseMatrixFrom(d *Dense) *DenseMatrix {
	return nn.DenseMatrixFrom(d)
}

// Activations

// Identity passes values through unchanged.
type Identity = nn.Identity

// NewIdentity creates an identity activation.
func NewIdentity() *Identity {
	return nn.NewIdentity()
}

// ReLU is the rectified linear activation max(0, x).
type ReLU = nn.ReLU

// NewReLU creates a ReLU activation.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// Softmax normalizes a vector into a probability distribution.
type Softmax = nn.Softmax

// NewSoftmax creates a softmax activation.
func NewSoftmax() *Softmax {
	return nn.NewSoftmax()
}

// Loss functions

// MSE is the mean squared error loss.
type MSE = nn.MSE

// CrossEntropy is the categorical cross-entropy loss. Pair it with a
// Softmax final layer.
type CrossEntropy = nn.CrossEntropy

// LossByName returns the loss function registered under name
// ("mse", "cross-entropy" or "crossentropy").
func LossByName(name string) (LossFunction, error) {
	return nn.LossByName(name)
}

// Network

// Network is an ordered stack of layers trained one sample at a time.
type Network = nn.Network

// NewNetwork creates a network from at least two layers.
//
// Example:
//
//	net, err := nn.NewNetwork(
//	    nn.NewDense(2, 2),
//	    nn.NewIdentity(),
//	)
func NewNetwork(layers ...Layer) (*Network, error) {
	return nn.NewNetwork(layers...)
}

// Checkpoints

// SaveCheckpoint writes the network's parameters to a SafeTensors file.
func SaveCheckpoint(path string, net *Network, metadata map[string]string) error {
	return serialization.SaveCheckpoint(path, net, metadata)
}

// LoadCheckpoint loads parameters from a SafeTensors file into net and
// returns the file metadata.
func LoadCheckpoint(path string, net *Network) (map[string]string, error) {
	return serialization.LoadCheckpoint(path, net)
}
