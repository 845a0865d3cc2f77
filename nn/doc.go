// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides a small multilayer perceptron built one neuron at
// a time and trained one sample at a time with plain gradient descent.
//
// # Overview
//
// This package contains:
//   - Units: Neuron (weights, bias, weighted sum)
//   - Layers: Dense (per-neuron storage), DenseMatrix (gonum matrix form)
//   - Activations: Identity, ReLU, Softmax
//   - Loss functions: MSE, CrossEntropy
//   - Container: Network (forward, backward, train step, state dict)
//
// # Basic Usage
//
//	import "github.com/born-ml/mlp/nn"
//
//	func main() {
//	    net, err := nn.NewNetwork(
//	        nn.NewDense(784, 128),
//	        nn.NewDense(128, 64),
//	        nn.NewReLU(),
//	        nn.NewDense(64, 10),
//	        nn.NewSoftmax(),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    loss, output, err := net.TrainStep(image, target, 0.05, nn.CrossEntropy{})
//	}
//
// # Training Contract
//
// Backward consumes what the preceding cached Forward stored. Calling
// Backward without one fails with ErrNotCached:
//
//	out, _ := net.Forward(x, true)   // cache for backward
//	_ = net.Backward(t, lr, loss)    // updates parameters in place
//	pred, _ := net.Predict(x)        // uncached, inference only
//
// # Loss Functions
//
// MSE: mean squared error with derivative 2(o-t)/n
//
// CrossEntropy: categorical cross-entropy. Its derivative is the fused
// softmax-plus-cross-entropy gradient (o-t)/n, so it must be paired with
// a Softmax final layer.
//
// # Checkpoints
//
// Network.StateDict names parameters "<layer index>.weight" and
// "<layer index>.bias" and can be written to SafeTensors files with
// SaveCheckpoint and read back with LoadCheckpoint.
package nn
