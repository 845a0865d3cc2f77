package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/mlp/internal/tensor"
)

// minLayers is the smallest stack a Network accepts: an input-transforming
// and an output-transforming stage.
const minLayers = 2

// Network is an ordered stack of layers trained one sample at a time.
//
// Each layer's output becomes the next layer's input on Forward. Backward
// walks the stack in reverse, feeding each layer's input gradient into the
// layer before it and updating parameters along the way.
//
// Example:
//
//	net, err := nn.NewNetwork(
//	    nn.NewDense(784, 128),
//	    nn.NewDense(128, 64),
//	    nn.NewReLU(),
//	    nn.NewDense(64, 10),
//	    nn.NewSoftmax(),
//	)
//
//	out, err := net.Forward(image, true)
//	err = net.Backward(target, 0.05, nn.CrossEntropy{})
//
// A Network is not safe for concurrent use.
type Network struct {
	layers  []Layer
	outputs [][]float32
}

// NewNetwork creates a Network from at least two layers.
//
// Returns ErrInvalidConfiguration for fewer layers.
func NewNetwork(layers ...Layer) (*Network, error) {
	if len(layers) < minLayers {
		return nil, fmt.Errorf("%w: network needs at least %d layers, got %d",
			ErrInvalidConfiguration, minLayers, len(layers))
	}
	for i, l := range layers {
		if l == nil {
			return nil, fmt.Errorf("%w: layer %d is nil", ErrInvalidConfiguration, i)
		}
	}

	owned := make([]Layer, len(layers))
	copy(owned, layers)
	return &Network{layers: owned}, nil
}

// Forward feeds input through every layer in order and returns the last
// layer's output.
//
// With cache enabled every layer retains what its Backward needs and the
// network records each layer's output, replacing the previous pass.
func (n *Network) Forward(input []float32, cache bool) ([]float32, error) {
	var outputs [][]float32
	if cache {
		outputs = make([][]float32, 0, len(n.layers))
	}

	activations := input
	for i, l := range n.layers {
		out, err := l.Forward(activations, cache)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if cache {
			outputs = append(outputs, out)
		}
		activations = out
	}

	if cache {
		n.outputs = outputs
	}
	return activations, nil
}

// Backward propagates the loss gradient for target through every layer in
// reverse order, updating parameters with the given learning rate.
//
// The prediction is read from the last layer's Output, so a cached Forward
// must precede this call. The gradient reaching the network input is
// discarded.
func (n *Network) Backward(target []float32, learningRate float32, loss LossFunction) error {
	output := n.layers[len(n.layers)-1].Output()

	grad, err := loss.Derivative(output, target)
	if err != nil {
		return fmt.Errorf("loss derivative: %w", err)
	}

	for i := len(n.layers) - 1; i >= 0; i-- {
		grad, err = n.layers[i].Backward(grad, learningRate)
		if err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return nil
}

// TrainStep runs one cached forward pass, evaluates the loss and applies
// one backward pass for a single (input, target) pair.
//
// Returns the loss measured before the update and the prediction it was
// measured on.
func (n *Network) TrainStep(input, target []float32, learningRate float32, loss LossFunction) (float32, []float32, error) {
	output, err := n.Forward(input, true)
	if err != nil {
		return 0, nil, err
	}
	value, err := loss.Loss(output, target)
	if err != nil {
		return 0, nil, fmt.Errorf("loss: %w", err)
	}
	if err := n.Backward(target, learningRate, loss); err != nil {
		return 0, nil, err
	}
	return value, output, nil
}

// Predict runs an uncached forward pass.
func (n *Network) Predict(input []float32) ([]float32, error) {
	return n.Forward(input, false)
}

// Len returns the number of layers.
func (n *Network) Len() int {
	return len(n.layers)
}

// Layer returns the layer at the given index.
//
// Panics if index is out of bounds.
func (n *Network) Layer(index int) Layer {
	if index < 0 || index >= len(n.layers) {
		panic("Network.Layer: index out of bounds")
	}
	return n.layers[index]
}

// LayerOutputs returns the per-layer outputs recorded by the last cached
// Forward, one entry per layer. It is nil before the first cached pass.
func (n *Network) LayerOutputs() [][]float32 {
	return n.outputs
}

// stateful is implemented by layers that own parameters.
type stateful interface {
	StateDict() map[string]*tensor.RawTensor
	LoadStateDict(map[string]*tensor.RawTensor) error
}

// StateDict returns a map of parameter names to raw tensors.
//
// Parameters are prefixed with their layer index (e.g., "0.weight",
// "0.bias", "3.weight") to avoid name collisions. Layers without
// parameters contribute nothing.
func (n *Network) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)

	for i, l := range n.layers {
		s, ok := l.(stateful)
		if !ok {
			continue
		}
		for name, raw := range s.StateDict() {
			stateDict[fmt.Sprintf("%d.%s", i, name)] = raw
		}
	}

	return stateDict
}

// LoadStateDict loads parameters from a state dictionary.
//
// Every parameterized layer must find its entries under its index prefix.
// Loading is all or nothing: if any layer rejects its entries, layers
// already loaded are restored and the network is left unchanged.
func (n *Network) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	previous := make(map[int]map[string]*tensor.RawTensor)

	for i, l := range n.layers {
		s, ok := l.(stateful)
		if !ok {
			continue
		}

		prefix := fmt.Sprintf("%d.", i)
		layerState := make(map[string]*tensor.RawTensor)
		for key, raw := range stateDict {
			if name, found := strings.CutPrefix(key, prefix); found {
				layerState[name] = raw
			}
		}

		snapshot := s.StateDict()
		if err := s.LoadStateDict(layerState); err != nil {
			n.restore(previous)
			return fmt.Errorf("failed to load layer %d: %w", i, err)
		}
		previous[i] = snapshot
	}

	return nil
}

// restore reloads layer snapshots taken by LoadStateDict. A layer always
// accepts its own StateDict, so errors cannot occur here.
func (n *Network) restore(snapshots map[int]map[string]*tensor.RawTensor) {
	for i, snapshot := range snapshots {
		_ = n.layers[i].(stateful).LoadStateDict(snapshot)
	}
}
