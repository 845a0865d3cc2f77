package nn

import (
	"fmt"

	"github.com/chewxy/math32"
)

// LossFunction maps a prediction and a target to a scalar loss and to the
// gradient that seeds backpropagation.
//
// Implementations are stateless and safe to share.
type LossFunction interface {
	// Loss returns the scalar loss for output against target.
	Loss(output, target []float32) (float32, error)

	// Derivative returns dLoss/dOutput.
	Derivative(output, target []float32) ([]float32, error)
}

// crossEntropyEpsilon clamps probabilities away from 0 and 1 before log.
const crossEntropyEpsilon float32 = 1e-7

// MSE is the mean squared error loss.
//
// Loss = sum((output - target)²) / n
//
// Example:
//
//	var mse nn.MSE
//	loss, err := mse.Loss(prediction, target)
type MSE struct{}

// Loss computes sum((output - target)²) / n.
func (MSE) Loss(output, target []float32) (float32, error) {
	if err := checkLossInputs("MSE.Loss", output, target); err != nil {
		return 0, err
	}
	var sum float32
	for i, o := range output {
		diff := o - target[i]
		sum += diff * diff
	}
	return sum / float32(len(output)), nil
}

// Derivative computes 2 * (output - target) / n.
func (MSE) Derivative(output, target []float32) ([]float32, error) {
	if err := checkLossInputs("MSE.Derivative", output, target); err != nil {
		return nil, err
	}
	n := float32(len(output))
	grad := make([]float32, len(output))
	for i, o := range output {
		grad[i] = 2 * (o - target[i]) / n
	}
	return grad, nil
}

// CrossEntropy is the categorical cross-entropy loss over probabilities.
//
// Loss = -sum(target * log(clip(output, eps, 1-eps))) / n,  eps = 1e-7
//
// Derivative returns (output - target) / n, which is the combined gradient
// of softmax followed by cross-entropy with respect to the softmax input
// (scaled by 1/n). Softmax.Backward then multiplies by its own Jacobian.
// Use it only with a Softmax final layer.
type CrossEntropy struct{}

// Loss computes the clipped cross-entropy averaged over the vector length.
func (CrossEntropy) Loss(output, target []float32) (float32, error) {
	if err := checkLossInputs("CrossEntropy.Loss", output, target); err != nil {
		return 0, err
	}
	var sum float32
	for i, o := range output {
		clipped := math32.Min(math32.Max(o, crossEntropyEpsilon), 1-crossEntropyEpsilon)
		sum += target[i] * math32.Log(clipped)
	}
	return -sum / float32(len(output)), nil
}

// Derivative computes (output - target) / n.
func (CrossEntropy) Derivative(output, target []float32) ([]float32, error) {
	if err := checkLossInputs("CrossEntropy.Derivative", output, target); err != nil {
		return nil, err
	}
	n := float32(len(output))
	grad := make([]float32, len(output))
	for i, o := range output {
		grad[i] = (o - target[i]) / n
	}
	return grad, nil
}

// LossByName returns the loss function registered under name.
//
// Recognized names: "mse", "cross-entropy" (alias "crossentropy").
func LossByName(name string) (LossFunction, error) {
	switch name {
	case "mse":
		return MSE{}, nil
	case "cross-entropy", "crossentropy":
		return CrossEntropy{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown loss function %q", ErrInvalidConfiguration, name)
	}
}

// checkLossInputs validates that output and target are non-empty and of equal length.
func checkLossInputs(op string, output, target []float32) error {
	if len(output) != len(target) {
		return dimensionError(op, len(output), len(target))
	}
	if len(output) == 0 {
		return fmt.Errorf("%s: %w: empty output", op, ErrDimensionMismatch)
	}
	return nil
}
