// Package train drives a multilayer perceptron through per-sample
// gradient descent on a labelled image dataset and evaluates it.
package train

import (
	"errors"
	"fmt"

	"github.com/born-ml/mlp/internal/nn"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid training config")

// Config holds configuration for a training run.
type Config struct {
	LearningRate float32 // Step size (default: 0.05)
	Epochs       int     // Passes over the training set (default: 25)
	TrainSamples int     // Training samples to load, 0 = all (default: 500)
	TestSamples  int     // Test samples to load, 0 = all (default: 100)
	Hidden       []int   // Widths of the two hidden Dense layers (default: 128, 64)
	Loss         string  // "cross-entropy" or "mse" (default: cross-entropy)
	Seed         uint64  // Weight initialization seed, 0 = process-wide source
}

// DefaultConfig returns the digit-classifier configuration.
func DefaultConfig() Config {
	return Config{
		LearningRate: 0.05,
		Epochs:       25,
		TrainSamples: 500,
		TestSamples:  100,
		Hidden:       []int{128, 64},
		Loss:         "cross-entropy",
	}
}

// Validate checks that the config describes a runnable training session.
func (c Config) Validate() error {
	if c.LearningRate <= 0 {
		return fmt.Errorf("%w: learning rate must be positive, got %g", ErrInvalidConfig, c.LearningRate)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("%w: epochs must be positive, got %d", ErrInvalidConfig, c.Epochs)
	}
	if c.TrainSamples < 0 || c.TestSamples < 0 {
		return fmt.Errorf("%w: sample counts must not be negative", ErrInvalidConfig)
	}
	if len(c.Hidden) != 2 {
		return fmt.Errorf("%w: need exactly 2 hidden widths, got %d", ErrInvalidConfig, len(c.Hidden))
	}
	for _, h := range c.Hidden {
		if h <= 0 {
			return fmt.Errorf("%w: hidden width must be positive, got %d", ErrInvalidConfig, h)
		}
	}
	if _, err := nn.LossByName(c.Loss); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
