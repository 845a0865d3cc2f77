package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrDimensionMismatch    = errors.New("dimension mismatch")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrNotCached            = errors.New("backward called without a cached forward pass")
)

// dimensionError wraps ErrDimensionMismatch with the offending sizes.
func dimensionError(op string, want, got int) error {
	return fmt.Errorf("%s: %w: expected %d, got %d", op, ErrDimensionMismatch, want, got)
}
