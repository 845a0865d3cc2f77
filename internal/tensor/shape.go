package tensor

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidShape is returned for negative dimensions or element counts
// that do not fit in an int.
var ErrInvalidShape = errors.New("invalid shape")

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that all dimensions are >= 0 and that the element
// count fits in an int.
//
// Zero-sized dimensions are allowed: a layer with no inputs still has a
// well-formed [outputs, 0] weight tensor.
func (s Shape) Validate() error {
	_, err := s.checkedNumElements()
	return err
}

// checkedNumElements is NumElements with negative and overflow checks.
func (s Shape) checkedNumElements() (int, error) {
	n := 1
	for i, dim := range s {
		if dim < 0 {
			return 0, fmt.Errorf("%w: dimension %d is %d (must be >= 0)", ErrInvalidShape, i, dim)
		}
		if dim != 0 && n > math.MaxInt/dim {
			return 0, fmt.Errorf("%w: %v overflows the element count", ErrInvalidShape, s)
		}
		n *= dim
	}
	return n, nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}
