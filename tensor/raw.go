// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/mlp/internal/tensor"
)

// Shape represents tensor dimensions.
type Shape = tensor.Shape

// DataType identifies the element type of a tensor.
type DataType = tensor.DataType

// Float32 is the only element type checkpoints carry.
const Float32 = tensor.Float32

// RawTensor is a shaped float32 buffer.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3})
//	data := raw.AsFloat32() // zero-filled, length 6
//	clone := raw.Clone()    // deep copy
type RawTensor = tensor.RawTensor

// NewRaw creates a zero-filled tensor.
func NewRaw(shape Shape) (*RawTensor, error) {
	return tensor.NewRaw(shape)
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice(data []float32, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// FromBytes decodes little-endian float32 data.
func FromBytes(b []byte, shape Shape) (*RawTensor, error) {
	return tensor.FromBytes(b, shape)
}
