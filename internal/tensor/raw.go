package tensor

import (
	"encoding/binary"
	"fmt"
	"math"
)

// RawTensor is a shaped, row-major float32 buffer.
//
// It carries layer parameters between nn state dicts and the checkpoint
// writer/reader; it performs no arithmetic of its own.
type RawTensor struct {
	shape Shape
	data  []float32
}

// NewRaw creates a zero-filled RawTensor with the given shape.
func NewRaw(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &RawTensor{
		shape: shape.Clone(),
		data:  make([]float32, shape.NumElements()),
	}, nil
}

// FromSlice creates a RawTensor holding a copy of data.
//
// Returns an error if len(data) does not match the shape.
func FromSlice(data []float32, shape Shape) (*RawTensor, error) {
	n, err := shape.checkedNumElements()
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, n)
	}
	raw := &RawTensor{shape: shape.Clone(), data: make([]float32, n)}
	copy(raw.data, data)
	return raw, nil
}

// MustFromSlice is like FromSlice but panics on error.
func MustFromSlice(data []float32, shape Shape) *RawTensor {
	raw, err := FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return raw
}

// FromBytes decodes little-endian float32 data into a RawTensor.
//
// The shape is checked against len(b) before anything is allocated.
func FromBytes(b []byte, shape Shape) (*RawTensor, error) {
	n, err := shape.checkedNumElements()
	if err != nil {
		return nil, err
	}
	size := Float32.Size()
	if len(b)%size != 0 || len(b)/size != n {
		return nil, fmt.Errorf("byte length %d does not match shape %v (%d elements)", len(b), shape, n)
	}

	raw := &RawTensor{shape: shape.Clone(), data: make([]float32, n)}
	for i := range raw.data {
		raw.data[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size:]))
	}
	return raw, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return Float32
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * Float32.Size()
}

// AsFloat32 returns the underlying data. Writes are visible to the tensor.
func (r *RawTensor) AsFloat32() []float32 {
	return r.data
}

// Bytes encodes the data as little-endian float32.
func (r *RawTensor) Bytes() []byte {
	b := make([]byte, r.ByteSize())
	for i, v := range r.data {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]float32, len(r.data))
	copy(data, r.data)
	return &RawTensor{
		shape: r.shape.Clone(),
		data:  data,
	}
}
