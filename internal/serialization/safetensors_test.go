package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mlp/internal/tensor"
)

func testStateDict(t *testing.T) map[string]*tensor.RawTensor {
	t.Helper()
	weight, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)
	bias, err := tensor.FromSlice([]float32{0.1, 0.2}, tensor.Shape{2})
	require.NoError(t, err)
	return map[string]*tensor.RawTensor{
		"0.weight": weight,
		"0.bias":   bias,
	}
}

// encodeRaw builds a SafeTensors blob from an arbitrary header.
func encodeRaw(t *testing.T, header map[string]interface{}, body []byte) []byte {
	t.Helper()
	headerJSON, err := json.Marshal(header)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(len(headerJSON))))
	buf.Write(headerJSON)
	buf.Write(body)
	return buf.Bytes()
}

func TestSafeTensorsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.safetensors")
	stateDict := testStateDict(t)
	metadata := map[string]string{"framework": "mlp", "epochs": "3"}

	require.NoError(t, WriteSafeTensors(path, stateDict, metadata))

	loaded, gotMeta, err := ReadSafeTensors(path)
	require.NoError(t, err)
	assert.Equal(t, metadata, gotMeta)
	require.Len(t, loaded, 2)

	for name, want := range stateDict {
		got := loaded[name]
		require.NotNil(t, got, name)
		assert.True(t, want.Shape().Equal(got.Shape()), "%s shape %v vs %v", name, want.Shape(), got.Shape())
		assert.Equal(t, want.AsFloat32(), got.AsFloat32(), name)
	}
}

func TestSafeTensorsHeaderLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeSafeTensors(&buf, testStateDict(t), nil))
	data := buf.Bytes()

	headerSize := binary.LittleEndian.Uint64(data[:8])
	var header map[string]SafeTensorHeader
	require.NoError(t, json.Unmarshal(data[8:8+headerSize], &header))

	// Alphabetical: "0.bias" (8 bytes) before "0.weight" (24 bytes).
	assert.Equal(t, [2]int64{0, 8}, header["0.bias"].DataOffsets)
	assert.Equal(t, [2]int64{8, 32}, header["0.weight"].DataOffsets)
	assert.Equal(t, "F32", header["0.weight"].DType)
	assert.Equal(t, []int64{2, 3}, header["0.weight"].Shape)
	assert.Len(t, data, int(8+headerSize+32))
}

func TestSafeTensorsNoMetadata(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeSafeTensors(&buf, testStateDict(t), nil))

	_, meta, err := DecodeSafeTensors(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, meta)
}

func TestSafeTensorsRejectsInvalidName(t *testing.T) {
	var buf bytes.Buffer
	bad := map[string]*tensor.RawTensor{"../escape": tensor.MustFromSlice([]float32{1}, tensor.Shape{1})}
	err := EncodeSafeTensors(&buf, bad, nil)
	assert.ErrorIs(t, err, ErrInvalidTensorName)
}

func TestSafeTensorsUnsupportedDType(t *testing.T) {
	data := encodeRaw(t, map[string]interface{}{
		"w": SafeTensorHeader{DType: "F16", Shape: []int64{2}, DataOffsets: [2]int64{0, 4}},
	}, make([]byte, 4))

	_, _, err := DecodeSafeTensors(data)
	assert.ErrorIs(t, err, ErrUnsupportedDType)
}

func TestSafeTensorsOutOfBounds(t *testing.T) {
	data := encodeRaw(t, map[string]interface{}{
		"w": SafeTensorHeader{DType: "F32", Shape: []int64{4}, DataOffsets: [2]int64{0, 16}},
	}, make([]byte, 8))

	_, _, err := DecodeSafeTensors(data)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestSafeTensorsOverlap(t *testing.T) {
	data := encodeRaw(t, map[string]interface{}{
		"a": SafeTensorHeader{DType: "F32", Shape: []int64{2}, DataOffsets: [2]int64{0, 8}},
		"b": SafeTensorHeader{DType: "F32", Shape: []int64{2}, DataOffsets: [2]int64{4, 12}},
	}, make([]byte, 12))

	_, _, err := DecodeSafeTensors(data)
	assert.ErrorIs(t, err, ErrOffsetOverlap)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "a", vErr.Tensor)
	assert.Equal(t, "b", vErr.Tensor2)
}

func TestSafeTensorsShapeSizeMismatch(t *testing.T) {
	data := encodeRaw(t, map[string]interface{}{
		"w": SafeTensorHeader{DType: "F32", Shape: []int64{3}, DataOffsets: [2]int64{0, 8}},
	}, make([]byte, 8))

	_, _, err := DecodeSafeTensors(data)
	assert.Error(t, err)
}

func TestSafeTensorsHugeShape(t *testing.T) {
	shapes := map[string][]int64{
		"beyond data section": {1 << 61},
		"overflowing count":   {1 << 62, 4},
	}

	for name, shape := range shapes {
		t.Run(name, func(t *testing.T) {
			data := encodeRaw(t, map[string]interface{}{
				"0.weight": SafeTensorHeader{DType: "F32", Shape: shape, DataOffsets: [2]int64{0, 0}},
			}, nil)

			var err error
			require.NotPanics(t, func() { _, _, err = DecodeSafeTensors(data) })
			assert.ErrorContains(t, err, "0.weight")
		})
	}
}

func TestSafeTensorsHeaderTooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(1<<40)))

	_, _, err := DecodeSafeTensors(buf.Bytes())
	assert.ErrorIs(t, err, ErrHeaderTooLarge)
}

func TestSafeTensorsTruncated(t *testing.T) {
	_, _, err := DecodeSafeTensors([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestReadSafeTensorsMissingFile(t *testing.T) {
	_, _, err := ReadSafeTensors(filepath.Join(t.TempDir(), "missing.safetensors"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriterClosed(t *testing.T) {
	w, err := NewSafeTensorsWriter(filepath.Join(t.TempDir(), "x.safetensors"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	assert.Error(t, w.WriteStateDict(testStateDict(t), nil))
}

func TestTensorNames(t *testing.T) {
	assert.Equal(t, []string{"0.bias", "0.weight"}, TensorNames(testStateDict(t)))
}
