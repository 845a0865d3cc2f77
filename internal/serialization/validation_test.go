package serialization

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTensorName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr error
	}{
		{"0.weight", nil},
		{"3.bias", nil},
		{"", ErrInvalidTensorName},
		{"a/b", ErrInvalidTensorName},
		{`a\b`, ErrInvalidTensorName},
		{"..", ErrInvalidTensorName},
		{"bad\x00name", ErrInvalidTensorName},
		{strings.Repeat("x", MaxTensorNameLen+1), ErrTensorNameTooLong},
	}

	for _, tt := range tests {
		err := ValidateTensorName(tt.name)
		if tt.wantErr == nil {
			assert.NoError(t, err, "name %q", tt.name)
		} else {
			assert.ErrorIs(t, err, tt.wantErr, "name %q", tt.name)
		}
	}
}

func TestValidateTensorOffsets(t *testing.T) {
	ok := []TensorMeta{
		{Name: "b", Offset: 8, Size: 8},
		{Name: "a", Offset: 0, Size: 8},
	}
	assert.NoError(t, ValidateTensorOffsets(ok, 16))

	assert.ErrorIs(t, ValidateTensorOffsets(ok, 15), ErrOutOfBounds)
	assert.ErrorIs(t, ValidateTensorOffsets([]TensorMeta{{Name: "n", Offset: -1, Size: 4}}, 16), ErrNegativeOffset)
	assert.ErrorIs(t, ValidateTensorOffsets([]TensorMeta{
		{Name: "a", Offset: 0, Size: 8},
		{Name: "b", Offset: 7, Size: 4},
	}, 16), ErrOffsetOverlap)
}
