package mnist

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// IDX magic numbers.
const (
	imagesMagic uint32 = 2051 // 0x00000803
	labelsMagic uint32 = 2049 // 0x00000801
)

// Limits on header-driven allocations.
const (
	maxIDXBytes = 1 << 30 // total pixel or label bytes
	maxIDXItems = 1 << 24 // images or labels in one file
)

var (
	// ErrInvalidMagic is returned when an IDX header has an unexpected magic number.
	ErrInvalidMagic = errors.New("invalid IDX magic number")

	// ErrTooLarge is returned when header dimensions describe an implausibly large file.
	ErrTooLarge = errors.New("IDX data too large")
)

// Images holds raw pixel data read from an IDX image file.
type Images struct {
	Rows   int
	Cols   int
	Pixels [][]byte // [count][rows*cols]
}

// ReadImages reads an IDX image file.
//
// Layout (big-endian):
//
//	magic number: 2051
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
func ReadImages(r io.Reader) (*Images, error) {
	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if header[0] != imagesMagic {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidMagic, header[0], imagesMagic)
	}

	count, rows, cols := uint64(header[1]), uint64(header[2]), uint64(header[3])
	// rows*cols fits in uint64 since both are below 2^32.
	imageSize := rows * cols
	if count > maxIDXItems || imageSize > maxIDXBytes ||
		(imageSize > 0 && count > maxIDXBytes/imageSize) {
		return nil, fmt.Errorf("%w: %d images of %dx%d", ErrTooLarge, count, rows, cols)
	}

	pixels := make([][]byte, int(count))
	for i := range pixels {
		pixels[i] = make([]byte, imageSize)
		if _, err := io.ReadFull(r, pixels[i]); err != nil {
			return nil, fmt.Errorf("failed to read image %d: %w", i, err)
		}
	}

	return &Images{Rows: int(rows), Cols: int(cols), Pixels: pixels}, nil
}

// ReadLabels reads an IDX label file.
//
// Layout (big-endian):
//
//	magic number: 2049
//	number of labels: 4 bytes
//	label data: unsigned bytes
func ReadLabels(r io.Reader) ([]byte, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read label header: %w", err)
	}
	if header[0] != labelsMagic {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidMagic, header[0], labelsMagic)
	}
	if header[1] > maxIDXItems {
		return nil, fmt.Errorf("%w: %d labels", ErrTooLarge, header[1])
	}

	labels := make([]byte, header[1])
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return labels, nil
}

// WriteImages writes images in IDX format. Every image must hold rows*cols bytes.
func WriteImages(w io.Writer, rows, cols int, pixels [][]byte) error {
	header := [4]uint32{imagesMagic, uint32(len(pixels)), uint32(rows), uint32(cols)} //nolint:gosec // G115: dimensions are small
	if err := binary.Write(w, binary.BigEndian, header); err != nil {
		return fmt.Errorf("failed to write image header: %w", err)
	}
	for i, img := range pixels {
		if len(img) != rows*cols {
			return fmt.Errorf("image %d has %d bytes, want %d", i, len(img), rows*cols)
		}
		if _, err := w.Write(img); err != nil {
			return fmt.Errorf("failed to write image %d: %w", i, err)
		}
	}
	return nil
}

// WriteLabels writes labels in IDX format.
func WriteLabels(w io.Writer, labels []byte) error {
	header := [2]uint32{labelsMagic, uint32(len(labels))} //nolint:gosec // G115: label count fits in uint32
	if err := binary.Write(w, binary.BigEndian, header); err != nil {
		return fmt.Errorf("failed to write label header: %w", err)
	}
	if _, err := w.Write(labels); err != nil {
		return fmt.Errorf("failed to write labels: %w", err)
	}
	return nil
}
