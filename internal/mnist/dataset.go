package mnist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// NumClasses is the number of digit classes.
const NumClasses = 10

// ErrLabelOutOfRange is returned when a label does not name a valid class.
var ErrLabelOutOfRange = errors.New("label out of range")

// Dataset holds normalized images and their labels.
type Dataset struct {
	Images [][]float32 // [num_samples, rows*cols], values in [0, 1]
	Labels []int       // [num_samples]
}

// NumSamples returns the number of samples.
func (d *Dataset) NumSamples() int {
	return len(d.Images)
}

// InputSize returns the length of one image vector, or 0 for an empty dataset.
func (d *Dataset) InputSize() int {
	if len(d.Images) == 0 {
		return 0
	}
	return len(d.Images[0])
}

// Files returns the image and label file paths for the train or test split.
func Files(dir string, train bool) (images, labels string) {
	prefix := "t10k"
	if train {
		prefix = "train"
	}
	return filepath.Join(dir, prefix+"-images-idx3-ubyte"),
		filepath.Join(dir, prefix+"-labels-idx1-ubyte")
}

// Load reads the train or test split from dir.
//
// Pixels are normalized from 0-255 to [0, 1]. maxSamples limits the
// number of samples kept (0 = load all).
func Load(dir string, train bool, maxSamples int) (*Dataset, error) {
	imagePath, labelPath := Files(dir, train)

	images, err := readImagesFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	labels, err := readLabelsFile(labelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}

	return NewDataset(images, labels, maxSamples)
}

// NewDataset normalizes raw IDX contents into a Dataset.
func NewDataset(images *Images, labels []byte, maxSamples int) (*Dataset, error) {
	if len(images.Pixels) != len(labels) {
		return nil, fmt.Errorf("image count (%d) != label count (%d)", len(images.Pixels), len(labels))
	}

	numSamples := len(labels)
	if maxSamples > 0 && numSamples > maxSamples {
		numSamples = maxSamples
	}

	ds := &Dataset{
		Images: make([][]float32, numSamples),
		Labels: make([]int, numSamples),
	}
	for i := 0; i < numSamples; i++ {
		raw := images.Pixels[i]
		img := make([]float32, len(raw))
		for j, p := range raw {
			img[j] = float32(p) / 255.0
		}
		ds.Images[i] = img
		ds.Labels[i] = int(labels[i])
	}
	return ds, nil
}

func readImagesFile(path string) (*Images, error) {
	//nolint:gosec // G304: dataset path is supplied by the user
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadImages(f)
}

func readLabelsFile(path string) ([]byte, error) {
	//nolint:gosec // G304: dataset path is supplied by the user
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLabels(f)
}

// OneHot returns a numClasses-long vector with 1 at label and 0 elsewhere.
func OneHot(label, numClasses int) ([]float32, error) {
	if label < 0 || label >= numClasses {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrLabelOutOfRange, label, numClasses)
	}
	v := make([]float32, numClasses)
	v[label] = 1
	return v, nil
}

// Argmax returns the index of the largest value. Ties resolve to the
// lowest index; an empty slice yields -1.
func Argmax(v []float32) int {
	if len(v) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// Synthetic creates a tiny 28x28 dataset with one simple pattern per
// digit, for exercising the pipeline when no IDX files are available.
// The patterns are not realistic digits.
func Synthetic() *Dataset {
	const side = 28
	ds := &Dataset{
		Images: make([][]float32, NumClasses),
		Labels: make([]int, NumClasses),
	}
	for i := 0; i < NumClasses; i++ {
		img := make([]float32, side*side)
		startRow := i * 2
		for row := startRow; row < startRow+8 && row < side; row++ {
			for col := 5; col < 23; col++ {
				img[row*side+col] = 0.8
			}
		}
		ds.Images[i] = img
		ds.Labels[i] = i
	}
	return ds
}
