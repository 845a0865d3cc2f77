package nn

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/mlp/internal/tensor"
)

// DenseMatrix is the matrix form of Dense: y = W x + b with W stored as a
// single [outputSize, inputSize] matrix instead of one weight vector per
// neuron.
//
// It computes the same map and applies the same update rule as Dense.
// Arithmetic runs in float64; inputs and outputs stay float32 so the two
// layers are interchangeable inside a Network. StateDict keys match Dense,
// so checkpoints load into either.
type DenseMatrix struct {
	weight *mat.Dense // [outputSize, inputSize]
	bias   []float64  // [outputSize]

	cachedInput *mat.VecDense
	cached      bool
	output      []float32
}

// NewDenseMatrix creates a DenseMatrix layer with values drawn uniformly
// from [-0.5, 0.5).
func NewDenseMatrix(inputSize, outputSize int, r *rand.Rand) *DenseMatrix {
	w := make([]float64, inputSize*outputSize)
	for i := range w {
		w[i] = float64(uniform(r))
	}
	b := make([]float64, outputSize)
	for i := range b {
		b[i] = float64(uniform(r))
	}
	return &DenseMatrix{
		weight: mat.NewDense(outputSize, inputSize, w),
		bias:   b,
		output: make([]float32, outputSize),
	}
}

// DenseMatrixFrom copies the parameters of a per-neuron Dense layer.
func DenseMatrixFrom(d *Dense) *DenseMatrix {
	rows, cols := d.OutputSize(), d.InputSize()
	w := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	for i, n := range d.neurons {
		for j, v := range n.weights {
			w.Set(i, j, float64(v))
		}
		b[i] = float64(n.bias)
	}
	return &DenseMatrix{
		weight: w,
		bias:   b,
		output: make([]float32, rows),
	}
}

// Forward computes W x + b.
func (m *DenseMatrix) Forward(input []float32, cache bool) ([]float32, error) {
	rows, cols := m.weight.Dims()
	if len(input) != cols {
		m.cached = false
		return nil, dimensionError("DenseMatrix.Forward", cols, len(input))
	}

	x := mat.NewVecDense(cols, toFloat64(input))
	z := mat.NewVecDense(rows, nil)
	z.MulVec(m.weight, x)
	z.AddVec(z, mat.NewVecDense(rows, m.bias))

	m.output = toFloat32(z.RawVector().Data)
	m.cached = cache
	if cache {
		m.cachedInput = x
	}
	return clone(m.output), nil
}

// Backward returns W^T g computed with the weights before the update, then
// applies W -= lr * g x^T and b -= lr * g.
func (m *DenseMatrix) Backward(outputGradient []float32, learningRate float32) ([]float32, error) {
	if !m.cached {
		return nil, fmt.Errorf("DenseMatrix.Backward: %w", ErrNotCached)
	}
	rows, cols := m.weight.Dims()
	if len(outputGradient) != rows {
		return nil, dimensionError("DenseMatrix.Backward", rows, len(outputGradient))
	}
	m.cached = false

	g := mat.NewVecDense(rows, toFloat64(outputGradient))
	inputGradient := mat.NewVecDense(cols, nil)
	inputGradient.MulVec(m.weight.T(), g)

	lr := float64(learningRate)
	m.weight.RankOne(m.weight, -lr, g, m.cachedInput)
	floats.AddScaled(m.bias, -lr, g.RawVector().Data)

	return toFloat32(inputGradient.RawVector().Data), nil
}

// OutputSize returns the number of rows of W.
func (m *DenseMatrix) OutputSize() int {
	rows, _ := m.weight.Dims()
	return rows
}

// InputSize returns the number of columns of W.
func (m *DenseMatrix) InputSize() int {
	_, cols := m.weight.Dims()
	return cols
}

// Output returns the last computed output.
func (m *DenseMatrix) Output() []float32 {
	return m.output
}

// Weights returns row i of W.
func (m *DenseMatrix) Weights(i int) []float32 {
	return toFloat32(mat.Row(nil, i, m.weight))
}

// Bias returns b[i].
func (m *DenseMatrix) Bias(i int) float32 {
	return float32(m.bias[i])
}

// StateDict returns the parameters under the same keys and shapes as Dense.
func (m *DenseMatrix) StateDict() map[string]*tensor.RawTensor {
	rows, cols := m.weight.Dims()
	weight := make([]float32, 0, rows*cols)
	for i := 0; i < rows; i++ {
		weight = append(weight, m.Weights(i)...)
	}
	return map[string]*tensor.RawTensor{
		"weight": tensor.MustFromSlice(weight, tensor.Shape{rows, cols}),
		"bias":   tensor.MustFromSlice(toFloat32(m.bias), tensor.Shape{rows}),
	}
}

// LoadStateDict loads parameters saved by Dense or DenseMatrix.
func (m *DenseMatrix) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	rows, cols := m.weight.Dims()

	weightRaw, ok := stateDict["weight"]
	if !ok {
		return fmt.Errorf("missing weight in state dict")
	}
	if expected := (tensor.Shape{rows, cols}); !weightRaw.Shape().Equal(expected) {
		return fmt.Errorf("weight shape mismatch: %w: expected %v, got %v",
			ErrDimensionMismatch, expected, weightRaw.Shape())
	}
	biasRaw, ok := stateDict["bias"]
	if !ok {
		return fmt.Errorf("missing bias in state dict")
	}
	if expected := (tensor.Shape{rows}); !biasRaw.Shape().Equal(expected) {
		return fmt.Errorf("bias shape mismatch: %w: expected %v, got %v",
			ErrDimensionMismatch, expected, biasRaw.Shape())
	}

	m.weight = mat.NewDense(rows, cols, toFloat64(weightRaw.AsFloat32()))
	m.bias = toFloat64(biasRaw.AsFloat32())
	return nil
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
