package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

// mnistLike builds the digit classifier stack at a small scale.
func mnistLike(t *testing.T, seed uint64) *nn.Network {
	t.Helper()
	r := seeded(seed)
	net, err := nn.NewNetwork(
		nn.NewDenseWithRand(6, 8, r),
		nn.NewDenseWithRand(8, 5, r),
		nn.NewReLU(),
		nn.NewDenseWithRand(5, 3, r),
		nn.NewSoftmax(),
	)
	require.NoError(t, err)
	return net
}

func TestNewNetwork_TooFewLayers(t *testing.T) {
	_, err := nn.NewNetwork()
	assert.ErrorIs(t, err, nn.ErrInvalidConfiguration)

	_, err = nn.NewNetwork(nn.NewDense(2, 2))
	assert.ErrorIs(t, err, nn.ErrInvalidConfiguration)

	net, err := nn.NewNetwork(nn.NewDense(2, 2), nn.NewIdentity())
	require.NoError(t, err)
	assert.Equal(t, 2, net.Len())
}

func TestNewNetwork_NilLayer(t *testing.T) {
	_, err := nn.NewNetwork(nn.NewDense(2, 2), nil)
	assert.ErrorIs(t, err, nn.ErrInvalidConfiguration)
}

// TestNetwork_TwoLayerScenario walks one training step through
// Dense(2→2, W=I, b=0) + Identity by hand.
func TestNetwork_TwoLayerScenario(t *testing.T) {
	dense := nn.NewDense(2, 2)
	require.NoError(t, dense.SetWeights(0, []float32{1, 0}))
	require.NoError(t, dense.SetWeights(1, []float32{0, 1}))
	dense.SetBias(0, 0)
	dense.SetBias(1, 0)

	net, err := nn.NewNetwork(dense, nn.NewIdentity())
	require.NoError(t, err)

	out, err := net.Forward([]float32{1, 2}, true)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{1, 2}, out, 1e-6)

	// MSE derivative: 2*(o-t)/2 = [1, 2]; Identity passes it through.
	// W[j] -= 0.1 * x * g[j]; b[j] -= 0.1 * g[j]
	require.NoError(t, net.Backward([]float32{0, 0}, 0.1, nn.MSE{}))

	assert.InDeltaSlice(t, []float32{0.9, -0.2}, dense.Weights(0), 1e-6)
	assert.InDeltaSlice(t, []float32{-0.2, 0.6}, dense.Weights(1), 1e-6)
	assert.InDelta(t, -0.1, dense.Bias(0), 1e-6)
	assert.InDelta(t, -0.2, dense.Bias(1), 1e-6)

	// The step reduced the squared error on this sample.
	after, err := net.Predict([]float32{1, 2})
	require.NoError(t, err)
	before, _ := nn.MSE{}.Loss([]float32{1, 2}, []float32{0, 0})
	now, _ := nn.MSE{}.Loss(after, []float32{0, 0})
	assert.Less(t, now, before)
}

func TestNetwork_ForwardCachesLayerOutputs(t *testing.T) {
	net := mnistLike(t, 1)
	assert.Nil(t, net.LayerOutputs())

	x := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	out, err := net.Forward(x, true)
	require.NoError(t, err)

	outputs := net.LayerOutputs()
	require.Len(t, outputs, net.Len())
	assert.Len(t, outputs[0], 8)
	assert.Len(t, outputs[1], 5)
	assert.Len(t, outputs[2], 5)
	assert.Len(t, outputs[3], 3)
	assert.Equal(t, out, outputs[4])
	for _, v := range outputs[2] {
		assert.GreaterOrEqual(t, v, float32(0))
	}

	// An uncached pass leaves the recorded outputs alone.
	_, err = net.Forward([]float32{1, 1, 1, 1, 1, 1}, false)
	require.NoError(t, err)
	assert.Equal(t, outputs, net.LayerOutputs())

	// A cached pass replaces them.
	_, err = net.Forward([]float32{1, 1, 1, 1, 1, 1}, true)
	require.NoError(t, err)
	assert.NotEqual(t, outputs[0], net.LayerOutputs()[0])
}

func TestNetwork_ForwardDeterministic(t *testing.T) {
	net := mnistLike(t, 2)
	x := []float32{0.9, -0.1, 0.3, 0, 0.5, -0.7}

	first, err := net.Predict(x)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := net.Predict(x)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestNetwork_ForwardDimensionMismatch(t *testing.T) {
	net := mnistLike(t, 3)
	_, err := net.Forward([]float32{1, 2, 3}, true)
	assert.ErrorIs(t, err, nn.ErrDimensionMismatch)
}

func TestNetwork_BackwardWithoutCachedForward(t *testing.T) {
	net := mnistLike(t, 4)
	x := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	target := []float32{0, 1, 0}

	_, err := net.Forward(x, false)
	require.NoError(t, err)
	err = net.Backward(target, 0.1, nn.CrossEntropy{})
	assert.ErrorIs(t, err, nn.ErrNotCached)
}

func TestNetwork_BackwardTargetMismatch(t *testing.T) {
	net := mnistLike(t, 5)
	_, err := net.Forward([]float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}, true)
	require.NoError(t, err)

	err = net.Backward([]float32{1, 0}, 0.1, nn.CrossEntropy{})
	assert.ErrorIs(t, err, nn.ErrDimensionMismatch)
}

func TestNetwork_TrainStepLearnsSample(t *testing.T) {
	net := mnistLike(t, 6)
	x := []float32{0.1, 0.9, 0.3, 0.0, 0.5, 0.2}
	target := []float32{0, 0, 1}
	ce := nn.CrossEntropy{}

	first, _, err := net.TrainStep(x, target, 0.5, ce)
	require.NoError(t, err)

	var last float32
	var output []float32
	for i := 0; i < 300; i++ {
		last, output, err = net.TrainStep(x, target, 0.5, ce)
		require.NoError(t, err)
	}
	assert.Less(t, last, first)
	assert.Len(t, output, 3)

	pred, err := net.Predict(x)
	require.NoError(t, err)
	assert.Greater(t, pred[2], pred[0])
	assert.Greater(t, pred[2], pred[1])
}

func TestNetwork_LayerAccess(t *testing.T) {
	net := mnistLike(t, 7)
	_, ok := net.Layer(0).(*nn.Dense)
	assert.True(t, ok)
	_, ok = net.Layer(4).(*nn.Softmax)
	assert.True(t, ok)

	assert.Panics(t, func() { net.Layer(5) })
	assert.Panics(t, func() { net.Layer(-1) })
}

func TestNetwork_StateDict(t *testing.T) {
	src := mnistLike(t, 8)
	dst := mnistLike(t, 9)

	state := src.StateDict()
	assert.Len(t, state, 6)
	for _, key := range []string{"0.weight", "0.bias", "1.weight", "1.bias", "3.weight", "3.bias"} {
		assert.Contains(t, state, key)
	}

	require.NoError(t, dst.LoadStateDict(state))

	x := []float32{0.3, 0.1, 0.4, 0.1, 0.5, 0.9}
	want, err := src.Predict(x)
	require.NoError(t, err)
	got, err := dst.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNetwork_LoadStateDictMissingLayer(t *testing.T) {
	net := mnistLike(t, 10)
	state := net.StateDict()
	delete(state, "3.weight")

	err := mnistLike(t, 11).LoadStateDict(state)
	assert.ErrorContains(t, err, "layer 3")
}

func TestNetwork_LoadStateDictAllOrNothing(t *testing.T) {
	src := mnistLike(t, 12)
	dst := mnistLike(t, 13)

	state := src.StateDict()
	state["3.weight"] = tensor.MustFromSlice(make([]float32, 4), tensor.Shape{2, 2})

	x := []float32{0.3, 0.1, 0.4, 0.1, 0.5, 0.9}
	before, err := dst.Predict(x)
	require.NoError(t, err)
	firstRow := dst.Layer(0).(*nn.Dense).Weights(0)

	err = dst.LoadStateDict(state)
	require.ErrorIs(t, err, nn.ErrDimensionMismatch)
	assert.ErrorContains(t, err, "layer 3")

	// Layers 0 and 1 loaded fine before layer 3 failed; they are rolled back.
	assert.Equal(t, firstRow, dst.Layer(0).(*nn.Dense).Weights(0))
	after, err := dst.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
