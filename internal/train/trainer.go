package train

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/mnist"
	"github.com/born-ml/mlp/internal/nn"
)

// EpochStats summarizes one pass over the training set.
type EpochStats struct {
	Epoch    int
	AvgLoss  float32
	Accuracy float32 // Percent of samples classified correctly
	Correct  int
	Total    int
}

// Reporter receives the statistics of each finished epoch.
type Reporter func(EpochStats)

// Trainer runs per-sample gradient descent on a network.
type Trainer struct {
	net      *nn.Network
	cfg      Config
	loss     nn.LossFunction
	reporter Reporter
}

// NewTrainer creates a trainer for net. reporter may be nil.
func NewTrainer(net *nn.Network, cfg Config, reporter Reporter) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loss, err := nn.LossByName(cfg.Loss)
	if err != nil {
		return nil, err
	}
	return &Trainer{
		net:      net,
		cfg:      cfg,
		loss:     loss,
		reporter: reporter,
	}, nil
}

// Network returns the network being trained.
func (t *Trainer) Network() *nn.Network {
	return t.net
}

// Run trains for cfg.Epochs epochs over data and returns per-epoch statistics.
//
// Sample order is shuffled each epoch with a generator seeded by the epoch
// number, so runs over the same data visit samples in the same order.
// Cancelling ctx stops training between samples; the statistics of the
// completed epochs are returned with ctx.Err().
func (t *Trainer) Run(ctx context.Context, data *mnist.Dataset) ([]EpochStats, error) {
	n := data.NumSamples()
	if n == 0 {
		return nil, fmt.Errorf("%w: empty training set", ErrInvalidConfig)
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	numClasses := outputClasses(t.net)
	history := make([]EpochStats, 0, t.cfg.Epochs)

	for epoch := 0; epoch < t.cfg.Epochs; epoch++ {
		shuffler := rand.New(rand.NewPCG(uint64(epoch), t.cfg.Seed)) //nolint:gosec // G404: shuffling only
		shuffler.Shuffle(n, func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })

		var totalLoss float32
		correct := 0
		for _, idx := range indices {
			if err := ctx.Err(); err != nil {
				return history, err
			}

			label := data.Labels[idx]
			target, err := mnist.OneHot(label, numClasses)
			if err != nil {
				return history, fmt.Errorf("sample %d: %w", idx, err)
			}

			loss, output, err := t.net.TrainStep(data.Images[idx], target, t.cfg.LearningRate, t.loss)
			if err != nil {
				return history, fmt.Errorf("epoch %d, sample %d: %w", epoch, idx, err)
			}
			totalLoss += loss
			if mnist.Argmax(output) == label {
				correct++
			}
		}

		stats := EpochStats{
			Epoch:    epoch,
			AvgLoss:  totalLoss / float32(n),
			Accuracy: 100 * float32(correct) / float32(n),
			Correct:  correct,
			Total:    n,
		}
		history = append(history, stats)
		if t.reporter != nil {
			t.reporter(stats)
		}
	}

	return history, nil
}

// outputClasses returns the width of the last layer with a fixed output
// size. Activations report their size only after a forward pass.
func outputClasses(net *nn.Network) int {
	for i := net.Len() - 1; i >= 0; i-- {
		if n := net.Layer(i).OutputSize(); n > 0 {
			return n
		}
	}
	return mnist.NumClasses
}
