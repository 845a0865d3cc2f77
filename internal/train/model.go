package train

import (
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/nn"
)

// BuildNetwork creates the digit classifier stack:
//
//	Dense(inputSize → h1) → Dense(h1 → h2) → ReLU → Dense(h2 → numClasses) → Softmax
//
// A non-zero cfg.Seed makes the initial weights reproducible.
func BuildNetwork(inputSize, numClasses int, cfg Config) (*nn.Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var r *rand.Rand
	if cfg.Seed != 0 {
		r = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)) //nolint:gosec // G404: reproducible init, not security
	}

	h1, h2 := cfg.Hidden[0], cfg.Hidden[1]
	return nn.NewNetwork(
		nn.NewDenseWithRand(inputSize, h1, r),
		nn.NewDenseWithRand(h1, h2, r),
		nn.NewReLU(),
		nn.NewDenseWithRand(h2, numClasses, r),
		nn.NewSoftmax(),
	)
}
