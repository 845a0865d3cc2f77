package nn

import (
	"math/rand/v2"
)

// Bounds of the uniform distribution used to seed weights and biases.
const (
	initLow  float32 = -0.5
	initHigh float32 = 0.5
)

// uniform draws a value from [initLow, initHigh).
//
// A nil source falls back to the process-wide generator.
func uniform(r *rand.Rand) float32 {
	var u float32
	if r == nil {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		u = rand.Float32()
	} else {
		u = r.Float32()
	}
	return initLow + u*(initHigh-initLow)
}

// Uniform fills a new vector of length n with values from [-0.5, 0.5).
//
// Parameters:
//   - n: Vector length
//   - r: Random source, or nil for the process-wide generator
func Uniform(n int, r *rand.Rand) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = uniform(r)
	}
	return v
}

// clone returns a copy of v.
func clone(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
