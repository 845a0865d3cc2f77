package train

import (
	"fmt"

	"github.com/born-ml/mlp/internal/mnist"
	"github.com/born-ml/mlp/internal/nn"
)

// Prediction pairs a predicted class with the true label.
type Prediction struct {
	Predicted int
	Actual    int
}

// Correct reports whether the prediction matches the label.
func (p Prediction) Correct() bool {
	return p.Predicted == p.Actual
}

// Result summarizes an evaluation pass.
type Result struct {
	Accuracy    float32 // Percent of samples classified correctly
	AvgLoss     float32
	Correct     int
	Total       int
	Predictions []Prediction
}

// Evaluate runs uncached forward passes over data and scores them.
// The network's parameters are left untouched.
func Evaluate(net *nn.Network, data *mnist.Dataset, loss nn.LossFunction) (Result, error) {
	n := data.NumSamples()
	res := Result{
		Total:       n,
		Predictions: make([]Prediction, 0, n),
	}
	if n == 0 {
		return res, nil
	}

	var totalLoss float32
	for i := 0; i < n; i++ {
		output, err := net.Predict(data.Images[i])
		if err != nil {
			return Result{}, fmt.Errorf("sample %d: %w", i, err)
		}
		target, err := mnist.OneHot(data.Labels[i], len(output))
		if err != nil {
			return Result{}, fmt.Errorf("sample %d: %w", i, err)
		}
		l, err := loss.Loss(output, target)
		if err != nil {
			return Result{}, fmt.Errorf("sample %d: %w", i, err)
		}
		totalLoss += l

		p := Prediction{Predicted: mnist.Argmax(output), Actual: data.Labels[i]}
		if p.Correct() {
			res.Correct++
		}
		res.Predictions = append(res.Predictions, p)
	}

	res.AvgLoss = totalLoss / float32(n)
	res.Accuracy = 100 * float32(res.Correct) / float32(n)
	return res, nil
}
