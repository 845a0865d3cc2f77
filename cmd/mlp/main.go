// Package main provides the mlp command: train and evaluate a multilayer
// perceptron digit classifier on IDX-format datasets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/born-ml/mlp/internal/mnist"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/serialization"
	"github.com/born-ml/mlp/internal/train"
)

const version = "v0.1.0"

// samplesShown is how many test predictions are printed individually.
const samplesShown = 20

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return nil
	}

	switch args[0] {
	case "train":
		return runTrain(ctx, args[1:], out)
	case "eval":
		return runEval(args[1:], out)
	case "version":
		fmt.Fprintf(out, "mlp %s\n", version)
		return nil
	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		usage(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "mlp - per-neuron multilayer perceptron")
	fmt.Fprintf(out, "Version: %s\n\n", version)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  train    Train a digit classifier (-data DIR, -save FILE)")
	fmt.Fprintln(out, "  eval     Evaluate a saved classifier (-data DIR, -model FILE)")
	fmt.Fprintln(out, "  version  Show version")
}

func runTrain(ctx context.Context, args []string, out io.Writer) error {
	cfg := train.DefaultConfig()

	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(out)
	dataDir := fs.String("data", "data", "directory holding the IDX files")
	savePath := fs.String("save", "", "write the trained parameters to this SafeTensors file")
	lr := fs.Float64("lr", float64(cfg.LearningRate), "learning rate")
	fs.IntVar(&cfg.Epochs, "epochs", cfg.Epochs, "number of epochs")
	fs.IntVar(&cfg.TrainSamples, "train", cfg.TrainSamples, "training samples to load (0 = all)")
	fs.IntVar(&cfg.TestSamples, "test", cfg.TestSamples, "test samples to load (0 = all)")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "weight initialization seed (0 = random)")
	fs.StringVar(&cfg.Loss, "loss", cfg.Loss, "loss function: cross-entropy or mse")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.LearningRate = float32(*lr)
	if err := cfg.Validate(); err != nil {
		return err
	}

	fmt.Fprintln(out, "Loading training data...")
	trainSet, err := mnist.Load(*dataDir, true, cfg.TrainSamples)
	if err != nil {
		return dataError(*dataDir, err)
	}
	testSet, err := mnist.Load(*dataDir, false, cfg.TestSamples)
	if err != nil {
		return dataError(*dataDir, err)
	}
	fmt.Fprintf(out, "Loaded %d training samples\n", trainSet.NumSamples())
	fmt.Fprintf(out, "Loaded %d test samples\n", testSet.NumSamples())

	net, err := train.BuildNetwork(trainSet.InputSize(), mnist.NumClasses, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nLearning Rate: %g, Epochs: %d, Loss: %s\n", cfg.LearningRate, cfg.Epochs, cfg.Loss)
	fmt.Fprintf(out, "%-8s %-12s %s\n", "Epoch", "Avg Loss", "Accuracy")
	trainer, err := train.NewTrainer(net, cfg, func(s train.EpochStats) {
		fmt.Fprintf(out, "%-8d %-12.6f %.2f%%\n", s.Epoch, s.AvgLoss, s.Accuracy)
	})
	if err != nil {
		return err
	}
	if _, err := trainer.Run(ctx, trainSet); err != nil {
		return fmt.Errorf("training: %w", err)
	}

	loss, err := nn.LossByName(cfg.Loss)
	if err != nil {
		return err
	}
	if err := report(out, net, testSet, loss); err != nil {
		return err
	}

	if *savePath != "" {
		meta := map[string]string{
			"loss":   cfg.Loss,
			"hidden": strconv.Itoa(cfg.Hidden[0]) + "," + strconv.Itoa(cfg.Hidden[1]),
			"input":  strconv.Itoa(trainSet.InputSize()),
			"epochs": strconv.Itoa(cfg.Epochs),
		}
		if err := serialization.SaveCheckpoint(*savePath, net, meta); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nSaved model to %s\n", *savePath)
	}
	return nil
}

func runEval(args []string, out io.Writer) error {
	cfg := train.DefaultConfig()

	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(out)
	dataDir := fs.String("data", "data", "directory holding the IDX files")
	modelPath := fs.String("model", "", "SafeTensors file written by train -save")
	fs.IntVar(&cfg.TestSamples, "test", cfg.TestSamples, "test samples to load (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *modelPath == "" {
		return errors.New("eval: -model is required")
	}

	stateDict, meta, err := serialization.ReadSafeTensors(*modelPath)
	if err != nil {
		return err
	}
	if err := applyMetadata(&cfg, meta); err != nil {
		return err
	}

	testSet, err := mnist.Load(*dataDir, false, cfg.TestSamples)
	if err != nil {
		return dataError(*dataDir, err)
	}
	if err := checkInputSize(meta, testSet.InputSize()); err != nil {
		return fmt.Errorf("%s: %w", *modelPath, err)
	}

	net, err := train.BuildNetwork(testSet.InputSize(), mnist.NumClasses, cfg)
	if err != nil {
		return err
	}
	if err := net.LoadStateDict(stateDict); err != nil {
		return fmt.Errorf("load %s: %w", *modelPath, err)
	}

	loss, err := nn.LossByName(cfg.Loss)
	if err != nil {
		return err
	}
	return report(out, net, testSet, loss)
}

// applyMetadata restores the architecture recorded by train -save.
func applyMetadata(cfg *train.Config, meta map[string]string) error {
	if name, ok := meta["loss"]; ok {
		cfg.Loss = name
	}
	if hidden, ok := meta["hidden"]; ok {
		var h1, h2 int
		if _, err := fmt.Sscanf(hidden, "%d,%d", &h1, &h2); err != nil {
			return fmt.Errorf("invalid hidden metadata %q: %w", hidden, err)
		}
		cfg.Hidden = []int{h1, h2}
	}
	return nil
}

// checkInputSize compares the input width recorded by train -save with the
// dataset's image size.
func checkInputSize(meta map[string]string, inputSize int) error {
	recorded, ok := meta["input"]
	if !ok {
		return nil
	}
	want, err := strconv.Atoi(recorded)
	if err != nil {
		return fmt.Errorf("invalid input metadata %q: %w", recorded, err)
	}
	if want != inputSize {
		return fmt.Errorf("model expects %d inputs, dataset images have %d", want, inputSize)
	}
	return nil
}

func report(out io.Writer, net *nn.Network, testSet *mnist.Dataset, loss nn.LossFunction) error {
	res, err := train.Evaluate(net, testSet, loss)
	if err != nil {
		return fmt.Errorf("evaluation: %w", err)
	}

	fmt.Fprintln(out, "\nTesting on test set")
	for i, p := range res.Predictions {
		if i >= samplesShown {
			break
		}
		mark := "WRONG"
		if p.Correct() {
			mark = "CORRECT"
		}
		fmt.Fprintf(out, "Sample %d: Predicted = %d, Actual = %d [%s]\n", i, p.Predicted, p.Actual, mark)
	}
	fmt.Fprintf(out, "\nTest Accuracy: %.2f%% (%d/%d)\n", res.Accuracy, res.Correct, res.Total)
	fmt.Fprintf(out, "Test Avg Loss: %.6f\n", res.AvgLoss)
	return nil
}

func dataError(dir string, err error) error {
	images, labels := mnist.Files(dir, true)
	testImages, testLabels := mnist.Files(dir, false)
	return fmt.Errorf("%w\ndataset files are expected at:\n  %s\n  %s\n  %s\n  %s",
		err, images, labels, testImages, testLabels)
}
