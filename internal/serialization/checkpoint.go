package serialization

import (
	"fmt"

	"github.com/born-ml/mlp/internal/tensor"
)

// Stateful is implemented by anything that exposes its parameters as a
// state dict, such as nn.Network and nn.Dense.
type Stateful interface {
	StateDict() map[string]*tensor.RawTensor
	LoadStateDict(map[string]*tensor.RawTensor) error
}

// SaveCheckpoint writes the parameters of m to path.
func SaveCheckpoint(path string, m Stateful, metadata map[string]string) error {
	if err := WriteSafeTensors(path, m.StateDict(), metadata); err != nil {
		return fmt.Errorf("save checkpoint %s: %w", path, err)
	}
	return nil
}

// LoadCheckpoint reads path and loads its parameters into m.
//
// Returns the file metadata.
func LoadCheckpoint(path string, m Stateful) (map[string]string, error) {
	stateDict, metadata, err := ReadSafeTensors(path)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint %s: %w", path, err)
	}
	if err := m.LoadStateDict(stateDict); err != nil {
		return nil, fmt.Errorf("load checkpoint %s: %w", path, err)
	}
	return metadata, nil
}
