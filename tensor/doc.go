// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the flat float32 tensors used to exchange
// network parameters with checkpoint files.
//
// # Overview
//
// A RawTensor pairs a Shape with row-major float32 data. Layers export
// their parameters as RawTensors through StateDict and import them
// through LoadStateDict:
//
//	state := net.StateDict()
//	w := state["0.weight"]       // shape [outputs, inputs]
//	fmt.Println(w.Shape(), w.AsFloat32()[:4])
//
// Tensors can also be built directly:
//
//	raw, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
package tensor
