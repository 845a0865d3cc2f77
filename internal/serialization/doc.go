// Package serialization saves and loads network parameters in SafeTensors format.
//
// The SafeTensors layout:
//
//	[8 bytes: header size N (uint64 LE)]
//	[N bytes: JSON header]
//	[tensor data: raw little-endian bytes]
//
// The JSON header maps each tensor name to its dtype, shape and byte range
// inside the data section; the optional "__metadata__" entry holds string
// pairs. Only F32 tensors are written and read.
//
// Example usage:
//
//	// Save a trained network
//	err := serialization.SaveCheckpoint("digits.safetensors", net, map[string]string{
//	    "epochs": "25",
//	})
//
//	// Restore into a network of the same architecture
//	meta, err := serialization.LoadCheckpoint("digits.safetensors", net)
package serialization
