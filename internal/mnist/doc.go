// Package mnist loads handwritten-digit datasets stored in the IDX
// binary format and provides the label helpers the training driver
// needs (one-hot targets and argmax predictions).
//
// Expected files in a data directory:
//   - train-images-idx3-ubyte and train-labels-idx1-ubyte
//   - t10k-images-idx3-ubyte and t10k-labels-idx1-ubyte
package mnist
