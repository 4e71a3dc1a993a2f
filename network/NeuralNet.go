// Package network implements value networks over gorgonia
// computational graphs.
package network

import (
	"io"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// NeuralNet is a value network mapping a batch of one-hot encoded
// states to a batch of scalar cost-to-go estimates.
//
// A NeuralNet only populates its computational graph. An external VM
// runs the graph: set the input with SetInput, run the VM, then read
// the predictions with Output.
type NeuralNet interface {
	Graph() *G.ExprGraph
	Config() Config
	BatchSize() int
	Features() int

	// Training returns whether the network was built for training,
	// in which case dropout is active in its graph
	Training() bool

	SetInput(*tensor.Dense) error
	Prediction() *G.Node
	Output() []float64

	Learnables() G.Nodes
	Model() []G.ValueGrad

	// Params returns the backing data of each learnable, in the same
	// order as Learnables. Modifying the returned slices modifies the
	// network.
	Params() [][]float64
	NumParams() int

	// Set sets the weights of the network to those of another network
	// with the same architecture
	Set(NeuralNet) error

	Save(io.Writer) error
	Load(io.Reader) error

	String() string
}
