package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Evaluator runs the forward pass of a NeuralNet without computing
// gradients. The Evaluator owns the VM of the network's graph, so the
// network should not be run by any other VM.
type Evaluator struct {
	net NeuralNet
	vm  G.VM
}

// NewEvaluator returns a new Evaluator for net
func NewEvaluator(net NeuralNet) *Evaluator {
	vm := G.NewTapeMachine(net.Graph())
	return &Evaluator{net: net, vm: vm}
}

// Evaluate returns the predictions of the network on input, which must
// have shape (BatchSize(), Features())
func (e *Evaluator) Evaluate(input *tensor.Dense) ([]float64, error) {
	if err := e.net.SetInput(input); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	defer e.vm.Reset()

	if err := e.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("evaluate: could not run forward pass: %v",
			err)
	}
	return e.net.Output(), nil
}

// Network returns the network evaluated by the Evaluator
func (e *Evaluator) Network() NeuralNet {
	return e.net
}

// Close releases the resources held by the Evaluator's VM
func (e *Evaluator) Close() error {
	return e.vm.Close()
}
