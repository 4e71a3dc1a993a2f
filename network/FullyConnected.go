package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// fcLayer implements a fully connected layer of a feed forward neural
// network
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	act     *Activation // nil if the layer is linear
}

// newFCLayer adds the weights and bias of a fully connected layer with
// in inputs and out outputs to the graph g
func newFCLayer(g *G.ExprGraph, in, out int, act *Activation,
	init G.InitWFn, name string) *fcLayer {
	weights := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(in, out),
		G.WithName(name+"W"),
		G.WithInit(init),
	)
	bias := G.NewVector(
		g,
		tensor.Float64,
		G.WithShape(out),
		G.WithName(name+"B"),
		G.WithInit(G.Zeroes()),
	)

	return &fcLayer{weights: weights, bias: bias, act: act}
}

// fwd adds the forward pass of the fcLayer to the computational graph
func (f *fcLayer) fwd(x *G.Node) (*G.Node, error) {
	x, err := f.linear(x)
	if err != nil {
		return nil, err
	}
	if f.act == nil {
		return x, nil
	}
	return f.act.fwd(x)
}

// linear adds the affine transformation of the layer, without its
// activation, to the computational graph
func (f *fcLayer) linear(x *G.Node) (*G.Node, error) {
	x, err := G.Mul(x, f.weights)
	if err != nil {
		return nil, fmt.Errorf("linear: could not multiply weights: %v", err)
	}

	// Broadcast the bias weights to all samples along the batch
	// dimension
	return G.BroadcastAdd(x, f.bias, nil, []byte{0})
}

// in returns the number of inputs to the layer
func (f *fcLayer) in() int {
	return f.weights.Shape()[0]
}

// out returns the number of outputs of the layer
func (f *fcLayer) out() int {
	return f.weights.Shape()[1]
}

// learnables returns the weights and bias of the layer
func (f *fcLayer) learnables() []*G.Node {
	return []*G.Node{f.weights, f.bias}
}
