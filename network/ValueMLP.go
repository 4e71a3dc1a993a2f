package network

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"strings"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/speedcube/utils/errs"
)

// residualBlock implements act(x + W₂·act(W₁·x))
type residualBlock struct {
	first, second *fcLayer
}

// valueMLP implements a multi-layered perceptron with residual blocks
// and a single output node predicting the cost-to-go of a state.
type valueMLP struct {
	g        *G.ExprGraph
	config   Config
	input    *G.Node
	batch    int
	training bool

	hidden     []*fcLayer
	projection *fcLayer // nil if no projection is needed
	blocks     []residualBlock
	output     *fcLayer

	learnables G.Nodes
	model      []G.ValueGrad

	prediction *G.Node
	predVal    G.Value
}

// New creates and returns a new value network with its own
// computational graph. The network takes batch one-hot encoded states
// as input. If training is true, dropout is added after each hidden
// layer as described by the Config.
func New(c Config, batch int, training bool) (NeuralNet, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if batch <= 0 {
		return nil, errs.New("new", errs.InvalidArgument,
			"batch size must be positive \n\twant(>0) \n\thave(%v)", batch)
	}

	g := G.NewGraph()
	initFn := c.InitWFn.InitWFn()

	input := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(batch, c.StateSize),
		G.WithName("input"),
		G.WithInit(G.Zeroes()),
	)

	net := &valueMLP{
		g:        g,
		config:   c,
		input:    input,
		batch:    batch,
		training: training,
	}

	features := c.StateSize
	for i, size := range c.HiddenLayerSizes {
		name := fmt.Sprintf("L%d", i)
		net.hidden = append(net.hidden, newFCLayer(g, features, size,
			c.Activation, initFn, name))
		features = size
	}

	if c.NumResidualBlocks > 0 {
		if features != c.ResidualSize {
			net.projection = newFCLayer(g, features, c.ResidualSize,
				c.Activation, initFn, "P")
			features = c.ResidualSize
		}
		for i := 0; i < c.NumResidualBlocks; i++ {
			net.blocks = append(net.blocks, residualBlock{
				first: newFCLayer(g, features, features, c.Activation, initFn,
					fmt.Sprintf("R%da", i)),
				second: newFCLayer(g, features, features, nil, initFn,
					fmt.Sprintf("R%db", i)),
			})
		}
	}

	net.output = newFCLayer(g, features, 1, nil, initFn, "O")

	if _, err := net.fwd(input); err != nil {
		return nil, fmt.Errorf("new: could not compute forward pass: %v", err)
	}

	return net, nil
}

// fwd performs the forward pass of the network on the input node
func (v *valueMLP) fwd(input *G.Node) (*G.Node, error) {
	pred := input
	var err error

	for i, l := range v.hidden {
		if pred, err = l.fwd(pred); err != nil {
			msg := "fwd: could not compute forward pass of layer %v: %v"
			return nil, fmt.Errorf(msg, i, err)
		}
		if v.training && v.config.Dropout > 0 {
			if pred, err = G.Dropout(pred, v.config.Dropout); err != nil {
				return nil, fmt.Errorf("fwd: could not add dropout: %v", err)
			}
		}
	}

	if v.projection != nil {
		if pred, err = v.projection.fwd(pred); err != nil {
			return nil, fmt.Errorf("fwd: could not project to residual "+
				"size: %v", err)
		}
	}

	for i, block := range v.blocks {
		var h *G.Node
		if h, err = block.first.fwd(pred); err != nil {
			return nil, fmt.Errorf("fwd: residual block %v: %v", i, err)
		}
		if h, err = block.second.fwd(h); err != nil {
			return nil, fmt.Errorf("fwd: residual block %v: %v", i, err)
		}
		if h, err = G.Add(pred, h); err != nil {
			return nil, fmt.Errorf("fwd: residual block %v skip: %v", i, err)
		}
		if pred, err = v.config.Activation.fwd(h); err != nil {
			return nil, fmt.Errorf("fwd: residual block %v: %v", i, err)
		}
	}

	if pred, err = v.output.fwd(pred); err != nil {
		return nil, fmt.Errorf("fwd: could not compute output layer: %v",
			err)
	}

	v.prediction = pred
	G.Read(v.prediction, &v.predVal)

	return pred, nil
}

// layers returns all fully connected layers in forward order
func (v *valueMLP) layers() []*fcLayer {
	layers := make([]*fcLayer, 0, len(v.hidden)+2*len(v.blocks)+2)
	layers = append(layers, v.hidden...)
	if v.projection != nil {
		layers = append(layers, v.projection)
	}
	for _, block := range v.blocks {
		layers = append(layers, block.first, block.second)
	}
	return append(layers, v.output)
}

// Graph returns the computational graph of the network
func (v *valueMLP) Graph() *G.ExprGraph {
	return v.g
}

// Config returns the Config the network was built from
func (v *valueMLP) Config() Config {
	return v.config
}

// BatchSize returns the number of states the network takes as input
func (v *valueMLP) BatchSize() int {
	return v.batch
}

// Features returns the number of features of a single input state
func (v *valueMLP) Features() int {
	return v.config.StateSize
}

// Training returns whether dropout is active in the network's graph
func (v *valueMLP) Training() bool {
	return v.training
}

// SetInput sets the value of the input node before running the forward
// pass. The input must have shape (BatchSize(), Features()).
func (v *valueMLP) SetInput(input *tensor.Dense) error {
	shape := input.Shape()
	if len(shape) != 2 || shape[0] != v.batch || shape[1] != v.Features() {
		return errs.New("setinput", errs.InvalidArgument,
			"invalid input shape \n\twant([%v %v]) \n\thave(%v)", v.batch,
			v.Features(), shape)
	}
	return G.Let(v.input, input)
}

// Prediction returns the node of the computational graph that stores
// the output of the network
func (v *valueMLP) Prediction() *G.Node {
	return v.prediction
}

// Output returns a copy of the predictions made on the last run of the
// network's graph, one per input state
func (v *valueMLP) Output() []float64 {
	if v.predVal == nil {
		return nil
	}
	data := v.predVal.Data().([]float64)
	out := make([]float64, len(data))
	copy(out, data)
	return out
}

// Learnables returns the learnable nodes in the network
func (v *valueMLP) Learnables() G.Nodes {
	// Lazy instantiation
	if v.learnables == nil {
		layers := v.layers()
		v.learnables = make(G.Nodes, 0, 2*len(layers))
		for _, l := range layers {
			v.learnables = append(v.learnables, l.learnables()...)
		}
	}
	return v.learnables
}

// Model returns the learnable nodes with their gradients
func (v *valueMLP) Model() []G.ValueGrad {
	if v.model == nil {
		learnables := v.Learnables()
		v.model = make([]G.ValueGrad, len(learnables))
		for i, node := range learnables {
			v.model[i] = node
		}
	}
	return v.model
}

// Params returns the backing data of each learnable node
func (v *valueMLP) Params() [][]float64 {
	learnables := v.Learnables()
	params := make([][]float64, len(learnables))
	for i, node := range learnables {
		params[i] = node.Value().Data().([]float64)
	}
	return params
}

// NumParams returns the number of scalar parameters in the network
func (v *valueMLP) NumParams() int {
	n := 0
	for _, node := range v.Learnables() {
		n += node.Shape().TotalSize()
	}
	return n
}

// Set sets the weights of the network to be equal to the weights of
// another network of the same architecture
func (v *valueMLP) Set(source NeuralNet) error {
	return copyParams(v.Params(), source.Params())
}

// copyParams copies src into dst parameter by parameter
func copyParams(dst, src [][]float64) error {
	if len(dst) != len(src) {
		return errs.New("set", errs.InvalidArgument,
			"invalid number of parameters \n\twant(%v) \n\thave(%v)",
			len(dst), len(src))
	}
	for i := range dst {
		if len(dst[i]) != len(src[i]) {
			return errs.New("set", errs.InvalidArgument,
				"parameter %v has invalid size \n\twant(%v) \n\thave(%v)",
				i, len(dst[i]), len(src[i]))
		}
		copy(dst[i], src[i])
	}
	return nil
}

// savedParams is the on-disk representation of a network's weights
type savedParams struct {
	Shapes [][]int
	Values [][]float64
}

// Save writes the weights of the network to w. Only weights are
// saved; the architecture is described by the network's Config, which
// is saved separately.
func (v *valueMLP) Save(w io.Writer) error {
	learnables := v.Learnables()
	saved := savedParams{
		Shapes: make([][]int, len(learnables)),
		Values: v.Params(),
	}
	for i, node := range learnables {
		saved.Shapes[i] = []int(node.Shape().Clone())
	}

	if err := gob.NewEncoder(w).Encode(saved); err != nil {
		return errs.Wrap("save", errs.PersistenceFailure,
			fmt.Errorf("could not encode weights: %v", err))
	}
	return nil
}

// Load reads weights written by Save into the network
func (v *valueMLP) Load(r io.Reader) error {
	var saved savedParams
	if err := gob.NewDecoder(r).Decode(&saved); err != nil {
		return errs.Wrap("load", errs.PersistenceFailure,
			fmt.Errorf("could not decode weights: %v", err))
	}

	learnables := v.Learnables()
	if len(saved.Shapes) != len(learnables) {
		return errs.New("load", errs.InvalidArgument,
			"invalid number of saved parameters \n\twant(%v) \n\thave(%v)",
			len(learnables), len(saved.Shapes))
	}
	for i, node := range learnables {
		if !node.Shape().Eq(tensor.Shape(saved.Shapes[i])) {
			return errs.New("load", errs.InvalidArgument,
				"parameter %v has invalid shape \n\twant(%v) \n\thave(%v)",
				i, node.Shape(), saved.Shapes[i])
		}
	}
	return copyParams(v.Params(), saved.Values)
}

// String returns a human readable summary of the architecture
func (v *valueMLP) String() string {
	var b strings.Builder
	b.WriteString("ValueMLP(\n")

	for i, l := range v.hidden {
		fmt.Fprintf(&b, "    (hidden %d) Linear(%d → %d), %v", i, l.in(),
			l.out(), l.act)
		if v.training && v.config.Dropout > 0 {
			fmt.Fprintf(&b, ", Dropout(%.2f)", v.config.Dropout)
		}
		b.WriteString("\n")
	}
	if v.projection != nil {
		fmt.Fprintf(&b, "    (projection) Linear(%d → %d), %v\n",
			v.projection.in(), v.projection.out(), v.projection.act)
	}
	for i, block := range v.blocks {
		fmt.Fprintf(&b, "    (residual %d) Linear(%d → %d), %v, "+
			"Linear(%d → %d), skip, %v\n", i, block.first.in(),
			block.first.out(), block.first.act, block.second.in(),
			block.second.out(), v.config.Activation)
	}
	fmt.Fprintf(&b, "    (output) Linear(%d → %d)\n", v.output.in(),
		v.output.out())
	b.WriteString(")")

	return b.String()
}

// Bytes returns the encoding of the network's weights produced by Save
func Bytes(net NeuralNet) ([]byte, error) {
	var buf bytes.Buffer
	if err := net.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
