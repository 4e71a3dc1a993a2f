package adi

import (
	"fmt"
	"time"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/speedcube/environment"
	"github.com/samuelfneumann/speedcube/network"
	"github.com/samuelfneumann/speedcube/network/generator"
	"github.com/samuelfneumann/speedcube/schedule"
	"github.com/samuelfneumann/speedcube/solver"
	"github.com/samuelfneumann/speedcube/utils/errs"
	"github.com/samuelfneumann/speedcube/utils/floatutils"
)

// Member is a single value network of an Ensemble along with
// everything needed to train it. Members share no mutable state.
type Member struct {
	env        environment.Environment
	batchSize  int
	numActions int
	tau        float64

	// Network whose weights are adapted, with dropout and the MSE loss
	// in its graph
	live   network.NeuralNet
	liveVM G.VM
	solver *solver.Solver
	sched  schedule.Schedule

	// targets is the input node in the graph of live that is given the
	// update target of each state:
	//
	//	target(s) = 1 + min_a V(s')
	//
	// where s' is the neighbour of s reached by action a and V(s') is
	// computed by targetEval.
	targets *G.Node
	loss    G.Value

	// Network that produces value estimates of neighbour states. This is
	// either a copy of live synchronized before each step or the shadow.
	targetSource TargetNetwork
	targetEval   *network.Evaluator

	// Polyak averaged shadow of live
	shadow network.NeuralNet

	diagnostics Diagnostics
}

// newMember creates and returns a new Member
func newMember(env environment.Environment, model network.Config,
	c Config) (*Member, error) {
	numActions := env.NumActions()

	live, err := network.New(model, c.BatchSize, true)
	if err != nil {
		return nil, fmt.Errorf("newMember: could not create network: %w",
			err)
	}
	g := live.Graph()

	targets := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(c.BatchSize, 1),
		G.WithName("targets"),
		G.WithInit(G.Zeroes()),
	)

	// Compute the mean squared error to the targets
	losses := G.Must(G.Sub(live.Prediction(), targets))
	losses = G.Must(G.Square(losses))
	cost := G.Must(G.Mean(losses))

	m := &Member{
		env:          env,
		batchSize:    c.BatchSize,
		numActions:   numActions,
		tau:          c.Tau,
		live:         live,
		targets:      targets,
		targetSource: c.TargetNetwork,
	}
	G.Read(cost, &m.loss)

	if _, err = G.Grad(cost, live.Learnables()...); err != nil {
		return nil, fmt.Errorf("newMember: could not compute gradient: %v",
			err)
	}
	m.liveVM = G.NewTapeMachine(g, G.BindDualValues(live.Learnables()...))

	// Target networks never compute gradients and evaluate every
	// neighbour of every state in a single batch
	if m.shadow, err = generator.Clone(live, c.BatchSize*numActions); err != nil {
		return nil, fmt.Errorf("newMember: could not create shadow: %w", err)
	}
	switch c.TargetNetwork {
	case Generator:
		m.targetEval = network.NewEvaluator(m.shadow)
	default:
		liveCopy, err := generator.Clone(live, c.BatchSize*numActions)
		if err != nil {
			return nil, fmt.Errorf("newMember: could not create target "+
				"network: %w", err)
		}
		m.targetEval = network.NewEvaluator(liveCopy)
	}

	m.solver, err = solver.NewAdamW(c.LearnRate, DefaultEpsilon, DefaultBeta1,
		DefaultBeta2, c.WeightDecay)
	if err != nil {
		return nil, fmt.Errorf("newMember: could not create solver: %v", err)
	}
	m.sched, err = schedule.NewCosineWarmRestarts(c.LearnRate, 0,
		c.RestartPeriod)
	if err != nil {
		return nil, fmt.Errorf("newMember: could not create schedule: %w",
			err)
	}

	return m, nil
}

// Step trains the Member on a batch of BatchSize() states. It returns
// the loss on the batch and the learning rate used for the update.
//
// The learning rate schedule is advanced and the shadow network is moved
// towards the updated weights after the update.
func (m *Member) Step(states *environment.States) (loss, lr float64,
	err error) {
	if states.Len() != m.batchSize {
		return 0, 0, errs.New("step", errs.InvalidArgument,
			"invalid number of states \n\twant(%v) \n\thave(%v)",
			m.batchSize, states.Len())
	}
	d := &m.diagnostics
	d.States = states

	// Value estimates of all neighbour states
	start := time.Now()
	neighbours := m.env.Neighbours(states)
	neighboursOH := m.env.MultipleOneHot(neighbours)
	d.Neighbours, d.NeighboursOH = neighbours, neighboursOH
	d.Expand = time.Since(start)

	start = time.Now()
	if m.targetSource == Live {
		if err := m.targetEval.Network().Set(m.live); err != nil {
			return 0, 0, fmt.Errorf("step: could not synchronize target "+
				"network: %w", err)
		}
	}
	estimates, err := m.targetEval.Evaluate(neighboursOH)
	if err != nil {
		return 0, 0, fmt.Errorf("step: could not compute value "+
			"estimates: %w", err)
	}
	d.Estimate = time.Since(start)

	start = time.Now()
	solved := m.env.MultipleIsSolved(neighbours)
	if err := ZeroSolved(estimates, solved); err != nil {
		return 0, 0, fmt.Errorf("step: %w", err)
	}
	targets, err := Targets(estimates, m.numActions)
	if err != nil {
		return 0, 0, fmt.Errorf("step: %w", err)
	}
	d.Estimates, d.Targets = estimates, targets
	d.Target = time.Since(start)
	if !floatutils.AllFinite(targets...) {
		return 0, 0, errs.New("step", errs.NumericalDivergence,
			"non-finite update targets")
	}

	// Train the live network
	start = time.Now()
	statesOH := m.env.MultipleOneHot(states)
	d.StatesOH = statesOH
	if err := m.live.SetInput(statesOH); err != nil {
		return 0, 0, fmt.Errorf("step: could not set input: %w", err)
	}
	targetsTensor := tensor.New(
		tensor.WithShape(m.batchSize, 1),
		tensor.WithBacking(targets),
	)
	if err := G.Let(m.targets, targetsTensor); err != nil {
		return 0, 0, fmt.Errorf("step: could not set targets: %v", err)
	}

	if err := m.liveVM.RunAll(); err != nil {
		m.liveVM.Reset()
		return 0, 0, fmt.Errorf("step: could not run training graph: %v",
			err)
	}
	loss = m.loss.Data().(float64)
	if !floatutils.IsFinite(loss) {
		m.liveVM.Reset()
		return loss, 0, errs.New("step", errs.NumericalDivergence,
			"non-finite loss %v", loss)
	}

	lr, err = m.solver.LearnRate()
	if err != nil {
		m.liveVM.Reset()
		return 0, 0, fmt.Errorf("step: %v", err)
	}
	if err := m.solver.Step(m.live.Model()); err != nil {
		m.liveVM.Reset()
		return loss, lr, fmt.Errorf("step: could not update weights: %w",
			err)
	}
	m.liveVM.Reset()
	d.Train = time.Since(start)

	if err := m.solver.SetLearnRate(m.sched.Step()); err != nil {
		return loss, lr, fmt.Errorf("step: %v", err)
	}

	start = time.Now()
	if err := generator.Update(m.tau, m.shadow, m.live); err != nil {
		return loss, lr, fmt.Errorf("step: could not update shadow: %w", err)
	}
	d.Shadow = time.Since(start)

	return loss, lr, nil
}

// Network returns the trained network
func (m *Member) Network() network.NeuralNet {
	return m.live
}

// Shadow returns the Polyak averaged shadow of the trained network
func (m *Member) Shadow() network.NeuralNet {
	return m.shadow
}

// LearnRate returns the learning rate that will be used on the next
// step
func (m *Member) LearnRate() (float64, error) {
	return m.solver.LearnRate()
}

// Diagnostics returns the intermediate values of the last step
func (m *Member) Diagnostics() Diagnostics {
	return m.diagnostics
}

// Close releases the VMs held by the Member
func (m *Member) Close() error {
	liveErr := m.liveVM.Close()
	evalErr := m.targetEval.Close()
	if liveErr != nil {
		return liveErr
	}
	return evalErr
}
