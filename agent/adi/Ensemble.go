// Package adi implements approximate value iteration with an ensemble
// of value networks. Each network is trained to predict the number of
// actions needed to solve a puzzle state by regressing on
//
//	target(s) = 1 + min_a V(s')
//
// where s' is the neighbour of s reached by action a and V(s') = 0 for
// solved s'.
package adi

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/samuelfneumann/speedcube/environment"
	"github.com/samuelfneumann/speedcube/network"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

// Ensemble trains a number of independent Members in lockstep
type Ensemble struct {
	env     environment.Environment
	config  Config
	members []*Member
}

// New creates and returns a new Ensemble of c.NumModels value networks
// with architecture model
func New(env environment.Environment, model network.Config,
	c Config) (*Ensemble, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if model.StateSize != env.OneHotSize() {
		return nil, errs.New("new", errs.InvalidArgument,
			"model state size does not match environment encoding "+
				"\n\twant(%v) \n\thave(%v)", env.OneHotSize(), model.StateSize)
	}

	members := make([]*Member, c.NumModels)
	for i := range members {
		member, err := newMember(env, model, c)
		if err != nil {
			return nil, fmt.Errorf("new: could not create member %v: %w", i,
				err)
		}
		members[i] = member
	}

	return &Ensemble{env: env, config: c, members: members}, nil
}

// Step trains each member on a contiguous batch of BatchSize() states,
// member i training on rows [i·BatchSize(), (i+1)·BatchSize()). Members
// are trained sequentially. The losses of all members are returned along
// with the learning rate used by member 0.
func (e *Ensemble) Step(states *environment.States) ([]float64, float64,
	error) {
	want := e.config.NumModels * e.config.BatchSize
	if states.Len() != want {
		return nil, 0, errs.New("step", errs.InvalidArgument,
			"invalid number of states \n\twant(%v) \n\thave(%v)", want,
			states.Len())
	}

	var lr float64
	losses := make([]float64, len(e.members))
	for i, member := range e.members {
		batch := states.Slice(i*e.config.BatchSize, (i+1)*e.config.BatchSize)

		loss, memberLR, err := member.Step(batch)
		if err != nil {
			return nil, 0, fmt.Errorf("step: model %v: %w", i, err)
		}
		losses[i] = loss
		if i == 0 {
			lr = memberLR
		}
	}

	return losses, lr, nil
}

// Member returns member i of the Ensemble
func (e *Ensemble) Member(i int) *Member {
	return e.members[i]
}

// Networks returns the trained network of each member
func (e *Ensemble) Networks() []network.NeuralNet {
	nets := make([]network.NeuralNet, len(e.members))
	for i, member := range e.members {
		nets[i] = member.Network()
	}
	return nets
}

// BatchSize returns the number of states each member trains on per step
func (e *Ensemble) BatchSize() int {
	return e.config.BatchSize
}

// NumModels returns the number of members in the Ensemble
func (e *Ensemble) NumModels() int {
	return len(e.members)
}

// Config returns the Config the Ensemble was built from
func (e *Ensemble) Config() Config {
	return e.config
}

// LogDiagnostics logs the intermediate values and durations of the
// last step of member 0 at debug level
func (e *Ensemble) LogDiagnostics(logger zerolog.Logger) {
	e.members[0].Diagnostics().Log(logger)
}

// Close releases the resources held by each member
func (e *Ensemble) Close() error {
	var err error
	for i, member := range e.members {
		if closeErr := member.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close: member %v: %v", i, closeErr)
		}
	}
	return err
}
