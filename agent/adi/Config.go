package adi

import (
	"encoding/json"
	"fmt"

	"github.com/samuelfneumann/speedcube/agent"
	"github.com/samuelfneumann/speedcube/environment"
	"github.com/samuelfneumann/speedcube/network"
	"github.com/samuelfneumann/speedcube/schedule"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

// TargetNetwork determines which network produces the value estimates
// of neighbour states used to compute training targets
type TargetNetwork string

const (
	// Live evaluates neighbours with the current weights of the network
	// being trained
	Live TargetNetwork = "live"

	// Generator evaluates neighbours with the Polyak averaged shadow of
	// the network being trained
	Generator TargetNetwork = "generator"
)

// UnmarshalJSON implements the json.Unmarshaler interface. An empty
// string decodes to Live.
func (t *TargetNetwork) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	switch TargetNetwork(name) {
	case "", Live:
		*t = Live
	case Generator:
		*t = Generator
	default:
		return fmt.Errorf("unmarshaljson: illegal TargetNetwork %q", name)
	}
	return nil
}

// Default AdamW hyperparameters
const (
	DefaultWeightDecay = 0.01
	DefaultEpsilon     = 1e-8
	DefaultBeta1       = 0.9
	DefaultBeta2       = 0.999
)

// Config implements a configuration of an ADI ensemble
type Config struct {
	NumModels     int
	BatchSize     int // States per model per step
	LearnRate     float64
	Tau           float64 // Polyak averaging constant of the shadows
	TargetNetwork TargetNetwork
	WeightDecay   float64
	RestartPeriod int // Steps between learning rate restarts
}

// NewConfig returns a Config with the default target network, weight
// decay, and learning rate restart period
func NewConfig(numModels, batchSize int, lr, tau float64) Config {
	return Config{
		NumModels:     numModels,
		BatchSize:     batchSize,
		LearnRate:     lr,
		Tau:           tau,
		TargetNetwork: Live,
		WeightDecay:   DefaultWeightDecay,
		RestartPeriod: schedule.DefaultT0,
	}
}

// Validate returns an error describing whether or not the Config is
// valid
func (c Config) Validate() error {
	if c.NumModels <= 0 {
		return errs.New("validate", errs.InvalidArgument,
			"number of models must be positive \n\twant(>0) \n\thave(%v)",
			c.NumModels)
	}
	if c.BatchSize <= 0 {
		return errs.New("validate", errs.InvalidArgument,
			"batch size must be positive \n\twant(>0) \n\thave(%v)",
			c.BatchSize)
	}
	if c.LearnRate <= 0 {
		return errs.New("validate", errs.InvalidArgument,
			"learning rate must be positive \n\twant(>0) \n\thave(%v)",
			c.LearnRate)
	}
	if !(c.Tau > 0 && c.Tau <= 1) {
		return errs.New("validate", errs.InvalidArgument,
			"tau must be in (0, 1] \n\thave(%v)", c.Tau)
	}
	if c.TargetNetwork != Live && c.TargetNetwork != Generator {
		return errs.New("validate", errs.InvalidArgument,
			"unknown target network %q", c.TargetNetwork)
	}
	if c.WeightDecay < 0 {
		return errs.New("validate", errs.InvalidArgument,
			"weight decay must be non-negative \n\twant(>=0) \n\thave(%v)",
			c.WeightDecay)
	}
	if c.RestartPeriod <= 0 {
		return errs.New("validate", errs.InvalidArgument,
			"restart period must be positive \n\twant(>0) \n\thave(%v)",
			c.RestartPeriod)
	}
	return nil
}

// CreateTrainer creates an Ensemble as described by the Config
func (c Config) CreateTrainer(env environment.Environment,
	model network.Config) (agent.Trainer, error) {
	e, err := New(env, model, c)
	if err != nil {
		return nil, err
	}
	return e, nil
}
