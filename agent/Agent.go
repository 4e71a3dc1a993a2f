// Package agent defines the interfaces of learners that train value
// networks on batches of puzzle states
package agent

import (
	"github.com/rs/zerolog"

	"github.com/samuelfneumann/speedcube/environment"
	"github.com/samuelfneumann/speedcube/network"
)

// Trainer trains one or more value networks in lockstep. Each call to
// Step consumes NumModels()·BatchSize() states, split into contiguous
// batches of BatchSize() states, one batch per network.
type Trainer interface {
	// Step performs a single update to every network and returns each
	// network's loss along with the learning rate used by the first
	// network
	Step(states *environment.States) (losses []float64, lr float64,
		err error)

	BatchSize() int
	NumModels() int

	// Networks returns the trained networks
	Networks() []network.NeuralNet

	Close() error
}

// Diagnoser is a Trainer that can log the intermediate values of its
// last step
type Diagnoser interface {
	Trainer
	LogDiagnostics(logger zerolog.Logger)
}

// Config represents a configuration for creating a Trainer
type Config interface {
	// CreateTrainer creates the Trainer that the config describes, for
	// networks with architecture model
	CreateTrainer(env environment.Environment,
		model network.Config) (Trainer, error)

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error
}
