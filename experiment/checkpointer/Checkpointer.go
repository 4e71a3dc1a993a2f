// Package checkpointer implements periodic saving of training runs
package checkpointer

import (
	ts "github.com/samuelfneumann/speedcube/timestep"
)

// Saver is an object that can save itself to a directory
type Saver interface {
	Save(dir string) error
}

// SaverFunc adapts a function to the Saver interface
type SaverFunc func(dir string) error

// Save calls f(dir)
func (f SaverFunc) Save(dir string) error {
	return f(dir)
}

// Checkpointer checkpoints/saves objects based on timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}
