// Package experiment implements functionality for running a training
// run of an ensemble of value networks
package experiment

import (
	"github.com/samuelfneumann/speedcube/experiment/tracker"
	ts "github.com/samuelfneumann/speedcube/timestep"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments track the outcome of each training batch, caching it in
// RAM to be later saved to disk. The Save() function will then take
// all cached data and save it to disk. This is usually performed after
// an experiment has been run. The Run() method will run all batches
// until the batch limit is reached. The RunBatch() function will run a
// single batch.
//
// In order to save data, Experiments use Trackers. Trackers determine
// which data generated during the experiment is saved. Experiments send
// each TimeStep to Trackers using the Tracker's Track() method. New
// Trackers can be registered with an Experiment through its Register()
// function.
type Experiment interface {
	Run() error
	RunBatch() (bool, error) // Returns whether the batch limit is reached

	// Tracks current batch by sending it to Trackers
	track(ts.TimeStep) error

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)

	// Saves the current state of all networks
	checkpoint(ts.TimeStep) error
}
