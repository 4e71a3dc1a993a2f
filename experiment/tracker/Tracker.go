// Package tracker defines Trackers, which track and save data in an
// experiment
package tracker

import (
	ts "github.com/samuelfneumann/speedcube/timestep"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished
type Tracker interface {
	Track(t ts.TimeStep) error

	// Save saves the tracked data in the run directory dir
	Save(dir string) error
}
