// Package trackers implements Trackers of training runs
package trackers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/speedcube/experiment/tracker"
	ts "github.com/samuelfneumann/speedcube/timestep"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

// ResultsFile is the name of the file TrainResults are saved to inside
// a run directory
const ResultsFile = "train_results.json"

// TrainResults stores the metrics of a training run. Losses[j] holds
// the loss of model j on each batch and LR holds the learning rate of
// model 0 on each batch.
type TrainResults struct {
	LR     []float64   `json:"lr"`
	Losses [][]float64 `json:"losses"`
}

// NewTrainResults returns empty TrainResults for numModels models
func NewTrainResults(numModels int) TrainResults {
	losses := make([][]float64, numModels)
	for i := range losses {
		losses[i] = []float64{}
	}
	return TrainResults{LR: []float64{}, Losses: losses}
}

// Save saves the TrainResults as indented JSON in dir
func (r TrainResults) Save(dir string) error {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return errs.Wrap("save", errs.PersistenceFailure, err)
	}
	if err := os.WriteFile(filepath.Join(dir, ResultsFile), data,
		0o644); err != nil {
		return errs.Wrap("save", errs.PersistenceFailure, err)
	}
	return nil
}

// LoadTrainResults loads TrainResults saved in dir
func LoadTrainResults(dir string) (TrainResults, error) {
	var r TrainResults
	data, err := os.ReadFile(filepath.Join(dir, ResultsFile))
	if err != nil {
		return r, errs.Wrap("loadtrainresults", errs.PersistenceFailure, err)
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, errs.Wrap("loadtrainresults", errs.PersistenceFailure,
			fmt.Errorf("could not decode %v: %v", ResultsFile, err))
	}
	return r, nil
}

// Results tracks the loss of each model and the learning rate on every
// batch of a training run
type Results struct {
	lastTimeStep int
	results      TrainResults
}

// NewResults creates and returns a new *Results Tracker for numModels
// models
func NewResults(numModels int) *Results {
	return &Results{results: NewTrainResults(numModels)}
}

// Track records the losses and learning rate of a batch.
//
// Track returns an error if it is called for non-sequential batches or
// with the wrong number of losses.
func (r *Results) Track(step ts.TimeStep) error {
	if r.lastTimeStep+1 != step.Number {
		return fmt.Errorf("track: last two batches tracked are not "+
			"sequential: batch %v --> batch %v were tracked",
			r.lastTimeStep, step.Number)
	}
	if len(step.Losses) != len(r.results.Losses) {
		return errs.New("track", errs.InvalidArgument,
			"invalid number of losses \n\twant(%v) \n\thave(%v)",
			len(r.results.Losses), len(step.Losses))
	}

	for i, loss := range step.Losses {
		r.results.Losses[i] = append(r.results.Losses[i], loss)
	}
	r.results.LR = append(r.results.LR, step.LearnRate)
	r.lastTimeStep = step.Number
	return nil
}

// Save saves the tracked TrainResults in dir
func (r *Results) Save(dir string) error {
	return r.results.Save(dir)
}

// Results returns the TrainResults tracked so far
func (r *Results) Results() TrainResults {
	return r.results
}

var _ tracker.Tracker = &Results{}
