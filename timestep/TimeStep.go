// Package timestep implements records of single training steps
package timestep

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"
)

// TimeStep packages together the outcome of a single training batch
type TimeStep struct {
	Number    int       // Batch number, starting at 1
	Losses    []float64 // Loss of each model on the batch
	LearnRate float64   // Learning rate used by the first model
	Duration  time.Duration
}

// New returns a new TimeStep
func New(number int, losses []float64, lr float64,
	duration time.Duration) TimeStep {
	return TimeStep{
		Number:    number,
		Losses:    losses,
		LearnRate: lr,
		Duration:  duration,
	}
}

// First returns whether a TimeStep is the first of a training run
func (t TimeStep) First() bool {
	return t.Number == 1
}

// MeanLoss returns the loss averaged over models
func (t TimeStep) MeanLoss() float64 {
	return stat.Mean(t.Losses, nil)
}

func (t TimeStep) String() string {
	str := "TimeStep | Batch: %v  |  Mean Loss:  %.4f  |  LR: %.3e  |  " +
		"Duration:  %v"

	return fmt.Sprintf(str, t.Number, t.MeanLoss(), t.LearnRate,
		t.Duration.Truncate(time.Millisecond))
}
