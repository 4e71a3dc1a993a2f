package trackers

import (
	"fmt"

	ts "github.com/samuelfneumann/speedcube/timestep"
	"github.com/samuelfneumann/speedcube/utils/progressbar"
)

// Progress displays a progress bar of a training run, advancing it
// once per tracked batch
type Progress struct {
	bar *progressbar.ManualProgressBar
}

// NewProgress returns a new Progress Tracker for a run of batches
// batches drawn with a bar of the given width
func NewProgress(width, batches int) *Progress {
	return &Progress{bar: progressbar.NewManualProgressBar(width, batches)}
}

// Track advances the progress bar and displays it along with the mean
// loss of the batch
func (p *Progress) Track(step ts.TimeStep) error {
	p.bar.Increment()
	p.bar.Display(fmt.Sprintf("loss: %.4f", step.MeanLoss()))
	return nil
}

// Save terminates the progress bar line. Nothing is saved.
func (p *Progress) Save(string) error {
	p.bar.Finish()
	return nil
}
