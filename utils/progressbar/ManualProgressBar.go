// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ManualProgressBar implement progress bar functionality that must
// be manually managed. That is, the Display() function must be called
// whenever an updated progress bar should be printed to the screen.
//
// ManualProgressBar does not use concurrency.
type ManualProgressBar struct {
	width           float64
	maxProgress     float64
	currentProgress float64
	bar             strings.Builder
	startTime       time.Time
	out             io.Writer
}

// NewManualProgressBar returns a new ManualProgressBar drawn on stderr
func NewManualProgressBar(width, max int) *ManualProgressBar {
	return NewManualProgressBarTo(os.Stderr, width, max)
}

// NewManualProgressBarTo returns a new ManualProgressBar drawn on out
func NewManualProgressBarTo(out io.Writer, width,
	max int) *ManualProgressBar {
	return &ManualProgressBar{
		width:           float64(width),
		maxProgress:     float64(max),
		currentProgress: 0,
		startTime:       time.Now(),
		out:             out,
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ManualProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Display redraws the progress bar in place, followed by an optional
// status message
func (p *ManualProgressBar) Display(status string) {
	p.bar.Reset()
	p.bar.WriteString("|")

	currentProg := p.currentProgress / p.maxProgress * p.width
	for i := 0.0; i < currentProg; i++ {
		p.bar.WriteString("█")
	}
	for i := currentProg; i < p.width; i++ {
		p.bar.WriteString(" ")
	}
	fmt.Fprintf(&p.bar, "| [%.2f%% | elapsed: %v", p.Percent(),
		time.Since(p.startTime).Truncate(time.Second))
	if status != "" {
		fmt.Fprintf(&p.bar, " | %v", status)
	}
	p.bar.WriteString("]")

	fmt.Fprintf(p.out, "\r\033[K%v", p.bar.String())
}

// Percent returns the percentage of progress made
func (p *ManualProgressBar) Percent() float64 {
	return p.currentProgress / p.maxProgress * 100
}

// Finish moves the cursor past the progress bar
func (p *ManualProgressBar) Finish() {
	fmt.Fprintln(p.out)
}
