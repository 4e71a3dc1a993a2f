package adi

import (
	"time"

	"github.com/rs/zerolog"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/speedcube/environment"
	"github.com/samuelfneumann/speedcube/utils/intutils"
)

// float64Size is the size of a float64 in bytes
const float64Size = 8

// Diagnostics records the intermediate values and phase durations of
// the last training step of a Member
type Diagnostics struct {
	States       *environment.States
	StatesOH     *tensor.Dense
	Neighbours   *environment.States
	NeighboursOH *tensor.Dense
	Estimates    []float64 // Value estimates of the neighbours
	Targets      []float64

	Expand   time.Duration // Neighbour expansion and encoding
	Estimate time.Duration // Value estimates of neighbours
	Target   time.Duration // Solved state masking and targets
	Train    time.Duration // Forward pass, backward pass, and update
	Shadow   time.Duration // Shadow network update
}

// Quantity describes the shape and memory size of an intermediate value
type Quantity struct {
	Name  string
	Shape []int
	Bytes int
}

// Quantities returns the shape and size of each intermediate value of
// the step. Neighbour value estimates have shape (states, actions).
func (d Diagnostics) Quantities() []Quantity {
	if d.States == nil {
		return nil
	}
	n := d.States.Len()
	actions := 0
	if n > 0 {
		actions = len(d.Estimates) / n
	}

	return []Quantity{
		{"states", d.States.Shape(), d.States.Bytes()},
		{"states_oh", d.StatesOH.Shape(), int(d.StatesOH.MemSize())},
		{"neighbour_states", d.Neighbours.Shape(), d.Neighbours.Bytes()},
		{"neighbour_states_oh", d.NeighboursOH.Shape(),
			int(d.NeighboursOH.MemSize())},
		{"value_estimates", []int{n, actions},
			len(d.Estimates) * float64Size},
		{"targets", []int{len(d.Targets)}, len(d.Targets) * float64Size},
	}
}

// shapes implements zerolog.LogObjectMarshaler for the shapes of
// intermediate values
type shapes []Quantity

func (s shapes) MarshalZerologObject(e *zerolog.Event) {
	for _, q := range s {
		e.Ints(q.Name, q.Shape)
	}
}

// sizes implements zerolog.LogObjectMarshaler for the thousands
// separated byte sizes of intermediate values
type sizes []Quantity

func (s sizes) MarshalZerologObject(e *zerolog.Event) {
	for _, q := range s {
		e.Str(q.Name, intutils.Commas(q.Bytes))
	}
}

// Log writes the shapes, sizes, and phase durations of the step to
// logger at debug level
func (d Diagnostics) Log(logger zerolog.Logger) {
	quantities := d.Quantities()
	if quantities == nil {
		return
	}
	logger.Debug().Object("shapes", shapes(quantities)).Msg("Shapes")
	logger.Debug().Object("bytes", sizes(quantities)).Msg("Sizes in bytes")
	logger.Debug().
		Dur("expand", d.Expand).
		Dur("estimate", d.Estimate).
		Dur("target", d.Target).
		Dur("train", d.Train).
		Dur("shadow", d.Shadow).
		Msg("Step durations")
}
