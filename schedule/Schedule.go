// Package schedule implements learning rate schedules applied between
// solver steps.
package schedule

import (
	"math"

	"github.com/samuelfneumann/speedcube/utils/errs"
)

// Schedule adjusts a learning rate once per solver step
type Schedule interface {
	// LearnRate returns the learning rate for the current step
	LearnRate() float64

	// Step advances the schedule by one solver step and returns the
	// learning rate for the next step
	Step() float64
}

// CosineWarmRestarts anneals the learning rate from its base value to
// EtaMin along half a cosine period of T0 steps, then restarts at the
// base value:
//
//	η = η_min + ½(η_base - η_min)(1 + cos(π·t/T0)),  t = steps mod T0
type CosineWarmRestarts struct {
	base   float64
	etaMin float64
	t0     int
	tCur   int
}

// DefaultT0 is the number of steps between restarts used by training
const DefaultT0 = 100

// NewCosineWarmRestarts returns a new CosineWarmRestarts schedule
func NewCosineWarmRestarts(base, etaMin float64,
	t0 int) (*CosineWarmRestarts, error) {
	if t0 <= 0 {
		return nil, errs.New("newCosineWarmRestarts", errs.InvalidArgument,
			"restart period must be positive \n\twant(>0) \n\thave(%v)", t0)
	}
	if base <= 0 || etaMin < 0 || etaMin > base {
		return nil, errs.New("newCosineWarmRestarts", errs.InvalidArgument,
			"learning rates must satisfy 0 <= etaMin <= base, base > 0 "+
				"\n\thave(base=%v, etaMin=%v)", base, etaMin)
	}
	return &CosineWarmRestarts{base: base, etaMin: etaMin, t0: t0}, nil
}

// LearnRate returns the learning rate for the current step
func (c *CosineWarmRestarts) LearnRate() float64 {
	cos := math.Cos(math.Pi * float64(c.tCur) / float64(c.t0))
	return c.etaMin + (c.base-c.etaMin)*(1+cos)/2
}

// Step advances the schedule by one step
func (c *CosineWarmRestarts) Step() float64 {
	c.tCur++
	if c.tCur >= c.t0 {
		c.tCur -= c.t0
	}
	return c.LearnRate()
}
