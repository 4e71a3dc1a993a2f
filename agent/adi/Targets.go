package adi

import (
	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/speedcube/utils/errs"
)

// ZeroSolved sets the estimate of every solved state to 0 in place.
// Applying ZeroSolved twice has the same effect as applying it once.
func ZeroSolved(estimates []float64, solved []bool) error {
	if len(estimates) != len(solved) {
		return errs.New("zerosolved", errs.InvalidArgument,
			"mismatched lengths \n\twant(%v) \n\thave(%v)", len(estimates),
			len(solved))
	}
	for i, isSolved := range solved {
		if isSolved {
			estimates[i] = 0
		}
	}
	return nil
}

// Targets computes the training target of each state from the value
// estimates of its neighbours. The estimates are ordered state-major, so
// that the estimates of the neighbours of state i are
// estimates[i·numActions : (i+1)·numActions]. The target of state i is
//
//	1 + min_a estimates[i·numActions + a]
func Targets(estimates []float64, numActions int) ([]float64, error) {
	if numActions <= 0 {
		return nil, errs.New("targets", errs.InvalidArgument,
			"number of actions must be positive \n\twant(>0) \n\thave(%v)",
			numActions)
	}
	if len(estimates) == 0 || len(estimates)%numActions != 0 {
		return nil, errs.New("targets", errs.InvalidArgument,
			"number of estimates %v is not a positive multiple of the "+
				"number of actions %v", len(estimates), numActions)
	}

	targets := make([]float64, len(estimates)/numActions)
	for i := range targets {
		row := estimates[i*numActions : (i+1)*numActions]
		targets[i] = 1 + floats.Min(row)
	}
	return targets, nil
}
