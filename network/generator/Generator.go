// Package generator implements the shadow networks used to produce
// training targets: slowly moving copies of live networks updated by
// Polyak averaging.
package generator

import (
	"fmt"

	"github.com/samuelfneumann/speedcube/network"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

// Clone returns a new network with the same architecture and weights as
// source. The clone takes batch states as input and is never trained,
// so dropout is not added to its graph.
func Clone(source network.NeuralNet, batch int) (network.NeuralNet, error) {
	clone, err := network.New(source.Config(), batch, false)
	if err != nil {
		return nil, fmt.Errorf("clone: %w", err)
	}
	if err := clone.Set(source); err != nil {
		return nil, fmt.Errorf("clone: %w", err)
	}
	return clone, nil
}

// Update moves the weights of shadow towards those of live in place:
//
//	shadow ← τ·live + (1-τ)·shadow
func Update(tau float64, shadow, live network.NeuralNet) error {
	if err := Polyak(tau, shadow.Params(), live.Params()); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

// Polyak sets each dest[i][j] to tau·source[i][j] + (1-tau)·dest[i][j].
// The parameter collections are paired by position and must have equal
// shapes. Tau must be in (0, 1]; with tau = 1, dest becomes an exact copy
// of source.
func Polyak(tau float64, dest, source [][]float64) error {
	if !(tau > 0 && tau <= 1) {
		return errs.New("polyak", errs.InvalidArgument,
			"tau must be in (0, 1] \n\thave(%v)", tau)
	}
	if len(dest) != len(source) {
		return errs.New("polyak", errs.InvalidArgument,
			"mismatched number of parameters \n\twant(%v) \n\thave(%v)",
			len(dest), len(source))
	}
	for i := range dest {
		if len(dest[i]) != len(source[i]) {
			return errs.New("polyak", errs.InvalidArgument,
				"parameter %v has mismatched size \n\twant(%v) \n\thave(%v)",
				i, len(dest[i]), len(source[i]))
		}
	}

	if tau == 1 {
		for i := range dest {
			copy(dest[i], source[i])
		}
		return nil
	}

	for i := range dest {
		d, s := dest[i], source[i]
		for j := range d {
			d[j] = tau*s[j] + (1-tau)*d[j]
		}
	}
	return nil
}
