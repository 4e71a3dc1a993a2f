// Package environment outlines the interfaces and structs needed to
// implement permutation puzzle environments, and generates scrambled
// training states from them.
package environment

import (
	"gorgonia.org/tensor"
)

// Environment implements a permutation puzzle. States are fixed-width
// byte rows; every well-formed state is reachable from the solved state
// by a finite sequence of actions.
//
// Apart from Act, which builds new states in place, no method of an
// Environment mutates its arguments.
type Environment interface {
	// Name returns the id the environment is registered under
	Name() string

	// StateWidth returns the number of bytes in a single state
	StateWidth() int

	// OneHotSize returns the number of features in the one-hot
	// encoding of a single state
	OneHotSize() int

	// NumActions returns the size of the action space
	NumActions() int

	// Solved returns a batch holding only the solved state
	Solved() *States

	// Act applies action to a single state row in place. It is used
	// while constructing new states and must never be called on a
	// States batch that has already been handed out.
	Act(state []uint8, action int)

	// Neighbours returns the states reached by taking every action in
	// every state. The result is ordered state-major:
	// [s0a0, s0a1, ..., s0aA-1, s1a0, ...].
	Neighbours(states *States) *States

	// MultipleOneHot returns the one-hot encodings of states as a
	// matrix of shape (states.Len(), OneHotSize())
	MultipleOneHot(states *States) *tensor.Dense

	// MultipleIsSolved returns whether each state is solved
	MultipleIsSolved(states *States) []bool
}
