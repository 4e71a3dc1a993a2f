// Package cube implements the 3x3x3 Rubik's cube as a permutation
// puzzle environment.
//
// A cube state is 20 bytes: 8 corner cubies followed by 12 side cubies.
// Each byte encodes a cubie's position and orientation as a single
// value in [0, 24), so the one-hot encoding of a state has 20 * 24
// features. The action space consists of the 12 quarter turns; action
// a and action (a + 6) % 12 undo each other.
package cube

import (
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/speedcube/environment"
)

const (
	// Name is the id the cube is registered under
	Name = "cube"

	// Corners is the number of corner cubies in a state
	Corners = 8

	// Sides is the number of side cubies in a state
	Sides = 12

	// Width is the number of bytes in a state
	Width = Corners + Sides

	// Values is the number of values a single cubie can take
	Values = 24

	// Actions is the size of the action space
	Actions = 12
)

// Maps from a corner value to its new value under each action
var cornerMaps = [Actions][Values]uint8{
	{9, 11, 10, 0, 2, 1, 3, 5, 4, 6, 8, 7, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23},
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 15, 17, 16, 18, 20, 19, 21, 23, 22, 12, 14, 13},
	{14, 13, 12, 3, 4, 5, 6, 7, 8, 2, 1, 0, 23, 22, 21, 15, 16, 17, 18, 19, 20, 11, 10, 9},
	{0, 1, 2, 8, 7, 6, 20, 19, 18, 9, 10, 11, 12, 13, 14, 5, 4, 3, 17, 16, 15, 21, 22, 23},
	{4, 3, 5, 16, 15, 17, 6, 7, 8, 9, 10, 11, 1, 0, 2, 13, 12, 14, 18, 19, 20, 21, 22, 23},
	{0, 1, 2, 3, 4, 5, 10, 9, 11, 22, 21, 23, 12, 13, 14, 15, 16, 17, 7, 6, 8, 19, 18, 20},
	{3, 5, 4, 6, 8, 7, 9, 11, 10, 0, 2, 1, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23},
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 21, 23, 22, 12, 14, 13, 15, 17, 16, 18, 20, 19},
	{11, 10, 9, 3, 4, 5, 6, 7, 8, 23, 22, 21, 2, 1, 0, 15, 16, 17, 18, 19, 20, 14, 13, 12},
	{0, 1, 2, 17, 16, 15, 5, 4, 3, 9, 10, 11, 12, 13, 14, 20, 19, 18, 8, 7, 6, 21, 22, 23},
	{13, 12, 14, 1, 0, 2, 6, 7, 8, 9, 10, 11, 16, 15, 17, 4, 3, 5, 18, 19, 20, 21, 22, 23},
	{0, 1, 2, 3, 4, 5, 19, 18, 20, 7, 6, 8, 12, 13, 14, 15, 16, 17, 22, 21, 23, 10, 9, 11},
}

// Maps from a side value to its new value under each action
var sideMaps = [Actions][Values]uint8{
	{6, 7, 0, 1, 2, 3, 4, 5, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23},
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 18, 19, 20, 21, 22, 23, 16, 17},
	{9, 8, 2, 3, 4, 5, 6, 7, 17, 16, 10, 11, 12, 13, 1, 0, 15, 14, 18, 19, 20, 21, 22, 23},
	{0, 1, 2, 3, 13, 12, 6, 7, 8, 9, 5, 4, 21, 20, 14, 15, 16, 17, 18, 19, 11, 10, 22, 23},
	{0, 1, 10, 11, 4, 5, 6, 7, 2, 3, 18, 19, 12, 13, 14, 15, 16, 17, 8, 9, 20, 21, 22, 23},
	{0, 1, 2, 3, 4, 5, 14, 15, 8, 9, 10, 11, 6, 7, 22, 23, 16, 17, 18, 19, 20, 21, 12, 13},
	{2, 3, 4, 5, 6, 7, 0, 1, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23},
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 22, 23, 16, 17, 18, 19, 20, 21},
	{15, 14, 2, 3, 4, 5, 6, 7, 1, 0, 10, 11, 12, 13, 17, 16, 9, 8, 18, 19, 20, 21, 22, 23},
	{0, 1, 2, 3, 11, 10, 6, 7, 8, 9, 21, 20, 5, 4, 14, 15, 16, 17, 18, 19, 13, 12, 22, 23},
	{0, 1, 8, 9, 4, 5, 6, 7, 18, 19, 2, 3, 12, 13, 14, 15, 16, 17, 10, 11, 20, 21, 22, 23},
	{0, 1, 2, 3, 4, 5, 12, 13, 8, 9, 10, 11, 22, 23, 6, 7, 16, 17, 18, 19, 20, 21, 14, 15},
}

// solved is the solved cube state
var solved = [Width]uint8{
	0, 3, 6, 9, 12, 15, 18, 21,
	0, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22,
}

// Cube implements the 3x3x3 Rubik's cube environment
type Cube struct{}

// New returns a new Cube environment
func New() *Cube {
	return &Cube{}
}

// Name returns the id the cube is registered under
func (c *Cube) Name() string {
	return Name
}

// StateWidth returns the number of bytes in a cube state
func (c *Cube) StateWidth() int {
	return Width
}

// OneHotSize returns the number of features in a one-hot encoded state
func (c *Cube) OneHotSize() int {
	return Width * Values
}

// NumActions returns the number of quarter turns
func (c *Cube) NumActions() int {
	return Actions
}

// Solved returns a batch holding the solved state
func (c *Cube) Solved() *environment.States {
	states := environment.NewStates(1, Width)
	copy(states.Row(0), solved[:])
	return states
}

// Inverse returns the action which undoes action
func Inverse(action int) int {
	return (action + Actions/2) % Actions
}

// Act applies action to state in place
func (c *Cube) Act(state []uint8, action int) {
	act(state, action)
}

func act(state []uint8, action int) {
	cmap := &cornerMaps[action]
	smap := &sideMaps[action]
	for j := 0; j < Corners; j++ {
		state[j] = cmap[state[j]]
	}
	for j := Corners; j < Width; j++ {
		state[j] = smap[state[j]]
	}
}

// Neighbours returns the Actions neighbours of each state, ordered
// state-major
func (c *Cube) Neighbours(states *environment.States) *environment.States {
	out := states.Repeat(Actions)
	for i := 0; i < states.Len(); i++ {
		for a := 0; a < Actions; a++ {
			act(out.Row(i*Actions+a), a)
		}
	}
	return out
}

// MultipleOneHot returns the one-hot encodings of states as a matrix
// with one row per state
func (c *Cube) MultipleOneHot(states *environment.States) *tensor.Dense {
	n := states.Len()
	size := c.OneHotSize()
	oh := make([]float64, n*size)
	for i := 0; i < n; i++ {
		row := states.Row(i)
		offset := i * size
		for j, value := range row {
			oh[offset+j*Values+int(value)] = 1.0
		}
	}
	return tensor.New(tensor.WithShape(n, size), tensor.WithBacking(oh))
}

// MultipleIsSolved returns whether each state is the solved state
func (c *Cube) MultipleIsSolved(states *environment.States) []bool {
	isSolved := make([]bool, states.Len())
	for i := range isSolved {
		isSolved[i] = isSolvedState(states.Row(i))
	}
	return isSolved
}

func isSolvedState(state []uint8) bool {
	for j, value := range state {
		if value != solved[j] {
			return false
		}
	}
	return true
}
