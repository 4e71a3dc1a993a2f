package environment

import (
	"bytes"
	"fmt"
)

// States is a contiguous batch of puzzle states. Row i of the batch
// occupies data[i*width : (i+1)*width].
//
// A States is immutable once it has been returned to a caller. Slices
// of a States share its backing buffer.
type States struct {
	data  []uint8
	width int
}

// NewStates returns a zeroed batch of n states, each width bytes wide
func NewStates(n, width int) *States {
	return &States{data: make([]uint8, n*width), width: width}
}

// NewStatesFrom wraps data as a batch of states width bytes wide. The
// data is not copied.
func NewStatesFrom(data []uint8, width int) (*States, error) {
	if width <= 0 {
		return nil, fmt.Errorf("newstatesfrom: width must be positive "+
			"\n\twant(>0) \n\thave(%v)", width)
	}
	if len(data)%width != 0 {
		return nil, fmt.Errorf("newstatesfrom: data of length %v cannot "+
			"be split into rows of width %v", len(data), width)
	}
	return &States{data: data, width: width}, nil
}

// Len returns the number of states in the batch
func (s *States) Len() int {
	return len(s.data) / s.width
}

// Width returns the number of bytes in a single state
func (s *States) Width() int {
	return s.width
}

// Shape returns the shape of the batch, (Len(), Width())
func (s *States) Shape() []int {
	return []int{s.Len(), s.width}
}

// Bytes returns the size of the batch's backing buffer in bytes
func (s *States) Bytes() int {
	return len(s.data)
}

// Data returns the backing buffer of the batch. The returned slice
// must not be modified.
func (s *States) Data() []uint8 {
	return s.data
}

// Row returns state i. The returned slice shares the batch's buffer
// and must not be modified.
func (s *States) Row(i int) []uint8 {
	return s.data[i*s.width : (i+1)*s.width]
}

// Slice returns the states in rows [i, j) as a new batch sharing the
// backing buffer
func (s *States) Slice(i, j int) *States {
	if i < 0 || j > s.Len() || i > j {
		panic(fmt.Sprintf("slice: invalid bounds [%v, %v) for %v states",
			i, j, s.Len()))
	}
	return &States{data: s.data[i*s.width : j*s.width : j*s.width],
		width: s.width}
}

// Repeat returns a new batch with every state of s repeated n times
// consecutively
func (s *States) Repeat(n int) *States {
	out := NewStates(s.Len()*n, s.width)
	for i := 0; i < s.Len(); i++ {
		row := s.Row(i)
		for k := 0; k < n; k++ {
			copy(out.Row(i*n+k), row)
		}
	}
	return out
}

// Clone returns a deep copy of the batch
func (s *States) Clone() *States {
	data := make([]uint8, len(s.data))
	copy(data, s.data)
	return &States{data: data, width: s.width}
}

// Equal returns whether two batches hold the same states in the same
// order
func (s *States) Equal(other *States) bool {
	return s.width == other.width && bytes.Equal(s.data, other.data)
}
