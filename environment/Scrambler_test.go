package environment_test

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/speedcube/environment"
	"github.com/samuelfneumann/speedcube/environment/cube"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

func TestScrambleDepthZero(t *testing.T) {
	c := cube.New()
	rng := rand.New(rand.NewSource(42))

	states, err := environment.Scramble(c, 100, 0, rng)
	if err != nil {
		t.Fatal(err)
	}
	if states.Len() != 100 {
		t.Fatalf("scramble: invalid number of states \n\twant(100) "+
			"\n\thave(%v)", states.Len())
	}
	for i, solved := range c.MultipleIsSolved(states) {
		if !solved {
			t.Errorf("scramble: state %v is not solved at depth 0", i)
		}
	}
}

func TestScrambleInvalidArguments(t *testing.T) {
	c := cube.New()
	rng := rand.New(rand.NewSource(42))

	for _, test := range []struct{ count, depth int }{
		{0, 10}, {-3, 10}, {10, -1},
	} {
		_, err := environment.Scramble(c, test.count, test.depth, rng)
		if !errs.IsInvalidArgument(err) {
			t.Errorf("scramble(%v, %v): want invalid argument error, have %v",
				test.count, test.depth, err)
		}
	}
}

func TestScrambleMixesDepths(t *testing.T) {
	c := cube.New()
	rng := rand.New(rand.NewSource(5))

	states, err := environment.Scramble(c, 500, 1, rng)
	if err != nil {
		t.Fatal(err)
	}

	// At depth 1, roughly half the states are solved
	numSolved := 0
	for _, solved := range c.MultipleIsSolved(states) {
		if solved {
			numSolved++
		}
	}
	if numSolved == 0 || numSolved == states.Len() {
		t.Errorf("scramble: want a mixture of solved and unsolved states, "+
			"have %v solved of %v", numSolved, states.Len())
	}
}

func TestScrambleDeterministic(t *testing.T) {
	c := cube.New()

	s1, err := environment.NewScrambler(c, 25, 1234)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := environment.NewScrambler(c, 25, 1234)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := s1.Generate(64)
	b, _ := s2.Generate(64)
	if !a.Equal(b) {
		t.Error("scrambler: equal seeds produced different states")
	}
}

func TestStatesSlice(t *testing.T) {
	data := []uint8{0, 1, 2, 3, 4, 5, 6, 7, 8}
	states, err := environment.NewStatesFrom(data, 3)
	if err != nil {
		t.Fatal(err)
	}

	s := states.Slice(1, 3)
	if s.Len() != 2 || s.Row(0)[0] != 3 || s.Row(1)[2] != 8 {
		t.Errorf("slice: invalid rows %v", s.Data())
	}
	if s.Bytes() != 6 {
		t.Errorf("bytes \n\twant(6) \n\thave(%v)", s.Bytes())
	}

	if _, err := environment.NewStatesFrom(data, 4); err == nil {
		t.Error("newstatesfrom: want error for ragged data")
	}
}
