package environment

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/speedcube/utils/errs"
)

// Scramble returns count states, each produced by taking a uniformly
// random number of uniformly random actions in the solved state. The
// number of actions for each state is drawn independently from
// {0, 1, ..., maxDepth}, so a batch mixes easy and hard states.
//
// A maxDepth of 0 returns count copies of the solved state.
func Scramble(env Environment, count, maxDepth int,
	rng *rand.Rand) (*States, error) {
	if count <= 0 {
		return nil, errs.New("scramble", errs.InvalidArgument,
			"count must be positive \n\twant(>0) \n\thave(%v)", count)
	}
	if maxDepth < 0 {
		return nil, errs.New("scramble", errs.InvalidArgument,
			"scramble depth must be non-negative \n\twant(>=0) \n\thave(%v)",
			maxDepth)
	}

	states := env.Solved().Repeat(count)
	depths := make([]int, count)
	for i := range depths {
		depths[i] = rng.Intn(maxDepth + 1)
	}

	// Apply one layer of actions at a time to every state that still
	// needs more
	numActions := env.NumActions()
	for k := 1; k <= maxDepth; k++ {
		for i, depth := range depths {
			if depth >= k {
				env.Act(states.Row(i), rng.Intn(numActions))
			}
		}
	}

	return states, nil
}

// Scrambler samples batches of scrambled states from an Environment
// with a fixed maximum scramble depth
type Scrambler struct {
	env      Environment
	maxDepth int
	seed     uint64
	rng      *rand.Rand
}

// NewScrambler returns a new Scrambler drawing states of depth at most
// maxDepth
func NewScrambler(env Environment, maxDepth int,
	seed uint64) (*Scrambler, error) {
	if maxDepth < 0 {
		return nil, errs.New("newscrambler", errs.InvalidArgument,
			"scramble depth must be non-negative \n\twant(>=0) \n\thave(%v)",
			maxDepth)
	}
	return &Scrambler{
		env:      env,
		maxDepth: maxDepth,
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

// Generate returns count new scrambled states
func (s *Scrambler) Generate(count int) (*States, error) {
	return Scramble(s.env, count, s.maxDepth, s.rng)
}

// MaxDepth returns the maximum scramble depth
func (s *Scrambler) MaxDepth() int {
	return s.maxDepth
}
