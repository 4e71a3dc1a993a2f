package adi

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/speedcube/agent"
	"github.com/samuelfneumann/speedcube/environment"
	"github.com/samuelfneumann/speedcube/environment/cube"
	"github.com/samuelfneumann/speedcube/initwfn"
	"github.com/samuelfneumann/speedcube/network"
	"github.com/samuelfneumann/speedcube/network/generator"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

var _ agent.Diagnoser = &Ensemble{}

const initValue = 0.01

func modelConfig(env environment.Environment) network.Config {
	c := network.NewConfig(env.OneHotSize(), []int{8}, 1, 4, 0)
	c.InitWFn = initwfn.NewConstant(initValue)
	return c
}

func scrambled(t *testing.T, env environment.Environment, n int,
	seed uint64) *environment.States {
	states, err := environment.Scramble(env, n, 3, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatal(err)
	}
	return states
}

func TestTargets(t *testing.T) {
	estimates := []float64{
		3, 1, 2,
		5, 5, 5,
		0, 4, 0,
	}
	want := []float64{2, 6, 1}

	have, err := Targets(estimates, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if have[i] != want[i] {
			t.Errorf("target %v \n\twant(%v) \n\thave(%v)", i, want[i],
				have[i])
		}
	}
}

func TestTargetsInvalid(t *testing.T) {
	if _, err := Targets([]float64{1, 2, 3}, 2); !errs.IsInvalidArgument(err) {
		t.Errorf("uneven estimates \n\twant(%v) \n\thave(%v)",
			errs.InvalidArgument, err)
	}
	if _, err := Targets([]float64{1, 2}, 0); !errs.IsInvalidArgument(err) {
		t.Errorf("no actions \n\twant(%v) \n\thave(%v)",
			errs.InvalidArgument, err)
	}
	if _, err := Targets(nil, 12); !errs.IsInvalidArgument(err) {
		t.Errorf("no estimates \n\twant(%v) \n\thave(%v)",
			errs.InvalidArgument, err)
	}
}

func TestZeroSolved(t *testing.T) {
	estimates := []float64{3, 1, 2, 5}
	solved := []bool{false, true, false, true}

	if err := ZeroSolved(estimates, solved); err != nil {
		t.Fatal(err)
	}
	want := []float64{3, 0, 2, 0}
	for i := range want {
		if estimates[i] != want[i] {
			t.Errorf("estimate %v \n\twant(%v) \n\thave(%v)", i, want[i],
				estimates[i])
		}
	}

	// Idempotent
	if err := ZeroSolved(estimates, solved); err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if estimates[i] != want[i] {
			t.Errorf("estimate %v after second pass \n\twant(%v) \n\thave(%v)",
				i, want[i], estimates[i])
		}
	}

	// A solved neighbour gives a target of exactly 1
	targets, err := Targets([]float64{3, 0, 2, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i, target := range targets {
		if target != 1 {
			t.Errorf("target %v \n\twant(1) \n\thave(%v)", i, target)
		}
	}

	if err := ZeroSolved(estimates, solved[:2]); !errs.IsInvalidArgument(err) {
		t.Errorf("mismatched lengths \n\twant(%v) \n\thave(%v)",
			errs.InvalidArgument, err)
	}
}

func TestEnsembleStep(t *testing.T) {
	env := cube.New()
	c := NewConfig(2, 4, 1e-3, 0.5)

	e, err := New(env, modelConfig(env), c)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	losses, lr, err := e.Step(scrambled(t, env, 8, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(losses) != 2 {
		t.Fatalf("number of losses \n\twant(2) \n\thave(%v)", len(losses))
	}
	for i, loss := range losses {
		if math.IsNaN(loss) || loss < 0 {
			t.Errorf("loss %v \n\twant(>=0) \n\thave(%v)", i, loss)
		}
	}
	if lr != c.LearnRate {
		t.Errorf("learning rate of first step \n\twant(%v) \n\thave(%v)",
			c.LearnRate, lr)
	}

	want := c.LearnRate * (1 + math.Cos(math.Pi/float64(c.RestartPeriod))) / 2
	have, err := e.Member(0).LearnRate()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(have-want) > 1e-15 {
		t.Errorf("scheduled learning rate \n\twant(%v) \n\thave(%v)", want,
			have)
	}
}

// Members of an ensemble train exactly as they would alone
func TestEnsembleIndependence(t *testing.T) {
	env := cube.New()
	states := scrambled(t, env, 8, 2)

	e, err := New(env, modelConfig(env), NewConfig(2, 4, 1e-3, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	var ensembleLosses [][]float64
	for step := 0; step < 3; step++ {
		losses, _, err := e.Step(states)
		if err != nil {
			t.Fatal(err)
		}
		ensembleLosses = append(ensembleLosses, losses)
	}

	for i := 0; i < 2; i++ {
		single, err := New(env, modelConfig(env), NewConfig(1, 4, 1e-3, 0.5))
		if err != nil {
			t.Fatal(err)
		}
		batch := states.Slice(i*4, (i+1)*4)

		for step := 0; step < 3; step++ {
			losses, _, err := single.Step(batch)
			if err != nil {
				t.Fatal(err)
			}
			if losses[0] != ensembleLosses[step][i] {
				t.Errorf("model %v step %v \n\twant(%v) \n\thave(%v)", i,
					step, losses[0], ensembleLosses[step][i])
			}
		}
		single.Close()
	}
}

func TestMemberStepIsolated(t *testing.T) {
	env := cube.New()
	e, err := New(env, modelConfig(env), NewConfig(2, 4, 1e-3, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	other := e.Member(1)
	wantLR, err := other.LearnRate()
	if err != nil {
		t.Fatal(err)
	}
	var want [][]float64
	for _, p := range append(other.Network().Params(),
		other.Shadow().Params()...) {
		want = append(want, append([]float64(nil), p...))
	}

	if _, _, err := e.Member(0).Step(scrambled(t, env, 4, 5)); err != nil {
		t.Fatal(err)
	}

	if have, _ := other.LearnRate(); have != wantLR {
		t.Errorf("learning rate of untrained member \n\twant(%v) \n\thave(%v)",
			wantLR, have)
	}
	have := append(other.Network().Params(), other.Shadow().Params()...)
	for i := range want {
		for j := range want[i] {
			if want[i][j] != have[i][j] {
				t.Fatalf("param %v[%v] of untrained member \n\twant(%v) "+
					"\n\thave(%v)", i, j, want[i][j], have[i][j])
			}
		}
	}
}

func TestGeneratorTargets(t *testing.T) {
	env := cube.New()
	c := NewConfig(1, 4, 1e-3, 0.25)
	c.TargetNetwork = Generator

	e, err := New(env, modelConfig(env), c)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if _, _, err := e.Step(scrambled(t, env, 4, 3)); err != nil {
		t.Fatal(err)
	}

	// shadow ← τ·live + (1-τ)·shadow, with the shadow starting from the
	// initial weights
	live := e.Member(0).Network().Params()
	shadow := e.Member(0).Shadow().Params()
	for i := range live {
		for j := range live[i] {
			// Biases are initialized to zero
			start := initValue
			if len(live[i]) != len(shadow[i]) {
				t.Fatalf("param %v size mismatch", i)
			}
			if i%2 == 1 {
				start = 0
			}
			want := c.Tau*live[i][j] + (1-c.Tau)*start
			if math.Abs(shadow[i][j]-want) > 1e-12 {
				t.Fatalf("shadow param %v[%v] \n\twant(%v) \n\thave(%v)", i,
					j, want, shadow[i][j])
			}
		}
	}
}

// estimates evaluates a copy of net on input with solved neighbours
// zeroed
func estimates(t *testing.T, net network.NeuralNet, input *tensor.Dense,
	solved []bool) []float64 {
	clone, err := generator.Clone(net, input.Shape()[0])
	if err != nil {
		t.Fatal(err)
	}
	eval := network.NewEvaluator(clone)
	defer eval.Close()

	est, err := eval.Evaluate(input)
	if err != nil {
		t.Fatal(err)
	}
	if err := ZeroSolved(est, solved); err != nil {
		t.Fatal(err)
	}
	return est
}

func maxAbsDiff(x, y []float64) float64 {
	diff := 0.0
	for i := range x {
		diff = math.Max(diff, math.Abs(x[i]-y[i]))
	}
	return diff
}

// Neighbour estimates are produced by the network named in the Config
func TestTargetSource(t *testing.T) {
	env := cube.New()

	for _, source := range []TargetNetwork{Live, Generator} {
		c := NewConfig(1, 4, 1e-3, 0.25)
		c.TargetNetwork = source
		e, err := New(env, modelConfig(env), c)
		if err != nil {
			t.Fatal(err)
		}

		for step := 0; step < 3; step++ {
			if _, _, err := e.Step(scrambled(t, env, 4, uint64(step))); err != nil {
				t.Fatal(err)
			}
		}

		// Weights of both networks before the next step
		states := scrambled(t, env, 4, 10)
		neighbours := env.Neighbours(states)
		input := env.MultipleOneHot(neighbours)
		solved := env.MultipleIsSolved(neighbours)
		fromLive := estimates(t, e.Member(0).Network(), input, solved)
		fromShadow := estimates(t, e.Member(0).Shadow(), input, solved)

		if _, _, err := e.Step(states); err != nil {
			t.Fatal(err)
		}
		have := e.Member(0).Diagnostics().Estimates

		want, other := fromLive, fromShadow
		if source == Generator {
			want, other = fromShadow, fromLive
		}
		if len(have) != len(want) {
			t.Fatalf("%v: number of estimates \n\twant(%v) \n\thave(%v)",
				source, len(want), len(have))
		}
		if diff := maxAbsDiff(have, want); diff > 1e-12 {
			t.Errorf("%v: estimates differ from target network "+
				"\n\twant(0) \n\thave(%v)", source, diff)
		}
		if diff := maxAbsDiff(have, other); diff < 1e-9 {
			t.Errorf("%v: estimates match the wrong network "+
				"\n\twant(>0) \n\thave(%v)", source, diff)
		}
		e.Close()
	}
}

func TestNonFiniteTargets(t *testing.T) {
	env := cube.New()
	c := NewConfig(1, 4, 1e-3, 0.5)
	c.TargetNetwork = Generator

	e, err := New(env, modelConfig(env), c)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	// Output bias of the shadow
	shadow := e.Member(0).Shadow().Params()
	shadow[len(shadow)-1][0] = math.NaN()

	var want [][]float64
	for _, p := range e.Member(0).Network().Params() {
		want = append(want, append([]float64(nil), p...))
	}

	// No neighbour of a solved state is solved, so every estimate is NaN
	states, err := environment.Scramble(env, 4, 0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := e.Step(states); !errs.IsNumericalDivergence(err) {
		t.Fatalf("non-finite targets \n\twant(%v) \n\thave(%v)",
			errs.NumericalDivergence, err)
	}

	have := e.Member(0).Network().Params()
	for i := range want {
		for j := range want[i] {
			if want[i][j] != have[i][j] {
				t.Fatalf("param %v[%v] after divergence \n\twant(%v) "+
					"\n\thave(%v)", i, j, want[i][j], have[i][j])
			}
		}
	}
}

func TestEnsembleInvalid(t *testing.T) {
	env := cube.New()

	e, err := New(env, modelConfig(env), NewConfig(2, 4, 1e-3, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if _, _, err := e.Step(scrambled(t, env, 7, 1)); !errs.IsInvalidArgument(err) {
		t.Errorf("wrong number of states \n\twant(%v) \n\thave(%v)",
			errs.InvalidArgument, err)
	}

	wrongSize := network.NewConfig(10, []int{8}, 0, 0, 0)
	if _, err := New(env, wrongSize, NewConfig(1, 4, 1e-3, 0.5)); !errs.IsInvalidArgument(err) {
		t.Errorf("wrong state size \n\twant(%v) \n\thave(%v)",
			errs.InvalidArgument, err)
	}

	invalid := []Config{
		NewConfig(0, 4, 1e-3, 0.5),
		NewConfig(1, 0, 1e-3, 0.5),
		NewConfig(1, 4, 0, 0.5),
		NewConfig(1, 4, 1e-3, 0),
		NewConfig(1, 4, 1e-3, 1.5),
		{NumModels: 1, BatchSize: 4, LearnRate: 1e-3, Tau: 1,
			TargetNetwork: "other", RestartPeriod: 100},
	}
	for _, c := range invalid {
		if _, err := New(env, modelConfig(env), c); !errs.IsInvalidArgument(err) {
			t.Errorf("config %+v \n\twant(%v) \n\thave(%v)", c,
				errs.InvalidArgument, err)
		}
	}
}
