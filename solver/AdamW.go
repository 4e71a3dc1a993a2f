package solver

import (
	"fmt"
	"math"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/speedcube/utils/errs"
)

// AdamWConfig describes a configuration of the AdamW solver
type AdamWConfig struct {
	StepSize    float64
	Epsilon     float64 // Smoothing factor
	Beta1       float64
	Beta2       float64
	WeightDecay float64
}

// NewDefaultAdamW returns a new AdamW Solver with default
// hyperparameters
func NewDefaultAdamW(stepSize float64) (*Solver, error) {
	return NewAdamW(stepSize, 1e-8, 0.9, 0.999, 0.01)
}

// NewAdamW returns a new AdamW Solver
func NewAdamW(stepSize, epsilon, beta1, beta2, weightDecay float64) (*Solver,
	error) {
	adamW := AdamWConfig{
		StepSize:    stepSize,
		Epsilon:     epsilon,
		Beta1:       beta1,
		Beta2:       beta2,
		WeightDecay: weightDecay,
	}

	return newSolver(AdamW, adamW)
}

// Create returns a new AdamW solver as described by the AdamWConfig
func (a AdamWConfig) Create() G.Solver {
	return &adamW{config: a, lr: a.StepSize}
}

// ValidType returns if the given Solver type is a valid type to be
// created with this config.
func (a AdamWConfig) ValidType(t Type) bool {
	return t == AdamW
}

// adamW implements Adam with decoupled weight decay. Before each Adam
// update, every parameter θ is decayed as θ ← θ(1 - ηλ).
//
// Moment estimates are stored by the position of a node in the model
// passed to Step, so the same model must be passed on every step.
type adamW struct {
	config AdamWConfig
	lr     float64
	t      int
	m, v   [][]float64
}

// LearnRate returns the current learning rate
func (a *adamW) LearnRate() float64 {
	return a.lr
}

// SetLearnRate sets the learning rate used on subsequent steps
func (a *adamW) SetLearnRate(lr float64) {
	a.lr = lr
}

// Step takes a single gradient step, updating the values of the model
// in place
func (a *adamW) Step(model []G.ValueGrad) error {
	params := make([][]float64, len(model))
	grads := make([][]float64, len(model))
	for i, n := range model {
		var err error
		if params[i], grads[i], err = extract(n); err != nil {
			return fmt.Errorf("step: node %v: %v", i, err)
		}
		for _, g := range grads[i] {
			if math.IsNaN(g) || math.IsInf(g, 0) {
				return errs.New("step", errs.NumericalDivergence,
					"non-finite gradient for node %v", i)
			}
		}
	}

	// Lazy instantiation of moment estimates
	if a.m == nil {
		a.m = make([][]float64, len(model))
		a.v = make([][]float64, len(model))
		for i := range params {
			a.m[i] = make([]float64, len(params[i]))
			a.v[i] = make([]float64, len(params[i]))
		}
	} else if len(a.m) != len(model) {
		return errs.New("step", errs.InvalidArgument,
			"model size changed between steps \n\twant(%v) \n\thave(%v)",
			len(a.m), len(model))
	}

	a.t++
	beta1, beta2 := a.config.Beta1, a.config.Beta2
	bc1 := 1.0 - math.Pow(beta1, float64(a.t))
	bc2 := 1.0 - math.Pow(beta2, float64(a.t))
	decay := 1.0 - a.lr*a.config.WeightDecay

	for i := range params {
		p, g, m, v := params[i], grads[i], a.m[i], a.v[i]
		if len(m) != len(p) {
			return errs.New("step", errs.InvalidArgument,
				"node %v changed size \n\twant(%v) \n\thave(%v)", i,
				len(m), len(p))
		}

		for j := range p {
			p[j] *= decay

			m[j] = beta1*m[j] + (1-beta1)*g[j]
			v[j] = beta2*v[j] + (1-beta2)*g[j]*g[j]

			mHat := m[j] / bc1
			vHat := v[j] / bc2
			p[j] -= a.lr * mHat / (math.Sqrt(vHat) + a.config.Epsilon)
		}
	}

	return nil
}

// extract returns the backing value and gradient data of a node
func extract(n G.ValueGrad) ([]float64, []float64, error) {
	grad, err := n.Grad()
	if err != nil {
		return nil, nil, err
	}

	value, ok := n.Value().(*tensor.Dense)
	if !ok {
		return nil, nil, fmt.Errorf("expected value to be *tensor.Dense "+
			"but got %T", n.Value())
	}
	gradDense, ok := grad.(*tensor.Dense)
	if !ok {
		return nil, nil, fmt.Errorf("expected gradient to be "+
			"*tensor.Dense but got %T", grad)
	}

	params, ok := value.Data().([]float64)
	if !ok {
		return nil, nil, fmt.Errorf("expected float64 value but got %v",
			value.Dtype())
	}
	grads, ok := gradDense.Data().([]float64)
	if !ok {
		return nil, nil, fmt.Errorf("expected float64 gradient but got %v",
			gradDense.Dtype())
	}
	if len(params) != len(grads) {
		return nil, nil, fmt.Errorf("value and gradient sizes differ: "+
			"%v != %v", len(params), len(grads))
	}
	return params, grads, nil
}
