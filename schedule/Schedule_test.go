package schedule

import (
	"math"
	"testing"

	"github.com/samuelfneumann/speedcube/utils/errs"
)

func TestCosineWarmRestarts(t *testing.T) {
	base := 0.1
	c, err := NewCosineWarmRestarts(base, 0, DefaultT0)
	if err != nil {
		t.Fatal(err)
	}

	if lr := c.LearnRate(); lr != base {
		t.Errorf("initial learning rate \n\twant(%v) \n\thave(%v)", base, lr)
	}

	prev := c.LearnRate()
	for i := 1; i < DefaultT0; i++ {
		lr := c.Step()
		if lr >= prev {
			t.Fatalf("step %v: learning rate did not decrease \n\twant(<%v)"+
				" \n\thave(%v)", i, prev, lr)
		}
		if i == DefaultT0/2 && math.Abs(lr-base/2) > 1e-12 {
			t.Errorf("half period \n\twant(%v) \n\thave(%v)", base/2, lr)
		}
		prev = lr
	}

	// Restart
	if lr := c.Step(); lr != base {
		t.Errorf("restart \n\twant(%v) \n\thave(%v)", base, lr)
	}
}

func TestCosineWarmRestartsEtaMin(t *testing.T) {
	c, err := NewCosineWarmRestarts(1.0, 0.5, 2)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{0.75, 1.0, 0.75, 1.0}
	for i, w := range want {
		if lr := c.Step(); math.Abs(lr-w) > 1e-12 {
			t.Errorf("step %v \n\twant(%v) \n\thave(%v)", i+1, w, lr)
		}
	}
}

func TestCosineWarmRestartsInvalid(t *testing.T) {
	invalid := []struct {
		base, etaMin float64
		t0           int
	}{
		{0.1, 0, 0},
		{0, 0, 100},
		{0.1, -0.1, 100},
		{0.1, 0.2, 100},
	}
	for _, test := range invalid {
		_, err := NewCosineWarmRestarts(test.base, test.etaMin, test.t0)
		if !errs.IsInvalidArgument(err) {
			t.Errorf("%+v \n\twant(%v) \n\thave(%v)", test,
				errs.InvalidArgument, err)
		}
	}
}
