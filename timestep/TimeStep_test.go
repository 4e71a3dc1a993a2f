package timestep

import (
	"testing"
	"time"
)

func TestTimeStep(t *testing.T) {
	step := New(1, []float64{1, 2, 6}, 0.1, time.Second)

	if !step.First() {
		t.Error("batch 1 not reported as first")
	}
	if have := step.MeanLoss(); have != 3 {
		t.Errorf("mean loss \n\twant(%v) \n\thave(%v)", 3, have)
	}
	if New(2, []float64{1}, 0.1, 0).First() {
		t.Error("batch 2 reported as first")
	}
}
