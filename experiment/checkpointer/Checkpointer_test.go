package checkpointer

import (
	"os"
	"path/filepath"
	"testing"

	ts "github.com/samuelfneumann/speedcube/timestep"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

func TestFilenameEnumerator(t *testing.T) {
	next := FilenameEnumerator(0, "model-", ".gob")
	for _, want := range []string{"model-1.gob", "model-2.gob"} {
		if have := next(); have != want {
			t.Errorf("filename \n\twant(%v) \n\thave(%v)", want, have)
		}
	}
}

func TestNStep(t *testing.T) {
	root := t.TempDir()
	var saved []string
	object := SaverFunc(func(dir string) error {
		saved = append(saved, dir)
		return nil
	})

	c, err := NewNStep(2, object, DirEnumerator(root, "checkpoint"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 5; i++ {
		if err := c.Checkpoint(ts.TimeStep{Number: i}); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{
		filepath.Join(root, "checkpoint-1"),
		filepath.Join(root, "checkpoint-2"),
	}
	if len(saved) != len(want) {
		t.Fatalf("checkpoints \n\twant(%v) \n\thave(%v)", want, saved)
	}
	for i := range want {
		if saved[i] != want[i] {
			t.Errorf("checkpoint %v \n\twant(%v) \n\thave(%v)", i, want[i],
				saved[i])
		}
		if info, err := os.Stat(saved[i]); err != nil || !info.IsDir() {
			t.Errorf("checkpoint directory %v not created: %v", saved[i], err)
		}
	}
}

func TestNStepInvalid(t *testing.T) {
	_, err := NewNStep(0, SaverFunc(func(string) error { return nil }),
		DirEnumerator("", "checkpoint"))
	if !errs.IsInvalidArgument(err) {
		t.Errorf("zero interval \n\twant(%v) \n\thave(%v)",
			errs.InvalidArgument, err)
	}
}
