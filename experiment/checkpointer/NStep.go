package checkpointer

import (
	"fmt"
	"os"

	ts "github.com/samuelfneumann/speedcube/timestep"
	"github.com/samuelfneumann/speedcube/utils/errs"
)

// nStep implements checkpointing every N batches
type nStep struct {
	interval int
	object   Saver // Object to save

	// dirname returns the directory to save the object in, which is
	// created before saving.
	//
	// If each checkpoint should be saved in a separate directory with
	// each directory having an incremented number as a suffix (e.g.
	// checkpoint-1, checkpoint-2, ..., checkpoint-K), then simply use
	// the static function DirEnumerator, which will return a function
	// that will enumerate directories.
	dirname func() string
}

// NewNStep returns a checkpointer that checkpoints every n batches.
func NewNStep(n int, object Saver, dirname func() string) (Checkpointer,
	error) {
	if n <= 0 {
		return nil, errs.New("newnstep", errs.InvalidArgument,
			"checkpoint interval must be positive \n\twant(>0) \n\thave(%v)",
			n)
	}
	return &nStep{
		interval: n,
		object:   object,
		dirname:  dirname,
	}, nil
}

// Checkpoint checkpoints the Checkpointer's tracked object by calling
// its Save() method
func (n *nStep) Checkpoint(t ts.TimeStep) error {
	if t.Number%n.interval != 0 {
		return nil
	}

	dir := n.dirname()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap("checkpoint", errs.PersistenceFailure, err)
	}
	if err := n.object.Save(dir); err != nil {
		return fmt.Errorf("checkpoint: batch %v: %w", t.Number, err)
	}
	return nil
}
