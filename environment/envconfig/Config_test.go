package envconfig

import (
	"testing"

	"github.com/samuelfneumann/speedcube/utils/errs"
)

func TestCreate(t *testing.T) {
	e, err := Create("cube")
	if err != nil {
		t.Fatal(err)
	}
	if e.Name() != "cube" {
		t.Errorf("create: \n\twant(cube) \n\thave(%v)", e.Name())
	}
	if e.OneHotSize() != 480 || e.NumActions() != 12 {
		t.Errorf("create: cube has one-hot size %v and %v actions",
			e.OneHotSize(), e.NumActions())
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("megaminx"); !errs.IsInvalidArgument(err) {
		t.Errorf("create: want invalid argument error, have %v", err)
	}
}
