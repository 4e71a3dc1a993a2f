package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/speedcube/utils/errs"
)

// Correlation returns the Pearson correlation coefficient of x and y
func Correlation(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, errs.New("correlation", errs.InvalidArgument,
			"mismatched lengths \n\twant(%v) \n\thave(%v)", len(x), len(y))
	}
	if len(x) < 2 {
		return 0, errs.New("correlation", errs.InvalidArgument,
			"at least two samples needed \n\thave(%v)", len(x))
	}
	return stat.Correlation(x, y, nil), nil
}
