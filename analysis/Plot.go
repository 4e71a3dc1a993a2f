package analysis

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/speedcube/utils/errs"
)

// PlotFile is the name of the scatter plot saved by the correlation
// analysis
const PlotFile = "value-correlations.png"

// Plot dimensions in pixels
const (
	plotSize   = 800
	plotMargin = 80
	pointSize  = 2.5
)

// ScatterPlot saves a PNG scatter plot of y against x at path. Both
// axes share the same scale and a grid is drawn at evenly spaced ticks.
func ScatterPlot(path string, x, y []float64, xLabel, yLabel string) error {
	if len(x) != len(y) || len(x) == 0 {
		return errs.New("scatterplot", errs.InvalidArgument,
			"invalid number of points \n\twant(%v) \n\thave(%v)", len(x),
			len(y))
	}

	// Equal aspect: both axes span the same data range
	lo := math.Min(floats.Min(x), floats.Min(y))
	hi := math.Max(floats.Max(x), floats.Max(y))
	if hi == lo {
		lo, hi = lo-1, hi+1
	}
	step := tickStep(hi - lo)
	lo = math.Floor(lo/step) * step
	hi = math.Ceil(hi/step) * step

	size := float64(plotSize)
	margin := float64(plotMargin)
	scale := (size - 2*margin) / (hi - lo)
	px := func(v float64) float64 { return margin + (v-lo)*scale }
	py := func(v float64) float64 { return size - margin - (v-lo)*scale }

	dc := gg.NewContext(plotSize, plotSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Grid and tick labels
	dc.SetRGB(0.85, 0.85, 0.85)
	dc.SetLineWidth(1)
	for v := lo; v <= hi+step/2; v += step {
		dc.DrawLine(px(v), py(lo), px(v), py(hi))
		dc.DrawLine(px(lo), py(v), px(hi), py(v))
	}
	dc.Stroke()

	dc.SetRGB(0, 0, 0)
	for v := lo; v <= hi+step/2; v += step {
		label := fmt.Sprintf("%.4g", v)
		dc.DrawStringAnchored(label, px(v), py(lo)+8, 0.5, 1)
		dc.DrawStringAnchored(label, px(lo)-8, py(v), 1, 0.5)
	}

	// Axes
	dc.SetLineWidth(1.5)
	dc.DrawRectangle(px(lo), py(hi), px(hi)-px(lo), py(lo)-py(hi))
	dc.Stroke()

	// Axis labels
	dc.DrawStringAnchored(xLabel, size/2, size-margin/4, 0.5, 0)
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), margin/4, size/2)
	dc.DrawStringAnchored(yLabel, margin/4, size/2, 0.5, 1)
	dc.Pop()

	// Points
	dc.SetRGBA(0.12, 0.47, 0.71, 0.6)
	for i := range x {
		dc.DrawCircle(px(x[i]), py(y[i]), pointSize)
		dc.Fill()
	}

	if err := dc.SavePNG(path); err != nil {
		return errs.Wrap("scatterplot", errs.PersistenceFailure, err)
	}
	return nil
}

// tickStep returns a grid spacing of 1, 2, or 5 times a power of ten
// giving between 4 and 10 ticks over span
func tickStep(span float64) float64 {
	raw := span / 5
	magnitude := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5} {
		if m*magnitude >= raw {
			return m * magnitude
		}
	}
	return 10 * magnitude
}
