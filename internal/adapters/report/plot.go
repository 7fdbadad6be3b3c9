package report

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/okian/emsanalytics/internal/domain/model"
)

// Plot canvas size.
const (
	plotWidth  = 10 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// RenderPlot draws salary against years of experience as a PNG, with the
// fitted line when the regression ran.
func RenderPlot(r *model.Report) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Salary vs Experience"
	p.X.Label.Text = "Years of Experience"
	p.Y.Label.Text = "Salary"

	points := make(plotter.XYs, 0, r.Table.Len())
	for _, e := range r.Table.Employees {
		if e.YearsExperience.Valid && e.Salary.Valid {
			points = append(points, plotter.XY{X: float64(e.YearsExperience.Int64), Y: e.Salary.Float64})
		}
	}
	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, SalaryPlotPNG, err)
	}
	p.Add(plotter.NewGrid(), scatter)

	if !r.Regression.Skipped {
		reg := r.Regression
		fit := plotter.NewFunction(func(x float64) float64 { return reg.Intercept + reg.Coefficient*x })
		fit.Width = vg.Points(1)
		p.Add(fit)
	}

	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, SalaryPlotPNG, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, SalaryPlotPNG, err)
	}
	return buf.Bytes(), nil
}
