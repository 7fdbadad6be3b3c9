package learn

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// OLS is ordinary least squares with an intercept.
type OLS struct{}

// NewOLS returns an OLS regressor.
func NewOLS() *OLS { return &OLS{} }

type line struct {
	slope     float64
	intercept float64
}

func (l line) Predict(x float64) float64 { return l.intercept + l.slope*x }

func (l line) Coefficients() (float64, float64) { return l.slope, l.intercept }

// Fit returns the least squares line. A constant x has no slope, so the
// line is flat at mean(y).
func (*OLS) Fit(x, y []float64) (RegressionModel, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: regression needs at least one sample", ErrTooFewSamples)
	}
	if constant(x) {
		return line{intercept: stat.Mean(y, nil)}, nil
	}
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return line{slope: beta, intercept: alpha}, nil
}

func constant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}
