package insights

import (
	"time"

	"github.com/okian/emsanalytics/internal/domain/learn"
	"github.com/okian/emsanalytics/pkg/logger"
)

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithRegressor sets the salary-on-experience model.
func WithRegressor(r learn.Regressor) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.regressor = r
		}
	}
}

// WithClusterer sets the segmentation model.
func WithClusterer(c learn.Clusterer) Option {
	return func(a *Analyzer) {
		if c != nil {
			a.clusterer = c
		}
	}
}

// WithRegressionMode selects ModeSplit or ModeFull. Unknown modes are ignored.
func WithRegressionMode(mode string) Option {
	return func(a *Analyzer) {
		if mode == ModeSplit || mode == ModeFull {
			a.mode = mode
		}
	}
}

// WithTestFraction sets the hold-out share used in split mode.
func WithTestFraction(f float64) Option {
	return func(a *Analyzer) {
		if f > 0 && f < 1 {
			a.testFraction = f
		}
	}
}

// WithModelSeed sets the train/test split seed.
func WithModelSeed(seed int64) Option {
	return func(a *Analyzer) {
		a.modelSeed = seed
	}
}

// WithMinModelRows sets the fewest usable rows needed to fit models.
func WithMinModelRows(n int) Option {
	return func(a *Analyzer) {
		if n >= 0 {
			a.minRows = n
		}
	}
}

// WithThresholds sets the top performer (exclusive lower) and attrition
// risk (exclusive upper) performance bounds.
func WithThresholds(top, risk int64) Option {
	return func(a *Analyzer) {
		a.topThreshold = top
		a.riskThreshold = risk
	}
}

// WithClock sets the time source of the generated-at stamp.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// WithRunID sets the run identifier generator.
func WithRunID(gen func() string) Option {
	return func(a *Analyzer) {
		if gen != nil {
			a.runID = gen
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}
