// Package insights computes the analytics report of a normalized employee
// table: department salary means, performance buckets, a salary regression
// and a salary/performance segmentation.
package insights

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/okian/emsanalytics/internal/domain/learn"
	"github.com/okian/emsanalytics/internal/domain/model"
	"github.com/okian/emsanalytics/internal/domain/types"
	"github.com/okian/emsanalytics/pkg/logger"
)

// Regression modes.
const (
	ModeSplit = "split"
	ModeFull  = "full"
)

// Default analysis configuration constants.
const (
	defaultTopThreshold  = 90
	defaultRiskThreshold = 80
	defaultTestFraction  = 0.2
	defaultModelSeed     = 42
	defaultMinModelRows  = 5
)

// Analyzer builds reports. It holds configuration only; Analyze does not
// mutate the table it is given.
type Analyzer struct {
	regressor     learn.Regressor
	clusterer     learn.Clusterer
	mode          string
	testFraction  float64
	modelSeed     int64
	minRows       int
	topThreshold  int64
	riskThreshold int64
	now           func() time.Time
	runID         func() string
	logger        logger.Logger
}

// NewAnalyzer creates an Analyzer with OLS, 3-means clustering and an 80/20
// hold-out split.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		regressor:     learn.NewOLS(),
		mode:          ModeSplit,
		testFraction:  defaultTestFraction,
		modelSeed:     defaultModelSeed,
		minRows:       defaultMinModelRows,
		topThreshold:  defaultTopThreshold,
		riskThreshold: defaultRiskThreshold,
		now:           time.Now,
		runID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.clusterer == nil {
		a.clusterer = learn.NewKMeans(learn.WithSeed(a.modelSeed))
	}
	return a
}

// Analyze computes the report of t. The report's table is a copy of t with
// segment labels applied when segmentation ran.
func (a *Analyzer) Analyze(ctx context.Context, t *model.Table) (*model.Report, error) {
	if a.logger == nil {
		a.logger = logger.Get()
	}
	if t.Len() == 0 {
		return nil, ErrEmptyTable
	}

	tbl := t.Clone()
	r := &model.Report{
		Run: types.RunInfo{
			ID:          a.runID(),
			GeneratedAt: a.now().UTC(),
			Source:      tbl.Source,
			Rows:        tbl.Len(),
		},
		DepartmentSalaries: DepartmentSalaries(tbl),
		TopPerformers:      TopPerformers(tbl, a.topThreshold),
		AttritionRisk:      AttritionRisk(tbl, a.riskThreshold),
		Table:              tbl,
	}

	usable := usableRows(tbl)
	if len(usable) < a.minRows {
		a.logger.Warn(ctx, "insufficient data for modeling",
			logger.Int("usable_rows", len(usable)),
			logger.Int("min_rows", a.minRows),
		)
		r.Regression = types.Regression{Mode: a.mode, Skipped: true}
		return r, nil
	}

	reg, err := a.regress(tbl, usable)
	if err != nil {
		return nil, err
	}
	r.Regression = reg

	segments, err := a.segment(ctx, tbl, usable)
	if err != nil {
		return nil, err
	}
	r.Segments = segments
	return r, nil
}

// DepartmentSalaries returns the mean salary of every department, sorted by
// department name.
func DepartmentSalaries(t *model.Table) []types.DepartmentSalary {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, e := range t.Employees {
		if !e.Department.Valid || !e.Salary.Valid {
			continue
		}
		sums[e.Department.String] += e.Salary.Float64
		counts[e.Department.String]++
	}

	out := make([]types.DepartmentSalary, 0, len(sums))
	for dep, sum := range sums {
		out = append(out, types.DepartmentSalary{Department: dep, MeanSalary: sum / float64(counts[dep])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

// TopPerformers lists employees scoring strictly above threshold, in table order.
func TopPerformers(t *model.Table, threshold int64) []types.TopPerformer {
	out := []types.TopPerformer{}
	for _, e := range t.Employees {
		if e.PerformanceScore.Valid && e.PerformanceScore.Int64 > threshold {
			out = append(out, types.TopPerformer{Name: e.Name, PerformanceScore: e.PerformanceScore.Int64})
		}
	}
	return out
}

// AttritionRisk lists employees scoring strictly below threshold, in table order.
func AttritionRisk(t *model.Table, threshold int64) []types.AtRiskEmployee {
	out := []types.AtRiskEmployee{}
	for _, e := range t.Employees {
		if e.PerformanceScore.Valid && e.PerformanceScore.Int64 < threshold {
			out = append(out, types.AtRiskEmployee{Name: e.Name, Role: e.Role})
		}
	}
	return out
}

func usableRows(t *model.Table) []int {
	rows := make([]int, 0, t.Len())
	for i := range t.Employees {
		if t.Employees[i].Complete() {
			rows = append(rows, i)
		}
	}
	return rows
}

func (a *Analyzer) regress(t *model.Table, rows []int) (types.Regression, error) {
	x := make([]float64, len(rows))
	y := make([]float64, len(rows))
	for i, row := range rows {
		x[i] = float64(t.Employees[row].YearsExperience.Int64)
		y[i] = t.Employees[row].Salary.Float64
	}

	trainX, trainY, testX, testY := x, y, x, y
	if a.mode == ModeSplit {
		train, test := learn.TrainTestSplit(len(rows), a.testFraction, a.modelSeed)
		trainX, trainY = pick(x, train), pick(y, train)
		testX, testY = pick(x, test), pick(y, test)
	}

	m, err := a.regressor.Fit(trainX, trainY)
	if err != nil {
		return types.Regression{}, fmt.Errorf("%w: regression: %w", ErrModel, err)
	}
	predicted := make([]float64, len(testX))
	for i, v := range testX {
		predicted[i] = m.Predict(v)
	}
	slope, intercept := m.Coefficients()
	return types.Regression{
		Coefficient: slope,
		Intercept:   intercept,
		MSE:         learn.MeanSquaredError(testY, predicted),
		R2:          learn.RSquared(testY, predicted),
		Mode:        a.mode,
		TrainRows:   len(trainX),
		TestRows:    len(testX),
	}, nil
}

func (a *Analyzer) segment(ctx context.Context, t *model.Table, rows []int) ([]types.SegmentAssignment, error) {
	features := make([][]float64, len(rows))
	for i, row := range rows {
		e := t.Employees[row]
		features[i] = []float64{e.Salary.Float64, float64(e.PerformanceScore.Int64)}
	}
	features = learn.Standardize(features)

	m, err := a.clusterer.Fit(features)
	if errors.Is(err, learn.ErrTooFewSamples) {
		a.logger.Warn(ctx, "segmentation skipped", logger.Int("usable_rows", len(rows)), logger.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: segmentation: %w", ErrModel, err)
	}

	out := make([]types.SegmentAssignment, 0, len(rows))
	for i, row := range rows {
		label := m.Predict(features[i])
		t.Employees[row].Segment = label
		out = append(out, types.SegmentAssignment{Name: t.Employees[row].Name, Segment: label})
	}
	t.AddColumn(model.ColumnSegment)
	a.logger.Debug(ctx, "employees segmented", logger.Int("rows", len(out)))
	return out, nil
}

func pick(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}
