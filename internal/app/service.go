// Package service runs one analytics batch: acquire, normalize, analyze,
// summarize and emit, strictly in that order.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/emsanalytics/internal/adapters/report"
	"github.com/okian/emsanalytics/internal/domain/insights"
	"github.com/okian/emsanalytics/internal/domain/model"
	"github.com/okian/emsanalytics/internal/domain/normalize"
	"github.com/okian/emsanalytics/pkg/logger"
	"github.com/okian/emsanalytics/pkg/metrics"
)

// Acquirer loads the raw table from the selected source.
type Acquirer interface {
	Acquire(ctx context.Context) (*model.RawTable, error)
}

// Normalizer repairs a raw table into a complete employee table.
type Normalizer interface {
	Normalize(ctx context.Context, raw *model.RawTable) (*model.Table, normalize.Stats, error)
}

// Analyzer computes the report of a normalized table.
type Analyzer interface {
	Analyze(ctx context.Context, t *model.Table) (*model.Report, error)
}

// Emitter writes report artifacts, all or nothing.
type Emitter interface {
	Write(ctx context.Context, r *model.Report) ([]string, error)
}

// Service wires the run stages together.
type Service struct {
	acquirer   Acquirer
	normalizer Normalizer
	analyzer   Analyzer
	emitter    Emitter

	summary     io.Writer
	metricsFile string

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithAcquirer sets the source selection stage.
func WithAcquirer(a Acquirer) Option {
	return func(s *Service) {
		if a != nil {
			s.acquirer = a
		}
	}
}

// WithNormalizer sets the normalization stage.
func WithNormalizer(n Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithAnalyzer sets the computation stage.
func WithAnalyzer(a Analyzer) Option {
	return func(s *Service) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithEmitter sets the emission stage.
func WithEmitter(e Emitter) Option {
	return func(s *Service) {
		if e != nil {
			s.emitter = e
		}
	}
}

// WithSummaryOutput sets where the console summary is printed. Nil
// disables it.
func WithSummaryOutput(w io.Writer) Option {
	return func(s *Service) {
		s.summary = w
	}
}

// WithMetricsFile sets the Prometheus textfile written after emission.
// Empty disables it.
func WithMetricsFile(path string) Option {
	return func(s *Service) {
		s.metricsFile = path
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Normalization and analysis default to their
// standard implementations; the acquirer and emitter must be provided.
func New(opts ...Option) *Service {
	s := &Service{
		normalizer: normalize.New(),
		analyzer:   insights.NewAnalyzer(),
		summary:    os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one batch. Errors are *StageError values.
func (s *Service) Run(ctx context.Context) (*model.Report, error) {
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.acquirer == nil || s.emitter == nil {
		return nil, &StageError{Stage: "setup", Err: errors.New("acquirer and emitter are required")}
	}
	start := time.Now()

	var raw *model.RawTable
	err := s.stage(metrics.StageAcquire, func() error {
		var err error
		raw, err = s.acquirer.Acquire(ctx)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, metrics.StageAcquire, err)
	}
	metrics.RecordRowsLoaded(raw.Source, raw.Len())

	var tbl *model.Table
	err = s.stage(metrics.StageNormalize, func() error {
		var st normalize.Stats
		var err error
		tbl, st, err = s.normalizer.Normalize(ctx, raw)
		if err == nil {
			recordRepairs(st)
		}
		return err
	})
	if errors.Is(err, normalize.ErrNoData) {
		err = fmt.Errorf("%w: %w", ErrSourceEmpty, err)
	}
	if err != nil {
		return nil, s.fail(ctx, metrics.StageNormalize, err)
	}

	var r *model.Report
	err = s.stage(metrics.StageCompute, func() error {
		var err error
		r, err = s.analyzer.Analyze(ctx, tbl)
		return err
	})
	if errors.Is(err, insights.ErrEmptyTable) {
		err = fmt.Errorf("%w: %w", ErrSourceEmpty, err)
	}
	if err != nil {
		return nil, s.fail(ctx, metrics.StageCompute, err)
	}
	metrics.UpdateReportShape(len(r.DepartmentSalaries), len(r.TopPerformers), len(r.AttritionRisk), r.SegmentLabels())
	metrics.UpdateRegression(r.Regression.Coefficient, r.Regression.R2, r.Regression.Skipped)

	if s.summary != nil {
		if err := report.Summary(s.summary, r); err != nil {
			s.logger.Warn(ctx, "summary not printed", logger.Error(err))
		}
	}

	var paths []string
	err = s.stage(metrics.StageEmit, func() error {
		var err error
		paths, err = s.emitter.Write(ctx, r)
		return err
	})
	if errors.Is(err, report.ErrWriteFailed) {
		err = fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	if err != nil {
		return nil, s.fail(ctx, metrics.StageEmit, err)
	}

	if s.metricsFile != "" {
		if err := metrics.WriteTextfile(s.metricsFile); err != nil {
			s.logger.Warn(ctx, "run metrics not written", logger.String("path", s.metricsFile), logger.Error(err))
		}
	}

	s.logger.Info(ctx, "analytics run completed",
		logger.String("run", r.Run.ID),
		logger.String("source", r.Run.Source),
		logger.Int("rows", r.Run.Rows),
		logger.Int("files", len(paths)),
		logger.Bool("model_skipped", r.Regression.Skipped),
		logger.Float64("slope", r.Regression.Coefficient),
		logger.Float64("r2", r.Regression.R2),
		logger.Duration("took", time.Since(start)),
	)
	return r, nil
}

func (s *Service) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStageDuration(name, time.Since(start).Seconds())
	return err
}

func (s *Service) fail(ctx context.Context, stage string, err error) error {
	s.logger.Error(ctx, "analytics run failed", logger.String("stage", stage), logger.Error(err))
	return &StageError{Stage: stage, Err: err}
}

func recordRepairs(st normalize.Stats) {
	metrics.RecordDuplicatesDropped(st.Duplicates)
	metrics.RecordValuesRepaired(model.ColumnDepartment, st.Departments)
	metrics.RecordValuesRepaired(model.ColumnSalary, st.Salaries)
	metrics.RecordValuesRepaired("joining_date", st.JoiningDates)
	metrics.RecordValuesRepaired(model.ColumnYearsExperience, st.Experience)
	metrics.RecordValuesRepaired(model.ColumnPerformanceScore, st.Performance)
}
