package service

import (
	"fmt"
	"path/filepath"

	"github.com/okian/emsanalytics/internal/adapters/report"
	"github.com/okian/emsanalytics/internal/adapters/source"
	"github.com/okian/emsanalytics/internal/config"
	"github.com/okian/emsanalytics/internal/domain/insights"
	"github.com/okian/emsanalytics/internal/domain/learn"
	"github.com/okian/emsanalytics/internal/domain/normalize"
	"github.com/okian/emsanalytics/pkg/logger"
)

// NewFromConfig builds a Service whose stages are configured from cfg.
// Extra options are applied last.
func NewFromConfig(cfg *config.Config, l logger.Logger, opts ...Option) (*Service, error) {
	fallbackDate, err := cfg.JoiningDate()
	if err != nil {
		return nil, fmt.Errorf("wire service: %w", err)
	}
	if l == nil {
		l = logger.Get()
	}

	acquirer := source.NewAcquirer(
		source.NewSQL(cfg.DatabaseDriver, cfg.DatabaseURL, source.WithQuery(cfg.EmployeeQuery)),
		source.NewCSV(cfg.CSVPath, source.WithCSVLogger(l.Named("source"))),
		source.WithFallbackEnabled(cfg.FallbackEnabled),
		source.WithAcquirerLogger(l.Named("source")),
	)
	normalizer := normalize.New(
		normalize.WithSeed(cfg.Seed),
		normalize.WithReferenceYear(cfg.ReferenceYear),
		normalize.WithFallbackJoiningDate(fallbackDate),
		normalize.WithLogger(l.Named("normalize")),
	)
	analyzer := insights.NewAnalyzer(
		insights.WithRegressionMode(cfg.RegressionMode),
		insights.WithTestFraction(cfg.TestFraction),
		insights.WithModelSeed(cfg.ModelSeed),
		insights.WithMinModelRows(cfg.MinModelRows),
		insights.WithClusterer(learn.NewKMeans(
			learn.WithClusters(cfg.Clusters),
			learn.WithInits(cfg.ClusterInits),
			learn.WithSeed(cfg.ModelSeed),
		)),
		insights.WithLogger(l.Named("insights")),
	)
	writer := report.NewWriter(cfg.OutputDir,
		report.WithPlot(cfg.RenderPlot),
		report.WithLogger(l.Named("report")),
	)

	metricsFile := ""
	if cfg.MetricsFile != "" {
		metricsFile = filepath.Join(cfg.OutputDir, cfg.MetricsFile)
	}

	base := []Option{
		WithAcquirer(acquirer),
		WithNormalizer(normalizer),
		WithAnalyzer(analyzer),
		WithEmitter(writer),
		WithMetricsFile(metricsFile),
		WithLogger(l),
	}
	return New(append(base, opts...)...), nil
}
