// Package metrics provides Prometheus metrics for an analytics run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage names used as the "stage" label.
const (
	StageAcquire   = "acquire"
	StageNormalize = "normalize"
	StageCompute   = "compute"
	StageEmit      = "emit"
)

// Manager owns the Prometheus collectors for one analytics process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Acquisition
	rowsLoaded     *prometheus.CounterVec
	sourceFailures *prometheus.CounterVec

	// Normalization
	valuesRepaired    *prometheus.CounterVec
	duplicatesDropped prometheus.Counter

	// Pipeline
	stageDuration    *prometheus.HistogramVec
	artifactsWritten prometheus.Counter

	// Report gauges
	departments     prometheus.Gauge
	topPerformers   prometheus.Gauge
	attritionRisk   prometheus.Gauge
	segments        prometheus.Gauge
	regressionSlope prometheus.Gauge
	regressionR2    prometheus.Gauge
	modelSkipped    prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ems",
		subsystem:        "analytics",
		histogramBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_loaded_total",
		Help:        "Rows returned by a data source before normalization",
		ConstLabels: m.constLabels,
	}, []string{"source"})

	m.sourceFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "source_failures_total",
		Help:        "Data source failures by kind (connection, query, csv)",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.valuesRepaired = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "values_repaired_total",
		Help:        "Missing or unparseable values filled during normalization",
		ConstLabels: m.constLabels,
	}, []string{"field"})

	m.duplicatesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duplicate_rows_dropped_total",
		Help:        "Rows dropped because their employee id was already seen",
		ConstLabels: m.constLabels,
	})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_seconds",
		Help:        "Wall time spent in each pipeline stage",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.artifactsWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "artifacts_written_total",
		Help:        "Report files committed to the output directory",
		ConstLabels: m.constLabels,
	})

	m.departments = m.gauge(auto, "departments", "Distinct canonical departments in the last report")
	m.topPerformers = m.gauge(auto, "top_performers", "Employees scoring above the top performer threshold")
	m.attritionRisk = m.gauge(auto, "attrition_risk", "Employees scoring below the attrition risk threshold")
	m.segments = m.gauge(auto, "segments", "Distinct segment labels assigned")
	m.regressionSlope = m.gauge(auto, "regression_slope", "Fitted salary increase per year of experience")
	m.regressionR2 = m.gauge(auto, "regression_r2", "R squared of the salary regression")
	m.modelSkipped = m.gauge(auto, "model_skipped", "1 when modelling was skipped for lack of usable rows")
}

func (m *Manager) gauge(auto promauto.Factory, name, help string) prometheus.Gauge {
	return auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

// RowsLoaded adds n rows for source.
func (m *Manager) RowsLoaded(source string, n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.rowsLoaded.WithLabelValues(source).Add(float64(n))
}

// SourceFailure counts a failed source attempt.
func (m *Manager) SourceFailure(kind string) {
	if !m.enabled {
		return
	}
	m.sourceFailures.WithLabelValues(kind).Inc()
}

// ValuesRepaired adds n repaired values for field.
func (m *Manager) ValuesRepaired(field string, n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.valuesRepaired.WithLabelValues(field).Add(float64(n))
}

// DuplicatesDropped adds n dropped duplicate rows.
func (m *Manager) DuplicatesDropped(n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.duplicatesDropped.Add(float64(n))
}

// StageDuration observes seconds spent in stage.
func (m *Manager) StageDuration(stage string, seconds float64) {
	if !m.enabled {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// ArtifactWritten counts one committed report file.
func (m *Manager) ArtifactWritten() {
	if !m.enabled {
		return
	}
	m.artifactsWritten.Inc()
}

// ReportShape records the sizes of the computed report.
func (m *Manager) ReportShape(departments, top, atRisk, segments int) {
	if !m.enabled {
		return
	}
	m.departments.Set(float64(departments))
	m.topPerformers.Set(float64(top))
	m.attritionRisk.Set(float64(atRisk))
	m.segments.Set(float64(segments))
}

// Regression records the fitted slope and R squared; skipped marks a
// degraded run.
func (m *Manager) Regression(slope, r2 float64, skipped bool) {
	if !m.enabled {
		return
	}
	m.regressionSlope.Set(slope)
	m.regressionR2.Set(r2)
	if skipped {
		m.modelSkipped.Set(1)
	} else {
		m.modelSkipped.Set(0)
	}
}

// RecordRowsLoaded adds n rows for source on the global manager.
func RecordRowsLoaded(source string, n int) { globalManager.RowsLoaded(source, n) }

// RecordSourceFailure counts a failed source attempt on the global manager.
func RecordSourceFailure(kind string) { globalManager.SourceFailure(kind) }

// RecordValuesRepaired adds n repaired values for field on the global manager.
func RecordValuesRepaired(field string, n int) { globalManager.ValuesRepaired(field, n) }

// RecordDuplicatesDropped adds n dropped rows on the global manager.
func RecordDuplicatesDropped(n int) { globalManager.DuplicatesDropped(n) }

// RecordStageDuration observes a stage duration on the global manager.
func RecordStageDuration(stage string, seconds float64) {
	globalManager.StageDuration(stage, seconds)
}

// RecordArtifactWritten counts a committed file on the global manager.
func RecordArtifactWritten() { globalManager.ArtifactWritten() }

// UpdateReportShape records report sizes on the global manager.
func UpdateReportShape(departments, top, atRisk, segments int) {
	globalManager.ReportShape(departments, top, atRisk, segments)
}

// UpdateRegression records regression results on the global manager.
func UpdateRegression(slope, r2 float64, skipped bool) {
	globalManager.Regression(slope, r2, skipped)
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the global registry in the Prometheus text format to
// path, replacing the file atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
