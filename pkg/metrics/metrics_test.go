package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("batch"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.RowsLoaded("csv", 1)

			Convey("Then metric names use the namespace and subsystem", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_batch_rows_loaded_total")
			})
		})
	})
}

func TestManagerRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(registry))

		Convey("When recording acquisition and repair counts", func() {
			m.RowsLoaded("database", 7)
			m.RowsLoaded("sample", 10)
			m.RowsLoaded("csv", 0)
			m.SourceFailure("connection")
			m.ValuesRepaired("salary", 2)
			m.DuplicatesDropped(1)

			Convey("Then counters reflect the recorded values", func() {
				So(testutil.ToFloat64(m.rowsLoaded.WithLabelValues("database")), ShouldEqual, 7)
				So(testutil.ToFloat64(m.rowsLoaded.WithLabelValues("sample")), ShouldEqual, 10)
				So(testutil.ToFloat64(m.sourceFailures.WithLabelValues("connection")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.valuesRepaired.WithLabelValues("salary")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.duplicatesDropped), ShouldEqual, 1)
			})
		})

		Convey("When recording report shape and regression", func() {
			m.ReportShape(4, 3, 2, 3)
			m.Regression(2450.5, 0.81, false)

			Convey("Then gauges hold the last values", func() {
				So(testutil.ToFloat64(m.departments), ShouldEqual, 4)
				So(testutil.ToFloat64(m.topPerformers), ShouldEqual, 3)
				So(testutil.ToFloat64(m.attritionRisk), ShouldEqual, 2)
				So(testutil.ToFloat64(m.regressionSlope), ShouldEqual, 2450.5)
				So(testutil.ToFloat64(m.modelSkipped), ShouldEqual, 0)
			})

			Convey("And a skipped model flips the skipped gauge", func() {
				m.Regression(0, 0, true)
				So(testutil.ToFloat64(m.modelSkipped), ShouldEqual, 1)
			})
		})

		Convey("When metrics are disabled", func() {
			disabled := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))
			disabled.RowsLoaded("csv", 5)
			disabled.ArtifactWritten()

			Convey("Then nothing is recorded", func() {
				So(testutil.ToFloat64(disabled.rowsLoaded.WithLabelValues("csv")), ShouldEqual, 0)
				So(testutil.ToFloat64(disabled.artifactsWritten), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then recording helpers do not panic", func() {
			So(func() {
				RecordRowsLoaded("csv", 3)
				RecordSourceFailure("query")
				RecordValuesRepaired("performance_score", 4)
				RecordDuplicatesDropped(1)
				RecordStageDuration(StageNormalize, 0.002)
				RecordArtifactWritten()
				UpdateReportShape(1, 1, 1, 1)
				UpdateRegression(1, 1, false)
			}, ShouldNotPanic)
			So(GetRegistry(), ShouldNotBeNil)
		})

		Convey("When writing the textfile", func() {
			path := filepath.Join(t.TempDir(), "run.prom")
			RecordStageDuration(StageEmit, 0.01)
			err := WriteTextfile(path)

			Convey("Then the file holds the text exposition", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "ems_analytics_stage_duration_seconds")
			})
		})

		Convey("When the textfile directory does not exist", func() {
			err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "run.prom"))

			Convey("Then the error is wrapped", func() {
				So(errors.Is(err, ErrWriteTextfile), ShouldBeTrue)
			})
		})
	})
}
