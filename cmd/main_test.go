package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestRun(t *testing.T) {
	convey.Convey("Given an environment with no database and an empty workspace", t, func() {
		dir := t.TempDir()
		setEnv(t, map[string]string{
			"EMS_CSV_PATH":       filepath.Join(dir, "employees.csv"),
			"EMS_OUTPUT_DIR":     filepath.Join(dir, "reports"),
			"EMS_RENDER_PLOT":    "false",
			"EMS_REFERENCE_YEAR": "2024",
		})

		convey.Convey("When running the batch", func() {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), &stdout, &stderr)

			convey.Convey("Then it succeeds and prints the summary to stdout", func() {
				convey.So(code, convey.ShouldEqual, 0)
				convey.So(stdout.String(), convey.ShouldContainSubstring, "Employee Analytics Summary")
				convey.So(stdout.String(), convey.ShouldContainSubstring, "Reports generated in")
				convey.So(stderr.String(), convey.ShouldContainSubstring, "analytics run completed")
				_, err := os.Stat(filepath.Join(dir, "reports", "analytics_report.json"))
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When fallback is disabled", func() {
			t.Setenv("EMS_FALLBACK_ENABLED", "false")
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), &stdout, &stderr)

			convey.Convey("Then it exits 1 naming the acquire stage", func() {
				convey.So(code, convey.ShouldEqual, 1)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "error: acquire: source unavailable")
				convey.So(stdout.String(), convey.ShouldBeEmpty)
			})
		})
	})

	convey.Convey("Given an invalid configuration", t, func() {
		t.Setenv("EMS_REGRESSION_MODE", "sideways")

		convey.Convey("When running", func() {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), &stdout, &stderr)

			convey.Convey("Then it exits 1 with a config error", func() {
				convey.So(code, convey.ShouldEqual, 1)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "error: config: invalid config")
			})
		})
	})
}
