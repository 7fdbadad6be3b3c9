// Package config defines the analytics run configuration and its loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file and EMS_ environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
	"time"
)

// Regression modes.
const (
	RegressionSplit = "split"
	RegressionFull  = "full"
)

// DefaultEmployeeQuery joins employees to their department names.
const DefaultEmployeeQuery = `SELECT e.id, e.name, e.role, e.salary, e.joining_date AS "joiningDate", d.name AS department
FROM employee e
LEFT JOIN department d ON e.department_id = d.id`

// joiningDateLayout is the layout of FallbackJoiningDate.
const joiningDateLayout = "2006-01-02"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DatabaseDriver is the database/sql driver name: "pgx" or "sqlite".
	DatabaseDriver string `koanf:"database_driver"`

	// DatabaseURL is the primary source DSN. Empty means no primary source.
	DatabaseURL string `koanf:"database_url"`

	// EmployeeQuery returns id, name, role, salary, joiningDate, department.
	EmployeeQuery string `koanf:"employee_query"`

	// FallbackEnabled switches to the CSV source when the primary fails.
	FallbackEnabled bool `koanf:"fallback_enabled"`

	// CSVPath is the flat-file source; a missing file is seeded with sample data.
	CSVPath string `koanf:"csv_path"`

	// OutputDir receives every report artifact.
	OutputDir string `koanf:"output_dir"`

	// Seed drives synthesized experience and performance values.
	Seed int64 `koanf:"seed"`

	// ReferenceYear is subtracted from for experience; 0 means the current year.
	ReferenceYear int `koanf:"reference_year"`

	// FallbackJoiningDate replaces missing or unparseable joining dates (YYYY-MM-DD).
	FallbackJoiningDate string `koanf:"fallback_joining_date"`

	// RegressionMode is "split" (hold-out metrics) or "full".
	RegressionMode string `koanf:"regression_mode"`

	// TestFraction is the hold-out share in split mode.
	TestFraction float64 `koanf:"test_fraction"`

	// ModelSeed drives the train/test split and clustering.
	ModelSeed int64 `koanf:"model_seed"`

	// MinModelRows is the fewest usable rows needed to fit models.
	MinModelRows int `koanf:"min_model_rows"`

	// Clusters and ClusterInits configure segmentation.
	Clusters     int `koanf:"clusters"`
	ClusterInits int `koanf:"cluster_inits"`

	// RenderPlot writes the experience/salary scatter plot.
	RenderPlot bool `koanf:"render_plot"`

	// MetricsFile is the run metrics textfile name inside OutputDir; empty disables it.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		DatabaseDriver:      "pgx",
		DatabaseURL:         "",
		EmployeeQuery:       DefaultEmployeeQuery,
		FallbackEnabled:     true,
		CSVPath:             "employees.csv",
		OutputDir:           "reports",
		Seed:                42,
		ReferenceYear:       0,
		FallbackJoiningDate: "2020-01-01",
		RegressionMode:      RegressionSplit,
		TestFraction:        0.2,
		ModelSeed:           42,
		MinModelRows:        5,
		Clusters:            3,
		ClusterInits:        10,
		RenderPlot:          true,
		MetricsFile:         "analytics_metrics.prom",
	}
}

// JoiningDate returns FallbackJoiningDate parsed.
func (c *Config) JoiningDate() (time.Time, error) {
	d, err := time.Parse(joiningDateLayout, c.FallbackJoiningDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fallback_joining_date %q: %w", ErrInvalidConfig, c.FallbackJoiningDate, err)
	}
	return d, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.OutputDir == "":
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	case c.CSVPath == "":
		return fmt.Errorf("%w: csv_path must not be empty", ErrInvalidConfig)
	case c.EmployeeQuery == "":
		return fmt.Errorf("%w: employee_query must not be empty", ErrInvalidConfig)
	case c.RegressionMode != RegressionSplit && c.RegressionMode != RegressionFull:
		return fmt.Errorf("%w: regression_mode must be %q or %q, got %q", ErrInvalidConfig, RegressionSplit, RegressionFull, c.RegressionMode)
	case c.TestFraction <= 0 || c.TestFraction >= 1:
		return fmt.Errorf("%w: test_fraction must be in (0, 1), got %v", ErrInvalidConfig, c.TestFraction)
	case c.Clusters < 1:
		return fmt.Errorf("%w: clusters must be positive", ErrInvalidConfig)
	case c.ClusterInits < 1:
		return fmt.Errorf("%w: cluster_inits must be positive", ErrInvalidConfig)
	case c.MinModelRows < 0:
		return fmt.Errorf("%w: min_model_rows must not be negative", ErrInvalidConfig)
	case c.MinModelRows < c.Clusters:
		return fmt.Errorf("%w: min_model_rows (%d) must be at least clusters (%d)", ErrInvalidConfig, c.MinModelRows, c.Clusters)
	}
	_, err := c.JoiningDate()
	return err
}
