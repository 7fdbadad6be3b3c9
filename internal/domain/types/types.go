// Package types contains the report entries shared by the analytics and the
// report writers.
package types

import "time"

// DepartmentSalary is the mean salary of one canonical department.
type DepartmentSalary struct {
	Department string  `json:"department"`
	MeanSalary float64 `json:"salary"`
}

// TopPerformer is an employee scoring above the top performer threshold.
type TopPerformer struct {
	Name             string `json:"name"`
	PerformanceScore int64  `json:"performance_score"`
}

// AtRiskEmployee is an employee scoring below the attrition risk threshold.
type AtRiskEmployee struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Regression holds the salary-on-experience fit. All values are zero when
// Skipped is set.
type Regression struct {
	Coefficient float64 `json:"coefficient"`
	Intercept   float64 `json:"intercept"`
	MSE         float64 `json:"mse"`
	R2          float64 `json:"r2_score"`
	Mode        string  `json:"mode"`
	TrainRows   int     `json:"train_rows"`
	TestRows    int     `json:"test_rows"`
	Skipped     bool    `json:"skipped"`
}

// SegmentAssignment is the cluster label of one employee.
type SegmentAssignment struct {
	Name    string `json:"name"`
	Segment int    `json:"segment"`
}

// RunInfo identifies one analytics run.
type RunInfo struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Source      string    `json:"source"`
	Rows        int       `json:"rows"`
}
