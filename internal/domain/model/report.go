package model

import "github.com/okian/emsanalytics/internal/domain/types"

// Report is the AnalyticsReport of one run. It is built once by the
// analyzer and only read afterwards.
type Report struct {
	Run                types.RunInfo
	DepartmentSalaries []types.DepartmentSalary
	TopPerformers      []types.TopPerformer
	AttritionRisk      []types.AtRiskEmployee
	Regression         types.Regression
	Segments           []types.SegmentAssignment

	// Table is the normalized table with segment labels applied.
	Table *Table
}

// Segmented reports whether clustering ran.
func (r *Report) Segmented() bool {
	return len(r.Segments) > 0
}

// SegmentLabels returns the number of distinct segment labels assigned.
func (r *Report) SegmentLabels() int {
	labels := make(map[int]struct{}, len(r.Segments))
	for _, s := range r.Segments {
		labels[s.Segment] = struct{}{}
	}
	return len(labels)
}
