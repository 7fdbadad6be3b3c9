package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/okian/emsanalytics/internal/domain/model"
	"github.com/okian/emsanalytics/internal/domain/types"
)

// Artifact file names inside the output directory.
const (
	ReportJSON        = "analytics_report.json"
	DepartmentCSV     = "department_salary_report.csv"
	FullDataCSV       = "full_analytics_data.csv"
	SalaryPlotPNG     = "salary_experience_plot.png"
	dateLayout        = "2006-01-02"
	jsonIndent        = "    "
	departmentHeading = "department"
)

// document is the JSON shape of analytics_report.json. average_salary is a
// map so keys are emitted in sorted order.
type document struct {
	AverageSalary map[string]float64        `json:"average_salary"`
	TopPerformers []types.TopPerformer      `json:"top_performers"`
	AttritionRisk []types.AtRiskEmployee    `json:"attrition_risk"`
	Regression    types.Regression          `json:"salary_regression"`
	Segments      []types.SegmentAssignment `json:"segments,omitempty"`
	Run           types.RunInfo             `json:"run"`
}

// RenderJSON encodes r as indented JSON.
func RenderJSON(r *model.Report) ([]byte, error) {
	doc := document{
		AverageSalary: make(map[string]float64, len(r.DepartmentSalaries)),
		TopPerformers: nonNil(r.TopPerformers),
		AttritionRisk: nonNil(r.AttritionRisk),
		Regression:    r.Regression,
		Segments:      r.Segments,
		Run:           r.Run,
	}
	for _, d := range r.DepartmentSalaries {
		doc.AverageSalary[d.Department] = d.MeanSalary
	}
	b, err := json.MarshalIndent(doc, "", jsonIndent)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, ReportJSON, err)
	}
	return append(b, '\n'), nil
}

// RenderDepartmentCSV renders department,salary rows in report order.
func RenderDepartmentCSV(r *model.Report) ([]byte, error) {
	records := make([][]string, 0, len(r.DepartmentSalaries)+1)
	records = append(records, []string{departmentHeading, model.ColumnSalary})
	for _, d := range r.DepartmentSalaries {
		records = append(records, []string{d.Department, formatFloat(d.MeanSalary)})
	}
	return renderCSV(DepartmentCSV, records)
}

// RenderFullCSV renders the whole table, one row per employee, with the
// segment column when segmentation ran.
func RenderFullCSV(t *model.Table) ([]byte, error) {
	columns := make([]string, 0, len(model.EmployeeColumns)+1)
	for _, c := range append(append([]string(nil), model.EmployeeColumns...), model.ColumnSegment) {
		if t.Has(c) {
			columns = append(columns, c)
		}
	}

	records := make([][]string, 0, t.Len()+1)
	records = append(records, columns)
	for i := range t.Employees {
		row := make([]string, len(columns))
		for j, c := range columns {
			row[j] = cellValue(&t.Employees[i], c)
		}
		records = append(records, row)
	}
	return renderCSV(FullDataCSV, records)
}

func renderCSV(name string, records [][]string) ([]byte, error) {
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, df.Err)
	}
	var buf bytes.Buffer
	if err := df.WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}
	return buf.Bytes(), nil
}

func cellValue(e *model.Employee, column string) string {
	switch column {
	case model.ColumnID:
		return strconv.FormatInt(e.ID, 10)
	case model.ColumnName:
		return e.Name
	case model.ColumnRole:
		return e.Role
	case model.ColumnSalary:
		if e.Salary.Valid {
			return formatFloat(e.Salary.Float64)
		}
	case model.ColumnYearsExperience:
		if e.YearsExperience.Valid {
			return strconv.FormatInt(e.YearsExperience.Int64, 10)
		}
	case model.ColumnDepartment:
		if e.Department.Valid {
			return e.Department.String
		}
	case model.ColumnJoiningDate:
		if e.JoiningDate.Valid {
			return e.JoiningDate.Time.Format(dateLayout)
		}
	case model.ColumnPerformanceScore:
		if e.PerformanceScore.Valid {
			return strconv.FormatInt(e.PerformanceScore.Int64, 10)
		}
	case model.ColumnSegment:
		if e.Segment != model.NoSegment {
			return strconv.Itoa(e.Segment)
		}
	}
	return ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
