// Package normalize turns a raw source table into an analysis-ready
// EmployeeTable: values are coerced, duplicates dropped, and missing fields
// repaired in a fixed order.
package normalize

import (
	"database/sql"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/emsanalytics/internal/domain/model"
)

// dateLayouts are tried in order when parsing joining dates.
var dateLayouts = []string{ //nolint:gochecknoglobals // read-only layouts
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07:00",
}

// Decode coerces every raw cell into its typed field. Unparseable values
// become null. Only canonical columns are kept, in canonical order.
func Decode(raw *model.RawTable) *model.Table {
	t := &model.Table{Source: raw.Source}
	for _, c := range model.EmployeeColumns {
		if raw.Has(c) {
			t.Columns = append(t.Columns, c)
		}
	}

	t.Employees = make([]model.Employee, 0, raw.Len())
	for _, row := range raw.Rows {
		id, _ := parseInt(row.Get(model.ColumnID))
		t.Employees = append(t.Employees, model.Employee{
			ID:               id.Int64,
			Name:             text(row.Get(model.ColumnName)),
			Role:             text(row.Get(model.ColumnRole)),
			Department:       parseString(row.Get(model.ColumnDepartment)),
			Salary:           parseSalary(row.Get(model.ColumnSalary)),
			JoiningDate:      parseDate(row.Get(model.ColumnJoiningDate)),
			YearsExperience:  parseNonNegative(row.Get(model.ColumnYearsExperience)),
			PerformanceScore: parseScore(row.Get(model.ColumnPerformanceScore)),
			Segment:          model.NoSegment,
		})
	}
	return t
}

func text(cell sql.NullString) string {
	if !cell.Valid {
		return ""
	}
	return strings.TrimSpace(cell.String)
}

func parseString(cell sql.NullString) sql.NullString {
	s := text(cell)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func parseFloat(cell sql.NullString) sql.NullFloat64 {
	s := text(cell)
	if s == "" {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// parseInt accepts integers and integral floats such as "85.0"; other
// floats are truncated.
func parseInt(cell sql.NullString) (sql.NullInt64, bool) {
	s := text(cell)
	if s == "" {
		return sql.NullInt64{}, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return sql.NullInt64{Int64: n, Valid: true}, true
	}
	f := parseFloat(cell)
	if !f.Valid || math.Abs(f.Float64) > math.MaxInt64 {
		return sql.NullInt64{}, false
	}
	return sql.NullInt64{Int64: int64(f.Float64), Valid: true}, true
}

func parseSalary(cell sql.NullString) sql.NullFloat64 {
	f := parseFloat(cell)
	if f.Valid && f.Float64 < 0 {
		return sql.NullFloat64{}
	}
	return f
}

func parseNonNegative(cell sql.NullString) sql.NullInt64 {
	n, ok := parseInt(cell)
	if !ok || n.Int64 < 0 {
		return sql.NullInt64{}
	}
	return n
}

func parseScore(cell sql.NullString) sql.NullInt64 {
	n, ok := parseInt(cell)
	if !ok {
		return sql.NullInt64{}
	}
	return n
}

func parseDate(cell sql.NullString) sql.NullTime {
	s := text(cell)
	if s == "" {
		return sql.NullTime{}
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return sql.NullTime{Time: model.Date(ts), Valid: true}
		}
	}
	return sql.NullTime{}
}
