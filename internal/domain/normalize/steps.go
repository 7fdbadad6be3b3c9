package normalize

import (
	"database/sql"
	"math/rand"
	"time"

	"github.com/okian/emsanalytics/internal/domain/model"
)

// Unassigned is the department of records that carry none.
const Unassigned = "Unassigned"

// Synthesized value ranges, half-open.
const (
	minSynthExperience  = 1
	maxSynthExperience  = 15
	minSynthPerformance = 70
	maxSynthPerformance = 100
)

// DefaultAliases maps department spellings to their canonical name.
func DefaultAliases() map[string]string {
	return map[string]string{
		"Human Resources":        "HR",
		"Information Technology": "IT",
		"Fin":                    "Finance",
		"Admin":                  "Management",
	}
}

// CanonicalizeDepartments rewrites aliased departments and fills missing ones
// with Unassigned. Matching is exact. It returns the number of filled values.
func CanonicalizeDepartments(t *model.Table, aliases map[string]string) int {
	filled := 0
	for i := range t.Employees {
		e := &t.Employees[i]
		if !e.Department.Valid {
			e.Department = sql.NullString{String: Unassigned, Valid: true}
			filled++
			continue
		}
		if canonical, ok := aliases[e.Department.String]; ok {
			e.Department.String = canonical
		}
	}
	t.AddColumn(model.ColumnDepartment)
	return filled
}

// RepairSalaries fills missing salaries with the mean of the present ones,
// computed before any filling. With no present salary the fill is 0.
func RepairSalaries(t *model.Table) int {
	var sum float64
	var n int
	for i := range t.Employees {
		if s := t.Employees[i].Salary; s.Valid {
			sum += s.Float64
			n++
		}
	}
	mean := 0.0
	if n > 0 {
		mean = sum / float64(n)
	}

	filled := 0
	for i := range t.Employees {
		e := &t.Employees[i]
		if !e.Salary.Valid {
			e.Salary = sql.NullFloat64{Float64: mean, Valid: true}
			filled++
		}
	}
	t.AddColumn(model.ColumnSalary)
	return filled
}

// ExperienceRepair counts what DeriveExperience changed.
type ExperienceRepair struct {
	JoiningDates int
	Synthesized  int
}

// DeriveExperience sets years_experience for every record.
//
// With a joiningDate column, missing dates become fallback and experience is
// year minus the joining year for every row, overriding any provided
// experience. Otherwise present experience values are kept and only missing
// ones are drawn from [1, 15). Experience is never negative.
func DeriveExperience(t *model.Table, year int, fallback time.Time, rng *rand.Rand) ExperienceRepair {
	var r ExperienceRepair
	if t.Has(model.ColumnJoiningDate) {
		for i := range t.Employees {
			e := &t.Employees[i]
			if !e.JoiningDate.Valid {
				e.JoiningDate = sql.NullTime{Time: model.Date(fallback), Valid: true}
				r.JoiningDates++
			}
			years := int64(year - e.JoiningDate.Time.Year())
			if years < 0 {
				years = 0
			}
			e.YearsExperience = sql.NullInt64{Int64: years, Valid: true}
		}
		t.AddColumn(model.ColumnYearsExperience)
		return r
	}

	for i := range t.Employees {
		e := &t.Employees[i]
		if !e.YearsExperience.Valid {
			e.YearsExperience = sql.NullInt64{Int64: draw(rng, minSynthExperience, maxSynthExperience), Valid: true}
			r.Synthesized++
		}
	}
	t.AddColumn(model.ColumnYearsExperience)
	return r
}

// RepairPerformance draws missing performance scores from [70, 100). When
// the column is absent every record is missing.
func RepairPerformance(t *model.Table, rng *rand.Rand) int {
	filled := 0
	for i := range t.Employees {
		e := &t.Employees[i]
		if !e.PerformanceScore.Valid {
			e.PerformanceScore = sql.NullInt64{Int64: draw(rng, minSynthPerformance, maxSynthPerformance), Valid: true}
			filled++
		}
	}
	t.AddColumn(model.ColumnPerformanceScore)
	return filled
}

func draw(rng *rand.Rand, lo, hi int) int64 {
	return int64(lo + rng.Intn(hi-lo))
}
