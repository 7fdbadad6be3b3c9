// Package model contains domain models passed between layers.
package model

import (
	"database/sql"
	"slices"
	"time"
)

// Canonical column names shared by the sources and the report files.
const (
	ColumnID               = "id"
	ColumnName             = "name"
	ColumnRole             = "role"
	ColumnSalary           = "salary"
	ColumnYearsExperience  = "years_experience"
	ColumnDepartment       = "department"
	ColumnJoiningDate      = "joiningDate"
	ColumnPerformanceScore = "performance_score"
	ColumnSegment          = "segment"
)

// Source names recorded on a table.
const (
	SourceDatabase = "database"
	SourceCSV      = "csv"
	SourceSample   = "sample"
)

// NoSegment marks an employee that was not clustered.
const NoSegment = -1

// EmployeeColumns is the canonical column order of the flat file.
var EmployeeColumns = []string{ //nolint:gochecknoglobals // read-only column order
	ColumnID,
	ColumnName,
	ColumnRole,
	ColumnSalary,
	ColumnYearsExperience,
	ColumnDepartment,
	ColumnJoiningDate,
	ColumnPerformanceScore,
}

// RawRow maps a column name to its cell. A missing key or an invalid
// NullString is a null cell.
type RawRow map[string]sql.NullString

// Get returns the cell for column.
func (r RawRow) Get(column string) sql.NullString {
	return r[column]
}

// RawTable is the uncoerced shape returned by every source. Columns lists
// the columns the source actually carried, in source order.
type RawTable struct {
	Source  string
	Columns []string
	Rows    []RawRow
}

// Has reports whether the source carried column.
func (t *RawTable) Has(column string) bool {
	return slices.Contains(t.Columns, column)
}

// Len returns the number of rows.
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Employee is one EmployeeRecord. Repairable fields use database/sql null
// types until normalization fills them.
type Employee struct {
	ID               int64
	Name             string
	Role             string
	Department       sql.NullString
	Salary           sql.NullFloat64
	JoiningDate      sql.NullTime
	YearsExperience  sql.NullInt64
	PerformanceScore sql.NullInt64
	Segment          int
}

// Complete reports whether every field the analytics depend on is present.
func (e *Employee) Complete() bool {
	return e.Department.Valid && e.Salary.Valid && e.YearsExperience.Valid && e.PerformanceScore.Valid
}

// Table is the EmployeeTable: one ordered, in-memory source of truth per run.
type Table struct {
	Source    string
	Columns   []string
	Employees []Employee
}

// Has reports whether the table carries column.
func (t *Table) Has(column string) bool {
	return slices.Contains(t.Columns, column)
}

// Len returns the number of employees.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Employees)
}

// AddColumn appends column if it is not yet present.
func (t *Table) AddColumn(column string) {
	if !t.Has(column) {
		t.Columns = append(t.Columns, column)
	}
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := &Table{
		Source:    t.Source,
		Columns:   append([]string(nil), t.Columns...),
		Employees: append([]Employee(nil), t.Employees...),
	}
	return c
}

// Date truncates ts to a calendar date in UTC.
func Date(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
