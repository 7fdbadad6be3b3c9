package source

import (
	"database/sql"
	"strconv"

	"github.com/okian/emsanalytics/internal/domain/model"
)

type sampleEmployee struct {
	role       string
	salary     int
	years      int
	department string
	joined     string
	score      int
}

//nolint:gochecknoglobals // fixed dataset
var sampleEmployees = []sampleEmployee{
	{"Developer", 60000, 2, "IT", "2022-01-15", 85},
	{"Manager", 85000, 8, "HR", "2018-03-10", 92},
	{"Developer", 62000, 3, "IT", "2021-05-20", 78},
	{"Designer", 55000, 4, "Design", "2020-11-05", 88},
	{"Developer", 61000, 3, "IT", "2021-06-15", 95},
	{"HR", 50000, 5, "HR", "2019-02-10", 82},
	{"IT Support", 48000, 2, "IT", "2022-08-15", 75},
	{"Manager", 90000, 10, "Management", "2015-01-01", 96},
	{"Developer", 63000, 4, "IT", "2021-09-20", 80},
	{"Designer", 57000, 5, "Design", "2020-03-15", 89},
}

// SampleRecords returns the sample dataset as CSV records, header first.
func SampleRecords() [][]string {
	records := make([][]string, 0, len(sampleEmployees)+1)
	records = append(records, append([]string(nil), model.EmployeeColumns...))
	for i, e := range sampleEmployees {
		records = append(records, []string{
			strconv.Itoa(i + 1),
			"Employee " + strconv.Itoa(i+1),
			e.role,
			strconv.Itoa(e.salary),
			strconv.Itoa(e.years),
			e.department,
			e.joined,
			strconv.Itoa(e.score),
		})
	}
	return records
}

// Sample returns the ten-record sample dataset.
func Sample() *model.RawTable {
	records := SampleRecords()
	header := records[0]
	raw := &model.RawTable{Source: model.SourceSample, Columns: header}
	for _, rec := range records[1:] {
		row := make(model.RawRow, len(header))
		for i, c := range header {
			row[c] = sql.NullString{String: rec[i], Valid: true}
		}
		raw.Rows = append(raw.Rows, row)
	}
	return raw
}
