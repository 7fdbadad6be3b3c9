package model_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/okian/emsanalytics/internal/domain/model"
	"github.com/okian/emsanalytics/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTable(t *testing.T) {
	Convey("Given a table with two employees", t, func() {
		tbl := &model.Table{
			Source:  model.SourceCSV,
			Columns: []string{model.ColumnID, model.ColumnName},
			Employees: []model.Employee{
				{ID: 1, Name: "Ann", Segment: model.NoSegment},
				{ID: 2, Name: "Bo", Segment: model.NoSegment},
			},
		}

		Convey("When checking columns", func() {
			Convey("Then only carried columns are reported", func() {
				So(tbl.Has(model.ColumnName), ShouldBeTrue)
				So(tbl.Has(model.ColumnSalary), ShouldBeFalse)
			})
		})

		Convey("When adding a column twice", func() {
			tbl.AddColumn(model.ColumnSegment)
			tbl.AddColumn(model.ColumnSegment)

			Convey("Then it appears once at the end", func() {
				So(tbl.Columns, ShouldResemble, []string{model.ColumnID, model.ColumnName, model.ColumnSegment})
			})
		})

		Convey("When cloning", func() {
			c := tbl.Clone()
			c.Employees[0].Name = "Changed"
			c.AddColumn(model.ColumnSegment)

			Convey("Then the original is untouched", func() {
				So(tbl.Employees[0].Name, ShouldEqual, "Ann")
				So(tbl.Has(model.ColumnSegment), ShouldBeFalse)
				So(c.Len(), ShouldEqual, 2)
			})
		})
	})
}

func TestEmployeeComplete(t *testing.T) {
	Convey("Given an employee", t, func() {
		e := model.Employee{
			Department:       sql.NullString{String: "IT", Valid: true},
			Salary:           sql.NullFloat64{Float64: 1, Valid: true},
			YearsExperience:  sql.NullInt64{Int64: 2, Valid: true},
			PerformanceScore: sql.NullInt64{Int64: 90, Valid: true},
		}

		Convey("Then it is complete when every analytic field is set", func() {
			So(e.Complete(), ShouldBeTrue)
		})

		Convey("Then a missing score makes it incomplete", func() {
			e.PerformanceScore = sql.NullInt64{}
			So(e.Complete(), ShouldBeFalse)
		})
	})
}

func TestRawTableAndDate(t *testing.T) {
	Convey("Given a raw table", t, func() {
		raw := &model.RawTable{
			Columns: []string{model.ColumnSalary},
			Rows:    []model.RawRow{{model.ColumnSalary: {String: "10", Valid: true}}, {}},
		}

		Convey("Then absent cells read as null", func() {
			So(raw.Len(), ShouldEqual, 2)
			So(raw.Has(model.ColumnSalary), ShouldBeTrue)
			So(raw.Rows[0].Get(model.ColumnSalary).Valid, ShouldBeTrue)
			So(raw.Rows[1].Get(model.ColumnSalary).Valid, ShouldBeFalse)
		})

		Convey("Then a nil raw table has no rows", func() {
			var empty *model.RawTable
			So(empty.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given a timestamp with a clock time", t, func() {
		ts := time.Date(2021, 5, 20, 13, 45, 0, 0, time.UTC)

		Convey("Then Date keeps only the calendar date", func() {
			So(model.Date(ts), ShouldEqual, time.Date(2021, 5, 20, 0, 0, 0, 0, time.UTC))
		})
	})
}

func TestReportSegments(t *testing.T) {
	Convey("Given a report with five employees in two segments", t, func() {
		r := &model.Report{Segments: []types.SegmentAssignment{
			{Name: "Ann", Segment: 0},
			{Name: "Bo", Segment: 1},
			{Name: "Cy", Segment: 0},
			{Name: "Di", Segment: 1},
			{Name: "Ed", Segment: 0},
		}}

		Convey("Then the distinct labels are counted", func() {
			So(r.Segmented(), ShouldBeTrue)
			So(r.SegmentLabels(), ShouldEqual, 2)
		})
	})

	Convey("Given a report without segments", t, func() {
		r := &model.Report{}

		Convey("Then no labels are counted", func() {
			So(r.Segmented(), ShouldBeFalse)
			So(r.SegmentLabels(), ShouldEqual, 0)
		})
	})
}
