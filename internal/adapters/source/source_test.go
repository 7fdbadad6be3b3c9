package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/okian/emsanalytics/internal/domain/model"
	"github.com/okian/emsanalytics/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.InitWithWriter(io.Discard)
}

const schema = `
CREATE TABLE department (id INTEGER PRIMARY KEY, name TEXT);
CREATE TABLE employee (
	id INTEGER PRIMARY KEY,
	name TEXT,
	role TEXT,
	salary REAL,
	joining_date TEXT,
	department_id INTEGER
);
INSERT INTO department (id, name) VALUES (1, 'Information Technology'), (2, 'HR');
INSERT INTO employee (id, name, role, salary, joining_date, department_id) VALUES
	(1, 'Ann', 'Developer', 60000, '2021-05-20', 1),
	(2, 'Bo', 'Recruiter', NULL, '2019-02-10', 2),
	(3, 'Cy', 'Intern', 30000, NULL, 9);
`

func sqliteDSN(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ems.db")
	db, err := sqlx.Connect(DriverSQLite, path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() { _ = db.Close() }()
	db.MustExec(schema)
	return path
}

type stubSource struct {
	name  string
	raw   *model.RawTable
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Load(context.Context) (*model.RawTable, error) {
	s.calls++
	return s.raw, s.err
}

func TestSQLSource(t *testing.T) {
	ctx := context.Background()

	Convey("Given a sqlite database with employees and departments", t, func() {
		dsn := sqliteDSN(t)

		Convey("When loading with the default query", func() {
			raw, err := NewSQL(DriverSQLite, dsn).Load(ctx)

			Convey("Then every row is returned as text with nulls preserved", func() {
				So(err, ShouldBeNil)
				So(raw.Source, ShouldEqual, model.SourceDatabase)
				So(raw.Columns, ShouldResemble, []string{"id", "name", "role", "salary", "joiningDate", "department"})
				So(raw.Len(), ShouldEqual, 3)
				So(raw.Rows[0].Get("department").String, ShouldEqual, "Information Technology")
				So(raw.Rows[0].Get("salary").String, ShouldEqual, "60000")
				So(raw.Rows[1].Get("salary").Valid, ShouldBeFalse)
				So(raw.Rows[2].Get("department").Valid, ShouldBeFalse)
				So(raw.Rows[2].Get("joiningDate").Valid, ShouldBeFalse)
			})
		})

		Convey("When the query references a missing table", func() {
			_, err := NewSQL(DriverSQLite, dsn, WithQuery("SELECT * FROM nowhere")).Load(ctx)

			Convey("Then ErrQueryFailed is returned", func() {
				So(errors.Is(err, ErrQueryFailed), ShouldBeTrue)
			})
		})
	})

	Convey("Given connection problems", t, func() {
		Convey("When the url is empty", func() {
			_, err := NewSQL(DriverPostgres, "").Load(ctx)

			Convey("Then ErrConnectionFailed is returned", func() {
				So(errors.Is(err, ErrConnectionFailed), ShouldBeTrue)
			})
		})

		Convey("When the driver is unknown", func() {
			_, err := NewSQL("nope", "x").Load(ctx)

			Convey("Then ErrConnectionFailed is returned", func() {
				So(errors.Is(err, ErrConnectionFailed), ShouldBeTrue)
			})
		})
	})
}

func TestCSVSource(t *testing.T) {
	ctx := context.Background()

	Convey("Given a csv file with missing cells", t, func() {
		path := filepath.Join(t.TempDir(), "employees.csv")
		content := "id,name,role,salary,department,extra\n" +
			"1,Ann,Developer,60000,Fin,x\n" +
			"2,Bo,HR,NA,,y\n" +
			"3,Cy,Ops,null,Admin,z\n"
		So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)

		Convey("When loading", func() {
			raw, err := NewCSV(path).Load(ctx)

			Convey("Then columns and values are read as text", func() {
				So(err, ShouldBeNil)
				So(raw.Source, ShouldEqual, model.SourceCSV)
				So(raw.Columns, ShouldResemble, []string{"id", "name", "role", "salary", "department", "extra"})
				So(raw.Len(), ShouldEqual, 3)
				So(raw.Rows[0].Get("salary").String, ShouldEqual, "60000")
				So(raw.Rows[0].Get("department").String, ShouldEqual, "Fin")
			})

			Convey("Then empty and NA cells are null", func() {
				So(raw.Rows[1].Get("salary").Valid, ShouldBeFalse)
				So(raw.Rows[1].Get("department").Valid, ShouldBeFalse)
				So(raw.Rows[2].Get("salary").Valid, ShouldBeFalse)
			})
		})
	})

	Convey("Given no csv file", t, func() {
		path := filepath.Join(t.TempDir(), "employees.csv")

		Convey("When loading", func() {
			raw, err := NewCSV(path).Load(ctx)

			Convey("Then the sample dataset is returned and persisted", func() {
				So(err, ShouldBeNil)
				So(raw.Source, ShouldEqual, model.SourceSample)
				So(raw.Len(), ShouldEqual, 10)
				So(raw.Columns, ShouldResemble, model.EmployeeColumns)
				So(raw.Rows[7].Get("salary").String, ShouldEqual, "90000")
				So(raw.Rows[7].Get("joiningDate").String, ShouldEqual, "2015-01-01")

				again, err := NewCSV(path).Load(ctx)
				So(err, ShouldBeNil)
				So(again.Source, ShouldEqual, model.SourceCSV)
				So(again.Len(), ShouldEqual, 10)
				So(again.Rows[9].Get("performance_score").String, ShouldEqual, "89")
			})
		})

		Convey("When the parent directory is missing too", func() {
			raw, err := NewCSV(filepath.Join(t.TempDir(), "missing", "employees.csv")).Load(ctx)

			Convey("Then the sample is still returned", func() {
				So(err, ShouldBeNil)
				So(raw.Len(), ShouldEqual, 10)
			})
		})
	})

	Convey("Given a csv file with a header and no rows", t, func() {
		path := filepath.Join(t.TempDir(), "employees.csv")
		So(os.WriteFile(path, []byte("id,name,salary\n"), 0o600), ShouldBeNil)

		Convey("When loading", func() {
			raw, err := NewCSV(path).Load(ctx)

			Convey("Then an empty table with the header columns is returned", func() {
				So(err, ShouldBeNil)
				So(raw.Source, ShouldEqual, model.SourceCSV)
				So(raw.Columns, ShouldResemble, []string{"id", "name", "salary"})
				So(raw.Len(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given an empty csv file", t, func() {
		path := filepath.Join(t.TempDir(), "employees.csv")
		So(os.WriteFile(path, nil, 0o600), ShouldBeNil)

		Convey("Then ErrReadFailed is returned", func() {
			_, err := NewCSV(path).Load(ctx)
			So(errors.Is(err, ErrReadFailed), ShouldBeTrue)
		})
	})

	Convey("Given a csv file with ragged rows", t, func() {
		path := filepath.Join(t.TempDir(), "employees.csv")
		content := "id,name,salary,department\n" +
			"1,Ann,60000,Fin\n" +
			"2,Bo,50000\n" +
			"3,Cy,40000,Ops,overflow\n"
		So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)

		Convey("When loading", func() {
			raw, err := NewCSV(path).Load(ctx)

			Convey("Then short rows read the missing cells as null", func() {
				So(err, ShouldBeNil)
				So(raw.Len(), ShouldEqual, 3)
				So(raw.Rows[1].Get("salary").String, ShouldEqual, "50000")
				So(raw.Rows[1].Get("department").Valid, ShouldBeFalse)
			})

			Convey("Then long rows keep the header width", func() {
				So(raw.Columns, ShouldResemble, []string{"id", "name", "salary", "department"})
				So(raw.Rows[2].Get("department").String, ShouldEqual, "Ops")
			})
		})
	})

	Convey("Given a path that is a directory", t, func() {
		_, err := NewCSV(t.TempDir()).Load(ctx)

		Convey("Then ErrReadFailed is returned", func() {
			So(errors.Is(err, ErrReadFailed), ShouldBeTrue)
		})
	})
}

func TestSampleRecords(t *testing.T) {
	Convey("Given the sample records", t, func() {
		records := SampleRecords()

		Convey("Then there is a header and ten employees", func() {
			So(len(records), ShouldEqual, 11)
			So(records[0], ShouldResemble, model.EmployeeColumns)
			So(records[1], ShouldResemble, []string{"1", "Employee 1", "Developer", "60000", "2", "IT", "2022-01-15", "85"})
			So(records[10], ShouldResemble, []string{"10", "Employee 10", "Designer", "57000", "5", "Design", "2020-03-15", "89"})
		})
	})
}

func TestAcquirer(t *testing.T) {
	ctx := context.Background()
	table := &model.RawTable{Source: model.SourceCSV, Columns: []string{"id"}}

	Convey("Given a healthy primary", t, func() {
		primary := &stubSource{name: "database", raw: &model.RawTable{Source: model.SourceDatabase}}
		fallback := &stubSource{name: "csv", raw: table}

		Convey("When acquiring", func() {
			raw, err := NewAcquirer(primary, fallback).Acquire(ctx)

			Convey("Then the fallback is not touched", func() {
				So(err, ShouldBeNil)
				So(raw.Source, ShouldEqual, model.SourceDatabase)
				So(fallback.calls, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a failing primary", t, func() {
		primary := &stubSource{name: "database", err: ErrConnectionFailed}
		fallback := &stubSource{name: "csv", raw: table}

		Convey("When fallback is enabled", func() {
			raw, err := NewAcquirer(primary, fallback).Acquire(ctx)

			Convey("Then the fallback table is returned", func() {
				So(err, ShouldBeNil)
				So(raw, ShouldEqual, table)
				So(fallback.calls, ShouldEqual, 1)
			})
		})

		Convey("When fallback is disabled", func() {
			_, err := NewAcquirer(primary, fallback, WithFallbackEnabled(false)).Acquire(ctx)

			Convey("Then ErrSourceUnavailable wraps the primary error", func() {
				So(errors.Is(err, ErrSourceUnavailable), ShouldBeTrue)
				So(errors.Is(err, ErrConnectionFailed), ShouldBeTrue)
				So(fallback.calls, ShouldEqual, 0)
			})
		})

		Convey("When the fallback fails as well", func() {
			fallback.err = ErrReadFailed
			fallback.raw = nil
			_, err := NewAcquirer(primary, fallback).Acquire(ctx)

			Convey("Then both failures are named", func() {
				So(errors.Is(err, ErrSourceUnavailable), ShouldBeTrue)
				So(errors.Is(err, ErrConnectionFailed), ShouldBeTrue)
				So(errors.Is(err, ErrReadFailed), ShouldBeTrue)
			})
		})
	})

	Convey("Given no primary at all", t, func() {
		fallback := &stubSource{name: "csv", raw: table}
		raw, err := NewAcquirer(nil, fallback).Acquire(ctx)

		Convey("Then the fallback is used", func() {
			So(err, ShouldBeNil)
			So(raw, ShouldEqual, table)
		})
	})
}
