package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/okian/emsanalytics/internal/domain/model"
)

// defaultQuery joins employees to their department names.
const defaultQuery = `SELECT e.id, e.name, e.role, e.salary, e.joining_date AS "joiningDate", d.name AS department
FROM employee e
LEFT JOIN department d ON e.department_id = d.id`

// SQLSource reads employees from a relational store through database/sql.
type SQLSource struct {
	driver string
	dsn    string
	query  string
}

// SQLOption configures an SQLSource.
type SQLOption func(*SQLSource)

// WithQuery replaces the employee query. It must return columns named after
// the canonical employee columns.
func WithQuery(q string) SQLOption {
	return func(s *SQLSource) {
		if q != "" {
			s.query = q
		}
	}
}

// NewSQL creates a source for driver and dsn. An empty dsn fails to connect.
func NewSQL(driver, dsn string, opts ...SQLOption) *SQLSource {
	s := &SQLSource{
		driver: driver,
		dsn:    dsn,
		query:  defaultQuery,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source name.
func (s *SQLSource) Name() string { return model.SourceDatabase }

// Load opens a connection, runs the query and closes the connection. Every
// cell is read as text; NULL stays null.
func (s *SQLSource) Load(ctx context.Context) (*model.RawTable, error) {
	if s.dsn == "" {
		return nil, fmt.Errorf("%w: database url is empty", ErrConnectionFailed)
	}
	db, err := sqlx.ConnectContext(ctx, s.driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, s.driver, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryxContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: columns: %w", ErrQueryFailed, err)
	}

	raw := &model.RawTable{Source: model.SourceDatabase, Columns: columns}
	cells := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrQueryFailed, err)
		}
		row := make(model.RawRow, len(columns))
		for i, c := range columns {
			row[c] = cells[i]
		}
		raw.Rows = append(raw.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return raw, nil
}
