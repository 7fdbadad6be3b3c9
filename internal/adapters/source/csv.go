package source

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/okian/emsanalytics/internal/domain/model"
	"github.com/okian/emsanalytics/pkg/logger"
)

// missingValues are the cell spellings read as null.
var missingValues = []string{"", "NA", "NaN", "null"} //nolint:gochecknoglobals // read-only

// CSVSource reads employees from a delimited file with a header row. A
// missing file is seeded with the sample dataset.
type CSVSource struct {
	path   string
	logger logger.Logger
}

// CSVOption configures a CSVSource.
type CSVOption func(*CSVSource)

// WithCSVLogger sets the logger.
func WithCSVLogger(l logger.Logger) CSVOption {
	return func(s *CSVSource) {
		s.logger = l
	}
}

// NewCSV creates a source for the file at path.
func NewCSV(path string, opts ...CSVOption) *CSVSource {
	s := &CSVSource{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source name.
func (s *CSVSource) Name() string { return model.SourceCSV }

// Load reads the file. When it does not exist the sample dataset is written
// to path and returned.
func (s *CSVSource) Load(ctx context.Context) (*model.RawTable, error) {
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.seed(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, s.path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := readRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, s.path, err)
	}
	if len(records) == 1 {
		return &model.RawTable{Source: model.SourceCSV, Columns: records[0]}, nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, s.path, df.Err)
	}
	return fromDataFrame(model.SourceCSV, df), nil
}

func (s *CSVSource) seed(ctx context.Context) (*model.RawTable, error) {
	raw := Sample()
	if err := writeRecords(s.path, SampleRecords()); err != nil {
		s.logger.Warn(ctx, "sample dataset not persisted", logger.String("path", s.path), logger.Error(err))
		return raw, nil
	}
	s.logger.Info(ctx, "sample dataset created", logger.String("path", s.path), logger.Int("rows", raw.Len()))
	return raw, nil
}

// readRecords reads every record of r. Short rows are padded to the header
// width with empty cells; long rows are cut to it.
func readRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("missing header row")
	}
	width := len(records[0])
	for i, rec := range records[1:] {
		switch {
		case len(rec) < width:
			records[i+1] = append(rec, make([]string, width-len(rec))...)
		case len(rec) > width:
			records[i+1] = rec[:width]
		}
	}
	return records, nil
}

func fromDataFrame(name string, df dataframe.DataFrame) *model.RawTable {
	columns := df.Names()
	raw := &model.RawTable{Source: name, Columns: columns}
	rows := df.Nrow()
	raw.Rows = make([]model.RawRow, rows)
	for i := range raw.Rows {
		raw.Rows[i] = make(model.RawRow, len(columns))
	}
	for _, c := range columns {
		col := df.Col(c)
		for i := 0; i < rows; i++ {
			el := col.Elem(i)
			if el.IsNA() {
				raw.Rows[i][c] = sql.NullString{}
				continue
			}
			raw.Rows[i][c] = sql.NullString{String: el.String(), Valid: true}
		}
	}
	return raw
}

func writeRecords(path string, records [][]string) error {
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return df.Err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
