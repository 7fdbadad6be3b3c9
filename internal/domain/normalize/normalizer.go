package normalize

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/okian/emsanalytics/internal/domain/dedupe"
	"github.com/okian/emsanalytics/internal/domain/model"
	"github.com/okian/emsanalytics/pkg/logger"
)

// Default settings.
const (
	DefaultSeed = 42
)

// Stats counts what one Normalize call changed.
type Stats struct {
	Rows         int
	Duplicates   int
	Departments  int
	Salaries     int
	JoiningDates int
	Experience   int
	Performance  int
}

// Normalizer turns raw tables into complete employee tables.
type Normalizer struct {
	aliases       map[string]string
	seed          int64
	referenceYear int
	now           func() time.Time
	fallbackDate  time.Time
	logger        logger.Logger
	newDeduper    func(capacity int) dedupe.Deduper
}

// New creates a Normalizer with the default alias table, seed 42 and the
// 2020-01-01 fallback joining date.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		aliases:      DefaultAliases(),
		seed:         DefaultSeed,
		now:          time.Now,
		fallbackDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		newDeduper: func(capacity int) dedupe.Deduper {
			return dedupe.NewInMemoryDeduper(dedupe.WithCapacity(capacity))
		},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize drops duplicate ids, decodes raw, then repairs departments,
// salaries, experience and performance in that order. Every returned record
// has all four fields present. The same input and seed give the same output.
func (n *Normalizer) Normalize(ctx context.Context, raw *model.RawTable) (*model.Table, Stats, error) {
	if n.logger == nil {
		n.logger = logger.Get()
	}
	var st Stats
	if raw.Len() == 0 {
		return nil, st, fmt.Errorf("%w: source returned no rows", ErrNoData)
	}

	unique, dropped := n.dropDuplicates(ctx, raw)
	st.Duplicates = dropped

	t := Decode(unique)
	st.Rows = t.Len()

	//nolint:gosec // deterministic synthesis, not security sensitive
	rng := rand.New(rand.NewSource(n.seed))

	st.Departments = CanonicalizeDepartments(t, n.aliases)
	st.Salaries = RepairSalaries(t)
	exp := DeriveExperience(t, n.year(), n.fallbackDate, rng)
	st.JoiningDates = exp.JoiningDates
	st.Experience = exp.Synthesized
	st.Performance = RepairPerformance(t, rng)

	n.logger.Debug(ctx, "table normalized",
		logger.String("source", t.Source),
		logger.Int("rows", st.Rows),
		logger.Int("duplicates", st.Duplicates),
		logger.Int("departments_filled", st.Departments),
		logger.Int("salaries_filled", st.Salaries),
		logger.Int("joining_dates_filled", st.JoiningDates),
		logger.Int("experience_synthesized", st.Experience),
		logger.Int("performance_synthesized", st.Performance),
	)
	return t, st, nil
}

func (n *Normalizer) year() int {
	if n.referenceYear > 0 {
		return n.referenceYear
	}
	return n.now().Year()
}

// dropDuplicates keeps the first row of each parseable id.
func (n *Normalizer) dropDuplicates(ctx context.Context, raw *model.RawTable) (*model.RawTable, int) {
	seen := n.newDeduper(raw.Len())
	out := &model.RawTable{
		Source:  raw.Source,
		Columns: raw.Columns,
		Rows:    make([]model.RawRow, 0, len(raw.Rows)),
	}
	dropped := 0
	for _, row := range raw.Rows {
		id, ok := parseInt(row.Get(model.ColumnID))
		if ok && seen.SeenAndRecord(ctx, strconv.FormatInt(id.Int64, 10)) {
			dropped++
			n.logger.Warn(ctx, "duplicate employee id dropped", logger.Int("id", int(id.Int64)))
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out, dropped
}
