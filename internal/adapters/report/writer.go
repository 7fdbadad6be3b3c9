// Package report renders an analytics report into its JSON, CSV and PNG
// artifacts and prints the console summary.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/emsanalytics/internal/domain/model"
	"github.com/okian/emsanalytics/pkg/logger"
	"github.com/okian/emsanalytics/pkg/metrics"
)

// Default file permissions.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// artifact is one rendered file waiting to be committed.
type artifact struct {
	name string
	data []byte
}

// staged is an artifact written to a temp file beside its target. backup
// holds the previous run's file once it has been moved aside.
type staged struct {
	target string
	tmp    string
	backup string
}

// Writer emits report artifacts into a fixed output directory.
type Writer struct {
	dir        string
	renderPlot bool
	logger     logger.Logger
	rename     func(oldpath, newpath string) error
}

// Option configures a Writer.
type Option func(*Writer)

// WithPlot toggles the salary/experience PNG.
func WithPlot(enabled bool) Option {
	return func(w *Writer) {
		w.renderPlot = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		w.logger = l
	}
}

// NewWriter creates a Writer for dir. The plot is rendered by default.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{dir: dir, renderPlot: true, rename: os.Rename}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Write renders every artifact, then commits them. Every file is staged
// before any is swapped into place; on failure the previous run's files are
// restored. It returns the written paths.
func (w *Writer) Write(ctx context.Context, r *model.Report) ([]string, error) {
	if w.logger == nil {
		w.logger = logger.Get()
	}
	artifacts, err := w.render(r)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(w.dir, dirPerm); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrWriteFailed, w.dir, err)
	}

	files := make([]*staged, 0, len(artifacts))
	for _, a := range artifacts {
		f, err := stage(filepath.Join(w.dir, a.name), a.data)
		if err != nil {
			w.discard(ctx, files)
			return nil, fmt.Errorf("%w: %s: %w", ErrWriteFailed, a.name, err)
		}
		files = append(files, f)
	}

	for i, f := range files {
		if err := w.swap(f); err != nil {
			w.restore(ctx, files[:i+1])
			w.discard(ctx, files)
			return nil, fmt.Errorf("%w: %s: %w", ErrWriteFailed, filepath.Base(f.target), err)
		}
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		if f.backup != "" {
			if err := os.Remove(f.backup); err != nil {
				w.logger.Warn(ctx, "previous report not removed", logger.String("path", f.backup), logger.Error(err))
			}
		}
		paths = append(paths, f.target)
		metrics.RecordArtifactWritten()
	}
	w.logger.Info(ctx, "reports written",
		logger.String("dir", w.dir),
		logger.Int("files", len(paths)),
	)
	return paths, nil
}

func (w *Writer) render(r *model.Report) ([]artifact, error) {
	if r == nil || r.Table == nil {
		return nil, fmt.Errorf("%w: report has no table", ErrRenderFailed)
	}
	report, err := RenderJSON(r)
	if err != nil {
		return nil, err
	}
	departments, err := RenderDepartmentCSV(r)
	if err != nil {
		return nil, err
	}
	full, err := RenderFullCSV(r.Table)
	if err != nil {
		return nil, err
	}
	out := []artifact{
		{name: ReportJSON, data: report},
		{name: DepartmentCSV, data: departments},
		{name: FullDataCSV, data: full},
	}
	if w.renderPlot {
		png, err := RenderPlot(r)
		if err != nil {
			return nil, err
		}
		out = append(out, artifact{name: SalaryPlotPNG, data: png})
	}
	return out, nil
}

// stage writes data to a temp file next to target. A directory in the way
// of target fails here, before anything is swapped.
func stage(target string, data []byte) (*staged, error) {
	if fi, err := os.Lstat(target); err == nil && fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", target)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return nil, err
	}
	name := tmp.Name()
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(name)
		return nil, err
	}
	if err := os.Chmod(name, filePerm); err != nil {
		_ = os.Remove(name)
		return nil, err
	}
	return &staged{target: target, tmp: name}, nil
}

// swap moves the existing target aside and renames the temp file into its
// place. tmp is cleared once it has become target.
func (w *Writer) swap(f *staged) error {
	if _, err := os.Lstat(f.target); err == nil {
		backup := f.tmp + ".prev"
		if err := w.rename(f.target, backup); err != nil {
			return err
		}
		f.backup = backup
	}
	if err := w.rename(f.tmp, f.target); err != nil {
		return err
	}
	f.tmp = ""
	return nil
}

// restore undoes swapped files in reverse order: new files are removed and
// backups are moved back.
func (w *Writer) restore(ctx context.Context, files []*staged) {
	for i := len(files) - 1; i >= 0; i-- {
		f := files[i]
		if f.tmp == "" {
			if err := os.Remove(f.target); err != nil && !errors.Is(err, os.ErrNotExist) {
				w.logger.Error(ctx, "rollback failed", logger.String("path", f.target), logger.Error(err))
			}
		}
		if f.backup == "" {
			continue
		}
		if err := os.Rename(f.backup, f.target); err != nil {
			w.logger.Error(ctx, "previous report not restored", logger.String("path", f.target), logger.Error(err))
			continue
		}
		f.backup = ""
	}
}

// discard removes temp files that never became a target.
func (w *Writer) discard(ctx context.Context, files []*staged) {
	for _, f := range files {
		if f.tmp == "" {
			continue
		}
		if err := os.Remove(f.tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
			w.logger.Warn(ctx, "temp file not removed", logger.String("path", f.tmp), logger.Error(err))
		}
	}
}
