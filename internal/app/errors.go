package service

import (
	"errors"

	"github.com/okian/emsanalytics/internal/adapters/source"
)

// Terminal failure kinds. A run that returns one of these wrote no reports.
var (
	ErrSourceUnavailable = source.ErrSourceUnavailable
	ErrSourceEmpty       = errors.New("source empty")
	ErrFilesystem        = errors.New("filesystem error")
)

// StageError names the stage a run failed in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }
