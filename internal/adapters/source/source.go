// Package source loads the raw employee table from the relational store or
// the flat file, and decides which of the two a run uses.
package source

import (
	"context"
	"fmt"

	"github.com/okian/emsanalytics/internal/domain/model"
	"github.com/okian/emsanalytics/pkg/logger"
	"github.com/okian/emsanalytics/pkg/metrics"
)

// Source produces the raw employee table. Values are left uncoerced.
type Source interface {
	Name() string
	Load(ctx context.Context) (*model.RawTable, error)
}

// Acquirer applies the source selection policy: primary first, then the
// fallback if enabled. Nothing is retried.
type Acquirer struct {
	primary         Source
	fallback        Source
	fallbackEnabled bool
	logger          logger.Logger
}

// AcquirerOption configures an Acquirer.
type AcquirerOption func(*Acquirer)

// WithFallbackEnabled toggles the switch to the fallback source.
func WithFallbackEnabled(enabled bool) AcquirerOption {
	return func(a *Acquirer) {
		a.fallbackEnabled = enabled
	}
}

// WithAcquirerLogger sets the logger.
func WithAcquirerLogger(l logger.Logger) AcquirerOption {
	return func(a *Acquirer) {
		a.logger = l
	}
}

// NewAcquirer creates an Acquirer. Fallback is enabled by default. A nil
// primary counts as a failed connection.
func NewAcquirer(primary, fallback Source, opts ...AcquirerOption) *Acquirer {
	a := &Acquirer{
		primary:         primary,
		fallback:        fallback,
		fallbackEnabled: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire returns the raw table of the first source that loads. Failures
// wrap ErrSourceUnavailable.
func (a *Acquirer) Acquire(ctx context.Context) (*model.RawTable, error) {
	if a.logger == nil {
		a.logger = logger.Get()
	}

	raw, err := a.load(ctx, a.primary)
	if err == nil {
		return raw, nil
	}
	metrics.RecordSourceFailure(failureKind(err))

	if !a.fallbackEnabled || a.fallback == nil {
		a.logger.Error(ctx, "primary source failed, fallback disabled", logger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	a.logger.Warn(ctx, "primary source failed, using fallback",
		logger.String("fallback", a.fallback.Name()),
		logger.Error(err),
	)

	raw, fbErr := a.load(ctx, a.fallback)
	if fbErr != nil {
		metrics.RecordSourceFailure(failureKind(fbErr))
		return nil, fmt.Errorf("%w: primary: %w; fallback: %w", ErrSourceUnavailable, err, fbErr)
	}
	return raw, nil
}

func (a *Acquirer) load(ctx context.Context, s Source) (*model.RawTable, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: no primary source configured", ErrConnectionFailed)
	}
	raw, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Info(ctx, "source loaded",
		logger.String("source", raw.Source),
		logger.Int("rows", raw.Len()),
	)
	return raw, nil
}
