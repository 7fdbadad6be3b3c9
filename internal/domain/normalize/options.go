package normalize

import (
	"maps"
	"time"

	"github.com/okian/emsanalytics/internal/domain/dedupe"
	"github.com/okian/emsanalytics/internal/domain/model"
	"github.com/okian/emsanalytics/pkg/logger"
)

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithAliases replaces the department alias table.
func WithAliases(aliases map[string]string) Option {
	return func(n *Normalizer) {
		n.aliases = maps.Clone(aliases)
	}
}

// WithSeed sets the seed of synthesized experience and performance values.
func WithSeed(seed int64) Option {
	return func(n *Normalizer) {
		n.seed = seed
	}
}

// WithReferenceYear pins the year experience is measured against. Zero
// uses the clock's current year.
func WithReferenceYear(year int) Option {
	return func(n *Normalizer) {
		n.referenceYear = year
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// WithFallbackJoiningDate sets the date used for missing joining dates.
func WithFallbackJoiningDate(d time.Time) Option {
	return func(n *Normalizer) {
		n.fallbackDate = model.Date(d)
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		n.logger = l
	}
}

// WithDeduper sets the id tracker factory. A fresh deduper sized for the
// raw table is made per call.
func WithDeduper(factory func(capacity int) dedupe.Deduper) Option {
	return func(n *Normalizer) {
		if factory != nil {
			n.newDeduper = factory
		}
	}
}
