package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/example/floor/internal/core/schedule"
)

type options struct {
	now     func() time.Time
	horizon int
	logger  *zap.Logger
}

// Option configures a service.
type Option func(*options)

// WithClock replaces time.Now, so "today" is deterministic in tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithSearchHorizon sets how many start days a next-available-date search probes.
func WithSearchHorizon(days int) Option {
	return func(o *options) {
		if days > 0 {
			o.horizon = days
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:     time.Now,
		horizon: schedule.DefaultSearchHorizon,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
