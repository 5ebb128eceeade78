package linker

import (
	"log/slog"

	"record-linker/options"
)

// Option configures a link, index or apply call.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	keys        options.CategoryEnum
	prevalidate bool
}

func newConfig(opts []Option) *config {
	cfg := &config{
		logger: slog.New(slog.DiscardHandler),
		keys:   options.CategoryNone,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithLogger sets the logger used for debug traces. Nothing is logged by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithKeyCategories allows key coercions when matching primary keys
// against secondary keys. The default is strict Go equality.
func WithKeyCategories(categories options.CategoryEnum) Option {
	return func(c *config) {
		c.keys = categories
	}
}

// WithPrevalidate resolves every key read and target write before the
// first record is mutated, so resolution failures leave the primary
// collection untouched. Failures raised by the mutators themselves can
// still interrupt the second pass.
func WithPrevalidate() Option {
	return func(c *config) {
		c.prevalidate = true
	}
}
