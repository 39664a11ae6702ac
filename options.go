package monkey

import (
	"io"

	"github.com/oarkflow/errors"
	"github.com/oarkflow/log"

	"github.com/oarkflow/monkey/object"
)

type Option func(*Engine) error

func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		e.logger = logger
		return nil
	}
}

// WithStrict makes unsupported operations, out-of-range indexes and arity
// mismatches evaluate to errors instead of null.
func WithStrict(strict bool) Option {
	return func(e *Engine) error {
		e.strict = strict
		return nil
	}
}

func WithBuiltins(builtins object.Builtins) Option {
	return func(e *Engine) error {
		e.builtins = builtins
		return nil
	}
}

// WithOutput sends puts output to w.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) error {
		if w == nil {
			return errors.New("output writer must not be nil")
		}
		e.output = w
		return nil
	}
}

// WithCacheSize sets how many parsed programs are kept. Zero disables the
// cache.
func WithCacheSize(size int64) Option {
	return func(e *Engine) error {
		if size < 0 {
			return errors.New("cache size must not be negative")
		}
		e.cacheSize = size
		return nil
	}
}

func WithMaxDepth(depth int) Option {
	return func(e *Engine) error {
		if depth < 0 {
			return errors.New("max depth must not be negative")
		}
		e.maxDepth = depth
		return nil
	}
}
