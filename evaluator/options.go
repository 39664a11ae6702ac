package evaluator

import (
	"github.com/oarkflow/log"

	"github.com/oarkflow/monkey/object"
)

type Option func(*Evaluator)

// DefaultLogger returns a copy of log.DefaultLogger at info level.
func DefaultLogger() *log.Logger {
	logger := log.DefaultLogger
	logger.Level = log.InfoLevel
	return &logger
}

// WithBuiltins replaces the built-in registry. A nil registry disables
// built-ins entirely.
func WithBuiltins(builtins object.Builtins) Option {
	return func(e *Evaluator) {
		e.builtins = builtins
	}
}

// WithStrict turns operations that would otherwise degrade to null into
// errors: unsupported operators, out-of-range indexes and arity mismatches.
func WithStrict(strict bool) Option {
	return func(e *Evaluator) {
		e.strict = strict
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxDepth bounds nested function calls. Zero or less keeps the default.
func WithMaxDepth(depth int) Option {
	return func(e *Evaluator) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}
