package monkey

import (
	"fmt"
	"io"

	"github.com/dgraph-io/ristretto"
	"github.com/oarkflow/log"

	"github.com/oarkflow/monkey/ast"
	"github.com/oarkflow/monkey/evaluator"
	"github.com/oarkflow/monkey/object"
)

const DefaultCacheSize = 1024

// Engine parses and evaluates programs with a shared configuration. Parsed
// programs are cached by source text. An Engine is safe for concurrent use;
// the Sessions it creates each serialize their own evaluations.
type Engine struct {
	logger    *log.Logger
	strict    bool
	builtins  object.Builtins
	output    io.Writer
	cacheSize int64
	maxDepth  int
	cache     *ristretto.Cache
}

func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:    evaluator.DefaultLogger(),
		builtins:  object.DefaultBuiltins(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.output != nil {
		e.builtins = e.builtins.WithOutput(e.output)
	}

	if e.cacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: e.cacheSize * 10,
			MaxCost:     e.cacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("create parse cache: %w", err)
		}
		e.cache = cache
	}
	return e, nil
}

func (e *Engine) Logger() *log.Logger {
	return e.logger
}

func (e *Engine) Strict() bool {
	return e.strict
}

// Parse is the cached form of the package level Parse. Sources with
// diagnostics are never cached.
func (e *Engine) Parse(source string) (*ast.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(source); ok {
			return cached.(*ast.Program), nil
		}
	}

	program, err := Parse(source)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Set(source, program, 1)
	}
	return program, nil
}

// Evaluator returns a fresh evaluator configured like the engine.
func (e *Engine) Evaluator() *evaluator.Evaluator {
	return evaluator.New(
		evaluator.WithBuiltins(e.builtins),
		evaluator.WithStrict(e.strict),
		evaluator.WithLogger(e.logger),
		evaluator.WithMaxDepth(e.maxDepth),
	)
}

// Exec is the engine's counterpart of the package level Exec.
func (e *Engine) Exec(script string, data map[string]any) (object.Object, error) {
	program, err := e.Parse(script)
	if err != nil {
		return nil, err
	}

	env := object.NewEnvironment()
	injectData(env, data)

	return resultOf(e.Evaluator().Eval(program, env))
}

func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}
