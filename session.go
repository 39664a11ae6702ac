package monkey

import (
	"context"
	"sync"
	"time"

	"github.com/oarkflow/xid"

	"github.com/oarkflow/monkey/evaluator"
	"github.com/oarkflow/monkey/object"
)

// Session is one interactive top-level scope. Inputs evaluated in the same
// session see each other's let bindings.
type Session struct {
	ID      string
	Env     *object.Environment
	Created time.Time

	engine   *Engine
	eval     *evaluator.Evaluator
	mu       sync.Mutex
	lastUsed time.Time
}

// Result describes the value an input evaluated to.
type Result struct {
	Value    object.Object `json:"-"`
	Type     string        `json:"type"`
	Inspect  string        `json:"inspect"`
	Native   any           `json:"value"`
	Duration time.Duration `json:"duration"`
}

func NewResult(value object.Object, elapsed time.Duration) Result {
	return Result{
		Value:    value,
		Type:     value.Type().String(),
		Inspect:  value.Inspect(),
		Native:   object.ToNative(value),
		Duration: elapsed,
	}
}

func (e *Engine) NewSession() *Session {
	now := time.Now()
	s := &Session{
		ID:       xid.New().String(),
		Env:      object.NewEnvironment(),
		Created:  now,
		engine:   e,
		eval:     e.Evaluator(),
		lastUsed: now,
	}
	e.logger.Debug().Str("session", s.ID).Msg("session created")
	return s
}

// Eval parses and evaluates source in the session's scope. A program that
// evaluates to an error value yields both its Result and a *RuntimeError.
func (s *Session) Eval(ctx context.Context, source string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	program, err := s.engine.Parse(source)
	if err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	value := s.eval.Eval(program, s.Env)
	elapsed := time.Since(start)
	s.lastUsed = time.Now()

	result := NewResult(value, elapsed)
	if errObj, ok := value.(*object.Error); ok {
		s.engine.logger.Debug().Str("session", s.ID).Str("error", errObj.Message).Msg("evaluation failed")
		return result, &RuntimeError{Message: errObj.Message}
	}
	s.engine.logger.Debug().Str("session", s.ID).Dur("elapsed", elapsed).Msg("evaluated")
	return result, nil
}

func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Bindings renders every top-level binding of the session.
func (s *Session) Bindings() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string)
	for _, name := range s.Env.Names() {
		if val, ok := s.Env.Get(name); ok {
			out[name] = val.Inspect()
		}
	}
	return out
}
