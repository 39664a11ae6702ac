// Package monkey lexes, parses and evaluates programs written in the Monkey
// language. Most callers want Exec for one-off scripts or an Engine with
// Sessions for interactive use.
package monkey

import (
	"fmt"
	"os"
	"strings"

	"github.com/oarkflow/errors"

	"github.com/oarkflow/monkey/ast"
	"github.com/oarkflow/monkey/evaluator"
	"github.com/oarkflow/monkey/lexer"
	"github.com/oarkflow/monkey/object"
	"github.com/oarkflow/monkey/parser"
	"github.com/oarkflow/monkey/token"
)

var ErrNoProgram = errors.New("monkey: nil program")

// ParseError carries every diagnostic reported for a source unit.
type ParseError struct {
	Messages []string
}

func (e *ParseError) Error() string {
	return "parse errors: " + strings.Join(e.Messages, "; ")
}

// RuntimeError reports a program that evaluated to an error value.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string {
	return "runtime error: " + e.Message
}

func Tokenize(text string) []token.Token {
	return lexer.Tokenize(text)
}

// Parse returns a *ParseError when the source has diagnostics.
func Parse(text string) (*ast.Program, error) {
	program, errs := parser.ParseString(text)
	if len(errs) > 0 {
		return nil, &ParseError{Messages: errs}
	}
	return program, nil
}

// Evaluate runs program in env with the default built-ins in permissive
// mode. Runtime failures are returned as *object.Error values.
func Evaluate(program *ast.Program, env *object.Environment) object.Object {
	if program == nil {
		return object.Errorf("%v", ErrNoProgram)
	}
	return evaluator.New().Eval(program, env)
}

// NewEnvironment returns an empty top-level scope. Reuse it across inputs
// to keep let bindings.
func NewEnvironment() *object.Environment {
	return object.NewEnvironment()
}

// Exec parses script, binds data as top-level variables and evaluates it.
func Exec(script string, data map[string]any) (object.Object, error) {
	program, err := Parse(script)
	if err != nil {
		return nil, err
	}

	env := NewEnvironment()
	injectData(env, data)

	return resultOf(Evaluate(program, env))
}

// ExecFile is Exec on the contents of filename.
func ExecFile(filename string, data map[string]any) (object.Object, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Exec(string(content), data)
}

func injectData(env *object.Environment, data map[string]any) {
	for k, v := range data {
		env.Set(k, object.FromNative(v))
	}
}

func resultOf(obj object.Object) (object.Object, error) {
	if errObj, ok := obj.(*object.Error); ok {
		return nil, &RuntimeError{Message: errObj.Message}
	}
	return obj, nil
}
