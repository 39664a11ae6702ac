// Package evaluator walks an ast.Program and produces object values.
package evaluator

import (
	"github.com/oarkflow/log"

	"github.com/oarkflow/monkey/ast"
	"github.com/oarkflow/monkey/object"
)

const DefaultMaxDepth = 10000

// Evaluator holds the configuration for evaluating programs. It tracks call
// depth while running, so a single Evaluator must not be shared between
// goroutines.
type Evaluator struct {
	builtins object.Builtins
	strict   bool
	logger   *log.Logger
	maxDepth int
	depth    int
}

func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		builtins: object.DefaultBuiltins(),
		logger:   DefaultLogger(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) Strict() bool {
	return e.strict
}

func (e *Evaluator) Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {
	case nil:
		return object.Errorf("cannot evaluate missing node")

	// Statements
	case *ast.Program:
		return e.evalProgram(node, env)

	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)

	case *ast.BlockStatement:
		return e.evalBlockStatement(node, env)

	case *ast.LetStatement:
		val := e.Eval(node.Value, env)
		if isAbrupt(val) {
			return val
		}
		env.Set(node.Name.Name, val)
		return object.NULL

	case *ast.ReturnStatement:
		val := e.Eval(node.ReturnValue, env)
		if isAbrupt(val) {
			return val
		}
		return &object.ReturnValue{Value: val}

	// Expressions
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}

	case *ast.BooleanLiteral:
		return object.NativeBool(node.Value)

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.Identifier:
		return e.evalIdentifier(node, env)

	case *ast.PrefixExpression:
		right := e.Eval(node.Right, env)
		if isAbrupt(right) {
			return right
		}
		return e.evalPrefixExpression(node.Operator, right)

	case *ast.InfixExpression:
		left := e.Eval(node.Left, env)
		if isAbrupt(left) {
			return left
		}
		right := e.Eval(node.Right, env)
		if isAbrupt(right) {
			return right
		}
		return e.evalInfixExpression(node.Operator, left, right)

	case *ast.IfExpression:
		return e.evalIfExpression(node, env)

	case *ast.FunctionLiteral:
		return &object.Function{Parameters: node.Parameters, Body: node.Body, Env: env}

	case *ast.CallExpression:
		function := e.Eval(node.Function, env)
		if isAbrupt(function) {
			return function
		}
		args, abrupt := e.evalExpressions(node.Arguments, env)
		if abrupt != nil {
			return abrupt
		}
		return e.applyFunction(function, args)

	case *ast.ArrayLiteral:
		elements, abrupt := e.evalExpressions(node.Elements, env)
		if abrupt != nil {
			return abrupt
		}
		return &object.Array{Elements: elements}

	case *ast.IndexExpression:
		left := e.Eval(node.Left, env)
		if isAbrupt(left) {
			return left
		}
		index := e.Eval(node.Index, env)
		if isAbrupt(index) {
			return index
		}
		return e.evalIndexExpression(left, index)

	case *ast.HashLiteral:
		return e.evalHashLiteral(node, env)
	}

	return object.Errorf("unknown node type: %T", node)
}

func (e *Evaluator) evalProgram(program *ast.Program, env *object.Environment) object.Object {
	var result object.Object = object.NULL

	for _, statement := range program.Statements {
		result = e.Eval(statement, env)

		switch result := result.(type) {
		case *object.ReturnValue:
			return result.Value
		case *object.Error:
			e.logger.Debug().Str("error", result.Message).Msg("evaluation stopped")
			return result
		}
	}

	return result
}

// evalBlockStatement hands ReturnValue up unchanged so the enclosing call
// can tell a return from falling off the end.
func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement, env *object.Environment) object.Object {
	var result object.Object = object.NULL
	if block == nil {
		return result
	}

	for _, statement := range block.Statements {
		result = e.Eval(statement, env)
		if isAbrupt(result) {
			return result
		}
	}

	return result
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *object.Environment) object.Object {
	if val, ok := env.Get(node.Name); ok {
		return val
	}
	if builtin, ok := e.builtins.Lookup(node.Name); ok {
		return builtin
	}
	return object.Errorf("identifier not found: %s", node.Name)
}

func (e *Evaluator) evalIfExpression(ie *ast.IfExpression, env *object.Environment) object.Object {
	condition := e.Eval(ie.Condition, env)
	if isAbrupt(condition) {
		return condition
	}

	switch {
	case isTruthy(condition):
		return e.Eval(ie.Consequence, env)
	case ie.Alternative != nil:
		return e.Eval(ie.Alternative, env)
	default:
		return object.NULL
	}
}

// evalExpressions evaluates exps in order and stops at the first error or
// return signal, which is handed back as the second result.
func (e *Evaluator) evalExpressions(exps []ast.Expression, env *object.Environment) ([]object.Object, object.Object) {
	result := make([]object.Object, 0, len(exps))

	for _, exp := range exps {
		evaluated := e.Eval(exp, env)
		if isAbrupt(evaluated) {
			return nil, evaluated
		}
		result = append(result, evaluated)
	}

	return result, nil
}

func (e *Evaluator) applyFunction(fn object.Object, args []object.Object) object.Object {
	switch fn := fn.(type) {
	case *object.Function:
		if e.strict && len(args) != len(fn.Parameters) {
			return object.Errorf("wrong number of arguments. got=%d, want=%d", len(args), len(fn.Parameters))
		}
		if e.depth >= e.maxDepth {
			return object.Errorf("maximum call depth of %d exceeded", e.maxDepth)
		}

		e.depth++
		evaluated := e.Eval(fn.Body, extendFunctionEnv(fn, args))
		e.depth--
		return unwrapReturnValue(evaluated)

	case *object.Builtin:
		if result := fn.Fn(args...); result != nil {
			return result
		}
		return object.NULL

	default:
		return object.Errorf("not a function: %s", fn.Type())
	}
}

// extendFunctionEnv binds parameters positionally. Missing arguments bind
// null and extra ones are dropped.
func extendFunctionEnv(fn *object.Function, args []object.Object) *object.Environment {
	env := object.NewEnclosedEnvironment(fn.Env)

	for i, param := range fn.Parameters {
		if i < len(args) {
			env.Set(param.Name, args[i])
		} else {
			env.Set(param.Name, object.NULL)
		}
	}

	return env
}

func unwrapReturnValue(obj object.Object) object.Object {
	if returnValue, ok := obj.(*object.ReturnValue); ok {
		return returnValue.Value
	}
	return obj
}

func (e *Evaluator) evalHashLiteral(node *ast.HashLiteral, env *object.Environment) object.Object {
	hash := object.NewHash()

	for _, pair := range node.Pairs {
		key := e.Eval(pair.Key, env)
		if isAbrupt(key) {
			return key
		}

		hashKey, ok := key.(object.Hashable)
		if !ok {
			return object.Errorf("unusable as hash key: %s", key.Type())
		}

		value := e.Eval(pair.Value, env)
		if isAbrupt(value) {
			return value
		}

		hash.Set(hashKey, value)
	}

	return hash
}

func (e *Evaluator) evalIndexExpression(left, index object.Object) object.Object {
	switch left := left.(type) {
	case *object.Array:
		if idx, ok := index.(*object.Integer); ok {
			return e.evalArrayIndexExpression(left, idx.Value)
		}
	case *object.Hash:
		key, ok := index.(object.Hashable)
		if !ok {
			return object.Errorf("unusable as hash key: %s", index.Type())
		}
		if val, ok := left.Get(key); ok {
			return val
		}
		return object.NULL
	}
	return e.unsupported("index operator not supported: %s[%s]", left.Type(), index.Type())
}

func (e *Evaluator) evalArrayIndexExpression(array *object.Array, idx int64) object.Object {
	if idx < 0 || idx >= int64(len(array.Elements)) {
		return e.unsupported("index out of range: %d with length %d", idx, len(array.Elements))
	}
	return array.Elements[idx]
}

// unsupported yields null, or an error in strict mode.
func (e *Evaluator) unsupported(format string, args ...any) object.Object {
	if e.strict {
		return object.Errorf(format, args...)
	}
	return object.NULL
}

// isTruthy holds only for the canonical true.
func isTruthy(obj object.Object) bool {
	return obj == object.TRUE
}

// isAbrupt reports values that end evaluation of the enclosing construct.
func isAbrupt(obj object.Object) bool {
	if obj == nil {
		return false
	}
	t := obj.Type()
	return t == object.ERROR_OBJ || t == object.RETURN_VALUE_OBJ
}
