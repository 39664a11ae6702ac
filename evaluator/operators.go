package evaluator

import (
	"github.com/oarkflow/monkey/object"
)

func (e *Evaluator) evalPrefixExpression(operator string, right object.Object) object.Object {
	switch operator {
	case "!":
		return object.NativeBool(!isTruthy(right))
	case "-":
		if integer, ok := right.(*object.Integer); ok {
			return &object.Integer{Value: -integer.Value}
		}
	}
	return e.unsupported("unknown operator: %s%s", operator, right.Type())
}

func (e *Evaluator) evalInfixExpression(operator string, left, right object.Object) object.Object {
	l, lok := left.(*object.Integer)
	r, rok := right.(*object.Integer)
	if lok && rok {
		return e.evalIntegerInfixExpression(operator, l.Value, r.Value)
	}

	ls, lok := left.(*object.String)
	rs, rok := right.(*object.String)
	if lok && rok {
		return e.evalStringInfixExpression(operator, ls.Value, rs.Value)
	}

	switch operator {
	case "==":
		return object.NativeBool(equal(left, right))
	case "!=":
		return object.NativeBool(!equal(left, right))
	}
	return e.unsupported("unknown operator: %s %s %s", left.Type(), operator, right.Type())
}

func (e *Evaluator) evalIntegerInfixExpression(operator string, left, right int64) object.Object {
	switch operator {
	case "+":
		return &object.Integer{Value: left + right}
	case "-":
		return &object.Integer{Value: left - right}
	case "*":
		return &object.Integer{Value: left * right}
	case "/":
		if right == 0 {
			return object.Errorf("division by zero")
		}
		return &object.Integer{Value: left / right}
	case "<":
		return object.NativeBool(left < right)
	case ">":
		return object.NativeBool(left > right)
	case "==":
		return object.NativeBool(left == right)
	case "!=":
		return object.NativeBool(left != right)
	}
	return e.unsupported("unknown operator: INTEGER %s INTEGER", operator)
}

func (e *Evaluator) evalStringInfixExpression(operator string, left, right string) object.Object {
	switch operator {
	case "+":
		return &object.String{Value: left + right}
	case "==":
		return object.NativeBool(left == right)
	case "!=":
		return object.NativeBool(left != right)
	}
	return e.unsupported("unknown operator: STRING %s STRING", operator)
}

// equal compares integers and strings by value and everything else by
// identity. Booleans and null are singletons, so identity is value equality
// for them too.
func equal(left, right object.Object) bool {
	switch l := left.(type) {
	case *object.Integer:
		if r, ok := right.(*object.Integer); ok {
			return l.Value == r.Value
		}
	case *object.String:
		if r, ok := right.(*object.String); ok {
			return l.Value == r.Value
		}
	}
	return left == right
}
