// Package object defines the runtime values produced by the evaluator.
package object

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oarkflow/monkey/ast"
)

type ObjectType int

const (
	INTEGER_OBJ ObjectType = iota
	BOOLEAN_OBJ
	STRING_OBJ
	NULL_OBJ
	RETURN_VALUE_OBJ
	ERROR_OBJ
	FUNCTION_OBJ
	BUILTIN_OBJ
	ARRAY_OBJ
	HASH_OBJ
)

func (ot ObjectType) String() string {
	switch ot {
	case INTEGER_OBJ:
		return "INTEGER"
	case BOOLEAN_OBJ:
		return "BOOLEAN"
	case STRING_OBJ:
		return "STRING"
	case NULL_OBJ:
		return "NULL"
	case RETURN_VALUE_OBJ:
		return "RETURN_VALUE"
	case ERROR_OBJ:
		return "ERROR"
	case FUNCTION_OBJ:
		return "FUNCTION"
	case BUILTIN_OBJ:
		return "BUILTIN"
	case ARRAY_OBJ:
		return "ARRAY"
	case HASH_OBJ:
		return "HASH"
	default:
		return "UNKNOWN"
	}
}

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

// String renders quoted so that "1" and 1 are told apart; Display gives
// the raw text.
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return strconv.Quote(s.Value) }

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// ReturnValue carries a returned value up to the enclosing call or program.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }

// Errorf builds an Error value.
func Errorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether obj is an Error value.
func IsError(obj Object) bool {
	return obj != nil && obj.Type() == ERROR_OBJ
}

// Function is a closure: Env is the defining environment, shared, not copied.
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	params := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.String()
	}
	return fmt.Sprintf("fn(%s) %s", strings.Join(params, ", "), f.Body.String())
}

type BuiltinFunction func(args ...Object) Object

type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin function " + b.Name }

type Array struct {
	Elements []Object
}

func (ao *Array) Type() ObjectType { return ARRAY_OBJ }
func (ao *Array) Inspect() string  { return inspect(ao, make(map[Object]bool)) }

// HashKey identifies a hash entry by value kind and raw value, so equal
// keys always collide and distinct keys never do.
type HashKey struct {
	Type ObjectType
	Int  int64
	Str  string
}

type Hashable interface {
	Object
	HashKey() HashKey
}

func (b *Boolean) HashKey() HashKey {
	var value int64
	if b.Value {
		value = 1
	}
	return HashKey{Type: BOOLEAN_OBJ, Int: value}
}

func (i *Integer) HashKey() HashKey {
	return HashKey{Type: INTEGER_OBJ, Int: i.Value}
}

func (s *String) HashKey() HashKey {
	return HashKey{Type: STRING_OBJ, Str: s.Value}
}

type HashPair struct {
	Key   Object
	Value Object
}

// Hash keeps its entries keyed by HashKey; Keys records first-insertion
// order so that rendering is stable.
type Hash struct {
	Pairs map[HashKey]HashPair
	Keys  []HashKey
}

func NewHash() *Hash {
	return &Hash{Pairs: make(map[HashKey]HashPair)}
}

// Set stores value under key, overwriting an existing entry in place.
func (h *Hash) Set(key Hashable, value Object) {
	hk := key.HashKey()
	if _, ok := h.Pairs[hk]; !ok {
		h.Keys = append(h.Keys, hk)
	}
	h.Pairs[hk] = HashPair{Key: key, Value: value}
}

// Get returns the value stored under key.
func (h *Hash) Get(key Hashable) (Object, bool) {
	pair, ok := h.Pairs[key.HashKey()]
	if !ok {
		return nil, false
	}
	return pair.Value, true
}

func (h *Hash) Type() ObjectType { return HASH_OBJ }
func (h *Hash) Inspect() string  { return inspect(h, make(map[Object]bool)) }

// inspect renders obj, printing every array or hash after its first
// appearance as [...] or {...}. push mutates in place, so containers may
// hold themselves.
func inspect(obj Object, seen map[Object]bool) string {
	switch obj := obj.(type) {
	case *Array:
		if seen[obj] {
			return "[...]"
		}
		seen[obj] = true
		parts := make([]string, len(obj.Elements))
		for i, e := range obj.Elements {
			parts[i] = inspect(e, seen)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Hash:
		if seen[obj] {
			return "{...}"
		}
		seen[obj] = true
		pairs := make([]string, 0, len(obj.Keys))
		for _, k := range obj.Keys {
			pair := obj.Pairs[k]
			pairs = append(pairs, fmt.Sprintf("%s: %s", pair.Key.Inspect(), inspect(pair.Value, seen)))
		}
		return "{" + strings.Join(pairs, ", ") + "}"
	case *ReturnValue:
		return inspect(obj.Value, seen)
	case nil:
		return "null"
	}
	return obj.Inspect()
}

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NULL  = &Null{}
)

// NativeBool returns the canonical Boolean for input.
func NativeBool(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// Display renders obj for user output: strings print without quotes,
// everything else as Inspect.
func Display(obj Object) string {
	if s, ok := obj.(*String); ok {
		return s.Value
	}
	if obj == nil {
		return "null"
	}
	return obj.Inspect()
}
