package object

import (
	"fmt"
	"io"
	"os"
)

// Builtins maps names to native functions. Identifiers that are not bound
// in any scope are resolved here.
type Builtins map[string]*Builtin

type builtinDef struct {
	name string
	fn   func(out io.Writer) BuiltinFunction
}

var builtinDefs = []builtinDef{
	{"len", func(io.Writer) BuiltinFunction { return builtinLen }},
	{"first", func(io.Writer) BuiltinFunction { return builtinFirst }},
	{"last", func(io.Writer) BuiltinFunction { return builtinLast }},
	{"rest", func(io.Writer) BuiltinFunction { return builtinRest }},
	{"push", func(io.Writer) BuiltinFunction { return builtinPush }},
	{"puts", builtinPuts},
}

// DefaultBuiltins returns a fresh registry whose puts writes to stdout.
func DefaultBuiltins() Builtins {
	return newBuiltins(os.Stdout)
}

func newBuiltins(out io.Writer) Builtins {
	b := make(Builtins, len(builtinDefs))
	for _, def := range builtinDefs {
		b[def.name] = &Builtin{Name: def.name, Fn: def.fn(out)}
	}
	return b
}

// WithOutput returns a copy of b in which the standard built-ins that write
// output write to w. Custom entries are carried over unchanged.
func (b Builtins) WithOutput(w io.Writer) Builtins {
	out := make(Builtins, len(b))
	for name, fn := range b {
		out[name] = fn
	}
	for _, def := range builtinDefs {
		if _, ok := out[def.name]; ok {
			out[def.name] = &Builtin{Name: def.name, Fn: def.fn(w)}
		}
	}
	return out
}

// Lookup is nil-safe; a nil registry has no built-ins.
func (b Builtins) Lookup(name string) (*Builtin, bool) {
	fn, ok := b[name]
	return fn, ok
}

func wrongArgs(got, want int) *Error {
	return Errorf("wrong number of arguments. got=%d, want=%d", got, want)
}

func builtinLen(args ...Object) Object {
	if len(args) != 1 {
		return wrongArgs(len(args), 1)
	}

	switch arg := args[0].(type) {
	case *String:
		return &Integer{Value: int64(len(arg.Value))}
	case *Array:
		return &Integer{Value: int64(len(arg.Elements))}
	default:
		return Errorf("argument to `len` not supported, got %s", args[0].Type())
	}
}

func arrayArg(name string, args []Object, want int) (*Array, *Error) {
	if len(args) != want {
		return nil, wrongArgs(len(args), want)
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return nil, Errorf("argument to `%s` must be ARRAY, got %s", name, args[0].Type())
	}
	return arr, nil
}

func builtinFirst(args ...Object) Object {
	arr, err := arrayArg("first", args, 1)
	if err != nil {
		return err
	}
	if len(arr.Elements) == 0 {
		return NULL
	}
	return arr.Elements[0]
}

func builtinLast(args ...Object) Object {
	arr, err := arrayArg("last", args, 1)
	if err != nil {
		return err
	}
	if len(arr.Elements) == 0 {
		return NULL
	}
	return arr.Elements[len(arr.Elements)-1]
}

func builtinRest(args ...Object) Object {
	arr, err := arrayArg("rest", args, 1)
	if err != nil {
		return err
	}
	if len(arr.Elements) == 0 {
		return NULL
	}
	elements := make([]Object, len(arr.Elements)-1)
	copy(elements, arr.Elements[1:])
	return &Array{Elements: elements}
}

// builtinPush appends to the array it is given; every alias sees the new
// element.
func builtinPush(args ...Object) Object {
	arr, err := arrayArg("push", args, 2)
	if err != nil {
		return err
	}
	arr.Elements = append(arr.Elements, args[1])
	return arr
}

func builtinPuts(out io.Writer) BuiltinFunction {
	return func(args ...Object) Object {
		for _, arg := range args {
			if _, err := fmt.Fprintln(out, Display(arg)); err != nil {
				return Errorf("puts: %v", err)
			}
		}
		return NULL
	}
}
