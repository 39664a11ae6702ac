package object

import (
	"bytes"
	"testing"
)

func TestStringHashKey(t *testing.T) {
	hello1 := &String{Value: "Hello World"}
	hello2 := &String{Value: "Hello World"}
	diff1 := &String{Value: "My name is johnny"}
	diff2 := &String{Value: "My name is johnny"}

	if hello1.HashKey() != hello2.HashKey() {
		t.Errorf("strings with same content have different hash keys")
	}
	if diff1.HashKey() != diff2.HashKey() {
		t.Errorf("strings with same content have different hash keys")
	}
	if hello1.HashKey() == diff1.HashKey() {
		t.Errorf("strings with different content have same hash keys")
	}
}

func TestHashKeysDoNotCollideAcrossKinds(t *testing.T) {
	keys := []Hashable{
		&Integer{Value: 1},
		TRUE,
		&String{Value: "1"},
		&String{Value: "true"},
		&Integer{Value: 0},
		FALSE,
		&String{Value: ""},
	}
	seen := map[HashKey]Object{}
	for _, k := range keys {
		if prev, ok := seen[k.HashKey()]; ok {
			t.Errorf("%s collides with %s", k.Inspect(), prev.Inspect())
		}
		seen[k.HashKey()] = k
	}
}

func TestHashSetKeepsInsertionOrder(t *testing.T) {
	h := NewHash()
	h.Set(&String{Value: "b"}, &Integer{Value: 2})
	h.Set(&String{Value: "a"}, &Integer{Value: 1})
	h.Set(&String{Value: "b"}, &Integer{Value: 3})

	if got, want := h.Inspect(), `{"b": 3, "a": 1}`; got != want {
		t.Errorf("Inspect() = %s, want %s", got, want)
	}
	v, ok := h.Get(&String{Value: "b"})
	if !ok || v.(*Integer).Value != 3 {
		t.Errorf("Get(b) = %v, %v", v, ok)
	}
	if _, ok := h.Get(&Integer{Value: 1}); ok {
		t.Errorf("Get(1) found an entry")
	}
}

func TestInspectDistinguishesKinds(t *testing.T) {
	tests := []struct {
		obj  Object
		want string
	}{
		{&Integer{Value: 1}, "1"},
		{&String{Value: "1"}, `"1"`},
		{TRUE, "true"},
		{&String{Value: "true"}, `"true"`},
		{NULL, "null"},
		{&Error{Message: "boom"}, "ERROR: boom"},
		{&Array{Elements: []Object{&Integer{Value: 1}, &String{Value: "x"}}}, `[1, "x"]`},
		{&Builtin{Name: "len"}, "builtin function len"},
		{&ReturnValue{Value: &Integer{Value: 7}}, "7"},
	}
	for _, tt := range tests {
		if got := tt.obj.Inspect(); got != tt.want {
			t.Errorf("%T.Inspect() = %q, want %q", tt.obj, got, tt.want)
		}
	}
}

func TestEnvironmentScoping(t *testing.T) {
	outer := NewEnvironment()
	outer.Set("x", &Integer{Value: 1})
	outer.Set("y", &Integer{Value: 2})

	inner := NewEnclosedEnvironment(outer)
	inner.Set("x", &Integer{Value: 10})

	if v, _ := inner.Get("x"); v.(*Integer).Value != 10 {
		t.Errorf("inner x = %s, want 10", v.Inspect())
	}
	if v, _ := inner.Get("y"); v.(*Integer).Value != 2 {
		t.Errorf("inner y = %s, want 2", v.Inspect())
	}
	if v, _ := outer.Get("x"); v.(*Integer).Value != 1 {
		t.Errorf("outer x = %s, want 1", v.Inspect())
	}
	if _, ok := outer.Get("z"); ok {
		t.Errorf("unexpected binding for z")
	}
	if inner.Outer() != outer {
		t.Errorf("Outer() did not return the enclosing scope")
	}

	names := outer.Names()
	if len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Errorf("Names() = %v", names)
	}
}

func TestBuiltins(t *testing.T) {
	b := DefaultBuiltins()
	arr := func(vals ...int64) *Array {
		a := &Array{}
		for _, v := range vals {
			a.Elements = append(a.Elements, &Integer{Value: v})
		}
		return a
	}

	tests := []struct {
		name string
		args []Object
		want string
	}{
		{"len", []Object{&String{Value: "hello"}}, "5"},
		{"len", []Object{&String{Value: ""}}, "0"},
		{"len", []Object{arr(1, 2, 3)}, "3"},
		{"len", []Object{&Integer{Value: 1}}, "ERROR: argument to `len` not supported, got INTEGER"},
		{"len", []Object{&String{Value: "a"}, &String{Value: "b"}}, "ERROR: wrong number of arguments. got=2, want=1"},
		{"first", []Object{arr(1, 2, 3)}, "1"},
		{"first", []Object{arr()}, "null"},
		{"first", []Object{&Integer{Value: 1}}, "ERROR: argument to `first` must be ARRAY, got INTEGER"},
		{"last", []Object{arr(1, 2, 3)}, "3"},
		{"last", []Object{arr()}, "null"},
		{"rest", []Object{arr(1, 2, 3)}, "[2, 3]"},
		{"rest", []Object{arr(1)}, "[]"},
		{"rest", []Object{arr()}, "null"},
		{"push", []Object{arr(1, 2), &Integer{Value: 3}}, "[1, 2, 3]"},
		{"push", []Object{arr(1)}, "ERROR: wrong number of arguments. got=1, want=2"},
		{"push", []Object{&Integer{Value: 1}, &Integer{Value: 1}}, "ERROR: argument to `push` must be ARRAY, got INTEGER"},
	}

	for _, tt := range tests {
		fn, ok := b.Lookup(tt.name)
		if !ok {
			t.Fatalf("builtin %s missing", tt.name)
		}
		if got := fn.Fn(tt.args...).Inspect(); got != tt.want {
			t.Errorf("%s(%v) = %s, want %s", tt.name, tt.args, got, tt.want)
		}
	}
}

func TestPushMutatesInPlace(t *testing.T) {
	a := &Array{Elements: []Object{&Integer{Value: 1}}}
	push, _ := DefaultBuiltins().Lookup("push")

	result := push.Fn(a, &Integer{Value: 2})
	if result != a {
		t.Fatalf("push returned a different array")
	}
	if len(a.Elements) != 2 {
		t.Errorf("original array has %d elements, want 2", len(a.Elements))
	}
}

func TestRestDoesNotAlias(t *testing.T) {
	a := &Array{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 2}}}
	rest, _ := DefaultBuiltins().Lookup("rest")

	r := rest.Fn(a).(*Array)
	r.Elements[0] = &Integer{Value: 99}
	if a.Elements[1].(*Integer).Value != 2 {
		t.Errorf("rest shares storage with its argument")
	}
}

func TestPutsWithOutput(t *testing.T) {
	var buf bytes.Buffer
	custom := &Builtin{Name: "double"}
	b := DefaultBuiltins()
	b["double"] = custom
	b = b.WithOutput(&buf)

	puts, _ := b.Lookup("puts")
	if got := puts.Fn(&String{Value: "hi"}, &Integer{Value: 3}); got != NULL {
		t.Errorf("puts returned %s, want null", got.Inspect())
	}
	if buf.String() != "hi\n3\n" {
		t.Errorf("output = %q", buf.String())
	}
	if b["double"] != custom {
		t.Errorf("custom builtin was not carried over")
	}
}

func TestNilBuiltinsLookup(t *testing.T) {
	var b Builtins
	if _, ok := b.Lookup("len"); ok {
		t.Errorf("nil registry resolved len")
	}
}

func TestInspectSelfContainingContainers(t *testing.T) {
	push, _ := DefaultBuiltins().Lookup("push")

	a := &Array{Elements: []Object{}}
	push.Fn(a, &Integer{Value: 1})
	push.Fn(a, a)

	h := NewHash()
	h.Set(&String{Value: "self"}, h)
	h.Set(&String{Value: "list"}, a)

	shared := &Array{Elements: []Object{TRUE}}
	twice := &Array{Elements: []Object{shared, shared}}

	tests := []struct {
		obj  Object
		want string
	}{
		{a, "[1, [...]]"},
		{h, `{"self": {...}, "list": [1, [...]]}`},
		{&ReturnValue{Value: a}, "[1, [...]]"},
		{twice, "[[true], [...]]"},
	}
	for _, tt := range tests {
		if got := tt.obj.Inspect(); got != tt.want {
			t.Errorf("Inspect() = %q, want %q", got, tt.want)
		}
		if got := Display(tt.obj); got != tt.want {
			t.Errorf("Display() = %q, want %q", got, tt.want)
		}
	}
}
