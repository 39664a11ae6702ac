package object

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
)

// FromNative converts a Go value into a runtime value. Maps and structs
// become hashes, slices and arrays become arrays. Values with no runtime
// counterpart are rendered with %v.
func FromNative(val any) Object {
	if val == nil {
		return NULL
	}
	if obj, ok := val.(Object); ok {
		return obj
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return NULL
		}
		return FromNative(v.Elem().Interface())
	case reflect.Bool:
		return NativeBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Integer{Value: v.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &Integer{Value: int64(v.Uint())}
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return &Integer{Value: int64(f)}
		}
		return &String{Value: fmt.Sprintf("%v", f)}
	case reflect.String:
		return &String{Value: v.String()}
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return &Array{Elements: []Object{}}
		}
		elements := make([]Object, v.Len())
		for i := 0; i < v.Len(); i++ {
			elements[i] = FromNative(v.Index(i).Interface())
		}
		return &Array{Elements: elements}
	case reflect.Map:
		return mapToHash(v)
	case reflect.Struct:
		return structToHash(v)
	default:
		return &String{Value: fmt.Sprintf("%v", val)}
	}
}

func mapToHash(v reflect.Value) *Hash {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})

	hash := NewHash()
	for _, k := range keys {
		key, ok := FromNative(k.Interface()).(Hashable)
		if !ok {
			continue
		}
		hash.Set(key, FromNative(v.MapIndex(k).Interface()))
	}
	return hash
}

func structToHash(v reflect.Value) *Hash {
	hash := NewHash()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		hash.Set(&String{Value: name}, FromNative(v.Field(i).Interface()))
	}
	return hash
}

// ToNative converts a runtime value into plain Go data suitable for JSON
// encoding. Hash keys are rendered as strings; an integer or boolean key
// whose text matches a string key of the same hash is prefixed with its
// type, as in "INTEGER:1". An array or hash met a second time becomes the
// string "[...]" or "{...}".
func ToNative(obj Object) any {
	return toNative(obj, make(map[Object]bool))
}

func toNative(obj Object, seen map[Object]bool) any {
	switch obj := obj.(type) {
	case nil, *Null:
		return nil
	case *Integer:
		return obj.Value
	case *Boolean:
		return obj.Value
	case *String:
		return obj.Value
	case *ReturnValue:
		return toNative(obj.Value, seen)
	case *Array:
		if seen[obj] {
			return "[...]"
		}
		seen[obj] = true
		out := make([]any, len(obj.Elements))
		for i, e := range obj.Elements {
			out[i] = toNative(e, seen)
		}
		return out
	case *Hash:
		if seen[obj] {
			return "{...}"
		}
		seen[obj] = true
		out := make(map[string]any, len(obj.Pairs))
		for _, k := range obj.Keys {
			pair := obj.Pairs[k]
			out[nativeKey(obj, pair.Key)] = toNative(pair.Value, seen)
		}
		return out
	default:
		return obj.Inspect()
	}
}

func nativeKey(h *Hash, key Object) string {
	name := Display(key)
	if key.Type() == STRING_OBJ {
		return name
	}
	if _, clash := h.Pairs[HashKey{Type: STRING_OBJ, Str: name}]; clash {
		return key.Type().String() + ":" + name
	}
	return name
}
