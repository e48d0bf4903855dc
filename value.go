package objmodel

import (
	"reflect"
)

// Tag is the primitive runtime type tag of a value, as reported by TypeOf.
type Tag string

const (
	TagUndefined Tag = "undefined"
	TagObject    Tag = "object"
	TagBoolean   Tag = "boolean"
	TagNumber    Tag = "number"
	TagString    Tag = "string"
	TagSymbol    Tag = "symbol"
	TagFunction  Tag = "function"
)

// Symbol is a unique value compared by identity. Use NewSymbol to create one.
type Symbol struct {
	Description string
}

// NewSymbol returns a new unique symbol.
func NewSymbol(description string) *Symbol {
	return &Symbol{Description: description}
}

// MethodFunc is the implementation of a method. ctx carries the receiving
// instance and the type the call was resolved on.
type MethodFunc func(ctx *Context, args ...any) (any, error)

// TypeRef is implemented by anything that can stand in for a type descriptor,
// such as a descriptor itself or an instance of it.
type TypeRef interface {
	Descriptor() *TypeDescriptor
}

// TypeOf returns the runtime type tag of v:
//   - nil is "undefined"
//   - bool is "boolean"
//   - every Go integer and floating point kind is "number"
//   - string is "string"
//   - *Symbol is "symbol"
//   - methods and other Go funcs are "function"
//   - everything else, including instances, is "object"
func TypeOf(v any) Tag {
	switch v.(type) {
	case nil:
		return TagUndefined
	case bool:
		return TagBoolean
	case string:
		return TagString
	case *Symbol:
		return TagSymbol
	case MethodFunc, func(*Context, ...any) (any, error):
		return TagFunction
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return TagNumber
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Func:
		return TagFunction
	case reflect.Bool:
		return TagBoolean
	case reflect.String:
		return TagString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return TagNumber
	}
	return TagObject
}

// asMethod reports whether v is callable as a method and returns it.
func asMethod(v any) (MethodFunc, bool) {
	switch fn := v.(type) {
	case MethodFunc:
		return fn, fn != nil
	case func(*Context, ...any) (any, error):
		return fn, fn != nil
	}
	return nil, false
}

// typeName returns the registered type name of v if it is an instance, or its tag.
func typeName(v any) string {
	if inst, ok := v.(*Instance); ok && inst != nil {
		return inst.typ.name
	}
	return string(TypeOf(v))
}

// toFloat converts numeric values so that 1 and 1.0 compare equal.
func toFloat(v any) (float64, bool) {
	if TypeOf(v) != TagNumber {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	case rv.CanFloat():
		return rv.Float(), true
	}
	return 0, false
}

// sameValue compares two values the way enumerations and constants compare
// their members: numbers by numeric value, everything comparable by ==.
func sameValue(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// cloneValue copies maps and slices recursively so instances and merged bodies
// never share mutable defaults. Other values are returned as is.
func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}
