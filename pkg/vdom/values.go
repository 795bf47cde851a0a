package vdom

import (
	"fmt"
	"reflect"
)

// Normalize maps an expression value to its renderable form:
// false, nil and typed nil become nil; slices are normalized element-wise
// with nil results dropped (returned as []any); everything else is returned
// unchanged, so handlers, nested VNodes and arbitrary data pass through.
func Normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		if !val {
			return nil
		}
		return val
	case string:
		return val
	case *VNode:
		if val == nil {
			return nil
		}
		return val
	}
	if isNil(v) {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return v
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		if item := Normalize(rv.Index(i).Interface()); item != nil {
			out = append(out, item)
		}
	}
	return out
}

// isNil reports whether v is nil or a typed nil (pointer, map, slice, func,
// chan, interface).
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// IsFunc reports whether v is a non-nil function value.
func IsFunc(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

// IsCompound reports whether v is a structured value (map, slice, struct,
// pointer, function) rather than a scalar.
func IsCompound(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct,
		reflect.Pointer, reflect.Func, reflect.Chan, reflect.Interface:
		return true
	}
	return false
}

// AsMap converts a string-keyed map of any value type to Props.
func AsMap(v any) (Props, bool) {
	switch m := v.(type) {
	case Props:
		return m, true
	case map[string]any:
		return Props(m), true
	case map[string]string:
		out := make(Props, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(Props, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// ValuesEqual compares two prop values for equality.
func ValuesEqual(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
		return false
	case int:
		if bv, ok := b.(int); ok {
			return av == bv
		}
		return false
	case int64:
		if bv, ok := b.(int64); ok {
			return av == bv
		}
		return false
	case float64:
		if bv, ok := b.(float64); ok {
			return av == bv
		}
		return false
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
		return false
	case nil:
		return b == nil
	}
	if b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return a == b
	}
	// Fallback to reflect for complex types
	return reflect.DeepEqual(a, b)
}

// Stringify converts a value to its attribute/text representation.
func Stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return ""
	}
	if s, ok := formatNumber(v); ok {
		return s
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
