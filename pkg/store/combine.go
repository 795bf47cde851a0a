package store

import (
	"reflect"
	"sort"
)

// CombineReducers builds a reducer for a map state where each key is owned
// by one reducer. The previous map is returned unchanged when no slice
// changed, so listeners can compare state identity.
func CombineReducers(reducers map[string]Reducer[any]) Reducer[map[string]any] {
	keys := make([]string, 0, len(reducers))
	for k := range reducers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return func(state map[string]any, action any) map[string]any {
		next := make(map[string]any, len(keys))
		changed := state == nil
		for _, k := range keys {
			prev := state[k]
			slice := reducers[k](prev, action)
			next[k] = slice
			if !same(prev, slice) {
				changed = true
			}
		}
		if !changed {
			return state
		}
		return next
	}
}

// same reports identity for reference kinds and equality for comparable
// values.
func same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Pointer, reflect.Chan:
		return va.Pointer() == vb.Pointer() && (va.Kind() != reflect.Slice || va.Len() == vb.Len())
	}
	if va.Type().Comparable() {
		return a == b
	}
	return false
}
