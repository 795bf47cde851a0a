package vdom

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Jsx constructs a VNode. kind is either a tag name or a component function
// (ComponentFunc or func(Props) *VNode). props may be nil; nil-valued entries
// are dropped. Children are collapsed into one flat sequence.
//
// Jsx panics if kind is neither a string nor a component function.
func Jsx(kind any, props Props, children ...any) *VNode {
	switch k := kind.(type) {
	case string:
		return &VNode{
			Kind:     KindElement,
			Tag:      strings.ToLower(k),
			Props:    cleanProps(props),
			Children: flattenChildren(children),
		}
	case ComponentFunc:
		return Component("", k, props, children...)
	case func(Props) *VNode:
		return Component("", ComponentFunc(k), props, children...)
	default:
		panic(fmt.Sprintf("vdom: invalid node kind %T", kind))
	}
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	return &VNode{
		Kind:     KindFragment,
		Children: flattenChildren(children),
	}
}

// ToNode coerces an arbitrary child value into a VNode.
//
//	nil, bool, typed nil  -> Null
//	string, numbers       -> Text
//	slices                -> Fragment
//	*VNode                -> itself
//	fmt.Stringer, others  -> Text of the formatted value
func ToNode(v any) *VNode {
	switch val := v.(type) {
	case nil:
		return Null()
	case *VNode:
		if val == nil {
			return Null()
		}
		return val
	case string:
		return Text(val)
	case bool:
		return Null()
	case []*VNode, []any:
		return Fragment(val)
	}
	if s, ok := formatNumber(v); ok {
		return Text(s)
	}
	if isNil(v) {
		return Null()
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return Fragment(items...)
	}
	if s, ok := v.(fmt.Stringer); ok {
		return Text(s.String())
	}
	return Text(fmt.Sprint(v))
}

// flattenChildren collapses variadic children into one flat sequence.
// Slices and fragments are spliced; everything else goes through ToNode.
func flattenChildren(children []any) []*VNode {
	out := make([]*VNode, 0, len(children))
	for _, child := range children {
		out = appendChild(out, child)
	}
	return out
}

func appendChild(out []*VNode, child any) []*VNode {
	switch v := child.(type) {
	case []*VNode:
		for _, c := range v {
			out = appendChild(out, c)
		}
		return out
	case []any:
		for _, c := range v {
			out = appendChild(out, c)
		}
		return out
	}
	node := ToNode(child)
	if node.Kind == KindFragment {
		return append(out, node.Children...)
	}
	return append(out, node)
}

// cleanProps copies props, dropping nil values.
func cleanProps(props Props) Props {
	out := make(Props, len(props))
	for k, v := range props {
		if isNil(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// formatNumber formats numeric values the way they render as text.
func formatNumber(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	return "", false
}
