package vdom

import (
	"reflect"
	"runtime"
	"strings"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindNull      Kind = iota // nil/false, rendered as an empty text node
	KindText                  // Plain text node
	KindElement               // <div>, <button>, etc.
	KindComponent             // Component function invocation
	KindFragment              // Grouping without wrapper
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindComponent:
		return "Component"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// ChildrenKey is the reserved Props key under which a component receives its
// children.
const ChildrenKey = "children"

// Props holds attributes, properties and event handlers.
type Props map[string]any

// ComponentFunc renders a component. It receives the component's props with
// its children injected under ChildrenKey.
type ComponentFunc func(props Props) *VNode

// VNode is the virtual DOM node.
type VNode struct {
	Kind     Kind          // Node type
	Tag      string        // Element tag name (e.g., "div")
	Comp     ComponentFunc // For KindComponent
	Name     string        // Component name, used for instance keys and diagnostics
	Props    Props         // Attributes and event handlers
	Children []*VNode      // Child nodes
	Text     string        // For KindText
}

// IsText reports whether v renders as a text node (Text or Null).
func (v *VNode) IsText() bool {
	return v != nil && (v.Kind == KindText || v.Kind == KindNull)
}

// ChildNodes returns the children with nil entries converted to Null nodes.
func (v *VNode) ChildNodes() []*VNode {
	if v == nil {
		return nil
	}
	out := make([]*VNode, len(v.Children))
	for i, c := range v.Children {
		if c == nil {
			c = Null()
		}
		out[i] = c
	}
	return out
}

// PropsWithChildren returns a copy of the component props with the children
// injected under ChildrenKey.
func (v *VNode) PropsWithChildren() Props {
	props := make(Props, len(v.Props)+1)
	for k, val := range v.Props {
		props[k] = val
	}
	children := v.Children
	if children == nil {
		children = []*VNode{}
	}
	props[ChildrenKey] = children
	return props
}

// Null creates a placeholder node that renders as an empty text node.
func Null() *VNode {
	return &VNode{Kind: KindNull}
}

// Component creates a component node. The name is derived from the function
// when empty.
func Component(name string, fn ComponentFunc, props Props, children ...any) *VNode {
	if name == "" {
		name = ComponentName(fn)
	}
	return &VNode{
		Kind:     KindComponent,
		Comp:     fn,
		Name:     name,
		Props:    cleanProps(props),
		Children: flattenChildren(children),
	}
}

// ComponentName returns a short name for a component function, e.g. "Counter"
// for main.Counter and "App.func1" for a closure inside main.App.
func ComponentName(fn ComponentFunc) string {
	if fn == nil {
		return ""
	}
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return "anonymous"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
