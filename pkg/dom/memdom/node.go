package memdom

import (
	"fmt"
	"strings"

	"github.com/vango-dev/vlite/pkg/dom"
)

// node holds the state shared by elements and text nodes.
type node struct {
	doc    *Document
	parent *Element
}

func (n *node) ParentNode() dom.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) base() *node { return n }

type baser interface{ base() *node }

func baseOf(n dom.Node) *node {
	b, ok := n.(baser)
	if !ok {
		panic(fmt.Sprintf("memdom: foreign node %T", n))
	}
	return b.base()
}

// connected reports whether n is attached below its document's body.
func connected(n dom.Node) bool {
	b := baseOf(n)
	if b.doc == nil {
		return false
	}
	for cur := n; cur != nil; {
		if el, ok := cur.(*Element); ok && el == b.doc.body {
			return true
		}
		p := baseOf(cur).parent
		if p == nil {
			return false
		}
		cur = p
	}
	return false
}

// Text is a text node.
type Text struct {
	node
	data string
}

var _ dom.Node = (*Text)(nil)

func (t *Text) NodeType() dom.NodeType     { return dom.TextNode }
func (t *Text) ChildNodes() []dom.Node     { return nil }
func (t *Text) TextContent() string        { return t.data }
func (t *Text) AppendChild(dom.Node)       { panic("memdom: text nodes have no children") }
func (t *Text) InsertBefore(_, _ dom.Node) { panic("memdom: text nodes have no children") }
func (t *Text) RemoveChild(dom.Node)       { panic("memdom: text nodes have no children") }
func (t *Text) ReplaceChild(_, _ dom.Node) { panic("memdom: text nodes have no children") }

// SetTextContent replaces the node data.
func (t *Text) SetTextContent(text string) {
	t.data = text
	t.doc.record(t, OpText, "", text)
}

// Element is an element node.
type Element struct {
	node
	tag       string
	attrs     []attr
	props     map[string]any
	style     []styleField
	children  []dom.Node
	listeners map[string][]*dom.Listener
}

type attr struct{ name, value string }

type styleField struct{ name, value string }

var _ dom.Element = (*Element)(nil)

func (e *Element) NodeType() dom.NodeType { return dom.ElementNode }
func (e *Element) TagName() string        { return e.tag }

// ChildNodes returns a copy of the child list.
func (e *Element) ChildNodes() []dom.Node {
	return append([]dom.Node(nil), e.children...)
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child dom.Node) {
	detach(child)
	e.children = append(e.children, child)
	baseOf(child).parent = e
	e.doc.record(e, OpAppend, describe(child), "")
}

// InsertBefore moves child before ref. A nil ref appends.
func (e *Element) InsertBefore(child, ref dom.Node) {
	if ref == nil {
		e.AppendChild(child)
		return
	}
	detach(child)
	i := e.indexOf(ref)
	if i < 0 {
		panic("memdom: InsertBefore reference is not a child")
	}
	e.children = append(e.children, nil)
	copy(e.children[i+1:], e.children[i:])
	e.children[i] = child
	baseOf(child).parent = e
	e.doc.record(e, OpInsert, describe(child), "")
}

// RemoveChild detaches child from e.
func (e *Element) RemoveChild(child dom.Node) {
	i := e.indexOf(child)
	if i < 0 {
		panic("memdom: RemoveChild argument is not a child")
	}
	e.doc.record(e, OpRemove, describe(child), "")
	e.children = append(e.children[:i], e.children[i+1:]...)
	baseOf(child).parent = nil
}

// ReplaceChild puts newChild in oldChild's position.
func (e *Element) ReplaceChild(newChild, oldChild dom.Node) {
	detach(newChild)
	i := e.indexOf(oldChild)
	if i < 0 {
		panic("memdom: ReplaceChild argument is not a child")
	}
	e.children[i] = newChild
	baseOf(oldChild).parent = nil
	baseOf(newChild).parent = e
	e.doc.record(e, OpReplace, describe(newChild), describe(oldChild))
}

func (e *Element) indexOf(child dom.Node) int {
	for i, c := range e.children {
		if c == child {
			return i
		}
	}
	return -1
}

func detach(n dom.Node) {
	if p := baseOf(n).parent; p != nil {
		p.RemoveChild(n)
	}
}

// TextContent returns the concatenated text of all descendants.
func (e *Element) TextContent() string {
	var b strings.Builder
	for _, c := range e.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// SetTextContent replaces all children with a single text node.
func (e *Element) SetTextContent(text string) {
	for _, c := range e.children {
		baseOf(c).parent = nil
	}
	e.children = nil
	if text != "" {
		t := e.doc.CreateTextNode(text)
		e.children = []dom.Node{t}
		baseOf(t).parent = e
	}
	e.doc.record(e, OpText, "", text)
}

// Attribute returns the value of the named attribute.
func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// AttributeNames returns attribute names in insertion order.
func (e *Element) AttributeNames() []string {
	names := make([]string, len(e.attrs))
	for i, a := range e.attrs {
		names[i] = a.name
	}
	return names
}

// SetAttribute sets the named attribute.
func (e *Element) SetAttribute(name, value string) {
	e.setAttr(name, value)
	if name == "style" {
		e.style = parseStyle(value)
	}
	e.doc.record(e, OpSetAttr, name, value)
}

func (e *Element) setAttr(name, value string) {
	for i, a := range e.attrs {
		if a.name == name {
			e.attrs[i].value = value
			return
		}
	}
	e.attrs = append(e.attrs, attr{name, value})
}

// RemoveAttribute removes the named attribute if present.
func (e *Element) RemoveAttribute(name string) {
	for i, a := range e.attrs {
		if a.name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			if name == "style" {
				e.style = nil
			}
			e.doc.record(e, OpRemoveAttr, name, "")
			return
		}
	}
}

// Style returns the value of a style field.
func (e *Element) Style(name string) string {
	for _, f := range e.style {
		if f.name == name {
			return f.value
		}
	}
	return ""
}

// SetStyle sets a style field; an empty value removes it. The style
// attribute is rewritten to match.
func (e *Element) SetStyle(name, value string) {
	i := -1
	for j, f := range e.style {
		if f.name == name {
			i = j
			break
		}
	}
	switch {
	case value == "" && i >= 0:
		e.style = append(e.style[:i], e.style[i+1:]...)
	case value == "":
	case i >= 0:
		e.style[i].value = value
	default:
		e.style = append(e.style, styleField{name, value})
	}
	e.setAttr("style", formatStyle(e.style))
	e.doc.record(e, OpSetStyle, name, value)
}

func parseStyle(s string) []styleField {
	var out []styleField
	for _, decl := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if name != "" && value != "" {
			out = append(out, styleField{name, value})
		}
	}
	return out
}

func formatStyle(fields []styleField) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.name + ": " + f.value + ";"
	}
	return strings.Join(parts, " ")
}

// AddEventListener attaches l for event. Adding the same listener twice is
// a no-op.
func (e *Element) AddEventListener(event string, l *dom.Listener) {
	for _, x := range e.listeners[event] {
		if x == l {
			return
		}
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]*dom.Listener)
	}
	e.listeners[event] = append(e.listeners[event], l)
	e.doc.record(e, OpListen, event, "")
}

// RemoveEventListener detaches l from event.
func (e *Element) RemoveEventListener(event string, l *dom.Listener) {
	ls := e.listeners[event]
	for i, x := range ls {
		if x == l {
			e.listeners[event] = append(ls[:i], ls[i+1:]...)
			e.doc.record(e, OpUnlisten, event, "")
			return
		}
	}
}

// ListenerCount returns the number of listeners attached for event.
func (e *Element) ListenerCount(event string) int {
	return len(e.listeners[event])
}

// OuterHTML serializes the element.
func (e *Element) OuterHTML() string { return dom.OuterHTML(e) }

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() string { return dom.InnerHTML(e) }
