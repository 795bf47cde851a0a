//go:build js && wasm

// Package jsdom adapts the browser DOM, reached through syscall/js, to the
// dom interfaces.
//
//	func main() {
//		vlite.SetDocument(jsdom.New())
//		vlite.Render(App, "#app")
//		select {}
//	}
package jsdom

import (
	"fmt"
	"sync"
	"syscall/js"

	"github.com/vango-dev/vlite/pkg/dom"
)

// Document wraps the global document object.
type Document struct {
	v   js.Value
	win *Window

	mu     sync.Mutex
	funcs  map[*dom.Listener]js.Func
	nodes  map[int]dom.Node
	nextID int
}

// idKey is the expando property tagging wrapped browser nodes so each one
// maps to a single wrapper.
const idKey = "__vliteNode"

var _ dom.Document = (*Document)(nil)

// New wraps js.Global().document.
func New() *Document {
	g := js.Global()
	return &Document{
		v:     g.Get("document"),
		win:   &Window{v: g.Get("window")},
		funcs: make(map[*dom.Listener]js.Func),
		nodes: make(map[int]dom.Node),
	}
}

func (d *Document) CreateElement(tag string) dom.Element {
	return d.wrapElement(d.v.Call("createElement", tag))
}

func (d *Document) CreateTextNode(text string) dom.Node {
	return d.wrap(d.v.Call("createTextNode", text))
}

func (d *Document) Query(selector string) (dom.Element, bool) {
	v := d.v.Call("querySelector", selector)
	if v.IsNull() || v.IsUndefined() {
		return nil, false
	}
	return d.wrapElement(v), true
}

func (d *Document) Body() dom.Element { return d.wrapElement(d.v.Get("body")) }
func (d *Document) Window() dom.Window { return d.win }

// wrap returns the unique wrapper for v.
func (d *Document) wrap(v js.Value) dom.Node {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if id := v.Get(idKey); id.Type() == js.TypeNumber {
		if n, ok := d.nodes[id.Int()]; ok {
			return n
		}
	}
	var n dom.Node
	if v.Get("nodeType").Int() == int(dom.ElementNode) {
		n = &Element{Node: Node{doc: d, v: v}}
	} else {
		n = &Node{doc: d, v: v}
	}
	d.nextID++
	v.Set(idKey, d.nextID)
	d.nodes[d.nextID] = n
	return n
}

func (d *Document) wrapElement(v js.Value) *Element {
	el, _ := d.wrap(v).(*Element)
	return el
}

// Release drops the wrappers of n and its descendants. The reconciler calls
// it for removed subtrees.
func (d *Document) Release(n dom.Node) {
	for _, c := range n.ChildNodes() {
		d.Release(c)
	}
	v := valueOf(n)
	d.mu.Lock()
	if id := v.Get(idKey); id.Type() == js.TypeNumber {
		delete(d.nodes, id.Int())
	}
	d.mu.Unlock()
}

// funcFor returns the js callback bound to l, creating it once.
func (d *Document) funcFor(l *dom.Listener) js.Func {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f, ok := d.funcs[l]; ok {
		return f
	}
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			l.Handle(&Event{doc: d, v: args[0]})
		}
		return nil
	})
	d.funcs[l] = f
	return f
}

// Node wraps a browser node. Each browser node has one wrapper, so wrappers
// compare equal exactly when they wrap the same node.
type Node struct {
	doc *Document
	v   js.Value
}

// Value returns the wrapped js.Value.
func (n *Node) Value() js.Value { return n.v }

func (n *Node) NodeType() dom.NodeType { return dom.NodeType(n.v.Get("nodeType").Int()) }
func (n *Node) ParentNode() dom.Node   { return n.doc.wrap(n.v.Get("parentNode")) }

func (n *Node) ChildNodes() []dom.Node {
	list := n.v.Get("childNodes")
	out := make([]dom.Node, list.Length())
	for i := range out {
		out[i] = n.doc.wrap(list.Index(i))
	}
	return out
}

func (n *Node) AppendChild(child dom.Node) { n.v.Call("appendChild", valueOf(child)) }

func (n *Node) InsertBefore(child, ref dom.Node) {
	r := js.Null()
	if ref != nil {
		r = valueOf(ref)
	}
	n.v.Call("insertBefore", valueOf(child), r)
}

func (n *Node) RemoveChild(child dom.Node) { n.v.Call("removeChild", valueOf(child)) }

func (n *Node) ReplaceChild(newChild, oldChild dom.Node) {
	n.v.Call("replaceChild", valueOf(newChild), valueOf(oldChild))
}

func (n *Node) TextContent() string         { return n.v.Get("textContent").String() }
func (n *Node) SetTextContent(text string) { n.v.Set("textContent", text) }

type valuer interface{ Value() js.Value }

func valueOf(n dom.Node) js.Value {
	v, ok := n.(valuer)
	if !ok {
		panic(fmt.Sprintf("jsdom: foreign node %T", n))
	}
	return v.Value()
}

// Element wraps a browser element.
type Element struct {
	Node
}

var _ dom.Element = (*Element)(nil)

func (e *Element) TagName() string {
	return js.Global().Get("String").New(e.v.Get("tagName")).Call("toLowerCase").String()
}

func (e *Element) Attribute(name string) (string, bool) {
	if !e.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.v.Call("getAttribute", name).String(), true
}

func (e *Element) SetAttribute(name, value string) { e.v.Call("setAttribute", name, value) }
func (e *Element) RemoveAttribute(name string)     { e.v.Call("removeAttribute", name) }

func (e *Element) AttributeNames() []string {
	names := e.v.Call("getAttributeNames")
	out := make([]string, names.Length())
	for i := range out {
		out[i] = names.Index(i).String()
	}
	return out
}

// Property reports properties reachable with the "in" operator.
func (e *Element) Property(name string) (any, bool) {
	if !js.Global().Get("Reflect").Call("has", e.v, name).Bool() {
		return nil, false
	}
	v := e.v.Get(name)
	switch v.Type() {
	case js.TypeString:
		return v.String(), true
	case js.TypeBoolean:
		return v.Bool(), true
	case js.TypeNumber:
		return v.Float(), true
	case js.TypeNull, js.TypeUndefined:
		return nil, true
	}
	return v, true
}

func (e *Element) SetProperty(name string, value any) { e.v.Set(name, js.ValueOf(value)) }

func (e *Element) Style(name string) string {
	return e.v.Get("style").Call("getPropertyValue", name).String()
}

func (e *Element) SetStyle(name, value string) {
	e.v.Get("style").Call("setProperty", name, value)
}

func (e *Element) AddEventListener(event string, l *dom.Listener) {
	e.v.Call("addEventListener", event, e.doc.funcFor(l))
}

func (e *Element) RemoveEventListener(event string, l *dom.Listener) {
	e.v.Call("removeEventListener", event, e.doc.funcFor(l))
}

// Event wraps a browser event.
type Event struct {
	doc *Document
	v   js.Value
}

func (ev *Event) Type() string           { return ev.v.Get("type").String() }
func (ev *Event) Target() dom.Node       { return ev.doc.wrap(ev.v.Get("target")) }
func (ev *Event) PreventDefault()        { ev.v.Call("preventDefault") }
func (ev *Event) DefaultPrevented() bool { return ev.v.Get("defaultPrevented").Bool() }
func (ev *Event) StopPropagation()       { ev.v.Call("stopPropagation") }

// Window wraps the global window object.
type Window struct {
	v js.Value
}

// Open calls window.open. A blocked popup is reported as an error.
func (w *Window) Open(url, target, features string) (o dom.Opened, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("jsdom: window.open: %v", r)
		}
	}()
	v := w.v.Call("open", url, target, features)
	if v.IsNull() || v.IsUndefined() {
		return nil, fmt.Errorf("jsdom: window.open(%q) was blocked", url)
	}
	return &opened{v: v}, nil
}

// Assign calls location.assign.
func (w *Window) Assign(url string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("jsdom: location.assign: %v", r)
		}
	}()
	w.v.Get("location").Call("assign", url)
	return nil
}

type opened struct{ v js.Value }

func (o *opened) ClearOpener() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("jsdom: clear opener: %v", r)
		}
	}()
	o.v.Set("opener", js.Null())
	return nil
}
