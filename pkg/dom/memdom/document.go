// Package memdom is an in-memory implementation of the dom interfaces.
//
// A Document owns a <body> element; nodes created by the document are
// detached until inserted below it. Every mutation applied to a connected
// node is appended to the document's mutation log, so tests can assert
// that an idempotent re-render touches nothing:
//
//	doc := memdom.New()
//	... render twice ...
//	if n := len(doc.Mutations()); n != 0 { t.Fatalf("%d mutations", n) }
package memdom

import (
	"strings"
	"sync"

	"github.com/vango-dev/vlite/pkg/dom"
)

// Op names a recorded mutation.
type Op string

const (
	OpAppend     Op = "append"
	OpInsert     Op = "insert"
	OpRemove     Op = "remove"
	OpReplace    Op = "replace"
	OpText       Op = "text"
	OpSetAttr    Op = "setAttr"
	OpRemoveAttr Op = "removeAttr"
	OpSetProp    Op = "setProp"
	OpSetStyle   Op = "setStyle"
	OpListen     Op = "listen"
	OpUnlisten   Op = "unlisten"
)

// Mutation is one recorded change to the connected tree.
type Mutation struct {
	Op     Op
	Target string // "<tag>" or "#text"
	Name   string
	Value  string
}

// String formats the mutation for test failure output.
func (m Mutation) String() string {
	var b strings.Builder
	b.WriteString(string(m.Op))
	b.WriteString(" ")
	b.WriteString(m.Target)
	if m.Name != "" {
		b.WriteString(" ")
		b.WriteString(m.Name)
	}
	if m.Value != "" {
		b.WriteString("=")
		b.WriteString(m.Value)
	}
	return b.String()
}

// Document is an in-memory dom.Document.
type Document struct {
	body   *Element
	window *Window

	mu  sync.Mutex
	log []Mutation
}

var _ dom.Document = (*Document)(nil)

// New creates a document with an empty body and a recording window.
func New() *Document {
	d := &Document{window: &Window{}}
	d.body = d.newElement("body")
	return d
}

// NewWithBody creates a document and appends the given children to the
// body, e.g. containers to mount into.
func NewWithBody(children ...dom.Node) *Document {
	d := New()
	for _, c := range children {
		d.body.AppendChild(c)
	}
	d.ResetMutations()
	return d
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) dom.Element {
	return d.newElement(strings.ToLower(tag))
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(text string) dom.Node {
	t := &Text{data: text}
	t.doc = d
	return t
}

// Body returns the body element.
func (d *Document) Body() dom.Element { return d.body }

// Window returns the document's recording window.
func (d *Document) Window() dom.Window { return d.window }

// RecordingWindow returns the concrete window for assertions.
func (d *Document) RecordingWindow() *Window { return d.window }

// Query returns the first element in the body subtree (body included)
// matching selector.
func (d *Document) Query(selector string) (dom.Element, bool) {
	match := compileSelector(selector)
	if match == nil {
		return nil, false
	}
	if el := find(d.body, match); el != nil {
		return el, true
	}
	return nil, false
}

// QueryAll returns every element in the body subtree matching selector in
// document order.
func (d *Document) QueryAll(selector string) []*Element {
	match := compileSelector(selector)
	if match == nil {
		return nil
	}
	var out []*Element
	walk(d.body, func(el *Element) {
		if match(el) {
			out = append(out, el)
		}
	})
	return out
}

// Mutations returns a copy of the mutation log.
func (d *Document) Mutations() []Mutation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Mutation(nil), d.log...)
}

// ResetMutations clears the mutation log.
func (d *Document) ResetMutations() {
	d.mu.Lock()
	d.log = nil
	d.mu.Unlock()
}

func (d *Document) newElement(tag string) *Element {
	el := &Element{tag: tag}
	el.doc = d
	return el
}

func (d *Document) record(target dom.Node, op Op, name, value string) {
	if !connected(target) {
		return
	}
	d.mu.Lock()
	d.log = append(d.log, Mutation{Op: op, Target: describe(target), Name: name, Value: value})
	d.mu.Unlock()
}

func describe(n dom.Node) string {
	if el, ok := n.(*Element); ok {
		return "<" + el.tag + ">"
	}
	return "#text"
}

func compileSelector(selector string) func(*Element) bool {
	selector = strings.TrimSpace(selector)
	switch {
	case selector == "":
		return nil
	case strings.HasPrefix(selector, "#"):
		id := selector[1:]
		return func(el *Element) bool {
			v, ok := el.Attribute("id")
			return ok && v == id
		}
	case strings.HasPrefix(selector, "."):
		class := selector[1:]
		return func(el *Element) bool {
			v, _ := el.Attribute("class")
			for _, c := range strings.Fields(v) {
				if c == class {
					return true
				}
			}
			return false
		}
	default:
		tag := strings.ToLower(selector)
		return func(el *Element) bool { return el.tag == tag }
	}
}

func find(el *Element, match func(*Element) bool) *Element {
	if match(el) {
		return el
	}
	for _, c := range el.children {
		if ce, ok := c.(*Element); ok {
			if found := find(ce, match); found != nil {
				return found
			}
		}
	}
	return nil
}

func walk(el *Element, fn func(*Element)) {
	fn(el)
	for _, c := range el.children {
		if ce, ok := c.(*Element); ok {
			walk(ce, fn)
		}
	}
}
