// Package dom defines the presentation-tree boundary the reconciler works
// against.
//
// The reconciler never talks to a browser directly. It creates, inserts and
// mutates nodes through these interfaces, which are implemented by an
// in-memory document (package memdom, used by tests, the CLI and devtools)
// and by a syscall/js adapter (package jsdom, js/wasm builds only).
package dom

import "sync"

// NodeType discriminates live nodes.
type NodeType uint8

const (
	ElementNode NodeType = 1
	TextNode    NodeType = 3
)

// Node is a live node in the presentation tree.
type Node interface {
	NodeType() NodeType

	// ParentNode returns the parent, or nil when detached.
	ParentNode() Node
	ChildNodes() []Node

	AppendChild(child Node)
	InsertBefore(child, ref Node)
	RemoveChild(child Node)
	ReplaceChild(newChild, oldChild Node)

	// TextContent returns the data of a text node, or the concatenated
	// text of an element's descendants.
	TextContent() string
	SetTextContent(text string)
}

// Element is a live element node.
type Element interface {
	Node

	// TagName returns the lowercase tag name.
	TagName() string

	Attribute(name string) (string, bool)
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	// AttributeNames returns the names of the present attributes.
	AttributeNames() []string

	// Property reports the current value of a settable property. ok is
	// false when the element does not expose the property.
	Property(name string) (value any, ok bool)
	SetProperty(name string, value any)

	Style(name string) string
	SetStyle(name, value string)

	AddEventListener(event string, l *Listener)
	RemoveEventListener(event string, l *Listener)
}

// Listener is an event callback. Listeners are identified by pointer so the
// same callback can be attached and removed.
type Listener struct {
	Handle func(Event)
}

// Event is a dispatched event.
type Event interface {
	Type() string
	Target() Node
	PreventDefault()
	DefaultPrevented() bool
	StopPropagation()
}

// Window is the navigation surface used by anchor interception.
type Window interface {
	// Open opens url in a new browsing context.
	Open(url, target, features string) (Opened, error)
	// Assign navigates the current context to url.
	Assign(url string) error
}

// Opened is a browsing context created by Window.Open.
type Opened interface {
	ClearOpener() error
}

// Document creates nodes and resolves container references.
type Document interface {
	CreateElement(tag string) Element
	CreateTextNode(text string) Node

	// Query returns the first element matching a simple selector:
	// "#id", ".class" or a tag name.
	Query(selector string) (Element, bool)

	Body() Element
	Window() Window
}

var (
	defaultMu  sync.RWMutex
	defaultDoc Document
)

// Default returns the process-wide document, or nil when none is set.
func Default() Document {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultDoc
}

// SetDefault replaces the process-wide document.
func SetDefault(doc Document) {
	defaultMu.Lock()
	defaultDoc = doc
	defaultMu.Unlock()
}

// AsElement returns n as an Element when it is an element node.
func AsElement(n Node) (Element, bool) {
	if n == nil || n.NodeType() != ElementNode {
		return nil, false
	}
	el, ok := n.(Element)
	return el, ok
}

// IsText reports whether n is a text node.
func IsText(n Node) bool {
	return n != nil && n.NodeType() == TextNode
}

// Releaser is implemented by documents that keep per-node state (such as
// wrapper caches) and want to drop it when a subtree leaves the tree.
type Releaser interface {
	Release(n Node)
}
