package reconcile

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vango-dev/vlite/pkg/dom"
	"github.com/vango-dev/vlite/pkg/vdom"
)

// ComponentHost invokes component functions as keyed instances.
// *hooks.Host implements it.
type ComponentHost interface {
	Render(key, name string, fn vdom.ComponentFunc, props vdom.Props) *vdom.VNode
}

// directHost calls components without hook state.
type directHost struct{}

func (directHost) Render(_, _ string, fn vdom.ComponentFunc, props vdom.Props) *vdom.VNode {
	return fn(props)
}

// Stats counts the work done by a reconciler since the last reset.
type Stats struct {
	Created      int `json:"created"`
	Removed      int `json:"removed"`
	Replaced     int `json:"replaced"`
	TextUpdates  int `json:"textUpdates"`
	AttrSets     int `json:"attrSets"`
	AttrRemovals int `json:"attrRemovals"`
	PropSets     int `json:"propSets"`
	StyleSets    int `json:"styleSets"`
	Listeners    int `json:"listeners"`
	Components   int `json:"components"`
}

// Mutations returns the number of writes to the live tree.
func (s Stats) Mutations() int {
	return s.Created + s.Removed + s.Replaced + s.TextUpdates +
		s.AttrSets + s.AttrRemovals + s.PropSets + s.StyleSets + s.Listeners
}

// Reconciler diffs VNodes against one document.
type Reconciler struct {
	doc   dom.Document
	host  ComponentHost
	props *PropertyReconciler
	stats Stats
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithHost sets the component host. Without one, components are called
// directly and hooks are unavailable.
func WithHost(h ComponentHost) Option {
	return func(r *Reconciler) {
		r.host = h
	}
}

// WithLogger sets the logger used for navigation failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		r.props.logger = l
	}
}

// New creates a reconciler for doc.
func New(doc dom.Document, opts ...Option) *Reconciler {
	r := &Reconciler{doc: doc, host: directHost{}}
	r.props = NewPropertyReconciler(doc)
	r.props.stats = &r.stats
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Properties returns the property reconciler.
func (r *Reconciler) Properties() *PropertyReconciler { return r.props }

// Stats returns the counters accumulated since the last ResetStats.
func (r *Reconciler) Stats() Stats { return r.stats }

// ResetStats zeroes the counters.
func (r *Reconciler) ResetStats() { r.stats = Stats{} }

// Reconcile makes old, a child of parent, match next. A nil old appends
// next to parent; a nil next removes old. key is the instance key prefix
// for components at this position.
func (r *Reconciler) Reconcile(parent dom.Node, next *vdom.VNode, old dom.Node, key string) error {
	if parent == nil {
		return fmt.Errorf("reconcile: nil parent")
	}
	switch {
	case old == nil && next == nil:
		return nil
	case old == nil:
		nodes, err := r.Create(next, key)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			parent.AppendChild(n)
		}
		return nil
	case next == nil:
		parent.RemoveChild(old)
		r.forget(old)
		r.stats.Removed++
		return nil
	}

	switch next.Kind {
	case vdom.KindNull, vdom.KindText:
		return r.text(parent, next.Text, old)
	case vdom.KindFragment:
		return r.fragment(parent, next, old, key)
	case vdom.KindComponent:
		instance := instanceKey(key, next)
		out := r.renderComponent(instance, next)
		return r.Reconcile(parent, out, old, instance)
	case vdom.KindElement:
		return r.element(parent, next, old, key)
	default:
		return fmt.Errorf("reconcile: unknown node kind %v", next.Kind)
	}
}

func (r *Reconciler) text(parent dom.Node, text string, old dom.Node) error {
	if dom.IsText(old) {
		if old.TextContent() != text {
			old.SetTextContent(text)
			r.stats.TextUpdates++
		}
		return nil
	}
	r.replace(parent, r.doc.CreateTextNode(text), old)
	r.stats.Created++
	return nil
}

// fragment replaces old with all of the fragment's items.
func (r *Reconciler) fragment(parent dom.Node, next *vdom.VNode, old dom.Node, key string) error {
	nodes, err := r.Create(next, key)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		parent.InsertBefore(n, old)
	}
	parent.RemoveChild(old)
	r.forget(old)
	r.stats.Replaced++
	return nil
}

func (r *Reconciler) element(parent dom.Node, next *vdom.VNode, old dom.Node, key string) error {
	el, ok := dom.AsElement(old)
	if !ok || el.TagName() != next.Tag {
		nodes, err := r.Create(next, key)
		if err != nil {
			return err
		}
		r.replace(parent, nodes[0], old)
		return nil
	}

	r.props.Apply(el, next.Props)
	return r.children(el, next.ChildNodes(), key)
}

// children reconciles parent's live children against next position by
// position. Live children past the end of next are removed.
func (r *Reconciler) children(parent dom.Node, next []*vdom.VNode, key string) error {
	oldKids := parent.ChildNodes()
	keys := childKeys(key, next)
	n := max(len(oldKids), len(next))
	for i := 0; i < n; i++ {
		var nv *vdom.VNode
		k := key
		if i < len(next) {
			nv, k = next[i], keys[i]
		}
		var ov dom.Node
		if i < len(oldKids) {
			ov = oldKids[i]
		}
		if err := r.Reconcile(parent, nv, ov, k); err != nil {
			return err
		}
	}
	return nil
}

// ReconcileRoot makes the children of container match next, the output of
// a mounted root. The container belongs to the root: a root that renders a
// fragment is diffed item by item against the container's children, and
// live children the new output does not account for are removed.
func (r *Reconciler) ReconcileRoot(container dom.Node, next *vdom.VNode, key string) error {
	if container == nil {
		return fmt.Errorf("reconcile: nil container")
	}
	for next != nil && next.Kind == vdom.KindComponent {
		key = instanceKey(key, next)
		next = r.renderComponent(key, next)
	}
	if next != nil && next.Kind == vdom.KindFragment {
		return r.children(container, next.ChildNodes(), key)
	}
	if next == nil {
		next = vdom.Null()
	}
	return r.children(container, []*vdom.VNode{next}, key)
}

func (r *Reconciler) replace(parent dom.Node, fresh, old dom.Node) {
	parent.ReplaceChild(fresh, old)
	r.forget(old)
	r.stats.Replaced++
}

func (r *Reconciler) renderComponent(key string, v *vdom.VNode) *vdom.VNode {
	r.stats.Components++
	out := r.host.Render(key, v.Name, v.Comp, v.PropsWithChildren())
	if out == nil {
		return vdom.Null()
	}
	return out
}

// forget drops per-node state for a subtree leaving the tree.
func (r *Reconciler) forget(n dom.Node) {
	r.props.Forget(n)
	if rel, ok := r.doc.(dom.Releaser); ok {
		rel.Release(n)
	}
}

// RootKey is the key prefix of the root position.
const RootKey = "root"

func instanceKey(key string, v *vdom.VNode) string {
	return key + ":" + componentName(v)
}

func componentName(v *vdom.VNode) string {
	if v.Name != "" {
		return v.Name
	}
	return vdom.ComponentName(v.Comp)
}

// childKeys assigns key prefixes to a list of sibling VNodes. A sibling
// is numbered among the earlier siblings of the same kind and name:
// components by component name, elements by tag. Adding or removing a
// sibling of a different kind, tag or name leaves the other keys alone, so
// a conditional banner before a component does not reset its state.
//
//	[<p>, Counter, <p>, Counter]  ->  key/p#0, key/0, key/p#1, key/1
//
// instanceKey then appends ":Counter" to a component's prefix.
func childKeys(key string, kids []*vdom.VNode) []string {
	keys := make([]string, len(kids))
	seen := make(map[string]int, len(kids))
	for i, c := range kids {
		var label string
		switch {
		case c == nil || c.Kind == vdom.KindNull || c.Kind == vdom.KindText:
			label = "#text"
		case c.Kind == vdom.KindComponent:
			label = ":" + componentName(c)
		case c.Kind == vdom.KindElement:
			label = c.Tag
		default:
			label = "#fragment"
		}
		n := seen[label]
		seen[label] = n + 1
		if c != nil && c.Kind == vdom.KindComponent {
			keys[i] = key + "/" + strconv.Itoa(n)
			continue
		}
		keys[i] = key + "/" + label + "#" + strconv.Itoa(n)
	}
	return keys
}
