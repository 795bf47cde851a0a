package reconcile

import (
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/vango-dev/vlite/pkg/dom"
	"github.com/vango-dev/vlite/pkg/vdom"
)

// attrAliases maps attribute names to the property names that set them.
var attrAliases = map[string]string{
	"class": "className",
	"for":   "htmlFor",
}

// PropertyReconciler applies VNode props to live elements.
//
// Event handlers are kept in a side table instead of on the element: each
// element gets one trampoline listener per event type, attached once, that
// calls whatever handler the latest props hold. Anchors additionally get
// click navigation, run after the user's click handler.
type PropertyReconciler struct {
	doc    dom.Document
	logger *slog.Logger
	stats  *Stats

	mu          sync.Mutex
	handlers    map[dom.Element]map[string]any
	trampolines map[dom.Element]map[string]*dom.Listener
	anchors     map[dom.Element]bool
}

// NewPropertyReconciler creates a property reconciler whose anchors
// navigate through doc's window.
func NewPropertyReconciler(doc dom.Document) *PropertyReconciler {
	return &PropertyReconciler{
		doc:         doc,
		stats:       &Stats{},
		handlers:    make(map[dom.Element]map[string]any),
		trampolines: make(map[dom.Element]map[string]*dom.Listener),
		anchors:     make(map[dom.Element]bool),
	}
}

func (p *PropertyReconciler) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}

// Apply makes el's attributes, properties, styles and handlers match props.
// Attributes with no corresponding prop are removed first; props are then
// applied in name order. Values that already match are not written.
func (p *PropertyReconciler) Apply(el dom.Element, props vdom.Props) {
	present := make(map[string]bool, len(props))
	for k := range props {
		present[strings.ToLower(k)] = true
	}
	for _, name := range el.AttributeNames() {
		lower := strings.ToLower(name)
		if present[lower] {
			continue
		}
		if alias, ok := attrAliases[lower]; ok && present[strings.ToLower(alias)] {
			continue
		}
		el.RemoveAttribute(name)
		p.stats.AttrRemovals++
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	events := make(map[string]bool)
	tag := el.TagName()
	for _, key := range keys {
		value := props[key]
		if value == nil || key == vdom.ChildrenKey {
			continue
		}
		switch {
		case key == "style":
			p.applyStyle(el, value)

		case isEventProp(key) && vdom.IsFunc(value):
			event := strings.ToLower(key[2:])
			events[event] = true
			p.setHandler(el, event, value)

		case key == "value":
			if _, ok := el.Property("value"); ok {
				p.setProperty(el, key, value)
			} else {
				p.setAttribute(el, key, value)
			}

		case tag == "a" && (key == "href" || key == "target" || key == "rel"):
			p.setAttribute(el, key, value)
			p.bindAnchor(el)

		case tag == "img" && (key == "src" || key == "alt"),
			tag == "iframe" && key == "src":
			p.setAttribute(el, key, value)

		default:
			if _, ok := el.Property(key); ok && !vdom.IsCompound(value) {
				p.setProperty(el, key, value)
			} else {
				p.setAttribute(el, key, value)
			}
		}
	}
	p.dropStaleHandlers(el, events)
}

func isEventProp(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on")
}

func (p *PropertyReconciler) setAttribute(el dom.Element, name string, value any) {
	s := vdom.Stringify(value)
	if cur, ok := el.Attribute(name); ok && cur == s {
		return
	}
	el.SetAttribute(name, s)
	p.stats.AttrSets++
}

func (p *PropertyReconciler) setProperty(el dom.Element, name string, value any) {
	if cur, ok := el.Property(name); ok && sameValue(cur, value) {
		return
	}
	el.SetProperty(name, value)
	p.stats.PropSets++
}

// sameValue compares a live property with a prop value. Scalars compare by
// their string form, since hosts may report "1" or 1.0 for a prop set to 1.
func sameValue(live, value any) bool {
	if vdom.ValuesEqual(live, value) {
		return true
	}
	if vdom.IsCompound(live) || vdom.IsCompound(value) {
		return false
	}
	return vdom.Stringify(live) == vdom.Stringify(value)
}

// applyStyle merges a style map field by field, leaving fields the map does
// not mention untouched. Any other value is written as the style attribute.
func (p *PropertyReconciler) applyStyle(el dom.Element, value any) {
	fields, ok := vdom.AsMap(value)
	if !ok {
		p.setAttribute(el, "style", value)
		return
	}
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		v := fields[name]
		if v == nil {
			continue
		}
		prop := cssName(name)
		s := vdom.Stringify(v)
		if el.Style(prop) == s {
			continue
		}
		el.SetStyle(prop, s)
		p.stats.StyleSets++
	}
}

// cssName converts a camelCase style key to its CSS property name.
func cssName(name string) string {
	if strings.Contains(name, "-") || strings.ToLower(name) == name {
		return name
	}
	var b strings.Builder
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// setHandler stores the handler and attaches the element's trampoline for
// event if it has none yet.
func (p *PropertyReconciler) setHandler(el dom.Element, event string, handler any) {
	p.mu.Lock()
	hs := p.handlers[el]
	if hs == nil {
		hs = make(map[string]any)
		p.handlers[el] = hs
	}
	hs[event] = handler
	p.mu.Unlock()
	p.ensureTrampoline(el, event)
}

func (p *PropertyReconciler) ensureTrampoline(el dom.Element, event string) {
	p.mu.Lock()
	ts := p.trampolines[el]
	if ts == nil {
		ts = make(map[string]*dom.Listener)
		p.trampolines[el] = ts
	}
	if _, ok := ts[event]; ok {
		p.mu.Unlock()
		return
	}
	l := &dom.Listener{Handle: func(ev dom.Event) { p.dispatch(el, event, ev) }}
	ts[event] = l
	p.mu.Unlock()

	el.AddEventListener(event, l)
	p.stats.Listeners++
}

// dropStaleHandlers forgets handlers whose prop is gone. The trampoline
// stays attached and finds no handler.
func (p *PropertyReconciler) dropStaleHandlers(el dom.Element, current map[string]bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	hs := p.handlers[el]
	for event := range hs {
		if !current[event] {
			delete(hs, event)
		}
	}
	if len(hs) == 0 {
		delete(p.handlers, el)
	}
}

// Handler returns the handler currently registered for el and event.
func (p *PropertyReconciler) Handler(el dom.Element, event string) (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.handlers[el][event]
	return h, ok
}

func (p *PropertyReconciler) dispatch(el dom.Element, event string, ev dom.Event) {
	p.mu.Lock()
	handler := p.handlers[el][event]
	anchor := p.anchors[el]
	p.mu.Unlock()

	if handler != nil {
		p.call(handler, ev, event)
	}
	if anchor && event == "click" {
		p.navigate(el, ev)
	}
}

// call invokes a handler with the event when it accepts one. Handlers may
// return an error, which is logged.
func (p *PropertyReconciler) call(handler any, ev dom.Event, event string) {
	var err error
	switch h := handler.(type) {
	case func():
		h()
		return
	case func(dom.Event):
		h(ev)
		return
	case func() error:
		err = h()
	case func(dom.Event) error:
		err = h(ev)
	default:
		err = callReflect(handler, ev)
	}
	if err != nil {
		p.log().Error("event handler failed", "event", event, "error", err)
	}
}

var (
	eventType = reflect.TypeOf((*dom.Event)(nil)).Elem()
	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

// callReflect calls functions of other shapes: a single parameter that the
// event is assignable to, or no parameters. An error result is returned.
func callReflect(handler any, ev dom.Event) error {
	fv := reflect.ValueOf(handler)
	ft := fv.Type()
	var args []reflect.Value
	switch {
	case ft.NumIn() == 0:
	case ft.NumIn() == 1 && ev != nil && reflect.TypeOf(ev).AssignableTo(ft.In(0)):
		args = []reflect.Value{reflect.ValueOf(ev)}
	case ft.NumIn() == 1 && ft.In(0) == eventType:
		args = []reflect.Value{reflect.Zero(eventType)}
	default:
		return nil
	}
	for _, out := range fv.Call(args) {
		if out.Type().Implements(errorType) && !out.IsNil() {
			return out.Interface().(error)
		}
	}
	return nil
}

// bindAnchor makes clicks on el navigate. It is idempotent.
func (p *PropertyReconciler) bindAnchor(el dom.Element) {
	p.mu.Lock()
	bound := p.anchors[el]
	p.anchors[el] = true
	p.mu.Unlock()
	if !bound {
		p.ensureTrampoline(el, "click")
	}
}

// navigate follows the anchor's href unless a handler prevented default:
// _blank targets open a new context without an opener, anything else
// navigates the current one.
func (p *PropertyReconciler) navigate(el dom.Element, ev dom.Event) {
	if ev.DefaultPrevented() {
		return
	}
	href, ok := el.Attribute("href")
	if !ok || href == "" {
		return
	}
	win := p.doc.Window()
	if win == nil {
		return
	}
	if target, _ := el.Attribute("target"); target == "_blank" {
		opened, err := win.Open(href, "_blank", "noopener,noreferrer")
		if err != nil {
			p.log().Warn("anchor navigation failed", "href", href, "target", target, "error", err)
		} else if opened != nil {
			_ = opened.ClearOpener()
		}
	} else if err := win.Assign(href); err != nil {
		p.log().Warn("anchor navigation failed", "href", href, "error", err)
	}
	ev.PreventDefault()
}

// Forget drops side-table entries for n and its descendants.
func (p *PropertyReconciler) Forget(n dom.Node) {
	el, ok := dom.AsElement(n)
	if !ok {
		return
	}
	p.mu.Lock()
	delete(p.handlers, el)
	delete(p.trampolines, el)
	delete(p.anchors, el)
	p.mu.Unlock()
	for _, c := range el.ChildNodes() {
		p.Forget(c)
	}
}

// Tracked returns the number of elements with side-table entries.
func (p *PropertyReconciler) Tracked() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	seen := make(map[dom.Element]bool)
	for el := range p.handlers {
		seen[el] = true
	}
	for el := range p.trampolines {
		seen[el] = true
	}
	return len(seen)
}
