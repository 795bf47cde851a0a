package memdom

import "github.com/vango-dev/vlite/pkg/dom"

// Event is a synthetic event dispatched through the in-memory tree.
type Event struct {
	typ       string
	target    dom.Node
	prevented bool
	stopped   bool
}

var _ dom.Event = (*Event)(nil)

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{typ: typ}
}

func (ev *Event) Type() string           { return ev.typ }
func (ev *Event) Target() dom.Node       { return ev.target }
func (ev *Event) PreventDefault()        { ev.prevented = true }
func (ev *Event) DefaultPrevented() bool { return ev.prevented }
func (ev *Event) StopPropagation()       { ev.stopped = true }

// Dispatch delivers ev to target and then bubbles it to each ancestor,
// stopping after the element on which StopPropagation was called. Listeners
// attached or removed during dispatch take effect for the next element.
func Dispatch(target *Element, ev *Event) *Event {
	ev.target = target
	for cur := target; cur != nil; cur = cur.parent {
		for _, l := range append([]*dom.Listener(nil), cur.listeners[ev.typ]...) {
			l.Handle(ev)
		}
		if ev.stopped {
			break
		}
	}
	return ev
}

// Click dispatches a bubbling click on el and returns the event.
func Click(el *Element) *Event {
	return Dispatch(el, NewEvent("click"))
}

// Input sets the value property of el and dispatches an input event.
func Input(el *Element, value string) *Event {
	el.SetProperty("value", value)
	return Dispatch(el, NewEvent("input"))
}
