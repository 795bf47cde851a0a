package hooks

import "github.com/vango-dev/vlite/pkg/vdom"

// effect is the slot value behind UseEffect.
type effect struct {
	fn      func() func()
	deps    []any
	ran     bool
	cleanup func()
}

// UseEffect schedules fn to run after the current render pass commits.
// With nil deps fn runs after every render; with an empty slice only after
// the first; otherwise whenever a dependency differs from the previous
// render. The function fn returns, if any, runs before the next run of fn
// and when the instance is disposed.
func UseEffect(fn func() func(), deps []any) {
	o := hookOwner("UseEffect")
	v := o.useSlot(HookEffect, func() any {
		e := &effect{}
		o.effects = append(o.effects, e)
		return e
	})
	e, ok := v.(*effect)
	if !ok {
		panic(slotMismatch(o, "UseEffect", v))
	}
	if e.ran && deps != nil && depsEqual(e.deps, deps) {
		return
	}
	e.fn = fn
	e.deps = append([]any(nil), deps...)
	if deps == nil {
		e.deps = nil
	}
	o.pending = append(o.pending, e)
}

func (e *effect) run() {
	e.runCleanup()
	e.ran = true
	if e.fn != nil {
		e.cleanup = e.fn()
	}
}

func (e *effect) runCleanup() {
	if c := e.cleanup; c != nil {
		e.cleanup = nil
		c()
	}
}

func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !vdom.ValuesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
