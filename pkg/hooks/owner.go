package hooks

import (
	"sync"
	"sync/atomic"

	verrors "github.com/vango-dev/vlite/internal/errors"
)

// HookType identifies the type of hook call for order validation.
type HookType uint8

const (
	HookState HookType = iota + 1
	HookEffect
	HookRef
)

// String returns a human-readable name for the hook type.
func (h HookType) String() string {
	switch h {
	case HookState:
		return "State"
	case HookEffect:
		return "Effect"
	case HookRef:
		return "Ref"
	default:
		return "Unknown"
	}
}

// Owner holds the hook slots of one component instance.
type Owner struct {
	key  string
	name string
	host *Host

	// mu guards slot values, which setters may touch from any goroutine.
	mu sync.Mutex

	disposed atomic.Bool

	// seen is the pass in which the instance was last rendered.
	seen uint64

	// Hook slot storage, stable across renders.
	hookSlots   []any
	hookSlotIdx int

	// Hook order tracking, only used when the host validates hooks.
	hookOrder   []HookType
	hookIndex   int
	renderCount int

	// effects are the effect slots in call order; pending are the ones
	// scheduled by the current render.
	effects []*effect
	pending []*effect
}

// Key returns the instance key.
func (o *Owner) Key() string { return o.key }

// Name returns the component name.
func (o *Owner) Name() string { return o.name }

// IsDisposed reports whether the instance has been disposed.
func (o *Owner) IsDisposed() bool { return o.disposed.Load() }

// Slots returns the number of hook slots in use.
func (o *Owner) Slots() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.hookSlots)
}

// startRender resets the slot cursor before the instance renders.
func (o *Owner) startRender() {
	o.hookSlotIdx = 0
	o.hookIndex = 0
	o.pending = o.pending[:0]
}

// endRender locks in the hook order after the first render and checks it
// on later ones.
func (o *Owner) endRender() {
	if !o.host.debug {
		return
	}
	if o.renderCount == 0 {
		o.renderCount = 1
		return
	}
	if o.hookIndex < len(o.hookOrder) {
		panic(verrors.New(verrors.CodeHookOrder).
			WithDetail("%s: expected %d hooks, got %d", o.key, len(o.hookOrder), o.hookIndex))
	}
}

// trackHook records or validates a hook call when debug validation is on.
func (o *Owner) trackHook(ht HookType) {
	if !o.host.debug {
		return
	}
	if o.renderCount == 0 {
		o.hookOrder = append(o.hookOrder, ht)
	} else {
		if o.hookIndex >= len(o.hookOrder) {
			panic(verrors.New(verrors.CodeHookOrder).
				WithDetail("%s: extra %s hook at index %d", o.key, ht, o.hookIndex))
		}
		if expected := o.hookOrder[o.hookIndex]; expected != ht {
			panic(verrors.New(verrors.CodeHookOrder).
				WithDetail("%s: expected %s at index %d, got %s", o.key, expected, o.hookIndex, ht))
		}
	}
	o.hookIndex++
}

// useSlot returns the value stored in the next slot, creating it with init
// on the first render of the instance.
func (o *Owner) useSlot(ht HookType, init func() any) any {
	o.trackHook(ht)
	o.mu.Lock()
	defer o.mu.Unlock()
	idx := o.hookSlotIdx
	o.hookSlotIdx++
	if idx < len(o.hookSlots) {
		return o.hookSlots[idx]
	}
	v := init()
	o.hookSlots = append(o.hookSlots, v)
	return v
}

// runEffects runs the effects scheduled by the last render.
func (o *Owner) runEffects() {
	if o.disposed.Load() {
		return
	}
	pending := append([]*effect(nil), o.pending...)
	o.pending = o.pending[:0]
	for _, e := range pending {
		e.run()
	}
}

// dispose runs effect cleanups in reverse order and discards the slots.
func (o *Owner) dispose() {
	if o.disposed.Swap(true) {
		return
	}
	for i := len(o.effects) - 1; i >= 0; i-- {
		o.effects[i].runCleanup()
	}
	o.mu.Lock()
	o.effects = nil
	o.pending = nil
	o.hookSlots = nil
	o.mu.Unlock()
}

// hookOwner returns the rendering instance or panics with a hook error.
func hookOwner(name string) *Owner {
	o := CurrentOwner()
	if o == nil {
		panic(verrors.New(verrors.CodeHookOutsideRender).WithDetail("%s called outside a component render", name))
	}
	return o
}
