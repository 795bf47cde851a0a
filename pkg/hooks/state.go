package hooks

import (
	"fmt"

	verrors "github.com/vango-dev/vlite/internal/errors"
)

// stateCell is the slot value behind UseState.
type stateCell[T any] struct {
	value T
}

// Setter updates a UseState slot and requests a render pass. A Setter is
// stable across renders of its instance.
type Setter[T any] struct {
	owner *Owner
	cell  *stateCell[T]
}

// UseState returns the current value of the next state slot and its setter.
// On the instance's first render the slot is initialized with initial.
func UseState[T any](initial T) (T, Setter[T]) {
	o := hookOwner("UseState")
	v := o.useSlot(HookState, func() any { return &stateCell[T]{value: initial} })
	cell, ok := v.(*stateCell[T])
	if !ok {
		panic(slotMismatch(o, "UseState", v))
	}
	o.mu.Lock()
	value := cell.value
	o.mu.Unlock()
	return value, Setter[T]{owner: o, cell: cell}
}

// Get returns the stored value.
func (s Setter[T]) Get() T {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	return s.cell.value
}

// Set stores v and synchronously requests a render pass, returning the
// pass error.
func (s Setter[T]) Set(v T) error {
	return s.Update(func(T) T { return v })
}

// Update stores fn(current) and synchronously requests a render pass.
// fn runs with the instance locked and must not call the setter.
func (s Setter[T]) Update(fn func(T) T) error {
	if s.owner == nil {
		return verrors.New(verrors.CodeHookOutsideRender).WithDetail("zero Setter")
	}
	if s.owner.IsDisposed() {
		return verrors.New(verrors.CodeOwnerDisposed).WithDetail("%s", s.owner.key)
	}
	s.owner.mu.Lock()
	s.cell.value = fn(s.cell.value)
	s.owner.mu.Unlock()
	return s.owner.host.requestRender(s.owner)
}

// Ref is a mutable box that keeps its identity across renders.
type Ref[T any] struct {
	Current T
}

// UseRef returns the instance's ref for the next slot, created with
// initial on the first render.
func UseRef[T any](initial T) *Ref[T] {
	o := hookOwner("UseRef")
	v := o.useSlot(HookRef, func() any { return &Ref[T]{Current: initial} })
	ref, ok := v.(*Ref[T])
	if !ok {
		panic(slotMismatch(o, "UseRef", v))
	}
	return ref
}

func slotMismatch(o *Owner, hook string, v any) error {
	return verrors.New(verrors.CodeHookOrder).
		WithDetail("%s: %s found a %s slot at index %d", o.key, hook, slotName(v), o.hookSlotIdx-1)
}

func slotName(v any) string {
	switch v.(type) {
	case *effect:
		return "UseEffect"
	}
	return fmt.Sprintf("%T", v)
}
