// Package store is a small predictable state container: a reducer folds
// dispatched actions into state, middleware wraps dispatch, and
// components subscribe with UseStore.
package store

import (
	"sync"
)

// Reducer returns the state after applying action.
// Reducers must not dispatch.
type Reducer[S any] func(state S, action any) S

// Dispatch sends an action through the middleware chain.
type Dispatch func(action any) any

// Thunk is an action that is called instead of reduced. It receives the
// store's full dispatch and may dispatch any number of actions, from any
// goroutine.
type Thunk[S any] func(dispatch Dispatch, getState func() S) any

// API is the part of a store visible to middleware.
type API[S any] struct {
	GetState func() S
	Dispatch Dispatch
}

// Middleware wraps the next dispatch in the chain.
type Middleware[S any] func(api API[S]) func(next Dispatch) Dispatch

// Source is a subscribable state holder, as consumed by UseStore.
type Source[S any] interface {
	GetState() S
	Subscribe(listener func()) (unsubscribe func())
}

// Store holds state of type S.
type Store[S any] struct {
	reducer Reducer[S]

	mu        sync.Mutex
	state     S
	listeners []listener
	nextID    uint64

	dispatch Dispatch
}

type listener struct {
	id uint64
	fn func()
}

var _ Source[int] = (*Store[int])(nil)

// New creates a store. Middleware is applied so that the first one sees
// each action first.
func New[S any](reducer Reducer[S], initial S, middleware ...Middleware[S]) *Store[S] {
	s := &Store[S]{reducer: reducer, state: initial}
	api := API[S]{GetState: s.GetState, Dispatch: s.Dispatch}

	d := Dispatch(s.reduce)
	for i := len(middleware) - 1; i >= 0; i-- {
		d = middleware[i](api)(d)
	}
	s.dispatch = d
	return s
}

// GetState returns the current state.
func (s *Store[S]) GetState() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch runs action through the middleware chain. Thunks are called
// with the store's dispatch and their result is returned; other actions
// are reduced, listeners are notified and the action is returned.
func (s *Store[S]) Dispatch(action any) any {
	return s.dispatch(action)
}

func (s *Store[S]) reduce(action any) any {
	switch t := action.(type) {
	case Thunk[S]:
		return t(s.Dispatch, s.GetState)
	case func(Dispatch, func() S) any:
		return t(s.Dispatch, s.GetState)
	}

	s.mu.Lock()
	s.state = s.reducer(s.state, action)
	ls := append([]listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range ls {
		l.fn()
	}
	return action
}

// Subscribe registers fn to be called after every reduced action and
// returns a function that removes it. Listeners run in subscription order
// on the dispatching goroutine.
func (s *Store[S]) Subscribe(fn func()) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Listeners returns the number of active subscriptions.
func (s *Store[S]) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
