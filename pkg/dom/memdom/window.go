package memdom

import (
	"sync"

	"github.com/vango-dev/vlite/pkg/dom"
)

// OpenCall records one Window.Open call.
type OpenCall struct {
	URL           string
	Target        string
	Features      string
	OpenerCleared bool
}

// Window records navigation instead of performing it. The error fields make
// the corresponding operation fail.
type Window struct {
	OpenErr        error
	AssignErr      error
	ClearOpenerErr error

	mu       sync.Mutex
	opened   []OpenCall
	assigned []string
}

var _ dom.Window = (*Window)(nil)

// Open records the call.
func (w *Window) Open(url, target, features string) (dom.Opened, error) {
	if w.OpenErr != nil {
		return nil, w.OpenErr
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.opened = append(w.opened, OpenCall{URL: url, Target: target, Features: features})
	return &opened{w: w, i: len(w.opened) - 1}, nil
}

// Assign records the navigation.
func (w *Window) Assign(url string) error {
	if w.AssignErr != nil {
		return w.AssignErr
	}
	w.mu.Lock()
	w.assigned = append(w.assigned, url)
	w.mu.Unlock()
	return nil
}

// Opened returns the recorded Open calls.
func (w *Window) Opened() []OpenCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]OpenCall(nil), w.opened...)
}

// Assigned returns the recorded Assign URLs.
func (w *Window) Assigned() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.assigned...)
}

type opened struct {
	w *Window
	i int
}

func (o *opened) ClearOpener() error {
	if o.w.ClearOpenerErr != nil {
		return o.w.ClearOpenerErr
	}
	o.w.mu.Lock()
	o.w.opened[o.i].OpenerCleared = true
	o.w.mu.Unlock()
	return nil
}
