package hooks

import (
	"sort"
	"sync"

	verrors "github.com/vango-dev/vlite/internal/errors"
	"github.com/vango-dev/vlite/pkg/vdom"
)

// Host owns the instances of one mounted tree.
type Host struct {
	// request asks the runtime for a render pass. Setters call it.
	request func() error
	debug   bool

	mu       sync.Mutex
	owners   map[string]*Owner
	pass     uint64
	rendered []*Owner // render order within the current pass
}

// NewHost creates a host. request is called by state setters; debug enables
// hook order validation.
func NewHost(request func() error, debug bool) *Host {
	if request == nil {
		request = func() error { return nil }
	}
	return &Host{
		request: request,
		debug:   debug,
		owners:  make(map[string]*Owner),
	}
}

// BeginPass starts a render pass.
func (h *Host) BeginPass() {
	h.mu.Lock()
	h.pass++
	h.rendered = h.rendered[:0]
	h.mu.Unlock()
}

// Render invokes fn as the instance identified by key. Hooks called by fn
// read and write that instance's slots. Panics from fn propagate after the
// goroutine's tracking state is restored.
func (h *Host) Render(key, name string, fn vdom.ComponentFunc, props vdom.Props) *vdom.VNode {
	h.mu.Lock()
	o, ok := h.owners[key]
	if !ok || o.IsDisposed() {
		o = &Owner{key: key, name: name, host: h}
		h.owners[key] = o
	}
	o.seen = h.pass
	h.rendered = append(h.rendered, o)
	h.mu.Unlock()

	prev := setCurrentOwner(o)
	defer setCurrentOwner(prev)

	o.startRender()
	node := fn(props)
	o.endRender()
	return node
}

// EndPass disposes the instances the pass did not render and then runs the
// effects scheduled during the pass in render order. It returns the number
// of disposed instances.
func (h *Host) EndPass() int {
	h.mu.Lock()
	var stale []*Owner
	for key, o := range h.owners {
		if o.seen != h.pass {
			stale = append(stale, o)
			delete(h.owners, key)
		}
	}
	rendered := append([]*Owner(nil), h.rendered...)
	h.mu.Unlock()

	sort.Slice(stale, func(i, j int) bool { return stale[i].key < stale[j].key })
	for _, o := range stale {
		o.dispose()
	}
	for _, o := range rendered {
		o.runEffects()
	}
	return len(stale)
}

// DisposeAll disposes every instance, e.g. on unmount.
func (h *Host) DisposeAll() {
	h.mu.Lock()
	owners := make([]*Owner, 0, len(h.owners))
	for _, o := range h.owners {
		owners = append(owners, o)
	}
	h.owners = make(map[string]*Owner)
	h.mu.Unlock()

	sort.Slice(owners, func(i, j int) bool { return owners[i].key < owners[j].key })
	for _, o := range owners {
		o.dispose()
	}
}

// OwnerInfo describes a live instance.
type OwnerInfo struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Slots   int    `json:"slots"`
	Effects int    `json:"effects"`
}

// Owners lists the live instances sorted by key.
func (h *Host) Owners() []OwnerInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]OwnerInfo, 0, len(h.owners))
	for _, o := range h.owners {
		o.mu.Lock()
		out = append(out, OwnerInfo{Key: o.key, Name: o.name, Slots: len(o.hookSlots), Effects: len(o.effects)})
		o.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Owner returns the live instance with the given key.
func (h *Host) Owner(key string) (*Owner, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, ok := h.owners[key]
	return o, ok
}

// requestRender is called by setters of o.
func (h *Host) requestRender(o *Owner) error {
	if o.IsDisposed() {
		return verrors.New(verrors.CodeOwnerDisposed).WithDetail("%s", o.key)
	}
	return h.request()
}
