package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	verrors "github.com/vango-dev/vlite/internal/errors"
	"github.com/vango-dev/vlite/pkg/dom"
	"github.com/vango-dev/vlite/pkg/hooks"
	"github.com/vango-dev/vlite/pkg/markup"
	"github.com/vango-dev/vlite/pkg/reconcile"
	"github.com/vango-dev/vlite/pkg/registry"
	"github.com/vango-dev/vlite/pkg/vdom"
)

// Pass reasons reported to observers.
const (
	ReasonMount  = "mount"
	ReasonUpdate = "update"
)

// Runtime renders one root component into one container.
type Runtime struct {
	cfg    Config
	logger *slog.Logger
	host   *hooks.Host

	// tree serializes passes with Inspect and Unmount.
	tree sync.Mutex

	// state guards the scheduler fields and the root binding.
	state      sync.Mutex
	rendering  bool
	dirty      bool
	batchDepth int
	reason     string
	root       vdom.ComponentFunc
	rootName   string
	container  dom.Element
	rec        *reconcile.Reconciler
	observers  []Observer

	seq atomic.Uint64
}

// New creates a runtime.
func New(opts ...Option) *Runtime {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.applyDefaults()
	r := &Runtime{
		cfg:       cfg,
		logger:    cfg.Logger.With("component", "vlite"),
		observers: append([]Observer(nil), cfg.Observers...),
	}
	r.host = hooks.NewHost(r.RequestRender, cfg.Debug)
	return r
}

// Logger returns the runtime logger.
func (r *Runtime) Logger() *slog.Logger { return r.logger }

// Registry returns the component registry.
func (r *Runtime) Registry() *registry.Registry { return r.cfg.Registry }

// Compiler returns the template compiler.
func (r *Runtime) Compiler() *markup.Compiler { return r.cfg.Compiler }

// Document returns the document used to resolve selectors.
func (r *Runtime) Document() dom.Document {
	if r.cfg.Document != nil {
		return r.cfg.Document
	}
	return dom.Default()
}

// Render binds root to target and runs a pass. target is a selector
// ("#id", ".class" or a tag name) resolved against the runtime's document,
// or a dom.Element. A later Render replaces the binding.
func (r *Runtime) Render(root vdom.ComponentFunc, target any) error {
	return r.RenderNamed(vdom.ComponentName(root), root, target)
}

// RenderNamed is Render with an explicit root component name, used for
// closures whose function name carries no meaning.
func (r *Runtime) RenderNamed(name string, root vdom.ComponentFunc, target any) error {
	if root == nil {
		return verrors.New(verrors.CodeNotMounted).WithDetail("nil root component")
	}
	container, err := r.resolve(target)
	if err != nil {
		return err
	}
	doc := r.Document()
	if doc == nil {
		return verrors.New(verrors.CodeContainerNotFound).
			WithDetail("no document configured").
			WithSuggestion("call SetDocument or pass WithDocument")
	}

	r.state.Lock()
	r.root = root
	r.rootName = name
	if r.container != container || r.rec == nil {
		r.container = container
		r.rec = reconcile.New(doc, reconcile.WithHost(r.host), reconcile.WithLogger(r.logger))
	}
	r.reason = ReasonMount
	r.state.Unlock()

	r.logger.Debug("root mounted", "root", name)
	return r.RequestRender()
}

func (r *Runtime) resolve(target any) (dom.Element, error) {
	switch t := target.(type) {
	case string:
		doc := r.Document()
		if doc == nil {
			return nil, verrors.New(verrors.CodeContainerNotFound).
				WithDetail("no document to resolve %q", t).
				WithSuggestion("call SetDocument or pass WithDocument")
		}
		el, ok := doc.Query(t)
		if !ok {
			return nil, verrors.New(verrors.CodeContainerNotFound).
				WithDetail("no element matches %q", t).
				WithSuggestion(fmt.Sprintf("add an element matching %q before calling Render", t))
		}
		return el, nil
	case dom.Element:
		if isNilElement(t) {
			return nil, verrors.New(verrors.CodeContainerNotFound).WithDetail("nil %T container", t)
		}
		return t, nil
	case nil:
		return nil, verrors.New(verrors.CodeContainerNotFound).WithDetail("nil container")
	default:
		return nil, verrors.New(verrors.CodeContainerInvalid).WithDetail("%T", target)
	}
}

// isNilElement reports whether el holds a nil pointer, map or similar.
func isNilElement(el dom.Element) bool {
	rv := reflect.ValueOf(el)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Observe adds an observer for subsequent passes.
func (r *Runtime) Observe(o Observer) {
	r.state.Lock()
	r.observers = append(r.observers, o)
	r.state.Unlock()
}

// Container returns the bound container, or nil.
func (r *Runtime) Container() dom.Element {
	r.state.Lock()
	defer r.state.Unlock()
	return r.container
}

// RootName returns the name of the bound root component, or "".
func (r *Runtime) RootName() string {
	r.state.Lock()
	defer r.state.Unlock()
	if r.root == nil {
		return ""
	}
	return r.rootName
}

// Mounted reports whether a root is bound.
func (r *Runtime) Mounted() bool {
	r.state.Lock()
	defer r.state.Unlock()
	return r.root != nil
}

// Inspect calls fn with the container and the hook host while no pass is
// running.
func (r *Runtime) Inspect(fn func(container dom.Element, host *hooks.Host)) {
	r.tree.Lock()
	defer r.tree.Unlock()
	fn(r.Container(), r.host)
}

// Owners lists the live component instances.
func (r *Runtime) Owners() []hooks.OwnerInfo {
	return r.host.Owners()
}

// Unmount disposes every instance, empties the container and clears the
// binding.
func (r *Runtime) Unmount() error {
	r.tree.Lock()
	defer r.tree.Unlock()

	r.state.Lock()
	container, rec := r.container, r.rec
	mounted := r.root != nil
	r.root, r.container, r.rec = nil, nil, nil
	r.state.Unlock()
	if !mounted {
		return verrors.New(verrors.CodeNotMounted)
	}

	r.host.DisposeAll()
	if container != nil {
		for _, c := range container.ChildNodes() {
			container.RemoveChild(c)
			if rec != nil {
				rec.Properties().Forget(c)
			}
		}
	}
	r.logger.Debug("root unmounted")
	return nil
}

// pass renders the root once and reconciles it into the container.
func (r *Runtime) pass() (err error) {
	r.tree.Lock()
	defer r.tree.Unlock()

	r.state.Lock()
	root, name, container, rec := r.root, r.rootName, r.container, r.rec
	reason := r.reason
	r.reason = ReasonUpdate
	observers := append([]Observer(nil), r.observers...)
	r.state.Unlock()
	if root == nil || container == nil {
		return verrors.New(verrors.CodeNotMounted)
	}

	seq := r.seq.Add(1)
	ctx := context.Background()
	for _, o := range observers {
		ctx = o.BeginPass(ctx, seq, name)
	}
	start := time.Now()
	report := PassReport{Seq: seq, Root: name, Reason: reason, Started: start}

	defer func() {
		if p := recover(); p != nil {
			err = verrors.FromPanic(p, verrors.CodeRenderPanic)
		}
		report.Duration = time.Since(start)
		report.Stats = rec.Stats()
		if err != nil {
			report.Err = err
			report.Error = err.Error()
			r.logger.Error("render pass failed", "seq", seq, "root", name, "error", err)
		} else {
			r.logger.Debug("render pass",
				"seq", seq,
				"root", name,
				"reason", reason,
				"duration", report.Duration,
				"mutations", report.Stats.Mutations(),
				"disposed", report.Disposed)
		}
		for _, o := range observers {
			o.EndPass(ctx, report)
		}
	}()

	rec.ResetStats()
	r.host.BeginPass()
	if err := rec.ReconcileRoot(container, vdom.Component(name, root, nil), reconcile.RootKey); err != nil {
		return err
	}
	report.Disposed = r.host.EndPass()
	return nil
}
