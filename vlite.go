// Package vlite is a minimal UI runtime: components return virtual nodes,
// hook state drives whole-tree re-renders of one mounted root, and templates
// compile to virtual nodes.
//
// Usage:
//
//	func Counter(vlite.Props) *vlite.VNode {
//	    n, set := vlite.UseState(0)
//	    return vlite.MustTpl([]string{`<button onClick=`, `>`, `</button>`},
//	        func() { set.Update(func(v int) int { return v + 1 }) }, n)
//	}
//
//	vlite.SetDocument(doc)
//	if err := vlite.Render(Counter, "#app"); err != nil {
//	    log.Fatal(err)
//	}
//
// The package-level functions operate on a process-wide default Runtime;
// programs that need several roots create their own with runtime.New.
package vlite

import (
	"sync"

	verrors "github.com/vango-dev/vlite/internal/errors"
	"github.com/vango-dev/vlite/pkg/dom"
	"github.com/vango-dev/vlite/pkg/hooks"
	"github.com/vango-dev/vlite/pkg/markup"
	"github.com/vango-dev/vlite/pkg/registry"
	"github.com/vango-dev/vlite/pkg/runtime"
	"github.com/vango-dev/vlite/pkg/vdom"
)

// =============================================================================
// Types
// =============================================================================

type (
	VNode         = vdom.VNode
	Props         = vdom.Props
	ComponentFunc = vdom.ComponentFunc
	Error         = verrors.Error
)

// Error category sentinels for errors.Is.
var (
	ErrMount   = verrors.Kind(verrors.CategoryMount)
	ErrCompile = verrors.Kind(verrors.CategoryCompile)
	ErrHook    = verrors.Kind(verrors.CategoryHook)
	ErrRender  = verrors.Kind(verrors.CategoryRender)
)

// =============================================================================
// Default runtime
// =============================================================================

var (
	stdMu sync.Mutex
	std   *runtime.Runtime
)

// Default returns the process-wide runtime, creating it on first use.
func Default() *runtime.Runtime {
	stdMu.Lock()
	defer stdMu.Unlock()
	if std == nil {
		std = runtime.New()
	}
	return std
}

// Configure replaces the default runtime with one built from opts. Call it
// before Render; an already mounted root stays with the old runtime.
func Configure(opts ...runtime.Option) *runtime.Runtime {
	rt := runtime.New(opts...)
	stdMu.Lock()
	std = rt
	stdMu.Unlock()
	return rt
}

// SetDocument installs the document that selector containers resolve
// against.
func SetDocument(doc dom.Document) {
	dom.SetDefault(doc)
}

// =============================================================================
// Rendering
// =============================================================================

// Render mounts root into container, a selector ("#id", ".class", "tag")
// or a dom.Element, and renders it. A later Render replaces the root.
func Render(root ComponentFunc, container any) error {
	return Default().Render(root, container)
}

// Unmount disposes the mounted tree and empties its container.
func Unmount() error {
	return Default().Unmount()
}

// Batch runs fn and renders once afterwards if any state changed inside it.
func Batch(fn func()) error {
	return Default().Batch(fn)
}

// Jsx creates a node for a tag name or a component function.
func Jsx(kind any, props Props, children ...any) *VNode {
	return vdom.Jsx(kind, props, children...)
}

// Text creates a text node.
func Text(s string) *VNode { return vdom.Text(s) }

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode { return vdom.Fragment(children...) }

// RegisterComponent makes fn available to templates as <name>. Component
// tags must start with an uppercase letter.
func RegisterComponent(name string, fn ComponentFunc) {
	registry.Default.Register(name, fn)
}

// =============================================================================
// Hooks
// =============================================================================

// UseState returns the component's state for this call site and a setter
// that stores a new value and re-renders synchronously.
func UseState[T any](initial T) (T, hooks.Setter[T]) {
	return hooks.UseState(initial)
}

// UseEffect runs fn after the render pass commits whenever deps change.
// nil deps run it after every render; empty deps run it once. The returned
// cleanup runs before the next run and when the component is removed.
func UseEffect(fn func() func(), deps []any) {
	hooks.UseEffect(fn, deps)
}

// UseRef returns a mutable box that survives re-renders.
func UseRef[T any](initial T) *hooks.Ref[T] {
	return hooks.UseRef(initial)
}

// =============================================================================
// Templates
// =============================================================================

// Tpl compiles a template given as literal chunks and the values between
// them, like a tagged template: len(chunks) must be len(values)+1.
func Tpl(chunks []string, values ...any) (*VNode, error) {
	return Default().Compiler().Compile(chunks, values...)
}

// MustTpl is like Tpl but panics on error. Inside a render the panic is
// returned from the call that triggered the pass.
func MustTpl(chunks []string, values ...any) *VNode {
	v, err := Tpl(chunks, values...)
	if err != nil {
		panic(err)
	}
	return v
}

// Markup compiles a template with ${name} slots filled from vars.
func Markup(src string, vars map[string]any) (*VNode, error) {
	return Default().Compiler().CompileNamed(src, vars)
}

// CompileStats reports the default compiler's template cache counters.
func CompileStats() markup.Stats {
	return Default().Compiler().Stats()
}
