package vtest

import (
	"strings"
	"sync"
	"testing"

	"github.com/vango-dev/vlite/pkg/dom/memdom"
	"github.com/vango-dev/vlite/pkg/runtime"
	"github.com/vango-dev/vlite/pkg/vdom"
)

// Harness is a component mounted into an in-memory document.
type Harness struct {
	t         testing.TB
	Doc       *memdom.Document
	Container *memdom.Element
	Runtime   *runtime.Runtime

	mu      sync.Mutex
	reports []runtime.PassReport
}

// Mount renders root into a fresh document and fails the test on error.
// Options are passed to the runtime after the harness defaults (debug mode
// on, the harness document and its pass recorder).
//
// The runtime is unmounted when the test ends.
func Mount(t testing.TB, root vdom.ComponentFunc, opts ...runtime.Option) *Harness {
	t.Helper()
	h := New(t, opts...)
	if err := h.Runtime.Render(root, h.Container); err != nil {
		t.Fatalf("vtest: mount: %v", err)
	}
	return h
}

// New creates a harness without mounting anything, for tests that exercise
// Render errors themselves.
func New(t testing.TB, opts ...runtime.Option) *Harness {
	t.Helper()
	doc := memdom.New()
	container := doc.CreateElement("div").(*memdom.Element)
	container.SetAttribute("id", "app")
	doc.Body().AppendChild(container)
	doc.ResetMutations()

	h := &Harness{t: t, Doc: doc, Container: container}
	base := []runtime.Option{
		runtime.WithDocument(doc),
		runtime.WithDebug(true),
		runtime.WithObserver(runtime.ObserverFunc(h.record)),
	}
	h.Runtime = runtime.New(append(base, opts...)...)
	t.Cleanup(func() {
		if h.Runtime.Mounted() {
			_ = h.Runtime.Unmount()
		}
	})
	return h
}

func (h *Harness) record(r runtime.PassReport) {
	h.mu.Lock()
	h.reports = append(h.reports, r)
	h.mu.Unlock()
}

// HTML returns the container's inner HTML.
func (h *Harness) HTML() string {
	return h.Container.InnerHTML()
}

// Passes returns a copy of the pass reports recorded so far.
func (h *Harness) Passes() []runtime.PassReport {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]runtime.PassReport(nil), h.reports...)
}

// LastPass returns the most recent pass report. It fails the test when no
// pass has run.
func (h *Harness) LastPass() runtime.PassReport {
	h.t.Helper()
	passes := h.Passes()
	if len(passes) == 0 {
		h.t.Fatal("vtest: no render pass recorded")
	}
	return passes[len(passes)-1]
}

// Mutations returns the document mutation log as strings.
func (h *Harness) Mutations() []string {
	log := h.Doc.Mutations()
	out := make([]string, len(log))
	for i, m := range log {
		out[i] = m.String()
	}
	return out
}

// ResetMutations clears the mutation log.
func (h *Harness) ResetMutations() {
	h.Doc.ResetMutations()
}

// Find returns the first element in the container matching selector
// (#id, .class or tag). It fails the test when nothing matches.
func (h *Harness) Find(selector string) *memdom.Element {
	h.t.Helper()
	for _, el := range h.Doc.QueryAll(selector) {
		if el != h.Container && h.contains(el) {
			return el
		}
	}
	h.t.Fatalf("vtest: no element matches %q in:\n%s", selector, truncate(h.HTML(), 500))
	return nil
}

// FindAll returns every element in the container matching selector.
func (h *Harness) FindAll(selector string) []*memdom.Element {
	var out []*memdom.Element
	for _, el := range h.Doc.QueryAll(selector) {
		if el != h.Container && h.contains(el) {
			out = append(out, el)
		}
	}
	return out
}

func (h *Harness) contains(el *memdom.Element) bool {
	for n := el.ParentNode(); n != nil; n = n.ParentNode() {
		if n == h.Container {
			return true
		}
	}
	return false
}

// Click dispatches a click on the element matching selector and returns
// the event.
func (h *Harness) Click(selector string) *memdom.Event {
	h.t.Helper()
	return memdom.Click(h.Find(selector))
}

// Input sets the value of the element matching selector and dispatches an
// input event.
func (h *Harness) Input(selector, value string) *memdom.Event {
	h.t.Helper()
	return memdom.Input(h.Find(selector), value)
}

// Rerender requests a render pass and fails the test on error.
func (h *Harness) Rerender() {
	h.t.Helper()
	if err := h.Runtime.RequestRender(); err != nil {
		h.t.Fatalf("vtest: rerender: %v", err)
	}
}

// ExpectHTML asserts the container's inner HTML.
func (h *Harness) ExpectHTML(want string) {
	h.t.Helper()
	if got := h.HTML(); got != want {
		h.t.Errorf("HTML = %q, want %q", got, want)
	}
}

// ExpectNoMutations asserts that the mutation log is empty.
func (h *Harness) ExpectNoMutations() {
	h.t.Helper()
	if m := h.Mutations(); len(m) != 0 {
		h.t.Errorf("expected no mutations, got %v", m)
	}
}

// RenderToString mounts node into a throwaway runtime and returns the
// container HTML, or "" when rendering fails.
func RenderToString(node *vdom.VNode) string {
	doc := memdom.New()
	container := doc.CreateElement("div")
	doc.Body().AppendChild(container)
	rt := runtime.New(runtime.WithDocument(doc))
	if err := rt.Render(func(vdom.Props) *vdom.VNode { return node }, container); err != nil {
		return ""
	}
	html := container.(*memdom.Element).InnerHTML()
	_ = rt.Unmount()
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, Card(props), "Welcome")
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
func ExpectElement(t testing.TB, node *vdom.VNode, tag string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
