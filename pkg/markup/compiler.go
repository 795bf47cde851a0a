package markup

import (
	verrors "github.com/vango-dev/vlite/internal/errors"
	"github.com/vango-dev/vlite/pkg/registry"
	"github.com/vango-dev/vlite/pkg/vdom"
)

// Compiler compiles templates against a component registry. It is safe for
// concurrent use.
type Compiler struct {
	registry *registry.Registry
	cache    *cache
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithCacheSize bounds the number of cached templates. Zero disables the
// cache.
func WithCacheSize(n int) Option {
	return func(c *Compiler) {
		c.cache.max = n
	}
}

// New creates a compiler resolving components through reg. A nil reg uses
// registry.Default.
func New(reg *registry.Registry, opts ...Option) *Compiler {
	if reg == nil {
		reg = registry.Default
	}
	c := &Compiler{
		registry: reg,
		cache:    newCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Default is the compiler used by the package-level functions.
var Default = New(registry.Default)

// Compile compiles chunks and values with the default compiler.
func Compile(chunks []string, values ...any) (*vdom.VNode, error) {
	return Default.Compile(chunks, values...)
}

// Registry returns the registry the compiler resolves components with.
func (c *Compiler) Registry() *registry.Registry {
	return c.registry
}

// Compile composes the chunks, parses them (or reuses a cached parse) and
// lowers the first top-level element with values substituted. There must be
// exactly one more chunk than values.
func (c *Compiler) Compile(chunks []string, values ...any) (*vdom.VNode, error) {
	if len(chunks) != len(values)+1 {
		return nil, verrors.New(verrors.CodeValueCount).
			WithDetail("%d chunks, %d values", len(chunks), len(values))
	}
	sk, err := c.skeleton(chunks)
	if err != nil {
		return nil, err
	}
	l := &lowerer{c: c, sk: sk, values: values}
	return l.element(sk.root)
}

func (c *Compiler) skeleton(chunks []string) (*skeleton, error) {
	sk, hash, key := c.cache.get(chunks)
	if sk != nil {
		return sk, nil
	}
	src, kinds := compose(chunks)
	doc, err := parse(src)
	if err != nil {
		return nil, err
	}
	var root *node
	for _, n := range doc.children {
		if n.typ == elementNode {
			root = n
			break
		}
	}
	if root == nil {
		return nil, verrors.New(verrors.CodeNoRootElement).
			WithDetail("%q", truncate(src, 60)).
			WithSuggestion("wrap the content in an element or <>...</>")
	}
	sk = &skeleton{src: src, root: root, kinds: kinds}
	c.cache.put(hash, key, sk)
	return sk, nil
}

// Stats returns the template cache counters.
func (c *Compiler) Stats() Stats {
	return c.cache.stats()
}

// ResetCache drops all cached templates and zeroes the counters.
func (c *Compiler) ResetCache() {
	c.cache.reset()
}

// Source returns the composed markup for chunks, with placeholders in
// place of the values. It is meant for diagnostics.
func Source(chunks []string) string {
	src, _ := compose(chunks)
	return src
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
