package runtime

import (
	"log/slog"

	"github.com/vango-dev/vlite/pkg/dom"
	"github.com/vango-dev/vlite/pkg/markup"
	"github.com/vango-dev/vlite/pkg/registry"
)

// DefaultMaxPasses bounds the passes one render request may trigger.
const DefaultMaxPasses = 25

// Config configures a Runtime.
type Config struct {
	// Document resolves selector containers. If nil, dom.Default() is used.
	Document dom.Document

	// Logger is the structured logger for the runtime.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Registry resolves component tags for Compiler.
	// Default: registry.Default.
	Registry *registry.Registry

	// Compiler compiles templates for components of this runtime.
	// Default: a compiler over Registry.
	Compiler *markup.Compiler

	// Debug enables hook order validation.
	Debug bool

	// MaxPasses bounds consecutive passes per request; exceeding it is a
	// render-loop error. Default: 25.
	MaxPasses int

	// Observers are notified around every pass.
	Observers []Observer
}

// Option configures a Runtime.
type Option func(*Config)

// WithDocument sets the document used to resolve selectors.
func WithDocument(doc dom.Document) Option {
	return func(c *Config) { c.Document = doc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithRegistry sets the component registry.
func WithRegistry(r *registry.Registry) Option {
	return func(c *Config) { c.Registry = r }
}

// WithCompiler sets the template compiler.
func WithCompiler(comp *markup.Compiler) Option {
	return func(c *Config) { c.Compiler = comp }
}

// WithDebug enables hook order validation.
func WithDebug(debug bool) Option {
	return func(c *Config) { c.Debug = debug }
}

// WithMaxPasses bounds consecutive passes per request.
func WithMaxPasses(n int) Option {
	return func(c *Config) { c.MaxPasses = n }
}

// WithObserver adds a pass observer.
func WithObserver(o Observer) Option {
	return func(c *Config) { c.Observers = append(c.Observers, o) }
}

func (c *Config) applyDefaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Registry == nil {
		c.Registry = registry.Default
	}
	if c.Compiler == nil {
		if c.Registry == registry.Default {
			c.Compiler = markup.Default
		} else {
			c.Compiler = markup.New(c.Registry)
		}
	}
	if c.MaxPasses <= 0 {
		c.MaxPasses = DefaultMaxPasses
	}
}
