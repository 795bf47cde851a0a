package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vlite/pkg/markup"
	"github.com/vango-dev/vlite/pkg/runtime"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vlite").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vlite",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records render passes.
//
// Metrics collected (with the default namespace):
//   - vlite_passes_total: passes by reason and status
//   - vlite_pass_duration_seconds: pass duration by reason
//   - vlite_mutations_total: live-tree writes by operation
//   - vlite_components_rendered_total: component invocations
//   - vlite_instances_disposed_total: instances removed after a pass
//   - vlite_render_errors_total: failed passes by error code
type Metrics struct {
	config MetricsConfig
	// factory registers collectors added after construction.
	factory promauto.Factory

	passes     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	mutations  *prometheus.CounterVec
	components prometheus.Counter
	disposed   prometheus.Counter
	errors     *prometheus.CounterVec
}

var _ runtime.Observer = (*Metrics)(nil)

// NewMetrics creates and registers the pass metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		config:  config,
		factory: factory,

		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of render passes",
			ConstLabels: config.ConstLabels,
		}, []string{"reason", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"reason"}),

		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mutations_total",
			Help:        "Total live-tree writes by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		components: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "components_rendered_total",
			Help:        "Total component invocations",
			ConstLabels: config.ConstLabels,
		}),

		disposed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "instances_disposed_total",
			Help:        "Total component instances disposed after a pass",
			ConstLabels: config.ConstLabels,
		}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total failed render passes by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),
	}
}

// BeginPass implements runtime.Observer.
func (m *Metrics) BeginPass(ctx context.Context, _ uint64, _ string) context.Context {
	return ctx
}

// EndPass implements runtime.Observer.
func (m *Metrics) EndPass(_ context.Context, r runtime.PassReport) {
	status := "success"
	if r.Err != nil {
		status = "error"
		m.errors.WithLabelValues(errorCode(r.Err)).Inc()
	}
	m.passes.WithLabelValues(r.Reason, status).Inc()
	m.duration.WithLabelValues(r.Reason).Observe(r.Duration.Seconds())

	s := r.Stats
	for op, n := range map[string]int{
		"create":      s.Created,
		"remove":      s.Removed,
		"replace":     s.Replaced,
		"text":        s.TextUpdates,
		"attr_set":    s.AttrSets,
		"attr_remove": s.AttrRemovals,
		"prop":        s.PropSets,
		"style":       s.StyleSets,
		"listen":      s.Listeners,
	} {
		if n > 0 {
			m.mutations.WithLabelValues(op).Add(float64(n))
		}
	}
	m.components.Add(float64(s.Components))
	m.disposed.Add(float64(r.Disposed))
}

// WatchCompiler exports the template cache counters of c.
func (m *Metrics) WatchCompiler(c *markup.Compiler) {
	opts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   m.config.Namespace,
			Subsystem:   m.config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: m.config.ConstLabels,
		}
	}
	m.factory.NewCounterFunc(opts("template_cache_hits_total", "Template compilations served from the cache"),
		func() float64 { return float64(c.Stats().Hits) })
	m.factory.NewCounterFunc(opts("template_cache_misses_total", "Template compilations that parsed markup"),
		func() float64 { return float64(c.Stats().Misses) })
	m.factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   m.config.Namespace,
		Subsystem:   m.config.Subsystem,
		Name:        "template_cache_entries",
		Help:        "Parsed templates held in the cache",
		ConstLabels: m.config.ConstLabels,
	}, func() float64 { return float64(c.Stats().Entries) })
}
