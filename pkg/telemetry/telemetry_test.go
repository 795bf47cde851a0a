package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	verrors "github.com/vango-dev/vlite/internal/errors"
	"github.com/vango-dev/vlite/pkg/dom/memdom"
	"github.com/vango-dev/vlite/pkg/markup"
	"github.com/vango-dev/vlite/pkg/reconcile"
	"github.com/vango-dev/vlite/pkg/registry"
	"github.com/vango-dev/vlite/pkg/runtime"
	"github.com/vango-dev/vlite/pkg/vdom"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func gatheredValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		m := f.GetMetric()[0]
		if c := m.GetCounter(); c != nil {
			return c.GetValue()
		}
		return m.GetGauge().GetValue()
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func TestMetricsRecordPasses(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	m.EndPass(context.Background(), runtime.PassReport{
		Reason:   runtime.ReasonMount,
		Stats:    reconcile.Stats{Created: 1, Components: 2},
		Disposed: 0,
	})
	m.EndPass(context.Background(), runtime.PassReport{
		Reason:   runtime.ReasonUpdate,
		Stats:    reconcile.Stats{TextUpdates: 3, AttrSets: 1},
		Disposed: 1,
	})
	m.EndPass(context.Background(), runtime.PassReport{
		Reason: runtime.ReasonUpdate,
		Err:    verrors.New(verrors.CodeRenderPanic),
	})

	if got := counterValue(t, m.passes.WithLabelValues("mount", "success")); got != 1 {
		t.Errorf("passes(mount, success) = %v, want 1", got)
	}
	if got := counterValue(t, m.passes.WithLabelValues("update", "error")); got != 1 {
		t.Errorf("passes(update, error) = %v, want 1", got)
	}
	if got := counterValue(t, m.errors.WithLabelValues("E131")); got != 1 {
		t.Errorf("render_errors(E131) = %v, want 1", got)
	}
	if got := counterValue(t, m.mutations.WithLabelValues("text")); got != 3 {
		t.Errorf("mutations(text) = %v, want 3", got)
	}
	if got := counterValue(t, m.components); got != 2 {
		t.Errorf("components = %v, want 2", got)
	}
	if got := counterValue(t, m.disposed); got != 1 {
		t.Errorf("disposed = %v, want 1", got)
	}
	if got := histogramCount(t, m.duration.WithLabelValues("update")); got != 2 {
		t.Errorf("duration(update) samples = %d, want 2", got)
	}
}

func TestErrorCode(t *testing.T) {
	if got := errorCode(verrors.New(verrors.CodeRenderLoop)); got != "E130" {
		t.Errorf("errorCode = %q, want E130", got)
	}
	if got := errorCode(errors.New("x")); got != "unknown" {
		t.Errorf("errorCode = %q, want unknown", got)
	}
}

func TestWatchCompiler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))
	c := markup.New(registry.New())
	m.WatchCompiler(c)

	chunks := []string{"<p>", "</p>"}
	for i := 0; i < 3; i++ {
		if _, err := c.Compile(chunks, i); err != nil {
			t.Fatal(err)
		}
	}
	if got := gatheredValue(t, reg, "vlite_template_cache_hits_total"); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := gatheredValue(t, reg, "vlite_template_cache_misses_total"); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := gatheredValue(t, reg, "vlite_template_cache_entries"); got != 1 {
		t.Errorf("entries = %v, want 1", got)
	}
}

// recordingSpan captures what the tracer writes to a span.
type recordingSpan struct {
	noop.Span
	name   string
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	errs   []error
	ended  bool
}

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) {
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}
func (s *recordingSpan) SetStatus(code codes.Code, _ string)          { s.status = code }
func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) { s.errs = append(s.errs, err) }
func (s *recordingSpan) End(...trace.SpanEndOption)                    { s.ended = true }
func (s *recordingSpan) IsRecording() bool                             { return !s.ended }

type recordingTracer struct {
	noop.Tracer
	spans []*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	s := &recordingSpan{name: name, attrs: make(map[attribute.Key]attribute.Value)}
	cfg := trace.NewSpanStartConfig(opts...)
	s.SetAttributes(cfg.Attributes()...)
	t.spans = append(t.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
}

func (p recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer { return p.tracer }

func TestTracerSpansPerPass(t *testing.T) {
	rec := &recordingTracer{}
	tr := NewTracer(
		WithTracerProvider(recordingProvider{tracer: rec}),
		WithAttributes(attribute.String("app", "demo")),
	)

	doc := memdom.New()
	app := doc.CreateElement("div")
	doc.Body().AppendChild(app)
	rt := runtime.New(runtime.WithDocument(doc), runtime.WithObserver(tr))

	if err := rt.Render(func(vdom.Props) *vdom.VNode { return vdom.Jsx("p", nil, "x") }, app); err != nil {
		t.Fatal(err)
	}
	if err := rt.Render(func(vdom.Props) *vdom.VNode { panic("boom") }, app); err == nil {
		t.Fatal("expected render error")
	}

	if len(rec.spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(rec.spans))
	}
	ok, failed := rec.spans[0], rec.spans[1]
	if ok.name != "vlite.pass" || !ok.ended || ok.status != codes.Ok {
		t.Errorf("first span = %+v", ok)
	}
	if ok.attrs["app"].AsString() != "demo" {
		t.Error("configured attributes missing")
	}
	if ok.attrs["vlite.pass.reason"].AsString() != runtime.ReasonMount {
		t.Errorf("reason = %v", ok.attrs["vlite.pass.reason"])
	}
	if ok.attrs["vlite.pass.mutations"].AsInt64() != 2 {
		t.Errorf("mutations = %v, want 2", ok.attrs["vlite.pass.mutations"])
	}
	if failed.status != codes.Error || len(failed.errs) != 1 || !failed.ended {
		t.Errorf("failed span = %+v", failed)
	}
	if failed.attrs["vlite.error.code"].AsString() != "E131" {
		t.Errorf("error code = %v", failed.attrs["vlite.error.code"])
	}
}
