package devtools

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/vlite/pkg/dom/memdom"
	"github.com/vango-dev/vlite/pkg/hooks"
	"github.com/vango-dev/vlite/pkg/runtime"
	"github.com/vango-dev/vlite/pkg/snapshot"
	"github.com/vango-dev/vlite/pkg/telemetry"
	"github.com/vango-dev/vlite/pkg/vdom"
)

type harness struct {
	rt   *runtime.Runtime
	insp *Inspector
	srv  *httptest.Server
	set  hooks.Setter[int]
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	doc := memdom.New()
	app := doc.CreateElement("div")
	doc.Body().AppendChild(app)

	h := &harness{}
	reg := prometheus.NewRegistry()
	h.rt = runtime.New(
		runtime.WithDocument(doc),
		runtime.WithObserver(telemetry.NewMetrics(telemetry.WithRegistry(reg))),
	)
	h.insp = New(h.rt, append([]Option{WithGatherer(reg)}, opts...)...)
	h.srv = httptest.NewServer(h.insp.Handler())
	t.Cleanup(func() {
		h.insp.Close()
		h.srv.Close()
	})

	root := func(vdom.Props) *vdom.VNode {
		n, set := hooks.UseState(0)
		h.set = set
		return vdom.Jsx("p", vdom.Props{"class": "n"}, n)
	}
	if err := h.rt.Render(root, app); err != nil {
		t.Fatal(err)
	}
	return h
}

func (h *harness) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(h.srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestTreeAndPasses(t *testing.T) {
	h := newHarness(t)
	if err := h.set.Set(4); err != nil {
		t.Fatal(err)
	}

	status, body := h.get(t, "/tree")
	if status != http.StatusOK || body != `<p class="n">4</p>` {
		t.Errorf("/tree = %d %q", status, body)
	}

	status, body = h.get(t, "/passes")
	if status != http.StatusOK {
		t.Fatalf("/passes status = %d", status)
	}
	var passes []runtime.PassReport
	if err := json.Unmarshal([]byte(body), &passes); err != nil {
		t.Fatal(err)
	}
	if len(passes) != 2 || passes[1].Reason != runtime.ReasonUpdate || passes[1].Stats.TextUpdates != 1 {
		t.Errorf("passes = %+v", passes)
	}

	status, body = h.get(t, "/components")
	if status != http.StatusOK || !strings.Contains(body, `"slots":1`) {
		t.Errorf("/components = %d %s", status, body)
	}
}

func TestHistoryBounded(t *testing.T) {
	h := newHarness(t, WithHistory(3))
	for i := 1; i <= 5; i++ {
		h.set.Set(i)
	}
	passes := h.insp.Passes()
	if len(passes) != 3 {
		t.Fatalf("len = %d, want 3", len(passes))
	}
	if passes[2].Seq != 6 {
		t.Errorf("last seq = %d, want 6", passes[2].Seq)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t)
	status, body := h.get(t, "/metrics")
	if status != http.StatusOK {
		t.Fatalf("/metrics status = %d", status)
	}
	if !strings.Contains(body, `vlite_passes_total{reason="mount",status="success"} 1`) {
		t.Errorf("metrics output missing pass counter:\n%s", body)
	}
}

func TestWebSocketStream(t *testing.T) {
	h := newHarness(t)

	url := "ws" + strings.TrimPrefix(h.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for h.insp.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := h.set.Set(9); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var report runtime.PassReport
	if err := conn.ReadJSON(&report); err != nil {
		t.Fatal(err)
	}
	if report.Seq != 2 || report.Reason != runtime.ReasonUpdate {
		t.Errorf("report = %+v", report)
	}
}

func TestSnapshots(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		h := newHarness(t)
		resp, err := http.Post(h.srv.URL+"/snapshots/home", "", nil)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotImplemented {
			t.Errorf("status = %d, want 501", resp.StatusCode)
		}
	})

	t.Run("file store", func(t *testing.T) {
		store, err := snapshot.NewFileStore(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		h := newHarness(t, WithSnapshots(store))

		resp, err := http.Post(h.srv.URL+"/snapshots/home", "", nil)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("POST status = %d, want 201", resp.StatusCode)
		}

		status, body := h.get(t, "/snapshots/home")
		if status != http.StatusOK || body != `<p class="n">0</p>` {
			t.Errorf("GET snapshot = %d %q", status, body)
		}
		status, body = h.get(t, "/snapshots/")
		if status != http.StatusOK || strings.TrimSpace(body) != `["home"]` {
			t.Errorf("list = %d %q", status, body)
		}
		if status, _ := h.get(t, "/snapshots/nope"); status != http.StatusNotFound {
			t.Errorf("missing snapshot status = %d, want 404", status)
		}

		resp, err = http.Post(h.srv.URL+"/snapshots/a..b", "", nil)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("bad key status = %d, want 400", resp.StatusCode)
		}
	})
}
