// Package devtools serves an HTTP inspector for a running runtime: the live
// tree, recent render passes, component instances, Prometheus metrics and a
// WebSocket stream of pass reports.
//
//	insp := devtools.New(rt, devtools.WithSnapshots(store))
//	go insp.ListenAndServe(ctx, ":7070")
package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vlite/pkg/dom"
	"github.com/vango-dev/vlite/pkg/hooks"
	"github.com/vango-dev/vlite/pkg/runtime"
	"github.com/vango-dev/vlite/pkg/snapshot"
)

// DefaultHistory is the number of pass reports kept for /passes.
const DefaultHistory = 100

// Config configures an Inspector.
type Config struct {
	// Logger logs requests and stream failures.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// History is the number of pass reports kept. Default: 100.
	History int

	// Snapshots enables POST /snapshots/{key}.
	Snapshots snapshot.Store

	// Gatherer serves /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// Option configures an Inspector.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithHistory sets the number of pass reports kept.
func WithHistory(n int) Option {
	return func(c *Config) { c.History = n }
}

// WithSnapshots sets the snapshot store.
func WithSnapshots(s snapshot.Store) Option {
	return func(c *Config) { c.Snapshots = s }
}

// WithGatherer sets the metrics source.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *Config) { c.Gatherer = g }
}

// Inspector observes a runtime and serves what it sees.
type Inspector struct {
	rt     *runtime.Runtime
	config Config
	logger *slog.Logger
	router chi.Router

	mu      sync.RWMutex
	history []runtime.PassReport

	clientsMu sync.RWMutex
	clients   map[*client]bool
	upgrader  websocket.Upgrader
}

// client serializes writes to one connection.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

var _ runtime.Observer = (*Inspector)(nil)

// New creates an inspector and registers it as an observer of rt.
func New(rt *runtime.Runtime, opts ...Option) *Inspector {
	config := Config{History: DefaultHistory, Gatherer: prometheus.DefaultGatherer}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.History <= 0 {
		config.History = DefaultHistory
	}
	i := &Inspector{
		rt:      rt,
		config:  config,
		logger:  config.Logger.With("component", "devtools"),
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local tool
			},
		},
	}
	i.router = i.routes()
	rt.Observe(i)
	return i
}

func (i *Inspector) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(i.logRequests)

	r.Get("/tree", i.handleTree)
	r.Get("/passes", i.handlePasses)
	r.Get("/components", i.handleComponents)
	r.Get("/ws", i.handleWebSocket)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(i.config.Gatherer, promhttp.HandlerOpts{}))
	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", i.handleSnapshotList)
		r.Get("/{key}", i.handleSnapshotGet)
		r.Post("/{key}", i.handleSnapshotTake)
	})
	return r
}

// Handler returns the inspector's HTTP handler.
func (i *Inspector) Handler() http.Handler { return i.router }

// ListenAndServe serves on addr until ctx is cancelled.
func (i *Inspector) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           i.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	i.logger.Info("devtools listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	i.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// BeginPass implements runtime.Observer.
func (i *Inspector) BeginPass(ctx context.Context, _ uint64, _ string) context.Context {
	return ctx
}

// EndPass records r and streams it to connected clients.
func (i *Inspector) EndPass(_ context.Context, r runtime.PassReport) {
	i.mu.Lock()
	i.history = append(i.history, r)
	if over := len(i.history) - i.config.History; over > 0 {
		i.history = append(i.history[:0:0], i.history[over:]...)
	}
	i.mu.Unlock()
	i.broadcast(r)
}

// Passes returns the recorded pass reports, oldest first.
func (i *Inspector) Passes() []runtime.PassReport {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]runtime.PassReport(nil), i.history...)
}

// ClientCount returns the number of connected stream clients.
func (i *Inspector) ClientCount() int {
	i.clientsMu.RLock()
	defer i.clientsMu.RUnlock()
	return len(i.clients)
}

// Close disconnects all stream clients.
func (i *Inspector) Close() {
	i.clientsMu.Lock()
	defer i.clientsMu.Unlock()
	for c := range i.clients {
		c.conn.Close()
		delete(i.clients, c)
	}
}

func (i *Inspector) handleTree(w http.ResponseWriter, _ *http.Request) {
	var html string
	var mounted bool
	i.rt.Inspect(func(container dom.Element, _ *hooks.Host) {
		if container != nil {
			mounted = true
			html = dom.InnerHTML(container)
		}
	})
	if !mounted {
		http.Error(w, "nothing mounted", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (i *Inspector) handlePasses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, i.Passes())
}

func (i *Inspector) handleComponents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, i.rt.Owners())
}

func (i *Inspector) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}

	i.clientsMu.Lock()
	i.clients[c] = true
	i.clientsMu.Unlock()

	// Keep the connection until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	i.clientsMu.Lock()
	delete(i.clients, c)
	i.clientsMu.Unlock()
	conn.Close()
}

func (i *Inspector) broadcast(r runtime.PassReport) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}

	i.clientsMu.RLock()
	clients := make([]*client, 0, len(i.clients))
	for c := range i.clients {
		clients = append(clients, c)
	}
	i.clientsMu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			i.logger.Debug("dropping stream client", "error", err)
			i.clientsMu.Lock()
			delete(i.clients, c)
			i.clientsMu.Unlock()
			c.conn.Close()
		}
	}
}

func (i *Inspector) handleSnapshotTake(w http.ResponseWriter, r *http.Request) {
	if i.config.Snapshots == nil {
		http.Error(w, "no snapshot store configured", http.StatusNotImplemented)
		return
	}
	s, err := snapshot.Take(r.Context(), i.config.Snapshots, i.rt, chi.URLParam(r, "key"))
	if err != nil {
		snapshotError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (i *Inspector) handleSnapshotGet(w http.ResponseWriter, r *http.Request) {
	if i.config.Snapshots == nil {
		http.Error(w, "no snapshot store configured", http.StatusNotImplemented)
		return
	}
	s, err := i.config.Snapshots.Load(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		snapshotError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(s.HTML))
}

func (i *Inspector) handleSnapshotList(w http.ResponseWriter, r *http.Request) {
	if i.config.Snapshots == nil {
		http.Error(w, "no snapshot store configured", http.StatusNotImplemented)
		return
	}
	keys, err := i.config.Snapshots.List(r.Context())
	if err != nil {
		snapshotError(w, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, keys)
}

func snapshotError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, snapshot.ErrInvalidKey):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, snapshot.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// logRequests logs each request with its status and duration.
func (i *Inspector) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		i.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}
