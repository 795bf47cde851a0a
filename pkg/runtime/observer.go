package runtime

import (
	"context"
	"time"

	"github.com/vango-dev/vlite/pkg/reconcile"
)

// PassReport describes one completed render pass.
type PassReport struct {
	Seq      uint64          `json:"seq"`
	Root     string          `json:"root"`
	Reason   string          `json:"reason"`
	Started  time.Time       `json:"started"`
	Duration time.Duration   `json:"duration"`
	Stats    reconcile.Stats `json:"stats"`
	Disposed int             `json:"disposed"`
	Err      error           `json:"-"`
	Error    string          `json:"error,omitempty"`
}

// Observer is notified around every render pass. BeginPass may return a
// derived context, which is handed back to EndPass.
type Observer interface {
	BeginPass(ctx context.Context, seq uint64, root string) context.Context
	EndPass(ctx context.Context, report PassReport)
}

// ObserverFunc adapts a function to an Observer that only sees reports.
type ObserverFunc func(PassReport)

func (f ObserverFunc) BeginPass(ctx context.Context, _ uint64, _ string) context.Context {
	return ctx
}

func (f ObserverFunc) EndPass(_ context.Context, r PassReport) { f(r) }
