package hooks

import (
	"runtime"
	"sync"
)

// trackingContext holds the hook state of one goroutine.
type trackingContext struct {
	// currentOwner is the instance whose render is in progress on this
	// goroutine, or nil outside a render.
	currentOwner *Owner
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns the id of the current goroutine, parsed from the
// "goroutine <id> " prefix of its stack trace.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func getTrackingContext() *trackingContext {
	gid := getGoroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}
	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// CurrentOwner returns the instance rendering on this goroutine, or nil.
func CurrentOwner() *Owner {
	gid := getGoroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext).currentOwner
	}
	return nil
}

// setCurrentOwner sets the rendering instance and returns the previous one
// so it can be restored. Clearing the last owner drops the goroutine's
// context.
func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	if o == nil {
		trackingContexts.Delete(getGoroutineID())
	}
	return old
}
