// Package runtime binds a root component to a container and re-renders it
// when state changes.
//
// A Runtime owns one mounted tree. Render binds the root and runs the first
// pass; every state setter then requests a pass, which re-invokes the root
// and reconciles the whole tree against the container. Requests are
// single-flight: a request made while a pass runs (from a render, an effect
// or another goroutine) marks the runtime dirty and the running pass loop
// performs one more pass instead of nesting. Batch defers passes until the
// batch function returns.
//
// Panics raised while rendering are recovered and returned as errors from
// the call that requested the pass.
package runtime
