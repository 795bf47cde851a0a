package runtime

import verrors "github.com/vango-dev/vlite/internal/errors"

// RequestRender runs render passes until the tree is clean. If a pass is
// already running, or a batch is open, it only marks the runtime dirty and
// returns nil; the running loop or the closing batch performs the pass.
func (r *Runtime) RequestRender() error {
	r.state.Lock()
	if r.root == nil {
		r.state.Unlock()
		return verrors.New(verrors.CodeNotMounted)
	}
	if r.rendering || r.batchDepth > 0 {
		r.dirty = true
		r.state.Unlock()
		return nil
	}
	r.rendering = true
	r.state.Unlock()
	return r.loop()
}

// loop runs passes while requests keep arriving, up to MaxPasses.
func (r *Runtime) loop() error {
	var err error
	for passes := 1; ; passes++ {
		r.state.Lock()
		r.dirty = false
		r.state.Unlock()

		if passes > r.cfg.MaxPasses {
			err = verrors.New(verrors.CodeRenderLoop).
				WithDetail("state kept changing after %d passes", r.cfg.MaxPasses).
				WithSuggestion("check for effects or renders that set state unconditionally")
			r.logger.Error("render loop aborted", "passes", r.cfg.MaxPasses)
			break
		}
		if err = r.pass(); err != nil {
			break
		}

		r.state.Lock()
		if !r.dirty {
			r.rendering = false
			r.state.Unlock()
			return nil
		}
		r.state.Unlock()
	}

	r.state.Lock()
	r.rendering = false
	r.dirty = false
	r.state.Unlock()
	return err
}

// Batch runs fn with passes deferred; if any render was requested inside
// fn, one pass loop runs when the outermost batch returns. Batches nest.
func (r *Runtime) Batch(fn func()) error {
	r.state.Lock()
	r.batchDepth++
	r.state.Unlock()

	run := false
	func() {
		defer func() {
			r.state.Lock()
			r.batchDepth--
			if r.batchDepth == 0 && r.dirty && !r.rendering && r.root != nil {
				r.rendering = true
				run = true
			}
			r.state.Unlock()
		}()
		fn()
	}()

	if !run {
		return nil
	}
	return r.loop()
}
