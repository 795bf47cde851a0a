package store

import (
	"log/slog"
	"reflect"

	"github.com/vango-dev/vlite/pkg/hooks"
)

// UseStore returns selector applied to src's state and re-renders the
// component when the selected value changes. The subscription follows the
// identity of src and ends when the component is removed. A failed
// update is logged to slog.Default().
func UseStore[S, T any](src Source[S], selector func(S) T) T {
	slice, set := hooks.UseState(selector(src.GetState()))
	hooks.UseEffect(func() func() {
		update := func() {
			next := selector(src.GetState())
			if reflect.DeepEqual(set.Get(), next) {
				return
			}
			if err := set.Set(next); err != nil {
				slog.Default().Error("store update failed", "error", err)
			}
		}
		unsubscribe := src.Subscribe(update)
		// The state may have moved between render and subscribe.
		update()
		return unsubscribe
	}, []any{src})
	return slice
}
