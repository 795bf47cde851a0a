// Package hooks stores per-component-instance hook state.
//
// Each rendered component instance gets an Owner identified by its position
// in the tree (its instance key). An Owner holds an ordered list of hook
// slots; the n-th hook call during a render reads the n-th slot, so hooks
// must be called in the same order on every render of an instance. With
// debug validation enabled the order is checked and a violation panics with
// a hook error.
//
// Instances that a render pass does not visit are disposed when the pass
// ends, running their effect cleanups and discarding their state.
//
// Hooks are only valid while a component renders:
//
//	func Counter(p vdom.Props) *vdom.VNode {
//		count, setCount := hooks.UseState(0)
//		hooks.UseEffect(func() func() {
//			log.Println("count is", count)
//			return nil
//		}, []any{count})
//		return vdom.Jsx("button", vdom.Props{
//			"onClick": func() { setCount.Update(func(n int) int { return n + 1 }) },
//		}, count)
//	}
package hooks
