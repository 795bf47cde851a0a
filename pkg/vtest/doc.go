// Package vtest provides testing helpers for vlite components.
//
// A Harness mounts a component into a fresh in-memory document and exposes
// the rendered tree, the mutation log and the pass reports, so component
// tests read like user interactions.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.Mount(t, Counter)
//	    h.Click("button")
//	    h.ExpectHTML("<button>1</button>")
//	}
//
// # Mutation Assertions
//
// ResetMutations clears the log so the next interaction can be checked in
// isolation:
//
//	h.ResetMutations()
//	h.Rerender()
//	h.ExpectNoMutations()
//
// # Static Assertions
//
// ExpectContains and friends render a VNode through a throwaway harness:
//
//	vtest.ExpectContains(t, Card(vdom.Props{"title": "x"}), "<h2>x</h2>")
package vtest
