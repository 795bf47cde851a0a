// Package vdom provides the virtual node model for vlite.
//
// A VNode is an immutable description of one position in the UI tree. It is
// one of five kinds:
//
//	KindNull      nil/false placeholder, rendered as an empty text node
//	KindText      string or number content
//	KindElement   native element with a lowercase tag
//	KindComponent component function invoked at render time
//	KindFragment  anonymous sibling group, never a live node
//
// # Construction
//
// Jsx is the single constructor used by hand-written render functions and by
// the markup compiler:
//
//	Jsx("ul", Props{"class": "list"},
//	    Jsx("li", nil, "one"),
//	    Jsx("li", nil, 2),
//	)
//
// Children are collapsed into one flat sequence: slices and fragments are
// spliced in place, nil and booleans become Null nodes, strings and numbers
// become Text nodes.
//
// # Identity
//
// Order within Children is the only identity signal the reconciler uses.
// There are no keys.
package vdom
