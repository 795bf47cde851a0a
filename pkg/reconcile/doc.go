// Package reconcile brings a live dom tree in line with a VNode tree.
//
// Reconciliation is positional: the i-th child VNode is compared with the
// i-th live child and nothing else. There are no keys and no moves. Text is
// updated in place, elements with the same tag are patched, and anything
// else is replaced by a freshly created subtree. Writes whose value already
// matches the live tree are skipped, so reconciling an unchanged tree
// performs no mutations at all.
//
// Components are invoked through a ComponentHost, which gives each instance
// its hook state. Instance keys follow the component's position, counted
// only among siblings of the same component name (elements are counted
// among siblings with the same tag), so a sibling appearing or
// disappearing does not move an unrelated component:
//
//	root:App                      the root component
//	root:App/section#0/1:Counter  the second Counter in App's first section
package reconcile
