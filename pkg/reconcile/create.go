package reconcile

import (
	"fmt"

	"github.com/vango-dev/vlite/pkg/dom"
	"github.com/vango-dev/vlite/pkg/vdom"
)

// Create builds fresh live nodes for v. Every kind yields exactly one node
// except fragments, which yield one per item (possibly none).
func (r *Reconciler) Create(v *vdom.VNode, key string) ([]dom.Node, error) {
	if v == nil {
		v = vdom.Null()
	}
	switch v.Kind {
	case vdom.KindNull, vdom.KindText:
		r.stats.Created++
		return []dom.Node{r.doc.CreateTextNode(v.Text)}, nil

	case vdom.KindFragment:
		var out []dom.Node
		kids := v.ChildNodes()
		keys := childKeys(key, kids)
		for i, c := range kids {
			nodes, err := r.Create(c, keys[i])
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		}
		return out, nil

	case vdom.KindComponent:
		instance := instanceKey(key, v)
		out := r.renderComponent(instance, v)
		nodes, err := r.Create(out, instance)
		if err != nil {
			return nil, err
		}
		if len(nodes) == 0 {
			// An empty fragment still needs a position in its parent.
			r.stats.Created++
			nodes = []dom.Node{r.doc.CreateTextNode("")}
		}
		return nodes, nil

	case vdom.KindElement:
		el := r.doc.CreateElement(v.Tag)
		r.stats.Created++
		r.props.Apply(el, v.Props)
		kids := v.ChildNodes()
		keys := childKeys(key, kids)
		for i, c := range kids {
			nodes, err := r.Create(c, keys[i])
			if err != nil {
				return nil, err
			}
			for _, n := range nodes {
				el.AppendChild(n)
			}
		}
		return []dom.Node{el}, nil

	default:
		return nil, fmt.Errorf("reconcile: unknown node kind %v", v.Kind)
	}
}
