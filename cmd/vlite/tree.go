package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/vlite/pkg/vdom"
)

// treeNode is the printable form of a VNode.
type treeNode struct {
	Kind     string            `json:"kind"`
	Tag      string            `json:"tag,omitempty"`
	Name     string            `json:"name,omitempty"`
	Text     string            `json:"text,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Children []*treeNode       `json:"children,omitempty"`
}

// describe converts a VNode tree. Function props print as "func".
func describe(v *vdom.VNode) *treeNode {
	if v == nil {
		v = vdom.Null()
	}
	n := &treeNode{Kind: v.Kind.String(), Tag: v.Tag, Name: v.Name, Text: v.Text}
	if len(v.Props) > 0 {
		n.Props = make(map[string]string, len(v.Props))
		for k, val := range v.Props {
			if vdom.IsFunc(val) {
				n.Props[k] = "func"
				continue
			}
			n.Props[k] = vdom.Stringify(val)
		}
	}
	for _, c := range v.ChildNodes() {
		n.Children = append(n.Children, describe(c))
	}
	return n
}

// writeTree prints n as an indented outline.
func writeTree(w io.Writer, n *treeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case "Text":
		fmt.Fprintf(w, "%s%q\n", indent, n.Text)
	case "Null":
		fmt.Fprintf(w, "%s(null)\n", indent)
	case "Element":
		fmt.Fprintf(w, "%s<%s%s>\n", indent, n.Tag, formatProps(n.Props))
	case "Component":
		fmt.Fprintf(w, "%s%s%s\n", indent, n.Name, formatProps(n.Props))
	default:
		fmt.Fprintf(w, "%s%s\n", indent, n.Kind)
	}
	for _, c := range n.Children {
		writeTree(w, c, depth+1)
	}
}

func formatProps(props map[string]string) string {
	if len(props) == 0 {
		return ""
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%q", k, props[k])
	}
	return b.String()
}
