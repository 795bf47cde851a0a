package markup

import (
	"strings"
	"unicode"
	"unicode/utf8"

	verrors "github.com/vango-dev/vlite/internal/errors"
	"github.com/vango-dev/vlite/pkg/vdom"
)

// lowerer turns a parsed skeleton plus values into VNodes.
type lowerer struct {
	c      *Compiler
	sk     *skeleton
	values []any
}

// element lowers an element node into a Fragment, Component or Element
// VNode.
func (l *lowerer) element(n *node) (*vdom.VNode, error) {
	children, err := l.children(n)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(n.tag, fragmentTag) {
		return vdom.Fragment(children...), nil
	}

	props, err := l.props(n)
	if err != nil {
		return nil, err
	}
	if isComponentTag(n.tag) {
		fn, ok := l.c.registry.Lookup(n.tag)
		if !ok {
			return nil, l.errorAt(n, verrors.CodeUnknownComponent, "<%s>", n.tag).
				WithSuggestion("register it with RegisterComponent(\"" + n.tag + "\", fn) before compiling")
		}
		return vdom.Component(n.tag, fn, props, children...), nil
	}
	return vdom.Jsx(n.tag, props, children...), nil
}

// children lowers the child nodes in document order. Sequences are spliced
// one level; nil, false and empty strings are omitted.
func (l *lowerer) children(n *node) ([]any, error) {
	out := make([]any, 0, len(n.children))
	for _, c := range n.children {
		v, err := l.node(c)
		if err != nil {
			return nil, err
		}
		if items, ok := v.([]any); ok {
			for _, item := range items {
				out = appendValue(out, item)
			}
			continue
		}
		out = appendValue(out, v)
	}
	return out, nil
}

func appendValue(out []any, v any) []any {
	switch x := v.(type) {
	case nil:
		return out
	case string:
		if x == "" {
			return out
		}
	case bool:
		if !x {
			return out
		}
	}
	return append(out, v)
}

func (l *lowerer) node(n *node) (any, error) {
	switch n.typ {
	case textNode:
		if err := l.stray(n, n.data, "text"); err != nil {
			return nil, err
		}
		return n.data, nil
	case commentNode:
		i, ok := placeholderIndex(commentPlaceholder, n.data)
		if !ok {
			return nil, nil
		}
		v, err := l.value(n, i)
		if err != nil {
			return nil, err
		}
		return vdom.Normalize(v), nil
	default:
		return l.element(n)
	}
}

// props builds the prop map in attribute order; later attributes and
// spreads overwrite earlier ones.
func (l *lowerer) props(n *node) (vdom.Props, error) {
	props := make(vdom.Props, len(n.attrs))
	for _, a := range n.attrs {
		if strings.HasPrefix(a.name, spreadPrefix) {
			if err := l.spread(n, a, props); err != nil {
				return nil, err
			}
			continue
		}
		i, ok := placeholderIndex(attrPlaceholder, a.value)
		if !ok {
			if err := l.stray(n, a.value, "attribute "+a.name); err != nil {
				return nil, err
			}
			props[a.name] = a.value
			continue
		}
		v, err := l.value(n, i)
		if err != nil {
			return nil, err
		}
		if v = vdom.Normalize(v); v != nil {
			props[a.name] = v
		}
	}
	return props, nil
}

func (l *lowerer) spread(n *node, a attr, props vdom.Props) error {
	i, ok := placeholderIndex(commentPlaceholder, "EXPR_"+strings.TrimPrefix(a.name, spreadPrefix))
	if !ok {
		return l.errorAt(n, verrors.CodeBadPlaceholder, "spread attribute %q", a.name)
	}
	v, err := l.value(n, i)
	if err != nil {
		return err
	}
	v = vdom.Normalize(v)
	if v == nil {
		return nil
	}
	m, ok := vdom.AsMap(v)
	if !ok {
		return l.errorAt(n, verrors.CodeSpreadNotMap, "value %d is %T", i, v).
			WithSuggestion("spread a map[string]any or vdom.Props")
	}
	for k, val := range m {
		props[k] = val
	}
	return nil
}

func (l *lowerer) value(n *node, i int) (any, error) {
	if i < 0 || i >= len(l.values) {
		return nil, l.errorAt(n, verrors.CodeBadPlaceholder, "placeholder %d has no value (%d values)", i, len(l.values))
	}
	return l.values[i], nil
}

// stray rejects a placeholder that was composed into literal text, such as
// a value in the middle of a quoted attribute or inside <script>.
func (l *lowerer) stray(n *node, s, where string) error {
	if !strings.Contains(s, "EXPR_") {
		return nil
	}
	m := strayPlaceholder.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	idx := m[1]
	if idx == "" {
		idx = m[2]
	}
	return l.errorAt(n, verrors.CodeBadPlaceholder, "value %s in %s cannot be interpolated", idx, where).
		WithSuggestion("pass the whole attribute value as one expression, e.g. title=${fmt.Sprint(\"a \", x)}")
}

func (l *lowerer) errorAt(n *node, code string, format string, args ...any) *verrors.Error {
	return verrors.New(code).WithDetail(format, args...).WithSource("", l.sk.src, n.line, n.col)
}

// isComponentTag reports whether tag starts with an uppercase letter.
func isComponentTag(tag string) bool {
	r, _ := utf8.DecodeRuneInString(tag)
	return unicode.IsUpper(r)
}
