package markup

import (
	"strings"

	verrors "github.com/vango-dev/vlite/internal/errors"
	"github.com/vango-dev/vlite/pkg/vdom"
)

// Split breaks a template with ${name} slots into chunks and slot names,
// ready for Compile. "$${" is a literal "${".
func Split(src string) (chunks, names []string, err error) {
	var cur strings.Builder
	for i := 0; i < len(src); {
		if strings.HasPrefix(src[i:], "$${") {
			cur.WriteString("${")
			i += 3
			continue
		}
		if !strings.HasPrefix(src[i:], "${") {
			cur.WriteByte(src[i])
			i++
			continue
		}
		end := strings.IndexByte(src[i:], '}')
		if end < 0 {
			return nil, nil, badSlot(src, i, "unterminated ${")
		}
		name := strings.TrimSpace(src[i+2 : i+end])
		if !validName(name) {
			return nil, nil, badSlot(src, i, "invalid slot name %q", name)
		}
		chunks = append(chunks, cur.String())
		names = append(names, name)
		cur.Reset()
		i += end + 1
	}
	chunks = append(chunks, cur.String())
	return chunks, names, nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '.' && i > 0:
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func badSlot(src string, offset int, format string, args ...any) error {
	line := 1 + strings.Count(src[:offset], "\n")
	col := offset - strings.LastIndexByte(src[:offset], '\n')
	return verrors.New(verrors.CodeBadPlaceholder).WithDetail(format, args...).WithSource("", src, line, col)
}

// CompileNamed compiles a ${name} template with the default compiler.
func CompileNamed(src string, vars map[string]any) (*vdom.VNode, error) {
	return Default.CompileNamed(src, vars)
}

// CompileNamed splits src and compiles it with vars[name] for each slot.
// Dotted names look up nested maps, e.g. ${user.name}. A slot with no
// variable is an error.
func (c *Compiler) CompileNamed(src string, vars map[string]any) (*vdom.VNode, error) {
	chunks, names, err := Split(src)
	if err != nil {
		return nil, err
	}
	values := make([]any, len(names))
	for i, name := range names {
		v, ok := lookup(vars, name)
		if !ok {
			return nil, verrors.New(verrors.CodeBadPlaceholder).
				WithDetail("no value for ${%s}", name)
		}
		values[i] = v
	}
	return c.Compile(chunks, values...)
}

func lookup(vars map[string]any, name string) (any, bool) {
	if v, ok := vars[name]; ok {
		return v, true
	}
	head, rest, found := strings.Cut(name, ".")
	if !found {
		return nil, false
	}
	inner, ok := vdom.AsMap(vars[head])
	if !ok {
		return nil, false
	}
	return lookup(inner, rest)
}
