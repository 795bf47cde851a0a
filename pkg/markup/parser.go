package markup

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"

	verrors "github.com/vango-dev/vlite/internal/errors"
	"github.com/vango-dev/vlite/pkg/dom"
)

type nodeType uint8

const (
	elementNode nodeType = iota
	textNode
	commentNode
)

// node is the parsed, value-free form of a template. Trees are shared
// between compilations through the cache and never modified after parsing.
type node struct {
	typ      nodeType
	tag      string // case preserved
	data     string // text or comment data
	attrs    []attr // case-preserved names, in source order
	children []*node
	line     int
	col      int
}

type attr struct {
	name  string
	value string
}

// skeleton is a parsed template.
type skeleton struct {
	src   string
	root  *node
	kinds []slotKind
}

// parser builds a node tree from the html tokenizer's token stream, keeping
// the source structure as written instead of applying the HTML5 tree
// construction rules. A stack of open elements tracks nesting.
type parser struct {
	src   string
	z     *html.Tokenizer
	lines []int // offsets of line starts
	pos   int   // offset of the current token

	doc *node
	oe  []*node
}

// rawTextTags are elements whose content the tokenizer would otherwise treat
// as raw text, hiding child placeholders.
var rawTextTags = map[string]bool{
	"textarea": true,
	"title":    true,
}

func parse(src string) (*node, error) {
	p := &parser{
		src: src,
		z:   html.NewTokenizer(strings.NewReader(src)),
		doc: &node{typ: elementNode},
	}
	p.lines = append(p.lines, 0)
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			p.lines = append(p.lines, i+1)
		}
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

func (p *parser) top() *node {
	if n := len(p.oe); n > 0 {
		return p.oe[n-1]
	}
	return p.doc
}

func (p *parser) run() error {
	for {
		tt := p.z.Next()
		raw := p.z.Raw()
		start := p.pos
		p.pos += len(raw)

		switch tt {
		case html.ErrorToken:
			err := p.z.Err()
			if errors.Is(err, io.EOF) {
				return p.finish()
			}
			return p.errorAt(start, verrors.CodeMalformedMarkup, "tokenizer: %v", err)

		case html.TextToken:
			p.add(&node{typ: textNode, data: string(p.z.Text())}, start)

		case html.CommentToken:
			p.add(&node{typ: commentNode, data: string(p.z.Text())}, start)

		case html.StartTagToken, html.SelfClosingTagToken:
			name, attrNames := rawTagNames(raw)
			n := &node{typ: elementNode, tag: name}
			for i := 0; ; i++ {
				key, val, more := p.z.TagAttr()
				if key == nil && !more {
					break
				}
				k := string(key)
				if i < len(attrNames) && strings.EqualFold(attrNames[i], k) {
					k = attrNames[i]
				}
				n.attrs = append(n.attrs, attr{name: k, value: string(val)})
				if !more {
					break
				}
			}
			p.add(n, start)
			lower := strings.ToLower(name)
			if tt == html.SelfClosingTagToken || dom.IsVoid(lower) {
				continue
			}
			p.oe = append(p.oe, n)
			if rawTextTags[lower] {
				p.z.NextIsNotRawText()
			}

		case html.EndTagToken:
			name, _ := rawTagNames(raw)
			if dom.IsVoid(name) {
				continue
			}
			open := p.top()
			if len(p.oe) == 0 {
				return p.errorAt(start, verrors.CodeMalformedMarkup, "unexpected </%s>", name).
					WithSuggestion("remove the closing tag or add a matching opening tag")
			}
			if !strings.EqualFold(open.tag, name) {
				return p.errorAt(start, verrors.CodeMalformedMarkup, "</%s> closes <%s>", name, open.tag).
					WithSuggestion(fmt.Sprintf("close <%s> before </%s>", open.tag, name))
			}
			p.oe = p.oe[:len(p.oe)-1]

		case html.DoctypeToken:
			// Ignored.
		}
	}
}

func (p *parser) finish() error {
	if len(p.oe) == 0 {
		return nil
	}
	open := p.oe[len(p.oe)-1]
	return verrors.New(verrors.CodeMalformedMarkup).
		WithDetail("<%s> is never closed", open.tag).
		WithSource("", p.src, open.line, open.col).
		WithSuggestion(fmt.Sprintf("add </%s>", open.tag))
}

func (p *parser) add(n *node, offset int) {
	n.line, n.col = p.position(offset)
	parent := p.top()
	parent.children = append(parent.children, n)
}

// position converts a byte offset into a 1-based line and column.
func (p *parser) position(offset int) (line, col int) {
	i := sort.Search(len(p.lines), func(i int) bool { return p.lines[i] > offset }) - 1
	return i + 1, offset - p.lines[i] + 1
}

func (p *parser) errorAt(offset int, code string, format string, args ...any) *verrors.Error {
	line, col := p.position(offset)
	return verrors.New(code).WithDetail(format, args...).WithSource("", p.src, line, col)
}

// rawTagNames recovers the tag name and attribute names with their original
// case from the raw bytes of a tag token. The tokenizer itself reports them
// lowercased.
func rawTagNames(raw []byte) (string, []string) {
	s := string(raw)
	i := 1
	if i < len(s) && s[i] == '/' {
		i++
	}
	start := i
	for i < len(s) && !isTagSpace(s[i]) && s[i] != '/' && s[i] != '>' {
		i++
	}
	name := s[start:i]

	var attrs []string
	for i < len(s) {
		for i < len(s) && (isTagSpace(s[i]) || s[i] == '/') {
			i++
		}
		if i >= len(s) || s[i] == '>' {
			break
		}
		start := i
		i++ // a leading '=' belongs to the name
		for i < len(s) && !isTagSpace(s[i]) && s[i] != '/' && s[i] != '>' && s[i] != '=' {
			i++
		}
		attrs = append(attrs, s[start:i])
		for i < len(s) && isTagSpace(s[i]) {
			i++
		}
		if i >= len(s) || s[i] != '=' {
			continue
		}
		i++
		for i < len(s) && isTagSpace(s[i]) {
			i++
		}
		if i < len(s) && (s[i] == '"' || s[i] == '\'') {
			quote := s[i]
			i++
			for i < len(s) && s[i] != quote {
				i++
			}
			i++
			continue
		}
		for i < len(s) && !isTagSpace(s[i]) && s[i] != '>' {
			i++
		}
	}
	return name, attrs
}

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r' || c == '\f'
}
