package markup

import (
	"regexp"
	"strconv"
	"strings"
)

// slotKind is where an interpolated value sits in the template.
type slotKind uint8

const (
	slotChild slotKind = iota
	slotAttr
	slotQuotedAttr
	slotSpread
)

func (k slotKind) String() string {
	switch k {
	case slotAttr:
		return "attribute"
	case slotQuotedAttr:
		return "quoted attribute"
	case slotSpread:
		return "spread"
	default:
		return "child"
	}
}

var (
	fragmentOpen  = regexp.MustCompile(`<>\s*`)
	fragmentClose = regexp.MustCompile(`\s*</>\s*`)

	attrTail       = regexp.MustCompile(`(?:^|[\s"'])[\w:.@-]+\s*=$`)
	quotedAttrTail = regexp.MustCompile(`(?:^|[\s"'])[\w:.@-]+\s*=\s*["']$`)
	spreadTail     = regexp.MustCompile(`\s\.\.\.$`)

	attrPlaceholder    = regexp.MustCompile(`^__EXPR_(\d+)__$`)
	commentPlaceholder = regexp.MustCompile(`^EXPR_(\d+)$`)
	strayPlaceholder   = regexp.MustCompile(`<!--EXPR_(\d+)-->|__EXPR_(\d+)__`)
)

const (
	fragmentTag  = "fragment"
	spreadPrefix = "..."
)

// compose joins chunks into one markup source with a placeholder for each
// value slot and reports how each slot was classified.
func compose(chunks []string) (string, []slotKind) {
	var b strings.Builder
	kinds := make([]slotKind, 0, len(chunks)-1)
	for i, chunk := range chunks {
		chunk = fragmentOpen.ReplaceAllString(chunk, "<"+fragmentTag+">")
		chunk = fragmentClose.ReplaceAllString(chunk, "</"+fragmentTag+">")
		b.WriteString(chunk)
		if i == len(chunks)-1 {
			break
		}
		kind := classify(b.String())
		kinds = append(kinds, kind)
		idx := strconv.Itoa(i)
		switch kind {
		case slotAttr:
			b.WriteString(`"__EXPR_` + idx + `__"`)
		case slotQuotedAttr:
			b.WriteString(`__EXPR_` + idx + `__`)
		case slotSpread:
			b.WriteString(idx)
		default:
			b.WriteString("<!--EXPR_" + idx + "-->")
		}
	}
	return b.String(), kinds
}

// classify decides the slot kind from the markup composed so far. Only a
// slot inside an unclosed start tag can be an attribute or a spread, so
// text like "x = " between tags stays a child.
func classify(prev string) slotKind {
	if !insideTag(prev) {
		return slotChild
	}
	if quotedAttrTail.MatchString(prev) {
		return slotQuotedAttr
	}
	trimmed := strings.TrimRight(prev, " \t\r\n")
	switch {
	case attrTail.MatchString(trimmed):
		return slotAttr
	case spreadTail.MatchString(prev):
		return slotSpread
	}
	return slotChild
}

// insideTag reports whether the end of s is within an unclosed start tag.
func insideTag(s string) bool {
	lt := strings.LastIndexByte(s, '<')
	return lt >= 0 && lt > strings.LastIndexByte(s, '>')
}

// placeholderIndex extracts the value index from a placeholder, e.g. 3 from
// "__EXPR_3__" with attrPlaceholder.
func placeholderIndex(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	i, err := strconv.Atoi(m[1])
	return i, err == nil
}
