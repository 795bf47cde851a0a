package dom

import (
	"io"
	"strings"
)

// voidElements have no closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// IsVoid reports whether tag is a void element.
func IsVoid(tag string) bool {
	return voidElements[strings.ToLower(tag)]
}

// OuterHTML serializes n and its descendants.
func OuterHTML(n Node) string {
	var b strings.Builder
	WriteHTML(&b, n)
	return b.String()
}

// InnerHTML serializes the children of n.
func InnerHTML(n Node) string {
	var b strings.Builder
	for _, c := range n.ChildNodes() {
		WriteHTML(&b, c)
	}
	return b.String()
}

// WriteHTML writes the HTML serialization of n to w. Attributes are written
// in the order the element reports them.
func WriteHTML(w io.StringWriter, n Node) {
	if IsText(n) {
		w.WriteString(escapeText(n.TextContent()))
		return
	}
	el, ok := AsElement(n)
	if !ok {
		return
	}
	tag := el.TagName()
	w.WriteString("<")
	w.WriteString(tag)
	for _, name := range el.AttributeNames() {
		value, _ := el.Attribute(name)
		w.WriteString(" ")
		w.WriteString(name)
		w.WriteString(`="`)
		w.WriteString(escapeAttr(value))
		w.WriteString(`"`)
	}
	w.WriteString(">")
	if voidElements[tag] {
		return
	}
	for _, c := range el.ChildNodes() {
		WriteHTML(w, c)
	}
	w.WriteString("</")
	w.WriteString(tag)
	w.WriteString(">")
}

// escapeText escapes text for safe inclusion in HTML content.
func escapeText(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// escapeAttr escapes text for a double-quoted attribute value.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\n':
			buf.WriteString("&#10;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
