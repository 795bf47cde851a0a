package errors

import (
	"fmt"
	"io"
	"strings"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// colorEnabled controls whether ANSI colors are used.
var colorEnabled = true

// SetColors enables or disables ANSI color output.
func SetColors(enabled bool) {
	colorEnabled = enabled
}

func color(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

// Format returns the error formatted for terminal display.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(color(colorRed+colorBold, "ERROR "))
	if e.Code != "" {
		b.WriteString(color(colorBold, e.Code+": "))
	}
	b.WriteString(e.Message)
	b.WriteString("\n\n")

	if e.Location != nil {
		b.WriteString("  ")
		b.WriteString(color(colorCyan, e.Location.String()))
		b.WriteString("\n\n")
		e.writeContext(&b)
	}

	if e.Detail != "" {
		b.WriteString("  ")
		b.WriteString(e.Detail)
		b.WriteString("\n\n")
	}
	if e.Wrapped != nil {
		b.WriteString("  ")
		b.WriteString(color(colorGray, "caused by: "))
		b.WriteString(e.Wrapped.Error())
		b.WriteString("\n\n")
	}
	if e.Suggestion != "" {
		b.WriteString("  ")
		b.WriteString(color(colorCyan, "Hint: "))
		b.WriteString(e.Suggestion)
		b.WriteString("\n\n")
	}
	return b.String()
}

func (e *Error) writeContext(b *strings.Builder) {
	if len(e.Context) == 0 {
		return
	}
	first := e.Location.Line - 5/2
	if first < 1 {
		first = 1
	}
	for i, line := range e.Context {
		n := first + i
		if n == e.Location.Line {
			fmt.Fprintf(b, "  %s%4d%s%s\n", color(colorRed, "→ "), n, color(colorGray, " │ "), line)
			if e.Location.Column > 0 {
				fmt.Fprintf(b, "        %s%s%s\n", color(colorGray, "│ "),
					strings.Repeat(" ", e.Location.Column-1), color(colorRed, "^"))
			}
			continue
		}
		fmt.Fprintf(b, "    %4d%s%s\n", n, color(colorGray, " │ "), line)
	}
	b.WriteString("\n")
}

// Fprint writes err to w, using Format for *Error values.
func Fprint(w io.Writer, err error) {
	if e, ok := As(err); ok {
		fmt.Fprint(w, e.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", color(colorRed+colorBold, "ERROR"), err.Error())
}
