package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
	"strings"
)

// Category represents the family of an error.
type Category string

const (
	CategoryMount   Category = "mount"
	CategoryCompile Category = "compile"
	CategoryHook    Category = "hook"
	CategoryRender  Category = "render"
	CategoryConfig  Category = "config"
)

// Location represents a position inside a template or source file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	file := l.File
	if file == "" {
		file = "<template>"
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", file, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", file, l.Line)
}

// Error is a structured error with a code, category and optional location.
type Error struct {
	// Code is a unique error identifier (e.g., "E110").
	Code string

	// Category is the error family (mount, compile, ...).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, usually naming the offending input.
	Detail string

	// Location is where the error occurred, if known.
	Location *Location

	// Context contains the source lines surrounding Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is matches another *Error with the same code, or a category sentinel
// created by Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code == "" {
		return t.Category == e.Category
	}
	return t.Code == e.Code
}

// Kind returns a sentinel that matches every error of the category under
// errors.Is.
func Kind(c Category) *Error {
	return &Error{Category: c, Message: string(c) + " error"}
}

// WithDetail sets the detailed explanation.
func (e *Error) WithDetail(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithSource sets the location inside src and captures the surrounding
// lines as context.
func (e *Error) WithSource(file, src string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = contextLines(strings.Split(src, "\n"), line, 5)
	return e
}

// WithFileLocation sets the location and reads context lines from disk.
func (e *Error) WithFileLocation(file string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// contextLines returns up to size lines centred on the 1-based target line.
func contextLines(lines []string, target, size int) []string {
	start := target - size/2
	if start < 1 {
		start = 1
	}
	end := target + size/2
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return nil
	}
	return append([]string(nil), lines[start-1:end]...)
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > targetLine+contextSize/2 {
			break
		}
	}
	return contextLines(lines, targetLine, contextSize)
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// As reports whether err is, or wraps, an *Error and returns it.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// FromPanic converts a recovered panic value into an error. *Error and error
// values are returned as they are; anything else is wrapped in code.
func FromPanic(v any, code string) error {
	switch p := v.(type) {
	case *Error:
		return p
	case error:
		return New(code).Wrap(p)
	default:
		return New(code).WithDetail("%v", v)
	}
}
