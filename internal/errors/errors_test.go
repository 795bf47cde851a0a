package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	err := New(CodeUnknownComponent).WithDetail("<%s>", "Widget")

	if err.Category != CategoryCompile {
		t.Errorf("Category = %q, want compile", err.Category)
	}
	if got, want := err.Error(), "E112: Unknown component: <Widget>"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("E999")
	if err.Message != "Unknown error" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestIsMatchesCategory(t *testing.T) {
	err := fmt.Errorf("render: %w", New(CodeContainerNotFound))

	if !stderrors.Is(err, Kind(CategoryMount)) {
		t.Error("mount error should match the mount sentinel")
	}
	if stderrors.Is(err, Kind(CategoryCompile)) {
		t.Error("mount error should not match the compile sentinel")
	}
	if !stderrors.Is(err, New(CodeContainerNotFound)) {
		t.Error("errors with the same code should match")
	}
	if stderrors.Is(err, New(CodeContainerInvalid)) {
		t.Error("errors with different codes should not match")
	}
}

func TestWrapAndAs(t *testing.T) {
	cause := stderrors.New("boom")
	err := fmt.Errorf("outer: %w", New(CodeRenderPanic).Wrap(cause))

	e, ok := As(err)
	if !ok {
		t.Fatal("As should find the wrapped *Error")
	}
	if e.Code != CodeRenderPanic {
		t.Errorf("Code = %q", e.Code)
	}
	if !stderrors.Is(err, cause) {
		t.Error("cause should be reachable through Unwrap")
	}
}

func TestFromPanic(t *testing.T) {
	coded := New(CodeHookOutsideRender)
	if got := FromPanic(coded, CodeRenderPanic); got != coded {
		t.Errorf("FromPanic(*Error) = %v, want the same value", got)
	}

	got := FromPanic("bad", CodeRenderPanic)
	e, ok := As(got)
	if !ok || e.Code != CodeRenderPanic || e.Detail != "bad" {
		t.Errorf("FromPanic(string) = %#v", got)
	}

	cause := stderrors.New("inner")
	if !stderrors.Is(FromPanic(cause, CodeRenderPanic), cause) {
		t.Error("FromPanic(error) should wrap the error")
	}
}

func TestFormatWithSource(t *testing.T) {
	SetColors(false)
	defer SetColors(true)

	src := "<div>\n  <span>\n</div>"
	err := New(CodeMalformedMarkup).
		WithSource("card.html", src, 2, 3).
		WithSuggestion("close <span> before </div>")

	out := err.Format()
	for _, want := range []string{
		"ERROR E110: Malformed markup",
		"card.html:2:3",
		"→    2 │   <span>",
		"│   ^",
		"Hint: close <span> before </div>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		loc  *Location
		want string
	}{
		{nil, ""},
		{&Location{Line: 3}, "<template>:3"},
		{&Location{File: "a.html", Line: 1, Column: 4}, "a.html:1:4"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCodesSorted(t *testing.T) {
	codes := Codes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("Codes not sorted: %v", codes)
		}
	}
	for _, code := range codes {
		if tpl, _ := Template(code); tpl.Category == "" {
			t.Errorf("code %s has no category", code)
		}
	}
}
