package vdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	var nilNode *VNode
	var nilMap map[string]any
	handler := func() {}

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"false", false, nil},
		{"true", true, true},
		{"zero", 0, 0},
		{"empty string", "", ""},
		{"typed nil node", nilNode, nil},
		{"typed nil map", nilMap, nil},
		{"slice drops nils", []any{"a", nil, false, 1}, []any{"a", 1}},
		{"nested slices", []any{[]any{nil, "b"}}, []any{[]any{"b"}}},
		{"typed slice", []string{"x", "y"}, []any{"x", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := Normalize(handler); got == nil {
		t.Error("functions should pass through")
	}
}

func TestToNode(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		wantKind Kind
		wantText string
	}{
		{"nil", nil, KindNull, ""},
		{"string", "hi", KindText, "hi"},
		{"int", 7, KindText, "7"},
		{"float", 1.5, KindText, "1.5"},
		{"false", false, KindNull, ""},
		{"slice", []any{"a"}, KindFragment, ""},
		{"struct", struct{ A int }{1}, KindText, "{1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := ToNode(tt.in)
			if n.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", n.Kind, tt.wantKind)
			}
			if n.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", n.Text, tt.wantText)
			}
		})
	}
}

func TestValuesEqual(t *testing.T) {
	ptr := &struct{}{}
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"same string", "a", "a", true},
		{"different string", "a", "b", false},
		{"int vs string", 1, "1", false},
		{"nil nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"maps", map[string]string{"a": "b"}, map[string]string{"a": "b"}, true},
		{"same pointer", ptr, ptr, true},
		{"slices", []int{1}, []int{2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValuesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("ValuesEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"x", "x"},
		{true, "true"},
		{3, "3"},
		{2.5, "2.5"},
		{uint8(9), "9"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := Stringify(tt.in); got != tt.want {
			t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAsMap(t *testing.T) {
	m, ok := AsMap(map[string]int{"a": 1})
	if !ok || m["a"] != 1 {
		t.Errorf("AsMap(map[string]int) = %v, %v", m, ok)
	}
	if _, ok := AsMap([]int{1}); ok {
		t.Error("AsMap should reject slices")
	}
	if _, ok := AsMap(map[int]string{1: "a"}); ok {
		t.Error("AsMap should reject non-string keys")
	}
}

func TestIsCompound(t *testing.T) {
	if IsCompound("s") || IsCompound(1) || IsCompound(true) {
		t.Error("scalars should not be compound")
	}
	if !IsCompound(map[string]any{}) || !IsCompound([]int{}) || !IsCompound(func() {}) {
		t.Error("maps, slices and funcs should be compound")
	}
}
