package registry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/vlite/pkg/vdom"
)

func button(vdom.Props) *vdom.VNode { return vdom.Jsx("button", nil) }

func TestRegisterLookup(t *testing.T) {
	r := New()
	r.Register("Button", button)

	fn, ok := r.Lookup("Button")
	if !ok || fn == nil {
		t.Fatal("Lookup(Button) should find the component")
	}
	if got := fn(nil); got.Tag != "button" {
		t.Errorf("component rendered %q, want button", got.Tag)
	}

	if _, ok := r.Lookup("button"); ok {
		t.Error("lookup must be case-sensitive")
	}
	if _, ok := r.Lookup("Missing"); ok {
		t.Error("Lookup(Missing) should report not found")
	}
}

func TestRegisterReplaces(t *testing.T) {
	r := New()
	r.Register("X", button)
	r.Register("X", func(vdom.Props) *vdom.VNode { return vdom.Text("second") })

	fn, _ := r.Lookup("X")
	if got := fn(nil); got.Text != "second" {
		t.Errorf("got %q, want the later registration", got.Text)
	}
}

func TestNamesSorted(t *testing.T) {
	r := New()
	r.Register("Zeta", button)
	r.Register("Alpha", button)
	r.Register("Mid", button)
	r.Unregister("Mid")

	if diff := cmp.Diff([]string{"Alpha", "Zeta"}, r.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil component")
		}
	}()
	New().Register("Nil", nil)
}
