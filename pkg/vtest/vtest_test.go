package vtest_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vlite/pkg/dom"
	"github.com/vango-dev/vlite/pkg/hooks"
	"github.com/vango-dev/vlite/pkg/runtime"
	"github.com/vango-dev/vlite/pkg/vdom"
	"github.com/vango-dev/vlite/pkg/vtest"
)

func Counter(vdom.Props) *vdom.VNode {
	n, set := hooks.UseState(0)
	return vdom.Jsx("button", vdom.Props{
		"class":   "inc",
		"onClick": func() { set.Update(func(v int) int { return v + 1 }) },
	}, n)
}

func TestMountAndClick(t *testing.T) {
	h := vtest.Mount(t, Counter)
	h.ExpectHTML(`<button class="inc">0</button>`)

	h.ResetMutations()
	h.Click(".inc")
	h.ExpectHTML(`<button class="inc">1</button>`)

	if diff := cmp.Diff([]string{"text #text=1"}, h.Mutations()); diff != "" {
		t.Errorf("mutations (-want +got):\n%s", diff)
	}
	if got := len(h.Passes()); got != 2 {
		t.Errorf("passes = %d, want 2", got)
	}
	if got := h.LastPass().Reason; got != runtime.ReasonUpdate {
		t.Errorf("LastPass.Reason = %q, want %q", got, runtime.ReasonUpdate)
	}
}

func TestRerenderIsIdempotent(t *testing.T) {
	h := vtest.Mount(t, Counter)
	h.ResetMutations()
	h.Rerender()
	h.ExpectNoMutations()
}

func TestInput(t *testing.T) {
	echo := func(vdom.Props) *vdom.VNode {
		v, set := hooks.UseState("")
		return vdom.Jsx("div", nil,
			vdom.Jsx("input", vdom.Props{
				"id": "name",
				"onInput": func(ev dom.Event) {
					el, _ := dom.AsElement(ev.Target())
					val, _ := el.Property("value")
					set.Set(val.(string))
				},
			}),
			vdom.Jsx("span", nil, v),
		)
	}
	h := vtest.Mount(t, echo)
	h.Input("#name", "x")
	h.ExpectHTML(`<div><input id="name"><span>x</span></div>`)
}

func TestFindAll(t *testing.T) {
	list := func(vdom.Props) *vdom.VNode {
		var items []*vdom.VNode
		for _, s := range []string{"a", "b", "c"} {
			items = append(items, vdom.Jsx("li", nil, s))
		}
		return vdom.Jsx("ul", nil, items)
	}
	h := vtest.Mount(t, list)
	if got := len(h.FindAll("li")); got != 3 {
		t.Errorf("FindAll(li) = %d, want 3", got)
	}
	if got := len(h.FindAll("#app")); got != 0 {
		t.Errorf("FindAll should not return the container, got %d", got)
	}
}

func TestNewWithoutMount(t *testing.T) {
	h := vtest.New(t)
	if h.Runtime.Mounted() {
		t.Error("New should not mount")
	}
	if err := h.Runtime.Render(nil, h.Container); err == nil {
		t.Error("Render(nil) should fail")
	}
}

func TestExpectHelpers(t *testing.T) {
	card := vdom.Jsx("section", vdom.Props{"class": "card"},
		vdom.Jsx("h2", nil, "Welcome"),
	)

	vtest.ExpectContains(t, card, "<h2>Welcome</h2>")
	vtest.ExpectNotContains(t, card, "Login")
	vtest.ExpectElement(t, card, "section")
	vtest.ExpectAttribute(t, card, "class", "card")

	if got := vtest.RenderToString(vdom.Text("plain")); got != "plain" {
		t.Errorf("RenderToString = %q, want plain", got)
	}
}
