package memdom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/vlite/pkg/dom"
)

func TestMutationsOnlyForConnectedNodes(t *testing.T) {
	doc := New()
	div := doc.CreateElement("DIV")
	div.SetAttribute("class", "card")
	div.AppendChild(doc.CreateTextNode("hi"))

	if n := len(doc.Mutations()); n != 0 {
		t.Fatalf("detached mutations recorded: %v", doc.Mutations())
	}

	doc.Body().AppendChild(div)
	div.SetAttribute("id", "x")

	want := []string{"append <body> <div>", "setAttr <div> id=x"}
	var got []string
	for _, m := range doc.Mutations() {
		got = append(got, m.String())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}
}

func TestChildOperations(t *testing.T) {
	doc := New()
	body := doc.Body()
	a, b, c := doc.CreateTextNode("a"), doc.CreateTextNode("b"), doc.CreateTextNode("c")

	body.AppendChild(a)
	body.AppendChild(c)
	body.InsertBefore(b, c)
	if got := body.TextContent(); got != "abc" {
		t.Fatalf("TextContent = %q, want abc", got)
	}

	d := doc.CreateElement("i")
	body.ReplaceChild(d, b)
	if b.ParentNode() != nil {
		t.Error("replaced node should be detached")
	}
	if d.ParentNode() != body {
		t.Error("replacement should be attached to body")
	}

	body.RemoveChild(a)
	if got := dom.InnerHTML(body); got != "<i></i>c" {
		t.Errorf("InnerHTML = %q", got)
	}
}

func TestAppendMovesNode(t *testing.T) {
	doc := New()
	p1, p2 := doc.CreateElement("p"), doc.CreateElement("p")
	txt := doc.CreateTextNode("x")
	p1.AppendChild(txt)
	p2.AppendChild(txt)

	if len(p1.ChildNodes()) != 0 || len(p2.ChildNodes()) != 1 {
		t.Error("AppendChild should move the node")
	}
}

func TestQuery(t *testing.T) {
	doc := New()
	app := doc.CreateElement("main")
	app.SetAttribute("id", "app")
	app.SetAttribute("class", "shell dark")
	doc.Body().AppendChild(app)

	tests := []struct {
		selector string
		want     dom.Element
	}{
		{"#app", app},
		{".dark", app},
		{"main", app},
		{"body", doc.Body()},
		{"#missing", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			got, ok := doc.Query(tt.selector)
			if tt.want == nil {
				if ok {
					t.Errorf("Query(%q) = %v, want none", tt.selector, got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Query(%q) returned the wrong element", tt.selector)
			}
		})
	}
}

func TestProperties(t *testing.T) {
	doc := New()
	input := doc.CreateElement("input").(*Element)
	input.SetAttribute("value", "seed")

	if v, ok := input.Property("value"); !ok || v != "seed" {
		t.Errorf("value = %v, %v; want seed from attribute", v, ok)
	}
	input.SetProperty("value", "typed")
	if v, _ := input.Property("value"); v != "typed" {
		t.Errorf("value = %v, want typed", v)
	}
	if a, _ := input.Attribute("value"); a != "seed" {
		t.Errorf("value attribute = %q, should not reflect", a)
	}

	input.SetProperty("id", "name")
	if a, _ := input.Attribute("id"); a != "name" {
		t.Errorf("id attribute = %q, want reflected", a)
	}

	input.SetProperty("disabled", true)
	if _, ok := input.Attribute("disabled"); !ok {
		t.Error("disabled should add the attribute")
	}
	input.SetProperty("disabled", false)
	if v, _ := input.Property("disabled"); v != false {
		t.Errorf("disabled = %v, want false", v)
	}

	if _, ok := doc.CreateElement("div").Property("value"); ok {
		t.Error("div should not expose value")
	}
}

func TestStyle(t *testing.T) {
	doc := New()
	el := doc.CreateElement("div")
	el.SetStyle("color", "red")
	el.SetStyle("margin", "0")
	el.SetStyle("color", "blue")

	if got, _ := el.Attribute("style"); got != "color: blue; margin: 0;" {
		t.Errorf("style attribute = %q", got)
	}
	el.SetAttribute("style", "padding:1px")
	if el.Style("padding") != "1px" || el.Style("color") != "" {
		t.Error("style attribute should replace the fields")
	}
	el.RemoveAttribute("style")
	if el.Style("padding") != "" {
		t.Error("removing style should clear fields")
	}
}

func TestDispatchBubbles(t *testing.T) {
	doc := New()
	outer := doc.CreateElement("div").(*Element)
	inner := doc.CreateElement("button").(*Element)
	outer.AppendChild(inner)

	var order []string
	inner.AddEventListener("click", &dom.Listener{Handle: func(ev dom.Event) {
		order = append(order, "inner")
		if ev.Target() != inner {
			t.Error("target should be the dispatch element")
		}
	}})
	stop := &dom.Listener{Handle: func(ev dom.Event) {
		order = append(order, "outer")
		ev.StopPropagation()
	}}
	outer.AddEventListener("click", stop)
	outer.AddEventListener("click", stop)
	doc.Body().AppendChild(outer)
	doc.Body().(*Element).AddEventListener("click", &dom.Listener{Handle: func(dom.Event) {
		order = append(order, "body")
	}})

	Click(inner)
	if diff := cmp.Diff([]string{"inner", "outer"}, order); diff != "" {
		t.Errorf("dispatch order (-want +got):\n%s", diff)
	}
	if outer.ListenerCount("click") != 1 {
		t.Error("duplicate listener should be ignored")
	}
}

func TestWindowRecords(t *testing.T) {
	w := &Window{}
	o, err := w.Open("/a", "_blank", "noopener")
	if err != nil {
		t.Fatal(err)
	}
	if err := o.ClearOpener(); err != nil {
		t.Fatal(err)
	}
	if err := w.Assign("/b"); err != nil {
		t.Fatal(err)
	}
	want := []OpenCall{{URL: "/a", Target: "_blank", Features: "noopener", OpenerCleared: true}}
	if diff := cmp.Diff(want, w.Opened()); diff != "" {
		t.Errorf("Opened (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/b"}, w.Assigned()); diff != "" {
		t.Errorf("Assigned (-want +got):\n%s", diff)
	}

	w.ClearOpenerErr = errors.New("denied")
	o, _ = w.Open("/c", "_blank", "")
	if err := o.ClearOpener(); err == nil {
		t.Error("ClearOpener should fail when configured")
	}
}

func TestSerialize(t *testing.T) {
	doc := New()
	p := doc.CreateElement("p")
	p.SetAttribute("title", `a "b"`)
	p.AppendChild(doc.CreateTextNode("1 < 2"))
	p.AppendChild(doc.CreateElement("br"))

	want := `<p title="a &quot;b&quot;">1 &lt; 2<br></p>`
	if got := dom.OuterHTML(p); got != want {
		t.Errorf("OuterHTML = %q, want %q", got, want)
	}
}
