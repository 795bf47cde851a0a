package markup

import (
	stderrors "errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	verrors "github.com/vango-dev/vlite/internal/errors"
	"github.com/vango-dev/vlite/pkg/registry"
	"github.com/vango-dev/vlite/pkg/vdom"
)

// describe renders a VNode tree as compact text for comparisons.
func describe(n *vdom.VNode) string {
	var b strings.Builder
	var walk func(n *vdom.VNode)
	walk = func(n *vdom.VNode) {
		switch n.Kind {
		case vdom.KindNull:
			b.WriteString("null")
		case vdom.KindText:
			b.WriteString(`"` + n.Text + `"`)
		case vdom.KindFragment:
			b.WriteString("<>")
		case vdom.KindComponent:
			b.WriteString("<" + n.Name)
		case vdom.KindElement:
			b.WriteString("<" + n.Tag)
		}
		if n.Kind == vdom.KindElement || n.Kind == vdom.KindComponent {
			for _, k := range sortedKeys(n.Props) {
				b.WriteString(" " + k + "=" + vdom.Stringify(n.Props[k]))
			}
			b.WriteString(">")
		}
		for _, c := range n.Children {
			walk(c)
		}
		if n.Kind == vdom.KindElement || n.Kind == vdom.KindFragment || n.Kind == vdom.KindComponent {
			b.WriteString("</>")
		}
	}
	walk(n)
	return b.String()
}

func sortedKeys(p vdom.Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestClassify(t *testing.T) {
	tests := []struct {
		prev string
		want slotKind
	}{
		{`<button onClick=`, slotAttr},
		{`<input value = `, slotAttr},
		{`<p title="`, slotQuotedAttr},
		{`<p data-id='`, slotQuotedAttr},
		{`<div `, slotChild},
		{`<div class="a" ...`, slotSpread},
		{`<p>wait...`, slotChild},
		{`<p>`, slotChild},
		{`<p>x = `, slotChild},
		{`<p>the sum x = `, slotChild},
		{`<p>a</p><img src=`, slotAttr},
	}
	for _, tt := range tests {
		t.Run(tt.prev, func(t *testing.T) {
			if got := classify(tt.prev); got != tt.want {
				t.Errorf("classify(%q) = %v, want %v", tt.prev, got, tt.want)
			}
		})
	}
}

func TestCompose(t *testing.T) {
	src, kinds := compose([]string{`<> <a href=`, ` title="`, `" ...`, `>`, `</a> </>`})
	want := `<fragment><a href="__EXPR_0__" title="__EXPR_1__" ...2><!--EXPR_3--></a></fragment>`
	if src != want {
		t.Errorf("compose:\n got %s\nwant %s", src, want)
	}
	if diff := cmp.Diff([]slotKind{slotAttr, slotQuotedAttr, slotSpread, slotChild}, kinds); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
}

func TestCompile(t *testing.T) {
	c := New(registry.New())

	tests := []struct {
		name   string
		chunks []string
		values []any
		want   string
	}{
		{
			name:   "static",
			chunks: []string{`<div class="card"><span>hi</span></div>`},
			want:   `<div class=card><span>"hi"</></>`,
		},
		{
			name:   "child values",
			chunks: []string{`<p>`, ` and `, `</p>`},
			values: []any{"a", 2},
			want:   `<p>"a"" and ""2"</>`,
		},
		{
			name:   "attribute value",
			chunks: []string{`<input value=`, ` disabled>`},
			values: []any{"x"},
			want:   `<input disabled= value=x></>`,
		},
		{
			name:   "nil attribute dropped",
			chunks: []string{`<p title="`, `">x</p>`},
			values: []any{nil},
			want:   `<p>"x"</>`,
		},
		{
			name:   "spread",
			chunks: []string{`<a id="a" ...`, `></a>`},
			values: []any{map[string]any{"href": "/x", "id": "b"}},
			want:   `<a href=/x id=b></>`,
		},
		{
			name:   "slice child spliced and nils dropped",
			chunks: []string{`<ul>`, `</ul>`},
			values: []any{[]any{vdom.Text("1"), nil, false, vdom.Text("2")}},
			want:   `<ul>"1""2"</>`,
		},
		{
			name:   "false child omitted",
			chunks: []string{`<p>`, `</p>`},
			values: []any{false},
			want:   `<p></>`,
		},
		{
			name:   "fragment root",
			chunks: []string{`<> <b>1</b>`, ` </>`},
			values: []any{"2"},
			want:   `<><b>"1"</>"2"</>`,
		},
		{
			name:   "first top-level element only",
			chunks: []string{`text <i>a</i><b>b</b>`},
			want:   `<i>"a"</>`,
		},
		{
			name:   "textarea keeps placeholder",
			chunks: []string{`<textarea>`, `</textarea>`},
			values: []any{"draft"},
			want:   `<textarea>"draft"</>`,
		},
		{
			name:   "entities unescaped",
			chunks: []string{`<p title="a &amp; b">1 &lt; 2</p>`},
			want:   `<p title=a & b>"1 < 2"</>`,
		},
		{
			name:   "comments dropped",
			chunks: []string{`<p><!-- note -->x</p>`},
			want:   `<p>"x"</>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := c.Compile(tt.chunks, tt.values...)
			if err != nil {
				t.Fatalf("Compile error: %v", err)
			}
			if got := describe(node); got != tt.want {
				t.Errorf("Compile:\n got %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestCompileComponent(t *testing.T) {
	reg := registry.New()
	reg.Register("Badge", func(p vdom.Props) *vdom.VNode { return vdom.Text("badge") })

	node, err := New(reg).Compile([]string{`<section><Badge onClick=`, ` itemCount="3" /></section>`}, func() {})
	if err != nil {
		t.Fatal(err)
	}
	comp := node.Children[0]
	if comp.Kind != vdom.KindComponent || comp.Name != "Badge" || comp.Comp == nil {
		t.Fatalf("component = %+v", comp)
	}
	if comp.Props["itemCount"] != "3" || !vdom.IsFunc(comp.Props["onClick"]) {
		t.Errorf("props = %v", comp.Props)
	}
}

func TestCompileErrors(t *testing.T) {
	c := New(registry.New())
	tests := []struct {
		name   string
		chunks []string
		values []any
		code   string
	}{
		{"value count", []string{`<p>`, `</p>`}, nil, verrors.CodeValueCount},
		{"unterminated", []string{`<div><span></div>`}, nil, verrors.CodeMalformedMarkup},
		{"never closed", []string{`<div>`}, nil, verrors.CodeMalformedMarkup},
		{"stray close", []string{`</p>`}, nil, verrors.CodeMalformedMarkup},
		{"no root", []string{`just text`}, nil, verrors.CodeNoRootElement},
		{"unknown component", []string{`<Missing />`}, nil, verrors.CodeUnknownComponent},
		{"spread not map", []string{`<p ...`, `></p>`}, []any{42}, verrors.CodeSpreadNotMap},
		{"partial attribute", []string{`<p title="a `, ` b"></p>`}, []any{"x"}, verrors.CodeBadPlaceholder},
		{"script text", []string{`<div><script>var n = `, `;</script></div>`}, []any{1}, verrors.CodeBadPlaceholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Compile(tt.chunks, tt.values...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, verrors.Kind(verrors.CategoryCompile)) {
				t.Errorf("error %v is not a compile error", err)
			}
			e, _ := verrors.As(err)
			if e.Code != tt.code {
				t.Errorf("code = %s, want %s (%v)", e.Code, tt.code, err)
			}
		})
	}
}

func TestMismatchLocation(t *testing.T) {
	_, err := New(registry.New()).Compile([]string{"<div>\n  <span>\n</div>"})
	e, ok := verrors.As(err)
	if !ok || e.Location == nil {
		t.Fatalf("err = %v, want located error", err)
	}
	if e.Location.Line != 3 || e.Location.Column != 1 {
		t.Errorf("location = %d:%d, want 3:1", e.Location.Line, e.Location.Column)
	}
}

func TestCacheStats(t *testing.T) {
	c := New(registry.New())
	chunks := []string{`<p>`, `</p>`}
	for i := 0; i < 3; i++ {
		node, err := c.Compile(chunks, i)
		if err != nil {
			t.Fatal(err)
		}
		if node.Children[0].Text != vdom.Stringify(i) {
			t.Errorf("pass %d: stale value %q", i, node.Children[0].Text)
		}
	}
	want := Stats{Hits: 2, Misses: 1, Entries: 1}
	if diff := cmp.Diff(want, c.Stats()); diff != "" {
		t.Errorf("Stats (-want +got):\n%s", diff)
	}
}

func TestCacheEviction(t *testing.T) {
	c := New(registry.New(), WithCacheSize(2))
	for _, src := range []string{"<a></a>", "<b></b>", "<i></i>", "<a></a>"} {
		if _, err := c.Compile([]string{src}); err != nil {
			t.Fatal(err)
		}
	}
	if got := c.Stats(); got.Entries != 2 || got.Hits != 0 || got.Misses != 4 {
		t.Errorf("Stats = %+v, want 2 entries and 4 misses", got)
	}
}

func TestSplit(t *testing.T) {
	chunks, names, err := Split(`<p class="${ cls }">${user.name} costs $${x}</p>`)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{`<p class="`, `">`, ` costs ${x}</p>`}, chunks); diff != "" {
		t.Errorf("chunks (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"cls", "user.name"}, names); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"<p>${</p>", "<p>${1x}</p>", "<p>${}</p>"} {
		if _, _, err := Split(bad); err == nil {
			t.Errorf("Split(%q) should fail", bad)
		}
	}
}

func TestCompileNamed(t *testing.T) {
	c := New(registry.New())
	node, err := c.CompileNamed(`<p class="${cls}">${user.name}</p>`, map[string]any{
		"cls":  "intro",
		"user": map[string]any{"name": "Ada"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := describe(node), `<p class=intro>"Ada"</>`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	if _, err := c.CompileNamed(`<p>${missing}</p>`, nil); err == nil {
		t.Error("missing variable should fail")
	}
}

func TestEqualsInTextStaysChild(t *testing.T) {
	node, err := New(registry.New()).Compile([]string{`<p>sum x = `, `</p>`}, 3)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, c := range node.Children {
		got = append(got, c.Text)
	}
	if diff := cmp.Diff([]string{"sum x = ", "3"}, got); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
}
