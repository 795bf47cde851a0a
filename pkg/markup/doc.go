// Package markup compiles HTML-like templates with interpolated values into
// VNode trees.
//
// A template is a list of literal chunks and one value between each pair of
// chunks, the shape a tagged template literal has:
//
//	node, err := markup.Compile([]string{`<button onClick=`, `>`, `</button>`}, inc, label)
//
// Each value is classified by the text preceding it. Inside an open start
// tag, a value after `name=` (with or without an opening quote) becomes that
// attribute's value and a value after ` ...` has its map spread into the
// props. Anywhere else it becomes a child. The check is textual: a literal
// `>` inside an earlier quoted attribute of the same tag ends the tag for
// classification purposes.
//
// `<>` and `</>` delimit fragments. Tags starting with an uppercase letter
// are resolved as components through a registry.
//
// Parsed templates are cached by their chunks, so compiling the same
// template with new values only repeats the lowering step.
//
// Templates written as a single string with named slots can be compiled
// with CompileNamed:
//
//	markup.CompileNamed(`<p class="${cls}">${text}</p>`, map[string]any{"cls": "x", "text": "hi"})
package markup
