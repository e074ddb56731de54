// Package template parses Mustache-style templates into an AST.
//
// The package does not render. It produces a tree of nodes that a renderer
// walks together with its own data context and partial lookup.
//
// # Syntax
//
// Variables use double braces and are marked for escaping:
//
//	Hello, {{name}}!
//
// Raw variables use an ampersand or triple braces:
//
//	{{&html}} {{{html}}}
//
// Sections and inverted sections wrap a body and must be closed with the
// same identifier:
//
//	{{#items}}- {{name}}{{/items}}
//	{{^items}}nothing{{/items}}
//
// Partials, comments and delimiter changes:
//
//	{{>footer}}
//	{{! ignored }}
//	{{=<% %>=}}<%name%>
//
// A delimiter change applies to everything after it in the document,
// including text after the enclosing section closes.
//
// # Whitespace
//
// Literal text runs up to the next tag. Whitespace directly in front of a
// section, close, comment or delimiter tag is dropped; whitespace in front
// of a variable or partial is kept.
//
// # Example
//
//	tmpl, err := template.ParseString("{{#user}}Hi {{name}}{{/user}}")
//	if err != nil {
//	    // err wraps template.ErrParse
//	}
//	for _, n := range tmpl.Nodes() {
//	    switch n := n.(type) {
//	    case *template.Text:
//	        fmt.Print(tmpl.TextString(n))
//	    case *template.Section:
//	        // ...
//	    }
//	}
//
// # Compaction
//
// Text nodes reference the source buffer until Compact is called, which
// copies all text into one buffer owned by the Template:
//
//	src := readSource()
//	tmpl, _ := template.Parse(src)
//	_ = tmpl.Compact()
//	// src may now be reused
package template
