// Package stache parses Mustache-style templates into an AST for a
// separate renderer.
//
// stache is split into packages that can be imported independently:
//
//   - template: parser, AST, text compaction and the Template handle
//   - loader: template directories, partial lookup and reload on change
//
// # Quick Start
//
// Parsing a single template:
//
//	import "github.com/randalmurphal/stache/template"
//	tmpl, err := template.ParseString("Hello {{name}}")
//
// Loading a directory of templates and partials:
//
//	import "github.com/randalmurphal/stache/loader"
//	cfg := loader.DefaultConfig()
//	cfg.Dir = "templates"
//	set, err := loader.Open(ctx, cfg)
//	footer, ok := set.Lookup("footer")
//
// # Design Philosophy
//
//   - The parser either returns a complete AST or a single error
//   - The AST records what the source says; escaping and lookup belong to
//     the renderer
//   - Templates are read-only once parsed and compacted, so they can be
//     shared across goroutines
package stache
