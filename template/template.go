package template

import "sync/atomic"

// Template is a parsed template. Until Compact is called, its Text nodes
// reference the source buffer passed to Parse, which must not be modified
// while the template is in use. After Compact, the template owns all of
// its text and the source buffer may be reused or dropped.
//
// A Template is safe for concurrent reads. Compact is not: it rewrites
// spans in place and must complete before the template is shared.
type Template struct {
	nodes     []Node
	source    []byte
	text      []byte
	compacted atomic.Bool
}

// Parse parses src into a Template. On failure it returns a *ParseError
// and no Template.
func Parse(src []byte) (*Template, error) {
	nodes, err := parse(src)
	if err != nil {
		return nil, err
	}
	return &Template{nodes: nodes, source: src}, nil
}

// ParseString parses a template from a string.
func ParseString(src string) (*Template, error) {
	return Parse([]byte(src))
}

// Nodes returns the root node list. Callers must not modify it.
func (t *Template) Nodes() []Node {
	return t.nodes
}

// Measure returns the total size of the template's literal text.
func (t *Template) Measure() int {
	return Measure(t.nodes)
}

// Compact moves all literal text into a buffer owned by the template and
// releases the source buffer. It may be called once; later calls return
// ErrCompacted.
func (t *Template) Compact() error {
	if !t.compacted.CompareAndSwap(false, true) {
		return ErrCompacted
	}
	text, err := Relocate(t.nodes, t.source, t.Measure())
	if err != nil {
		t.compacted.Store(false)
		return err
	}
	t.text = text
	t.source = nil
	return nil
}

// Compacted reports whether Compact has run.
func (t *Template) Compacted() bool {
	return t.compacted.Load()
}

// Text returns the bytes a Text node refers to. The result aliases the
// template's storage and must not be modified.
func (t *Template) Text(n *Text) []byte {
	var buf []byte
	switch n.Span.Buffer {
	case SourceBuffer:
		buf = t.source
	case OwnedBuffer:
		buf = t.text
	}
	if n.Span.Offset < 0 || n.Span.End() > len(buf) {
		return nil
	}
	return buf[n.Span.Offset:n.Span.End():n.Span.End()]
}

// TextString returns the text of a Text node as a string.
func (t *Template) TextString(n *Text) string {
	return string(t.Text(n))
}

// Variables returns the identifiers of all variables and sections in
// document order, without duplicates.
func (t *Template) Variables() []string {
	seen := make(map[string]bool)
	var result []string
	Inspect(t.nodes, func(n Node) bool {
		var id string
		switch v := n.(type) {
		case *Variable:
			id = v.ID
		case *Section:
			id = v.ID
		default:
			return true
		}
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
		return true
	})
	return result
}

// Partials returns the names of all partials the template references, in
// document order, without duplicates.
func (t *Template) Partials() []string {
	seen := make(map[string]bool)
	var result []string
	Inspect(t.nodes, func(n Node) bool {
		if p, ok := n.(*Partial); ok && !seen[p.ID] {
			seen[p.ID] = true
			result = append(result, p.ID)
		}
		return true
	})
	return result
}
