package template

// Buffer identifies which byte buffer a Span indexes into.
type Buffer uint8

const (
	// SourceBuffer is the caller-supplied source the template was parsed from.
	SourceBuffer Buffer = iota
	// OwnedBuffer is the template's own text buffer, filled by compaction.
	OwnedBuffer
)

// String returns the buffer name.
func (b Buffer) String() string {
	switch b {
	case SourceBuffer:
		return "source"
	case OwnedBuffer:
		return "owned"
	default:
		return "unknown"
	}
}

// Span is a half-open byte range [Offset, Offset+Length) within Buffer.
type Span struct {
	Buffer Buffer
	Offset int
	Length int
}

// End returns the exclusive end offset.
func (s Span) End() int {
	return s.Offset + s.Length
}

// Node is any AST node in a parsed template.
// The set of node types is closed: Text, Variable, Section, Partial, Comment.
type Node interface {
	node()
}

// Text is a run of literal text, rendered verbatim.
type Text struct {
	Span Span
}

func (*Text) node() {}

// Variable is an interpolation tag: {{name}}, {{&name}} or {{{name}}}.
// Escape is false for the raw forms.
type Variable struct {
	ID     string
	Escape bool
}

func (*Variable) node() {}

// Section is a block tag: {{#name}}...{{/name}} or {{^name}}...{{/name}}.
type Section struct {
	ID       string
	Inverted bool
	Nodes    []Node
}

func (*Section) node() {}

// Partial is a reference to another template by name: {{>name}}.
type Partial struct {
	ID string
}

func (*Partial) node() {}

// Comment marks a consumed {{!...}} tag. It carries nothing.
type Comment struct{}

func (*Comment) node() {}

// Visitor is called for each node during Walk.
type Visitor interface {
	Visit(n Node) error
}

// Walk visits nodes in document order, descending into section bodies
// after the section itself. It stops at the first error.
func Walk(v Visitor, nodes []Node) error {
	for _, n := range nodes {
		if err := v.Visit(n); err != nil {
			return err
		}
		if s, ok := n.(*Section); ok {
			if err := Walk(v, s.Nodes); err != nil {
				return err
			}
		}
	}
	return nil
}

// Inspect calls fn for each node in document order. If fn returns false
// for a section, its body is skipped.
func Inspect(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		if s, ok := n.(*Section); ok {
			Inspect(s.Nodes, fn)
		}
	}
}
