package template

import "github.com/invopop/jsonschema"

// Node kinds used in DumpNode.
const (
	KindText     = "text"
	KindVariable = "variable"
	KindSection  = "section"
	KindPartial  = "partial"
	KindComment  = "comment"
)

// DumpNode is a self-contained, serializable view of one AST node, with
// text resolved to a string.
type DumpNode struct {
	Kind     string     `json:"kind" yaml:"kind" jsonschema:"enum=text,enum=variable,enum=section,enum=partial,enum=comment"`
	Text     string     `json:"text,omitempty" yaml:"text,omitempty"`
	ID       string     `json:"id,omitempty" yaml:"id,omitempty"`
	Raw      bool       `json:"raw,omitempty" yaml:"raw,omitempty" jsonschema:"description=Variable is not escaped"`
	Inverted bool       `json:"inverted,omitempty" yaml:"inverted,omitempty"`
	Nodes    []DumpNode `json:"nodes,omitempty" yaml:"nodes,omitempty"`
}

// Dump returns the template's AST as DumpNodes.
func (t *Template) Dump() []DumpNode {
	return t.dump(t.nodes)
}

func (t *Template) dump(nodes []Node) []DumpNode {
	var out []DumpNode
	for _, node := range nodes {
		switch n := node.(type) {
		case *Text:
			out = append(out, DumpNode{Kind: KindText, Text: t.TextString(n)})
		case *Variable:
			out = append(out, DumpNode{Kind: KindVariable, ID: n.ID, Raw: !n.Escape})
		case *Section:
			out = append(out, DumpNode{
				Kind:     KindSection,
				ID:       n.ID,
				Inverted: n.Inverted,
				Nodes:    t.dump(n.Nodes),
			})
		case *Partial:
			out = append(out, DumpNode{Kind: KindPartial, ID: n.ID})
		case *Comment:
			out = append(out, DumpNode{Kind: KindComment})
		}
	}
	return out
}

// DumpSchema returns the JSON schema for a DumpNode. Section bodies refer
// back to the same definition.
func DumpSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&DumpNode{})
}
