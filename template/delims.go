package template

// Delimiters is the open/close token pair that marks tag boundaries.
type Delimiters struct {
	Open  string
	Close string
}

// DefaultDelimiters returns the pair every parse starts with: "{{" and "}}".
func DefaultDelimiters() Delimiters {
	return Delimiters{Open: "{{", Close: "}}"}
}
