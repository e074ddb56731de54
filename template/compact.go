package template

import "fmt"

// Measure returns the total byte length of all Text nodes, including
// those nested in sections.
func Measure(nodes []Node) int {
	n := 0
	for _, node := range nodes {
		switch t := node.(type) {
		case *Text:
			n += t.Span.Length
		case *Section:
			n += Measure(t.Nodes)
		}
	}
	return n
}

// Relocate copies the text of every Text node, in document order, into a
// new buffer allocated with the given capacity, and rewrites each span to
// point into that buffer. It returns the buffer.
//
// capacity must be at least Measure(nodes). Both that and the requirement
// that every span still references source are checked before any node is
// modified, so a failed call leaves the nodes untouched.
func Relocate(nodes []Node, source []byte, capacity int) ([]byte, error) {
	need, err := checkSourceSpans(nodes, len(source))
	if err != nil {
		return nil, err
	}
	if capacity < need {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrCapacity, need, capacity)
	}

	buf := make([]byte, 0, capacity)
	relocate(nodes, source, &buf)
	return buf, nil
}

// relocate appends text to buf and rewrites spans. buf never grows past
// its initial capacity, so no earlier span is invalidated.
func relocate(nodes []Node, source []byte, buf *[]byte) {
	for _, node := range nodes {
		switch t := node.(type) {
		case *Text:
			off := len(*buf)
			*buf = append(*buf, source[t.Span.Offset:t.Span.End()]...)
			t.Span = Span{Buffer: OwnedBuffer, Offset: off, Length: t.Span.Length}
		case *Section:
			relocate(t.Nodes, source, buf)
		}
	}
}

// checkSourceSpans returns the total text length, failing if any span
// has already been relocated or falls outside the source.
func checkSourceSpans(nodes []Node, sourceLen int) (int, error) {
	n := 0
	for _, node := range nodes {
		switch t := node.(type) {
		case *Text:
			if t.Span.Buffer != SourceBuffer {
				return 0, ErrCompacted
			}
			if t.Span.Offset < 0 || t.Span.Length < 0 || t.Span.End() > sourceLen {
				return 0, fmt.Errorf("text span [%d, %d) outside source of %d bytes",
					t.Span.Offset, t.Span.End(), sourceLen)
			}
			n += t.Span.Length
		case *Section:
			m, err := checkSourceSpans(t.Nodes, sourceLen)
			if err != nil {
				return 0, err
			}
			n += m
		}
	}
	return n, nil
}
