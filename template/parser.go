package template

import (
	"bytes"
	"strings"
)

// blockMarkers follow the open delimiter of tags that drop the whitespace
// in front of them: section open, inverted section open, section close,
// comment and set-delimiter.
const blockMarkers = "#^/!="

// parser is a single parse session. The delimiter pair is live state:
// a set-delimiter tag replaces it for everything after the tag, including
// the rest of any enclosing section.
type parser struct {
	src    []byte
	pos    int
	delims Delimiters
}

// parse converts src into a root node list. The whole input must be
// consumed; anything left over is a parse error.
func parse(src []byte) ([]Node, error) {
	p := &parser{src: src, delims: DefaultDelimiters()}
	nodes, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		// parseNodes only stops early in front of a close tag.
		open, _, _ := p.blockTag(p.pos)
		return nil, newParseError(p.src, open, "section close tag without matching open tag")
	}
	return nodes, nil
}

// parseNodes parses content items until end of input or a section close
// tag, which is left unconsumed for the caller.
func (p *parser) parseNodes() ([]Node, error) {
	var nodes []Node
	for p.pos < len(p.src) {
		if open, marker, ok := p.blockTag(p.pos); ok {
			if p.src[marker] == '/' {
				break
			}
			p.pos = marker + 1
			n, err := p.parseBlock(open, p.src[marker])
			if err != nil {
				return nil, err
			}
			if n != nil {
				nodes = append(nodes, n)
			}
			continue
		}

		if end := p.scanText(p.pos); end > p.pos {
			nodes = append(nodes, &Text{Span: Span{
				Buffer: SourceBuffer,
				Offset: p.pos,
				Length: end - p.pos,
			}})
			p.pos = end
			continue
		}

		n, err := p.parseValueTag()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// parseBlock dispatches on a block marker. The set-delimiter tag yields
// no node.
func (p *parser) parseBlock(open int, marker byte) (Node, error) {
	switch marker {
	case '#', '^':
		return p.parseSection(open, marker == '^')
	case '!':
		return p.parseComment(open)
	case '=':
		return nil, p.parseSetDelims(open)
	default:
		return nil, newParseError(p.src, open, "unexpected tag marker %q", marker)
	}
}

// parseSection parses the identifier, the body and the matching close tag.
func (p *parser) parseSection(open int, inverted bool) (Node, error) {
	id, err := p.parseTagID(open, "")
	if err != nil {
		return nil, err
	}

	body, err := p.parseNodes()
	if err != nil {
		return nil, err
	}

	closeOpen, marker, ok := p.blockTag(p.pos)
	if !ok || p.src[marker] != '/' {
		return nil, newParseError(p.src, open, "unclosed section %q", id)
	}
	p.pos = marker + 1
	closing, err := p.parseTagID(closeOpen, "")
	if err != nil {
		return nil, err
	}
	if closing != id {
		return nil, newParseError(p.src, closeOpen, "section %q closed by %q", id, closing)
	}

	return &Section{ID: id, Inverted: inverted, Nodes: body}, nil
}

// parseComment skips to the first close delimiter.
func (p *parser) parseComment(open int) (Node, error) {
	idx := bytes.Index(p.src[p.pos:], []byte(p.delims.Close))
	if idx < 0 {
		return nil, newParseError(p.src, open, "unterminated comment, expected %q", p.delims.Close)
	}
	p.pos += idx + len(p.delims.Close)
	return &Comment{}, nil
}

// parseSetDelims reads "open close=" followed by the current close
// delimiter and installs the new pair.
func (p *parser) parseSetDelims(open int) error {
	p.pos = p.skipSpace(p.pos)
	begin := p.pos
	for p.pos < len(p.src) && !isSpace(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == begin {
		return newParseError(p.src, open, "set delimiter tag is missing the open delimiter")
	}
	newOpen := string(p.src[begin:p.pos])

	p.pos = p.skipSpace(p.pos)
	begin = p.pos
	for p.pos < len(p.src) && !isSpace(p.src[p.pos]) && p.src[p.pos] != '=' {
		p.pos++
	}
	if p.pos == begin {
		return newParseError(p.src, open, "set delimiter tag is missing the close delimiter")
	}
	newClose := string(p.src[begin:p.pos])

	p.pos = p.skipSpace(p.pos)
	if !p.hasPrefixAt(p.pos, "=") {
		return newParseError(p.src, open, "set delimiter tag expects %q", "=")
	}
	p.pos = p.skipSpace(p.pos + 1)
	if !p.hasPrefixAt(p.pos, p.delims.Close) {
		return newParseError(p.src, open, "unterminated set delimiter tag, expected %q", p.delims.Close)
	}
	p.pos += len(p.delims.Close)

	p.delims = Delimiters{Open: newOpen, Close: newClose}
	return nil
}

// parseValueTag parses a partial or variable tag starting at the open
// delimiter at p.pos.
func (p *parser) parseValueTag() (Node, error) {
	open := p.pos
	p.pos = p.skipSpace(open + len(p.delims.Open))
	if p.pos >= len(p.src) {
		return nil, newParseError(p.src, open, "unterminated tag, expected %q", p.delims.Close)
	}

	switch p.src[p.pos] {
	case '>':
		p.pos++
		id, err := p.parseTagID(open, "")
		if err != nil {
			return nil, err
		}
		return &Partial{ID: id}, nil
	case '&':
		p.pos++
		id, err := p.parseTagID(open, "")
		if err != nil {
			return nil, err
		}
		return &Variable{ID: id}, nil
	case '{':
		p.pos++
		id, err := p.parseTagID(open, "}")
		if err != nil {
			return nil, err
		}
		return &Variable{ID: id}, nil
	default:
		id, err := p.parseTagID(open, "")
		if err != nil {
			return nil, err
		}
		return &Variable{ID: id, Escape: true}, nil
	}
}

// parseTagID reads an identifier followed by suffix and the close
// delimiter, with optional whitespace around each. Trailing whitespace is
// not part of the identifier.
func (p *parser) parseTagID(open int, suffix string) (string, error) {
	p.pos = p.skipSpace(p.pos)
	begin := p.pos
	for i := begin; i < len(p.src); i++ {
		end, ok := p.matchTagEnd(i, suffix)
		if !ok {
			// Every position in a whitespace run gives the same answer.
			if isSpace(p.src[i]) {
				i = p.skipSpace(i) - 1
			}
			continue
		}
		if i == begin {
			return "", newParseError(p.src, begin, "missing identifier")
		}
		p.pos = end
		return string(p.src[begin:i]), nil
	}
	return "", newParseError(p.src, open, "unterminated tag, expected %q", suffix+p.delims.Close)
}

// matchTagEnd reports whether suffix and the close delimiter follow i,
// and returns the offset just past the close delimiter.
func (p *parser) matchTagEnd(i int, suffix string) (int, bool) {
	k := p.skipSpace(i)
	if suffix != "" {
		if !p.hasPrefixAt(k, suffix) {
			return 0, false
		}
		k = p.skipSpace(k + len(suffix))
	}
	if !p.hasPrefixAt(k, p.delims.Close) {
		return 0, false
	}
	return k + len(p.delims.Close), true
}

// scanText returns the end of the literal text starting at start. Text
// stops at the next open delimiter, or before the whitespace leading up
// to a block tag.
func (p *parser) scanText(start int) int {
	i := start
	for i < len(p.src) {
		j := p.skipSpace(i)
		if p.hasPrefixAt(j, p.delims.Open) {
			if j == i {
				return i
			}
			if _, _, ok := p.blockTag(i); ok {
				return i
			}
			i = j
			continue
		}
		if j > i {
			i = j
		} else {
			i++
		}
	}
	return i
}

// blockTag reports whether optional whitespace, the open delimiter,
// optional whitespace and a block marker follow i. It returns the offsets
// of the open delimiter and the marker.
func (p *parser) blockTag(i int) (open, marker int, ok bool) {
	open = p.skipSpace(i)
	if !p.hasPrefixAt(open, p.delims.Open) {
		return 0, 0, false
	}
	marker = p.skipSpace(open + len(p.delims.Open))
	if marker >= len(p.src) || strings.IndexByte(blockMarkers, p.src[marker]) < 0 {
		return 0, 0, false
	}
	return open, marker, true
}

func (p *parser) skipSpace(i int) int {
	for i < len(p.src) && isSpace(p.src[i]) {
		i++
	}
	return i
}

func (p *parser) hasPrefixAt(i int, s string) bool {
	return i <= len(p.src) && len(p.src)-i >= len(s) && string(p.src[i:i+len(s)]) == s
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
