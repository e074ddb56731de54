package template

import (
	"errors"
	"fmt"
)

// Sentinel errors for template operations.
var (
	// ErrParse is returned when the template source cannot be parsed.
	ErrParse = errors.New("template parse error")

	// ErrCapacity is returned when a relocation buffer is smaller than the
	// total text it must hold.
	ErrCapacity = errors.New("insufficient text capacity")

	// ErrCompacted is returned when text has already been moved into an
	// owned buffer.
	ErrCompacted = errors.New("template already compacted")
)

// ParseError describes where and why parsing failed.
type ParseError struct {
	Offset  int    // Byte offset into the source
	Line    int    // 1-based line
	Column  int    // 1-based column, in bytes
	Message string // What was expected or found
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%v at %d:%d: %s", ErrParse, e.Line, e.Column, e.Message)
}

// Unwrap returns ErrParse for errors.Is support.
func (e *ParseError) Unwrap() error {
	return ErrParse
}

// newParseError builds a ParseError with line and column resolved from offset.
func newParseError(src []byte, offset int, format string, args ...any) *ParseError {
	if offset > len(src) {
		offset = len(src)
	}
	line, col := 1, 1
	for _, b := range src[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return &ParseError{
		Offset:  offset,
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
	}
}
