package jsonstream

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument is returned by Assembled when the event stream ends
// before a root value has been produced.
var ErrEmptyDocument = errors.New("empty document: no root value")

// Pos locates a byte in the input.  Offset is an absolute byte offset
// from the start of the document; Line and Col count from 0.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

func (p Pos) String() string {
	return fmt.Sprintf("L%d,C%d", p.Line+1, p.Col+1)
}

// A LexicalError is returned when the input cannot be tokenised: an
// invalid escape, an unterminated string, a malformed number or
// literal, or an unexpected character.  It is fatal to the parse.
type LexicalError struct {
	Pos Pos
	Msg string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Msg)
}

// A StructuralError is returned when a well-formed token appears in a
// position where the JSON grammar forbids it, or when the input ends
// inside an unclosed container.  It is fatal to the parse.
type StructuralError struct {
	Pos  Pos
	Path Path
	Msg  string
}

func (e *StructuralError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("invalid JSON at %s (near %s): %s", e.Pos, e.Path, e.Msg)
	}
	return fmt.Sprintf("invalid JSON at %s: %s", e.Pos, e.Msg)
}
