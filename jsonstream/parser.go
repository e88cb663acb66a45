package jsonstream

import (
	"fmt"
	"io"

	"github.com/arnodel/httpstream/jsonstream/token"
)

// A Parser turns a JSON byte stream into a stream of path-tagged
// events, one per scalar in document order.  It is a pushdown
// automaton over the lexer's tokens: containers push and pop stack
// frames, scalars are emitted with a snapshot of the current path.
//
// A Parser parses a single document: once the root value is complete
// any further input is an error.  Parser state is not reusable and
// must not be shared between goroutines; run one parser per document.
type Parser struct {
	lex    *Lexer
	state  parserState
	stack  []frame
	err    error
	events int
}

// NewParser returns a parser reading a document from in.
func NewParser(in io.Reader) *Parser {
	return NewParserLexer(NewLexer(in))
}

// NewParserLexer returns a parser consuming tokens from an existing
// lexer.
func NewParserLexer(lex *Lexer) *Parser {
	return &Parser{lex: lex, state: expectValue}
}

type parserState uint8

const (
	// A value is expected: at the top level, after a colon, or after a
	// comma in an array.
	expectValue parserState = iota
	// Just after '{': a key or '}'.
	expectKeyOrClose
	// After a comma in an object: a key only.
	expectKey
	// After an object key.
	expectColon
	// After a value in an object.
	expectObjectCommaOrClose
	// Just after '[': a value or ']'.
	expectArrayValueOrClose
	// After a value in an array.
	expectArrayCommaOrClose
	// The root value is complete.
	parserDone
	// A structural error occurred; the parser is stuck.
	parserFailed
)

// A frame records one open container: its kind, and the position of
// the child currently being parsed (pending key for objects, next
// index for arrays).
type frame struct {
	isArray bool
	key     string
	hasKey  bool
	index   int
}

// Next returns the next event.  It returns io.EOF once the document is
// fully consumed, and otherwise propagates the lexer's errors or
// reports a *StructuralError; all errors are fatal and repeated on
// subsequent calls.  Each returned event owns its path: it remains
// valid after the parser moves on.
func (p *Parser) Next() (Event, error) {
	if p.err != nil {
		return Event{}, p.err
	}
	ev, err := p.next()
	if err != nil && err != io.EOF {
		p.state = parserFailed
		p.err = err
	}
	return ev, err
}

func (p *Parser) next() (Event, error) {
	for {
		tok, err := p.lex.Next()
		if err == io.EOF {
			switch {
			case p.state == parserDone:
				return Event{}, io.EOF
			case p.state == expectValue && len(p.stack) == 0 && p.events == 0:
				// Empty input: an empty event sequence, not an error.
				// Assembled turns this into ErrEmptyDocument.
				return Event{}, io.EOF
			default:
				return Event{}, p.structuralError("unexpected end of input")
			}
		}
		if err != nil {
			return Event{}, err
		}
		ev, emitted, err := p.feed(tok)
		if err != nil {
			return Event{}, err
		}
		if emitted {
			p.events++
			return ev, nil
		}
	}
}

// feed advances the automaton by one token, possibly producing an
// event.
func (p *Parser) feed(tok token.Token) (Event, bool, error) {
	switch p.state {
	case expectValue:
		return p.feedValue(tok)

	case expectKeyOrClose:
		switch t := tok.(type) {
		case *token.Scalar:
			return Event{}, false, p.feedKey(t)
		case *token.ObjectClose:
			// The object closes with no children at all: emit the
			// empty container marker at the object's own path.
			ev := Event{Path: p.containerPath(), Value: NewObject()}
			p.popFrame()
			return ev, true, nil
		default:
			return Event{}, false, p.structuralError("expected key or '}', got %s", tok)
		}

	case expectKey:
		t, ok := tok.(*token.Scalar)
		if !ok {
			return Event{}, false, p.structuralError("expected key, got %s", tok)
		}
		return Event{}, false, p.feedKey(t)

	case expectColon:
		if _, ok := tok.(*token.Colon); !ok {
			return Event{}, false, p.structuralError("expected ':', got %s", tok)
		}
		p.state = expectValue
		return Event{}, false, nil

	case expectObjectCommaOrClose:
		switch tok.(type) {
		case *token.Comma:
			p.state = expectKey
			return Event{}, false, nil
		case *token.ObjectClose:
			p.popFrame()
			return Event{}, false, nil
		default:
			return Event{}, false, p.structuralError("expected ',' or '}', got %s", tok)
		}

	case expectArrayValueOrClose:
		if _, ok := tok.(*token.ArrayClose); ok {
			// Empty array.
			ev := Event{Path: p.containerPath(), Value: NewArray()}
			p.popFrame()
			return ev, true, nil
		}
		return p.feedValue(tok)

	case expectArrayCommaOrClose:
		switch tok.(type) {
		case *token.Comma:
			p.state = expectValue
			return Event{}, false, nil
		case *token.ArrayClose:
			p.popFrame()
			return Event{}, false, nil
		default:
			return Event{}, false, p.structuralError("expected ',' or ']', got %s", tok)
		}

	case parserDone:
		return Event{}, false, p.structuralError("unexpected %s after top-level value", tok)

	default:
		panic("parser used after error")
	}
}

// feedValue handles a token in a position where a value is legal.
func (p *Parser) feedValue(tok token.Token) (Event, bool, error) {
	switch t := tok.(type) {
	case *token.Scalar:
		ev := Event{Path: p.valuePath(), Value: scalarValue(t)}
		p.valueDone()
		return ev, true, nil
	case *token.ObjectOpen:
		p.stack = append(p.stack, frame{})
		p.state = expectKeyOrClose
		return Event{}, false, nil
	case *token.ArrayOpen:
		p.stack = append(p.stack, frame{isArray: true})
		p.state = expectArrayValueOrClose
		return Event{}, false, nil
	default:
		return Event{}, false, p.structuralError("expected value, got %s", tok)
	}
}

// feedKey handles a scalar in key position.
func (p *Parser) feedKey(t *token.Scalar) error {
	if t.Type != token.String {
		return p.structuralError("expected string key, got %s", t)
	}
	top := &p.stack[len(p.stack)-1]
	top.key = t.Text
	top.hasKey = true
	p.state = expectColon
	return nil
}

// valuePath returns the path of the value about to be emitted: one
// segment per stack frame, using the top frame's pending key or index.
// The returned path is a snapshot owned by the caller.
func (p *Parser) valuePath() Path {
	if len(p.stack) == 0 {
		return nil
	}
	path := make(Path, len(p.stack))
	for i, f := range p.stack {
		if f.isArray {
			path[i] = Index(f.index)
		} else {
			path[i] = Key(f.key)
		}
	}
	return path
}

// containerPath returns the path of the container at the top of the
// stack (its position within its parent).
func (p *Parser) containerPath() Path {
	return p.valuePath()[:len(p.stack)-1]
}

// valueDone records that a complete value (scalar or container) has
// been consumed at the current position and moves to the state that
// follows it.
func (p *Parser) valueDone() {
	if len(p.stack) == 0 {
		p.state = parserDone
		return
	}
	top := &p.stack[len(p.stack)-1]
	if top.isArray {
		top.index++
		p.state = expectArrayCommaOrClose
	} else {
		top.hasKey = false
		p.state = expectObjectCommaOrClose
	}
}

// popFrame closes the container at the top of the stack and completes
// it as a value in its parent.
func (p *Parser) popFrame() {
	p.stack = p.stack[:len(p.stack)-1]
	p.valueDone()
}

func (p *Parser) structuralError(msg string, args ...interface{}) error {
	return &StructuralError{
		Pos:  p.lex.TokenPos(),
		Path: p.valuePath(),
		Msg:  fmt.Sprintf(msg, args...),
	}
}
