package jsonstream

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/arnodel/httpstream/internal/scanner"
	"github.com/arnodel/httpstream/jsonstream/token"
)

// A Lexer turns a byte stream into a stream of JSON tokens.  The
// underlying reader may deliver its bytes in fragments of any size:
// a token boundary falling between two reads, including inside an
// escape sequence or a literal like "true", is handled transparently
// and only the partially consumed current token is ever buffered.
//
// A Lexer is good for a single document stream and must not be used
// from more than one goroutine.
type Lexer struct {
	scanr    *scanner.Scanner
	tokenPos scanner.Pos
	err      error
}

// NewLexer sets up a new Lexer instance to read from the given input.
func NewLexer(in io.Reader) *Lexer {
	return &Lexer{scanr: scanner.NewScanner(in)}
}

// NewLexerSize is like NewLexer with a caller-chosen read buffer size.
func NewLexerSize(in io.Reader, size int) *Lexer {
	return &Lexer{scanr: scanner.NewScannerSize(in, size)}
}

// Next returns the next token.  It returns io.EOF once the input is
// cleanly exhausted, and a *LexicalError if the input is not valid
// JSON at the lexical level (in which case all further calls return
// the same error).
func (l *Lexer) Next() (token.Token, error) {
	if l.err != nil {
		return nil, l.err
	}
	tok, err := l.next()
	if err != nil && err != io.EOF {
		l.err = err
	}
	return tok, err
}

// TokenPos returns the starting position of the most recent token.
func (l *Lexer) TokenPos() Pos {
	return Pos(l.tokenPos)
}

func (l *Lexer) next() (token.Token, error) {
	b, err := l.scanr.SkipSpaceAndPeek()
	if err != nil {
		return nil, err
	}
	l.tokenPos = l.scanr.CurrentPos()
	if b == scanner.EOF {
		return nil, io.EOF
	}
	switch b {
	case '{':
		l.scanr.Read()
		return objectOpenInstance, nil
	case '}':
		l.scanr.Read()
		return objectCloseInstance, nil
	case '[':
		l.scanr.Read()
		return arrayOpenInstance, nil
	case ']':
		l.scanr.Read()
		return arrayCloseInstance, nil
	case ':':
		l.scanr.Read()
		return colonInstance, nil
	case ',':
		l.scanr.Read()
		return commaInstance, nil
	case '"':
		return l.lexString()
	case 't':
		if err := l.expectBytes(trueBytes); err != nil {
			return nil, err
		}
		return token.TrueScalar, nil
	case 'f':
		if err := l.expectBytes(falseBytes); err != nil {
			return nil, err
		}
		return token.FalseScalar, nil
	case 'n':
		if err := l.expectBytes(nullBytes); err != nil {
			return nil, err
		}
		return token.NullScalar, nil
	default:
		if b == '-' || b >= '0' && b <= '9' {
			return l.lexNumber()
		}
		return nil, l.unexpectedByte("unexpected character")
	}
}

// lexString reads a string token, recording the raw bytes and decoding
// escape sequences as it goes.  UTF-16 surrogate pairs in \u escapes
// are combined into a single code point; an unpaired surrogate is a
// lexical error.
func (l *Lexer) lexString() (*token.Scalar, error) {
	l.scanr.StartToken()
	if err := l.expectByte('"'); err != nil {
		return nil, err
	}
	var text strings.Builder
	for {
		b, err := l.scanr.Read()
		if err != nil {
			return nil, err
		}
		switch b {
		case scanner.EOF:
			l.scanr.Back()
			return nil, l.unexpectedByte("unterminated string")
		case '"':
			raw := l.scanr.EndToken()
			return token.NewString(raw, text.String()), nil
		case '\\':
			r, err := l.lexEscape()
			if err != nil {
				return nil, err
			}
			text.WriteRune(r)
		default:
			if scanner.IsCtrl(b) {
				l.scanr.Back()
				return nil, l.unexpectedByte("invalid control character in string")
			}
			text.WriteByte(b)
		}
	}
}

// lexEscape reads the escape sequence following a backslash and
// returns the code point it denotes.
func (l *Lexer) lexEscape() (rune, error) {
	b, err := l.scanr.Read()
	if err != nil {
		return 0, err
	}
	switch b {
	case '"', '\\', '/':
		return rune(b), nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		r, err := l.lexHex4()
		if err != nil {
			return 0, err
		}
		if !utf16.IsSurrogate(r) {
			return r, nil
		}
		// A high surrogate must be followed by a \u escape holding the
		// low surrogate; anything else cannot be combined into a code
		// point.
		b, err := l.scanr.Read()
		if err != nil {
			return 0, err
		}
		if b != '\\' {
			l.scanr.Back()
			return 0, l.unexpectedByte("unpaired surrogate in string")
		}
		b, err = l.scanr.Read()
		if err != nil {
			return 0, err
		}
		if b != 'u' {
			l.scanr.Back()
			return 0, l.unexpectedByte("unpaired surrogate in string")
		}
		r2, err := l.lexHex4()
		if err != nil {
			return 0, err
		}
		combined := utf16.DecodeRune(r, r2)
		if combined == utf8.RuneError {
			return 0, &LexicalError{
				Pos: Pos(l.scanr.CurrentPos()),
				Msg: "unpaired surrogate in string",
			}
		}
		return combined, nil
	default:
		l.scanr.Back()
		return 0, l.unexpectedByte("invalid escape character")
	}
}

func (l *Lexer) lexHex4() (rune, error) {
	var n rune
	for i := 0; i < 4; i++ {
		b, err := l.scanr.Read()
		if err != nil {
			return 0, err
		}
		switch {
		case b >= '0' && b <= '9':
			n = n<<4 | rune(b-'0')
		case b >= 'a' && b <= 'f':
			n = n<<4 | rune(b-'a'+10)
		case b >= 'A' && b <= 'F':
			n = n<<4 | rune(b-'A'+10)
		default:
			l.scanr.Back()
			return 0, l.unexpectedByte("expected hex digit, got")
		}
	}
	return n, nil
}

// lexNumber reads a number token following the JSON grammar: optional
// leading '-', integer part, optional fraction, optional exponent.
// The lexical form is kept intact on the token.
func (l *Lexer) lexNumber() (*token.Scalar, error) {
	l.scanr.StartToken()
	var n int
	b, err := l.scanr.Read()
	if err != nil {
		return nil, err
	}

	// Sign part
	if b == '-' {
		b, err = l.scanr.Read()
		if err != nil {
			return nil, err
		}
	}

	// Integer part
	if b == '0' {
		b, err = l.scanr.Read()
		if err != nil {
			return nil, err
		}
	} else if b >= '1' && b <= '9' {
		b, _, err = l.readDigits()
		if err != nil {
			return nil, err
		}
	} else {
		l.scanr.Back()
		return nil, l.unexpectedByte("expected digit, got")
	}

	// Fraction part
	if b == '.' {
		b, n, err = l.readDigits()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			l.scanr.Back()
			return nil, l.unexpectedByte("expected digit, got")
		}
	}

	// Exponent part
	if b == 'e' || b == 'E' {
		b, err = l.scanr.Peek()
		if err != nil {
			return nil, err
		}
		if b == '-' || b == '+' {
			l.scanr.Read()
		}
		_, n, err = l.readDigits()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			l.scanr.Back()
			return nil, l.unexpectedByte("expected digit, got")
		}
	}
	l.scanr.Back()
	return token.NewScalar(token.Number, l.scanr.EndToken()), nil
}

func (l *Lexer) readDigits() (byte, int, error) {
	var n int
	for {
		b, err := l.scanr.Read()
		if err != nil {
			return 0, n, err
		}
		if !scanner.IsDigit(b) {
			return b, n, nil
		}
		n++
	}
}

func (l *Lexer) expectByte(xb byte) error {
	b, err := l.scanr.Read()
	if err != nil {
		return err
	}
	if b != xb {
		l.scanr.Back()
		return l.unexpectedByte("expected %q, got", xb)
	}
	return nil
}

func (l *Lexer) expectBytes(expected []byte) error {
	for _, xb := range expected {
		if err := l.expectByte(xb); err != nil {
			return err
		}
	}
	return nil
}

// unexpectedByte builds a *LexicalError at the current position,
// consuming the offending byte so it can be quoted in the message.
func (l *Lexer) unexpectedByte(msg string, args ...interface{}) error {
	pos := l.scanr.CurrentPos()
	b, err := l.scanr.Read()
	if err != nil {
		return err
	}
	if b == scanner.EOF {
		return &LexicalError{
			Pos: Pos(pos),
			Msg: fmt.Sprintf(msg, args...) + ": unexpected end of input",
		}
	}
	return &LexicalError{
		Pos: Pos(pos),
		Msg: fmt.Sprintf("%s: %q", fmt.Sprintf(msg, args...), b),
	}
}

var (
	trueBytes  = []byte("true")
	falseBytes = []byte("false")
	nullBytes  = []byte("null")
)

var (
	objectOpenInstance  = &token.ObjectOpen{}
	objectCloseInstance = &token.ObjectClose{}
	arrayOpenInstance   = &token.ArrayOpen{}
	arrayCloseInstance  = &token.ArrayClose{}
	colonInstance       = &token.Colon{}
	commaInstance       = &token.Comma{}
)
