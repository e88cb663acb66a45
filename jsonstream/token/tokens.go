package token

import (
	"fmt"
	"strconv"
	"strings"
)

// A Token is an item produced by the lexer while reading a JSON
// document.  For example, the JSON value
//
//	{"id": 123, "tags": ["important", "new"]}
//
// is lexed as the token sequence (in pseudocode for clarity):
//
//	{            -> ObjectOpen
//	"id"         -> Scalar("id", String)
//	:            -> Colon
//	123          -> Scalar(123, Number)
//	,            -> Comma
//	"tags"       -> Scalar("tags", String)
//	:            -> Colon
//	[            -> ArrayOpen
//	"important"  -> Scalar("important", String)
//	,            -> Comma
//	"new"        -> Scalar("new", String)
//	]            -> ArrayClose
//	}            -> ObjectClose
//
// Tokens are pure data: deciding whether a token is allowed where it
// appears is the parser's business, not the lexer's.
type Token interface {
	fmt.Stringer
}

// ObjectOpen represents '{'.
type ObjectOpen struct{}

func (o *ObjectOpen) String() string { return "'{'" }

// ObjectClose represents '}'.
type ObjectClose struct{}

func (o *ObjectClose) String() string { return "'}'" }

// ArrayOpen represents '['.
type ArrayOpen struct{}

func (a *ArrayOpen) String() string { return "'['" }

// ArrayClose represents ']'.
type ArrayClose struct{}

func (a *ArrayClose) String() string { return "']'" }

// Colon represents ':'.
type Colon struct{}

func (c *Colon) String() string { return "':'" }

// Comma represents ','.
type Comma struct{}

func (c *Comma) String() string { return "','" }

var (
	_ Token = &ObjectOpen{}
	_ Token = &ObjectClose{}
	_ Token = &ArrayOpen{}
	_ Token = &ArrayClose{}
	_ Token = &Colon{}
	_ Token = &Comma{}
	_ Token = &Scalar{}
)

// Scalar is the type used to represent all scalar JSON values, i.e.
// - strings
// - numbers
// - booleans
// - null
//
// Bytes holds the literal representation of the value as found in the
// input, e.g. the string foo is represented as []byte("\"foo\"") and
// the number 123.5 as []byte("123.5").  For strings, Text holds the
// decoded value with all escape sequences resolved; for other types it
// equals the literal representation.
type Scalar struct {
	Bytes []byte
	Text  string
	Type  ScalarType
}

func NewScalar(tp ScalarType, bytes []byte) *Scalar {
	return &Scalar{Bytes: bytes, Text: string(bytes), Type: tp}
}

// NewString returns a string scalar from its literal bytes and decoded
// text.
func NewString(bytes []byte, text string) *Scalar {
	return &Scalar{Bytes: bytes, Text: text, Type: String}
}

func (s *Scalar) String() string {
	return fmt.Sprintf("Scalar(%s)", s.Bytes)
}

// Bool returns the value of a boolean scalar.  Panics on other types.
func (s *Scalar) Bool() bool {
	if s.Type != Boolean {
		panic("not a boolean scalar")
	}
	return s.Bytes[0] == 't'
}

// Float64 returns the value of a number scalar as a float64.
func (s *Scalar) Float64() (float64, error) {
	if s.Type != Number {
		return 0, fmt.Errorf("not a number scalar: %s", s)
	}
	return strconv.ParseFloat(string(s.Bytes), 64)
}

// Int64 returns the exact value of a number scalar when its literal
// form has no fraction or exponent part and it fits in an int64.
func (s *Scalar) Int64() (int64, bool) {
	if s.Type != Number || !s.IsInt() {
		return 0, false
	}
	n, err := strconv.ParseInt(string(s.Bytes), 10, 64)
	return n, err == nil
}

// IsInt reports whether a number scalar's literal form has no fraction
// or exponent part.
func (s *Scalar) IsInt() bool {
	return s.Type == Number && !strings.ContainsAny(string(s.Bytes), ".eE")
}

func (s *Scalar) Equal(t *Scalar) bool {
	if s == nil || t == nil {
		return s == t
	}
	if s.Type != t.Type {
		return false
	}
	switch s.Type {
	case Null:
		return true
	case Boolean:
		// The bytes are "true" or "false", so comparing the first one
		// is enough
		return s.Bytes[0] == t.Bytes[0]
	case String:
		return s.Text == t.Text
	case Number:
		if string(s.Bytes) == string(t.Bytes) {
			return true
		}
		x, err1 := s.Float64()
		y, err2 := t.Float64()
		return err1 == nil && err2 == nil && x == y
	default:
		panic("invalid scalar type")
	}
}

// ScalarType encodes the four possible JSON scalar types.
type ScalarType uint8

const (
	Null    ScalarType = iota // the type of JSON null
	Boolean                   // a JSON boolean
	Number                    // a JSON number
	String                    // a JSON string
)

var (
	trueBytes  = []byte("true")
	falseBytes = []byte("false")
	nullBytes  = []byte("null")
)

var (
	TrueScalar  = NewScalar(Boolean, trueBytes)
	FalseScalar = NewScalar(Boolean, falseBytes)
	NullScalar  = NewScalar(Null, nullBytes)
)
