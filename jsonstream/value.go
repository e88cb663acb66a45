package jsonstream

import (
	"strconv"
	"strings"

	"github.com/arnodel/httpstream/jsonstream/token"
)

// A Value is a JSON value: one of the scalar types String, Number,
// Bool and Null, or one of the container types *Object and *Array.
// Containers returned by Assembled and Grouped are freshly allocated
// and hold no references into the event stream that produced them.
type Value interface {
	value()

	// ToGo converts to the value's natural Go representation: string,
	// float64 or int64, bool, nil, map[string]any or []any.  Note that
	// converting an *Object loses member order.
	ToGo() any
}

// String is a JSON string.
type String string

func (s String) value()    {}
func (s String) ToGo() any { return string(s) }

// Bool is a JSON boolean.
type Bool bool

func (b Bool) value()    {}
func (b Bool) ToGo() any { return bool(b) }

// Null is the JSON null value.
type Null struct{}

func (n Null) value()    {}
func (n Null) ToGo() any { return nil }

// Number is a JSON number.  The exact lexical form from the input is
// preserved, so integers without fraction or exponent part are exact
// up to the int64 range while anything else is available at float64
// precision.
type Number struct {
	lit string
}

func NewNumber(lit string) Number {
	return Number{lit: lit}
}

func (n Number) value() {}

// Literal returns the number as it appeared in the input.
func (n Number) Literal() string { return n.lit }

// IsInt reports whether the literal form has no fraction or exponent.
func (n Number) IsInt() bool {
	return !strings.ContainsAny(n.lit, ".eE")
}

// Int64 returns the exact integer value, if there is one.
func (n Number) Int64() (int64, bool) {
	if !n.IsInt() {
		return 0, false
	}
	i, err := strconv.ParseInt(n.lit, 10, 64)
	return i, err == nil
}

func (n Number) Float64() float64 {
	f, _ := strconv.ParseFloat(n.lit, 64)
	return f
}

func (n Number) ToGo() any {
	if i, ok := n.Int64(); ok {
		return i
	}
	return n.Float64()
}

// Object is a JSON object.  Member order is that of the document;
// setting an existing key keeps its original position (last write
// wins for the value).
type Object struct {
	members []member
}

type member struct {
	key string
	val Value
}

func NewObject() *Object {
	return &Object{}
}

func (o *Object) value() {}

func (o *Object) Len() int {
	return len(o.members)
}

// Get returns the value for key and whether it is present.
func (o *Object) Get(key string) (Value, bool) {
	for _, m := range o.members {
		if m.key == key {
			return m.val, true
		}
	}
	return nil, false
}

// Set adds or replaces the value for key.
func (o *Object) Set(key string, val Value) {
	for i, m := range o.members {
		if m.key == key {
			o.members[i].val = val
			return
		}
	}
	o.members = append(o.members, member{key: key, val: val})
}

// At returns the i-th member in document order.
func (o *Object) At(i int) (string, Value) {
	m := o.members[i]
	return m.key, m.val
}

// Keys returns the member keys in document order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.key
	}
	return keys
}

func (o *Object) ToGo() any {
	out := make(map[string]any, len(o.members))
	for _, m := range o.members {
		out[m.key] = m.val.ToGo()
	}
	return out
}

// Array is a JSON array.
type Array struct {
	items []Value
}

func NewArray(items ...Value) *Array {
	return &Array{items: items}
}

func (a *Array) value() {}

func (a *Array) Len() int {
	return len(a.items)
}

func (a *Array) At(i int) Value {
	return a.items[i]
}

func (a *Array) Append(v Value) {
	a.items = append(a.items, v)
}

// SetAt sets the i-th item, growing the array with Null padding if
// needed.  Gaps cannot occur with events from a conforming parser but
// an out-of-order event source is tolerated.
func (a *Array) SetAt(i int, v Value) {
	for len(a.items) <= i {
		a.items = append(a.items, Null{})
	}
	a.items[i] = v
}

func (a *Array) ToGo() any {
	out := make([]any, len(a.items))
	for i, v := range a.items {
		out[i] = v.ToGo()
	}
	return out
}

// Equal reports deep equality of two values.  Numbers compare equal
// when their literal forms denote the same value.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Null:
		_, ok := b.(Null)
		return ok
	case Number:
		y, ok := b.(Number)
		if !ok {
			return false
		}
		if x.lit == y.lit {
			return true
		}
		return x.Float64() == y.Float64()
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i, m := range x.members {
			key, val := y.At(i)
			if key != m.key || !Equal(m.val, val) {
				return false
			}
		}
		return true
	case *Array:
		y, ok := b.(*Array)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i, v := range x.items {
			if !Equal(v, y.items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// scalarValue converts a lexer scalar token into a Value.
func scalarValue(s *token.Scalar) Value {
	switch s.Type {
	case token.String:
		return String(s.Text)
	case token.Number:
		return NewNumber(string(s.Bytes))
	case token.Boolean:
		return Bool(s.Bytes[0] == 't')
	default:
		return Null{}
	}
}
