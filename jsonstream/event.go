package jsonstream

import (
	"slices"
	"strconv"
	"strings"
)

// A Segment is one step in a Path: either an object key or an array
// index.
type Segment struct {
	key   string
	index int
	isKey bool
}

// Key returns an object-key path segment.
func Key(k string) Segment {
	return Segment{key: k, isKey: true}
}

// Index returns an array-index path segment.
func Index(i int) Segment {
	if i < 0 {
		panic("negative array index")
	}
	return Segment{index: i}
}

// IsKey reports whether the segment is an object key.
func (s Segment) IsKey() bool { return s.isKey }

// Key returns the object key.  Panics on an index segment.
func (s Segment) Key() string {
	if !s.isKey {
		panic("not a key segment")
	}
	return s.key
}

// Index returns the array index.  Panics on a key segment.
func (s Segment) Index() int {
	if s.isKey {
		panic("not an index segment")
	}
	return s.index
}

func (s Segment) String() string {
	if s.isKey {
		if isPlainKey(s.key) {
			return "." + s.key
		}
		return "[" + strconv.Quote(s.key) + "]"
	}
	return "[" + strconv.Itoa(s.index) + "]"
}

func isPlainKey(k string) bool {
	if k == "" {
		return false
	}
	for i, c := range k {
		alpha := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
		if !alpha && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// A Path locates a value within a JSON document, object keys and array
// indices in nesting order from the root.  The root itself has an
// empty path.  Paths attached to events are snapshots owned by the
// event: the parser never aliases its live stack into them.
type Path []Segment

func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	return slices.Clone(p)
}

// Equal reports whether two paths have the same segments.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i, s := range p {
		if s != q[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether q is a leading sub-path of p.
func (p Path) HasPrefix(q Path) bool {
	return len(p) >= len(q) && p[:len(q)].Equal(q)
}

// An Event is one element of the stream produced by the Parser: a
// value tagged with its full path.  There is one event per scalar in
// document order.  The only non-scalar values ever carried by an event
// are the empty *Object and empty *Array emitted when a container
// closes with no children, so that "{}" and "[]" survive reassembly.
type Event struct {
	Path  Path
	Value Value
}
