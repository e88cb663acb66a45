package jsonstream

import "io"

// Assembled drains the parser's event stream and reconstructs the
// single value at the document root.  Repeated object keys keep the
// last value seen.  An empty event stream is reported as
// ErrEmptyDocument; any lexer or parser error is propagated unchanged.
func Assembled(p *Parser) (Value, error) {
	var root Value
	seen := false
	for {
		ev, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		root = merged(root, ev.Path, ev.Value)
		seen = true
	}
	if !seen {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

// merged returns obj with value merged at the position described by
// path, creating intermediate containers along the way.  A container
// of the wrong kind at an intermediate position is replaced, so a
// non-conforming event source cannot corrupt the result, only
// overwrite it.
func merged(obj Value, path Path, value Value) Value {
	if len(path) == 0 {
		return value
	}
	seg := path[0]
	if seg.IsKey() {
		o, ok := obj.(*Object)
		if !ok {
			o = NewObject()
		}
		prev, _ := o.Get(seg.Key())
		o.Set(seg.Key(), merged(prev, path[1:], value))
		return o
	}
	a, ok := obj.(*Array)
	if !ok {
		a = NewArray()
	}
	var prev Value
	if seg.Index() < a.Len() {
		prev = a.At(seg.Index())
	}
	a.SetAt(seg.Index(), merged(prev, path[1:], value))
	return a
}

// A Group is one element of the stream produced by a Grouper: the
// fully reassembled value found under one path prefix.
type Group struct {
	Prefix Path
	Value  Value
}

// A Grouper re-chunks an event stream into sub-documents cut at a
// fixed path depth: one group per distinct value of the first depth
// path segments, in first-seen order.  Each group's value is
// assembled with the same logic as Assembled, and at most one group's
// subtree is held in memory at a time, so a large top-level array can
// be consumed one element at a time with NewGrouper(p, 1).
//
// Depth 0 yields a single group holding the whole document.  An event
// whose path is shorter than the grouping depth forms a group under
// the empty prefix.
type Grouper struct {
	p       *Parser
	depth   int
	pending *Event
	err     error
}

// NewGrouper returns a grouper cutting the parser's event stream at
// the given depth.
func NewGrouper(p *Parser, depth int) *Grouper {
	if depth < 0 {
		panic("negative grouping depth")
	}
	return &Grouper{p: p, depth: depth}
}

// Next returns the next group.  It returns io.EOF once the event
// stream is exhausted and propagates stream errors unchanged; errors
// are fatal and repeated on subsequent calls.
func (g *Grouper) Next() (Group, error) {
	if g.err != nil {
		return Group{}, g.err
	}
	gr, err := g.next()
	if err != nil {
		g.err = err
	}
	return gr, err
}

func (g *Grouper) next() (Group, error) {
	first, err := g.nextEvent()
	if err != nil {
		return Group{}, err
	}
	prefix := groupPrefix(first.Path, g.depth)
	value := merged(nil, first.Path[len(prefix):], first.Value)
	for {
		ev, err := g.nextEvent()
		if err == io.EOF {
			return Group{Prefix: prefix, Value: value}, nil
		}
		if err != nil {
			return Group{}, err
		}
		if !groupPrefix(ev.Path, g.depth).Equal(prefix) {
			// The prefix has moved on, so the group's subtree is
			// closed: the parser's array indices only ever increase
			// and an object container is never re-entered.
			g.pending = &ev
			return Group{Prefix: prefix, Value: value}, nil
		}
		value = merged(value, ev.Path[len(prefix):], ev.Value)
	}
}

func (g *Grouper) nextEvent() (Event, error) {
	if g.pending != nil {
		ev := *g.pending
		g.pending = nil
		return ev, nil
	}
	return g.p.Next()
}

func groupPrefix(path Path, depth int) Path {
	if len(path) < depth {
		// A scalar above the grouping depth groups under the empty
		// prefix.
		return nil
	}
	return path[:depth].Clone()
}
