// Package uri implements Uniform Resource Identifiers as described in
// RFC 3986, including reference resolution, together with the URI
// templates of RFC 6570.
//
// Unlike net/url, components are stored in decoded form and re-encoded
// on output, and the distinction between an absent component and an
// empty one is preserved, which matters for reference resolution.
package uri

import (
	"strconv"
	"strings"
)

// Authority is the authority component of a URI: a host plus optional
// port and user information.
//
//	authority = [ userinfo "@" ] host [ ":" port ]
type Authority struct {
	userInfo string
	hasUser  bool
	host     string
	port     int
	hasPort  bool
}

// ParseAuthority parses the authority component of a URI.  A trailing
// ":port" is only recognised when the port is made of digits, so IPv6
// literals such as "[::1]" are kept whole.
func ParseAuthority(s string) *Authority {
	a := &Authority{}
	at := strings.LastIndexByte(s, '@')
	if i := strings.LastIndexByte(s, ':'); i > at && i > strings.LastIndexByte(s, ']') {
		if p, err := strconv.Atoi(s[i+1:]); err == nil {
			a.port = p
			a.hasPort = true
			s = s[:i]
			at = strings.LastIndexByte(s, '@')
		}
	}
	if at >= 0 {
		a.userInfo = PercentDecode(s[:at])
		a.hasUser = true
		s = s[at+1:]
	}
	a.host = PercentDecode(s)
	return a
}

// UserInfo returns the user information subcomponent and whether it was
// present.
func (a *Authority) UserInfo() (string, bool) { return a.userInfo, a.hasUser }

// Host returns the host subcomponent in decoded form.
func (a *Authority) Host() string { return a.host }

// Port returns the port and whether it was present.
func (a *Authority) Port() (int, bool) { return a.port, a.hasPort }

// HostPort returns "host" or "host:port" depending on whether a port
// was present.
func (a *Authority) HostPort() string {
	if a.hasPort {
		return a.host + ":" + strconv.Itoa(a.port)
	}
	return a.host
}

func (a *Authority) String() string {
	var b strings.Builder
	if a.hasUser {
		b.WriteString(PercentEncode(a.userInfo, ""))
		b.WriteByte('@')
	}
	b.WriteString(a.host)
	if a.hasPort {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(a.port))
	}
	return b.String()
}

func (a *Authority) Equal(o *Authority) bool {
	if a == nil || o == nil {
		return a == o
	}
	return a.hasUser == o.hasUser && a.userInfo == o.userInfo &&
		a.host == o.host &&
		a.hasPort == o.hasPort && a.port == o.port
}

// Path is the path component of a URI, stored in decoded form.  The
// zero value is the empty path.
type Path struct {
	path string
}

// ParsePath parses a percent-encoded path.
func ParsePath(s string) Path {
	return Path{path: PercentDecode(s)}
}

// String returns the path in encoded form, leaving slashes alone.
func (p Path) String() string {
	return PercentEncode(p.path, "/")
}

func (p Path) IsEmpty() bool {
	return p.path == ""
}

// Segments splits the path on slashes.  The empty path has a single
// empty segment.
func (p Path) Segments() []string {
	return strings.Split(p.path, "/")
}

// RemoveDotSegments interprets "." and ".." segments, following the
// algorithm of RFC 3986 section 5.2.4.
func (p Path) RemoveDotSegments() Path {
	in := p.String()
	out := ""
	for in != "" {
		switch {
		case strings.HasPrefix(in, "../"):
			in = in[3:]
		case strings.HasPrefix(in, "./"):
			in = in[2:]
		case strings.HasPrefix(in, "/./"):
			in = in[2:]
		case in == "/.":
			in = "/"
		case strings.HasPrefix(in, "/../"):
			in = in[3:]
			out = dropLastSegment(out)
		case in == "/..":
			in = "/"
			out = dropLastSegment(out)
		case in == "." || in == "..":
			in = ""
		default:
			if strings.HasPrefix(in, "/") {
				in = in[1:]
				out += "/"
			}
			seg, rest, more := strings.Cut(in, "/")
			out += seg
			if more {
				in = "/" + rest
			} else {
				in = ""
			}
		}
	}
	return ParsePath(out)
}

func dropLastSegment(s string) string {
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[:i]
	}
	return ""
}

// QueryItem is a single "key=value" (or bare "key") item of a query.
type QueryItem struct {
	Key      string
	Value    string
	HasValue bool
}

// Query is the query component of a URI, an ordered list of items.
type Query struct {
	items []QueryItem
}

// ParseQuery parses a percent-encoded query string.
func ParseQuery(s string) *Query {
	q := &Query{}
	if s == "" {
		return q
	}
	for _, bit := range strings.Split(s, "&") {
		k, v, hasValue := strings.Cut(bit, "=")
		q.items = append(q.items, QueryItem{
			Key:      PercentDecode(k),
			Value:    PercentDecode(v),
			HasValue: hasValue,
		})
	}
	return q
}

// NewQuery returns a query made of the given items.
func NewQuery(items ...QueryItem) *Query {
	return &Query{items: items}
}

// Add appends a "key=value" item.
func (q *Query) Add(key, value string) {
	q.items = append(q.items, QueryItem{Key: key, Value: value, HasValue: true})
}

// Get returns the value of the first item with the given key.
func (q *Query) Get(key string) (string, bool) {
	for _, it := range q.items {
		if it.Key == key {
			return it.Value, it.HasValue
		}
	}
	return "", false
}

func (q *Query) Items() []QueryItem {
	return q.items
}

func (q *Query) Len() int {
	return len(q.items)
}

func (q *Query) String() string {
	bits := make([]string, len(q.items))
	for i, it := range q.items {
		if it.HasValue {
			bits[i] = PercentEncode(it.Key, "") + "=" + PercentEncode(it.Value, "")
		} else {
			bits[i] = PercentEncode(it.Key, "")
		}
	}
	return strings.Join(bits, "&")
}

func queryEqual(a, b *Query) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.items) != len(b.items) {
		return false
	}
	for i, it := range a.items {
		if it != b.items[i] {
			return false
		}
	}
	return true
}

// URI is a parsed Uniform Resource Identifier or URI reference.
//
// Given
//
//	http://bob@example.com:8080/data/report.html?date=2000-12-25#summary
//
// the components are
//
//	scheme     http
//	authority  bob@example.com:8080
//	path       /data/report.html
//	query      date=2000-12-25
//	fragment   summary
type URI struct {
	scheme      string
	hasScheme   bool
	auth        *Authority
	path        Path
	query       *Query
	fragment    string
	hasFragment bool
}

// Parse parses a URI reference.  It cannot fail: any string is a valid
// reference once the components that do not parse are taken literally.
func Parse(s string) *URI {
	u := &URI{}
	if scheme, rest, ok := splitScheme(s); ok {
		u.scheme = scheme
		u.hasScheme = true
		s = rest
	}
	if i := strings.IndexByte(s, '#'); i >= 0 {
		u.fragment = PercentDecode(s[i+1:])
		u.hasFragment = true
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		u.query = ParseQuery(s[i+1:])
		s = s[:i]
	}
	if rest, ok := strings.CutPrefix(s, "//"); ok {
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			u.auth = ParseAuthority(rest[:i])
			u.path = ParsePath(rest[i:])
		} else {
			u.auth = ParseAuthority(rest)
		}
	} else {
		u.path = ParsePath(s)
	}
	return u
}

// splitScheme recognises a leading "scheme:" per the grammar of RFC
// 3986 section 3.1.  A colon preceded by anything else, e.g. in
// "a/b:c", does not start a scheme.
func splitScheme(s string) (scheme, rest string, ok bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		case (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') && i > 0:
		case c == ':' && i > 0:
			return s[:i], s[i+1:], true
		default:
			return "", s, false
		}
	}
	return "", s, false
}

// Scheme returns the scheme and whether it was present.
func (u *URI) Scheme() (string, bool) { return u.scheme, u.hasScheme }

// Authority returns the authority component, or nil if absent.
func (u *URI) Authority() *Authority { return u.auth }

// Host returns the authority's host, or "" if there is no authority.
func (u *URI) Host() string {
	if u.auth == nil {
		return ""
	}
	return u.auth.host
}

// Port returns the authority's port and whether one was present.
func (u *URI) Port() (int, bool) {
	if u.auth == nil {
		return 0, false
	}
	return u.auth.Port()
}

// HostPort returns the authority's "host" or "host:port", or "" if
// there is no authority.
func (u *URI) HostPort() string {
	if u.auth == nil {
		return ""
	}
	return u.auth.HostPort()
}

// UserInfo returns the authority's user information and whether it was
// present.
func (u *URI) UserInfo() (string, bool) {
	if u.auth == nil {
		return "", false
	}
	return u.auth.UserInfo()
}

func (u *URI) Path() Path { return u.path }

// Query returns the query component, or nil if absent.
func (u *URI) Query() *Query { return u.query }

// Fragment returns the fragment and whether it was present.
func (u *URI) Fragment() (string, bool) { return u.fragment, u.hasFragment }

// SetQuery replaces the query component.  A nil query removes it.
func (u *URI) SetQuery(q *Query) { u.query = q }

// SetFragment replaces the fragment component.
func (u *URI) SetFragment(s string) {
	u.fragment = s
	u.hasFragment = true
}

func (u *URI) String() string {
	var b strings.Builder
	if u.hasScheme {
		b.WriteString(u.scheme)
		b.WriteByte(':')
	}
	if u.auth != nil {
		b.WriteString("//")
		b.WriteString(u.auth.String())
	}
	b.WriteString(u.path.String())
	if u.query != nil {
		b.WriteByte('?')
		b.WriteString(u.query.String())
	}
	if u.hasFragment {
		b.WriteByte('#')
		b.WriteString(PercentEncode(u.fragment, ""))
	}
	return b.String()
}

// HierarchicalPart returns the authority and path components together,
// e.g. "//bob@example.com:8080/data/report.html".
func (u *URI) HierarchicalPart() string {
	var b strings.Builder
	if u.auth != nil {
		b.WriteString("//")
		b.WriteString(u.auth.String())
	}
	b.WriteString(u.path.String())
	return b.String()
}

// AbsolutePathReference returns the path, query and fragment components
// together, e.g. "/data/report.html?date=2000-12-25#summary".
func (u *URI) AbsolutePathReference() string {
	var b strings.Builder
	b.WriteString(u.path.String())
	if u.query != nil {
		b.WriteByte('?')
		b.WriteString(u.query.String())
	}
	if u.hasFragment {
		b.WriteByte('#')
		b.WriteString(PercentEncode(u.fragment, ""))
	}
	return b.String()
}

func (u *URI) Equal(o *URI) bool {
	if u == nil || o == nil {
		return u == o
	}
	return u.hasScheme == o.hasScheme && u.scheme == o.scheme &&
		u.auth.Equal(o.auth) &&
		u.path == o.path &&
		queryEqual(u.query, o.query) &&
		u.hasFragment == o.hasFragment && u.fragment == o.fragment
}

// mergePath merges a relative path reference with the base path, per
// RFC 3986 section 5.2.3.
func (u *URI) mergePath(ref Path) Path {
	if u.auth != nil && u.path.IsEmpty() {
		return ParsePath("/" + ref.String())
	}
	s := u.path.String()
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return ParsePath(s[:i+1] + ref.String())
	}
	return ref
}

// Resolve transforms a reference relative to u into the target URI, per
// RFC 3986 section 5.2.2.  In strict mode a reference carrying the same
// scheme as the base is still treated as absolute; non-strict mode
// ignores such a scheme, which is how older parsers behaved.
func (u *URI) Resolve(ref *URI, strict bool) *URI {
	t := &URI{}
	refHasScheme := ref.hasScheme
	if !strict && ref.hasScheme && u.hasScheme && ref.scheme == u.scheme {
		refHasScheme = false
	}
	switch {
	case refHasScheme:
		t.scheme = ref.scheme
		t.hasScheme = true
		t.auth = ref.auth
		t.path = ref.path.RemoveDotSegments()
		t.query = ref.query
	case ref.auth != nil:
		t.auth = ref.auth
		t.path = ref.path.RemoveDotSegments()
		t.query = ref.query
		t.scheme = u.scheme
		t.hasScheme = u.hasScheme
	default:
		if ref.path.IsEmpty() {
			t.path = u.path
			if ref.query != nil {
				t.query = ref.query
			} else {
				t.query = u.query
			}
		} else {
			if strings.HasPrefix(ref.path.String(), "/") {
				t.path = ref.path.RemoveDotSegments()
			} else {
				t.path = u.mergePath(ref.path).RemoveDotSegments()
			}
			t.query = ref.query
		}
		t.auth = u.auth
		t.scheme = u.scheme
		t.hasScheme = u.hasScheme
	}
	t.fragment = ref.fragment
	t.hasFragment = ref.hasFragment
	return t
}
