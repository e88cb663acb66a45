package uri

import (
	"sort"
	"strconv"
	"strings"
)

// Template is a URI template as described in RFC 6570: a URI-like
// string containing expressions in curly braces which expand into URI
// components using supplied values.
type Template struct {
	template string
}

func NewTemplate(template string) *Template {
	return &Template{template: template}
}

func (t *Template) String() string {
	return t.template
}

func (t *Template) Equal(o *Template) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.template == o.template
}

// Pair is a key-value pair of an associative template value.
type Pair struct {
	Key, Value string
}

// Pairs is an associative template value with a defined order.
type Pairs []Pair

// Values holds the values a template is expanded with, keyed by
// variable name.  A value may be a string, a []string, a Pairs, or a
// map[string]string (expanded in key order).  A nil value counts as
// undefined.
type Values map[string]any

// Expand expands the template into a URI using the given values.
func (t *Template) Expand(values Values) *URI {
	var b strings.Builder
	s := t.template
	for {
		i := strings.IndexByte(s, '{')
		if i < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:i])
		s = s[i:]
		j := strings.IndexByte(s, '}')
		if j < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(expandExpression(s[1:j], values))
		s = s[j+1:]
	}
	return Parse(b.String())
}

// expandExpression dispatches on the operator character, if any, per
// the table in RFC 6570 appendix A.
func expandExpression(expr string, values Values) string {
	if expr == "" {
		return ""
	}
	e := expander{values: values, separator: ","}
	switch expr[0] {
	case '+':
		expr = expr[1:]
		e.safe = Reserved
	case '#':
		expr = expr[1:]
		e.safe = Reserved
		e.prefix = "#"
	case '.':
		expr = expr[1:]
		e.prefix = "."
		e.separator = "."
	case '/':
		expr = expr[1:]
		e.prefix = "/"
		e.separator = "/"
	case ';':
		expr = expr[1:]
		e.prefix = ";"
		e.separator = ";"
		e.withKeys = true
		e.trimEmptyEquals = true
	case '?':
		expr = expr[1:]
		e.prefix = "?"
		e.separator = "&"
		e.withKeys = true
	case '&':
		expr = expr[1:]
		e.prefix = "&"
		e.separator = "&"
		e.withKeys = true
	}
	return e.expand(expr)
}

type expander struct {
	values          Values
	safe            string
	prefix          string
	separator       string
	withKeys        bool
	trimEmptyEquals bool
}

// item is one collected (variable, value) entry.  Exactly one of the
// value fields is used: pair for an exploded associative entry, pairs
// for a whole associative value, list for a whole list value, str for
// everything else.
type item struct {
	key    string
	pair   *Pair
	pairs  Pairs
	list   []string
	isList bool
	str    string
}

// collect fetches the values of the comma-separated variable list,
// interpreting the ":n" prefix and "*" explode modifiers and dropping
// undefined variables.
func (e *expander) collect(expression string) []item {
	var items []item
	for _, key := range strings.Split(expression, ",") {
		explode := strings.HasSuffix(key, "*")
		maxLength := -1
		if explode {
			key = key[:len(key)-1]
		} else if k, n, found := strings.Cut(key, ":"); found {
			if m, err := strconv.Atoi(n); err == nil {
				key = k
				maxLength = m
			}
		}
		value := e.values[key]
		if value == nil {
			continue
		}
		switch v := value.(type) {
		case map[string]string:
			items = appendPairs(items, key, sortedPairs(v), explode)
		case Pairs:
			items = appendPairs(items, key, v, explode)
		case []string:
			if explode {
				for _, s := range v {
					items = append(items, item{key: key, str: s})
				}
			} else {
				items = append(items, item{key: key, list: v, isList: true})
			}
		case string:
			if maxLength >= 0 {
				if r := []rune(v); len(r) > maxLength {
					v = string(r[:maxLength])
				}
			}
			items = append(items, item{key: key, str: v})
		}
	}
	return items
}

func appendPairs(items []item, key string, pairs Pairs, explode bool) []item {
	if len(pairs) == 0 {
		return items
	}
	if explode {
		for _, p := range pairs {
			items = append(items, item{key: key, pair: &p})
		}
		return items
	}
	return append(items, item{key: key, pairs: pairs})
}

func sortedPairs(m map[string]string) Pairs {
	pairs := make(Pairs, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return pairs
}

func (e *expander) expand(expression string) string {
	items := e.collect(expression)
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = e.render(it)
	}
	return e.prefix + strings.Join(parts, e.separator)
}

func (e *expander) render(it item) string {
	enc := func(s string) string { return PercentEncode(s, e.safe) }
	if it.pair != nil {
		// an exploded associative entry carries its own key
		return enc(it.pair.Key) + "=" + enc(it.pair.Value)
	}
	var s string
	switch {
	case it.pairs != nil:
		bits := make([]string, 0, 2*len(it.pairs))
		for _, p := range it.pairs {
			bits = append(bits, enc(p.Key), enc(p.Value))
		}
		s = strings.Join(bits, ",")
	case it.isList:
		bits := make([]string, len(it.list))
		for i, v := range it.list {
			bits[i] = enc(v)
		}
		s = strings.Join(bits, ",")
	default:
		s = enc(it.str)
	}
	if e.withKeys {
		if s == "" && e.trimEmptyEquals {
			return enc(it.key)
		}
		return enc(it.key) + "=" + s
	}
	return s
}
