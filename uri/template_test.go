package uri

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// the variables from the examples in RFC 6570 section 3.2
var templateValues = Values{
	"count":      []string{"one", "two", "three"},
	"dom":        []string{"example", "com"},
	"dub":        "me/too",
	"hello":      "Hello World!",
	"half":       "50%",
	"var":        "value",
	"who":        "fred",
	"base":       "http://example.com/home/",
	"path":       "/foo/bar",
	"list":       []string{"red", "green", "blue"},
	"keys":       Pairs{{"semi", ";"}, {"dot", "."}, {"comma", ","}},
	"v":          "6",
	"x":          "1024",
	"y":          "768",
	"empty":      "",
	"empty_keys": Pairs{},
	"undef":      nil,
}

func expandAll(t *testing.T, expansions map[string]string) {
	t.Helper()
	for template, target := range expansions {
		got := NewTemplate(template).Expand(templateValues)
		assert.True(t, got.Equal(Parse(target)), "%q -> %q, got %q", template, target, got)
	}
}

func TestExpandSimpleStrings(t *testing.T) {
	expandAll(t, map[string]string{
		"{var}":       "value",
		"{hello}":     "Hello%20World%21",
		"{half}":      "50%25",
		"O{empty}X":   "OX",
		"O{undef}X":   "OX",
		"{x,y}":       "1024,768",
		"{x,hello,y}": "1024,Hello%20World%21,768",
		"?{x,empty}":  "?1024,",
		"?{x,undef}":  "?1024",
		"?{undef,y}":  "?768",
		"{var:3}":     "val",
		"{var:30}":    "value",
		"{list}":      "red,green,blue",
		"{list*}":     "red,green,blue",
		"{keys}":      "semi,%3B,dot,.,comma,%2C",
		"{keys*}":     "semi=%3B,dot=.,comma=%2C",
	})
}

func TestExpandReservedStrings(t *testing.T) {
	expandAll(t, map[string]string{
		"{+var}":             "value",
		"{+hello}":           "Hello%20World!",
		"{+half}":            "50%25",
		"{base}index":        "http%3A%2F%2Fexample.com%2Fhome%2Findex",
		"{+base}index":       "http://example.com/home/index",
		"O{+empty}X":         "OX",
		"O{+undef}X":         "OX",
		"{+path}/here":       "/foo/bar/here",
		"here?ref={+path}":   "here?ref=/foo/bar",
		"up{+path}{var}/here": "up/foo/barvalue/here",
		"{+x,hello,y}":       "1024,Hello%20World!,768",
		"{+path,x}/here":     "/foo/bar,1024/here",
		"{+path:6}/here":     "/foo/b/here",
		"{+list}":            "red,green,blue",
		"{+list*}":           "red,green,blue",
		"{+keys}":            "semi,;,dot,.,comma,,",
		"{+keys*}":           "semi=;,dot=.,comma=,",
	})
}

func TestExpandFragments(t *testing.T) {
	expandAll(t, map[string]string{
		"{#var}":         "#value",
		"{#hello}":       "#Hello%20World!",
		"{#half}":        "#50%25",
		"foo{#empty}":    "foo#",
		"foo{#undef}":    "foo",
		"{#x,hello,y}":   "#1024,Hello%20World!,768",
		"{#path,x}/here": "#/foo/bar,1024/here",
		"{#path:6}/here": "#/foo/b/here",
		"{#list}":        "#red,green,blue",
		"{#list*}":       "#red,green,blue",
		"{#keys}":        "#semi,;,dot,.,comma,,",
		"{#keys*}":       "#semi=;,dot=.,comma=,",
	})
}

func TestExpandLabels(t *testing.T) {
	expandAll(t, map[string]string{
		"{.who}":           ".fred",
		"{.who,who}":       ".fred.fred",
		"{.half,who}":      ".50%25.fred",
		"www{.dom*}":       "www.example.com",
		"X{.var}":          "X.value",
		"X{.empty}":        "X.",
		"X{.undef}":        "X",
		"X{.var:3}":        "X.val",
		"X{.list}":         "X.red,green,blue",
		"X{.list*}":        "X.red.green.blue",
		"X{.keys}":         "X.semi,%3B,dot,.,comma,%2C",
		"X{.keys*}":        "X.semi=%3B.dot=..comma=%2C",
		"X{.empty_keys}":   "X",
		"X{.empty_keys*}":  "X",
	})
}

func TestExpandPathSegments(t *testing.T) {
	expandAll(t, map[string]string{
		"{/who}":           "/fred",
		"{/who,who}":       "/fred/fred",
		"{/half,who}":      "/50%25/fred",
		"{/who,dub}":       "/fred/me%2Ftoo",
		"{/var}":           "/value",
		"{/var,empty}":     "/value/",
		"{/var,undef}":     "/value",
		"{/var,x}/here":    "/value/1024/here",
		"{/var:1,var}":     "/v/value",
		"{/list}":          "/red,green,blue",
		"{/list*}":         "/red/green/blue",
		"{/list*,path:4}":  "/red/green/blue/%2Ffoo",
		"{/keys}":          "/semi,%3B,dot,.,comma,%2C",
		"{/keys*}":         "/semi=%3B/dot=./comma=%2C",
	})
}

func TestExpandPathParameters(t *testing.T) {
	expandAll(t, map[string]string{
		"{;who}":         ";who=fred",
		"{;half}":        ";half=50%25",
		"{;empty}":       ";empty",
		"{;v,empty,who}": ";v=6;empty;who=fred",
		"{;v,bar,who}":   ";v=6;who=fred",
		"{;x,y}":         ";x=1024;y=768",
		"{;x,y,empty}":   ";x=1024;y=768;empty",
		"{;x,y,undef}":   ";x=1024;y=768",
		"{;hello:5}":     ";hello=Hello",
		"{;list}":        ";list=red,green,blue",
		"{;list*}":       ";list=red;list=green;list=blue",
		"{;keys}":        ";keys=semi,%3B,dot,.,comma,%2C",
		"{;keys*}":       ";semi=%3B;dot=.;comma=%2C",
	})
}

func TestExpandFormQueries(t *testing.T) {
	expandAll(t, map[string]string{
		"{?who}":       "?who=fred",
		"{?half}":      "?half=50%25",
		"{?x,y}":       "?x=1024&y=768",
		"{?x,y,empty}": "?x=1024&y=768&empty=",
		"{?x,y,undef}": "?x=1024&y=768",
		"{?var:3}":     "?var=val",
		"{?list}":      "?list=red,green,blue",
		"{?list*}":     "?list=red&list=green&list=blue",
		"{?keys}":      "?keys=semi,%3B,dot,.,comma,%2C",
		"{?keys*}":     "?semi=%3B&dot=.&comma=%2C",
	})
}

func TestExpandFormQueryContinuations(t *testing.T) {
	expandAll(t, map[string]string{
		"{&who}":           "&who=fred",
		"{&half}":          "&half=50%25",
		"?fixed=yes{&x}":   "?fixed=yes&x=1024",
		"{&x,y,empty}":     "&x=1024&y=768&empty=",
		"{&x,y,undef}":     "&x=1024&y=768",
		"{&var:3}":         "&var=val",
		"{&list}":          "&list=red,green,blue",
		"{&list*}":         "&list=red&list=green&list=blue",
		"{&keys}":          "&keys=semi,%3B,dot,.,comma,%2C",
		"{&keys*}":         "&semi=%3B&dot=.&comma=%2C",
	})
}

func TestExpandMapValues(t *testing.T) {
	// plain maps are expanded in key order
	got := NewTemplate("{?opts*}").Expand(Values{
		"opts": map[string]string{"b": "2", "a": "1", "c": "3"},
	})
	assert.True(t, got.Equal(Parse("?a=1&b=2&c=3")), "got %q", got)
}

func TestTemplateString(t *testing.T) {
	tpl := NewTemplate("http://example.com/data/{foo}")
	assert.Equal(t, "http://example.com/data/{foo}", tpl.String())
	assert.True(t, tpl.Equal(NewTemplate("http://example.com/data/{foo}")))
	assert.False(t, tpl.Equal(NewTemplate("http://example.com/data/{foo}/{bar}")))
}
