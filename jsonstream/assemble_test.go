package jsonstream

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
)

func assembleString(t *testing.T, input string) Value {
	t.Helper()
	v, err := Assembled(NewParser(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("Assembled failed: %s", err)
	}
	return v
}

func TestAssembledSimple(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Value
	}{
		{name: "number", input: `42`, expected: NewNumber("42")},
		{name: "string", input: `"hello"`, expected: String("hello")},
		{name: "bool", input: `true`, expected: Bool(true)},
		{name: "null", input: `null`, expected: Null{}},
		{name: "empty object", input: `{}`, expected: NewObject()},
		{name: "empty array", input: `[]`, expected: NewArray()},
		{
			name:     "flat array",
			input:    `[1, 2, 3]`,
			expected: NewArray(NewNumber("1"), NewNumber("2"), NewNumber("3")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := assembleString(t, tt.input)
			if !Equal(v, tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, v)
			}
		})
	}
}

func TestAssembledNested(t *testing.T) {
	v := assembleString(t, `{"drink": "lemonade", "cutlery": ["knife", "fork", "spoon"]}`)
	obj, ok := v.(*Object)
	if !ok {
		t.Fatalf("expected an object, got %T", v)
	}
	if obj.Len() != 2 {
		t.Fatalf("expected 2 members, got %d", obj.Len())
	}
	// Member order follows the document.
	key, drink := obj.At(0)
	if key != "drink" || !Equal(drink, String("lemonade")) {
		t.Fatalf("unexpected first member: %s = %v", key, drink)
	}
	cutlery, present := obj.Get("cutlery")
	if !present {
		t.Fatal("cutlery missing")
	}
	arr, ok := cutlery.(*Array)
	if !ok || arr.Len() != 3 {
		t.Fatalf("expected a 3-element array, got %v", cutlery)
	}
	if !Equal(arr.At(2), String("spoon")) {
		t.Fatalf("unexpected item: %v", arr.At(2))
	}
}

func TestAssembledEmptyContainersNested(t *testing.T) {
	v := assembleString(t, `{"a": {}, "b": [], "c": [{}, []]}`)
	expected := NewObject()
	expected.Set("a", NewObject())
	expected.Set("b", NewArray())
	expected.Set("c", NewArray(NewObject(), NewArray()))
	if !Equal(v, expected) {
		t.Fatalf("expected %v, got %v", expected, v)
	}
}

func TestAssembledDuplicateKeysLastWins(t *testing.T) {
	v := assembleString(t, `{"a": 1, "b": 2, "a": 3}`)
	obj := v.(*Object)
	if obj.Len() != 2 {
		t.Fatalf("expected 2 members, got %d", obj.Len())
	}
	a, _ := obj.Get("a")
	if !Equal(a, NewNumber("3")) {
		t.Fatalf("expected last value to win, got %v", a)
	}
	// The repeated key keeps its original position.
	key, _ := obj.At(0)
	if key != "a" {
		t.Fatalf("expected first member to stay a, got %s", key)
	}
}

func TestAssembledEmptyInput(t *testing.T) {
	for _, input := range []string{"", "  \n\t "} {
		_, err := Assembled(NewParser(strings.NewReader(input)))
		if !errors.Is(err, ErrEmptyDocument) {
			t.Fatalf("input %q: expected ErrEmptyDocument, got %v", input, err)
		}
	}
}

func TestAssembledPropagatesErrors(t *testing.T) {
	_, err := Assembled(NewParser(strings.NewReader(`{"a": }`)))
	var structErr *StructuralError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected *StructuralError, got %v", err)
	}
}

func TestAssembledRoundTrip(t *testing.T) {
	// Reassembling a document and re-marshalling its Go form must
	// match what encoding/json sees in the original text.
	docs := []string{
		`{"a":[1,{"b":2}]}`,
		`[0, -1, 2.25, 3e3, "four", true, false, null]`,
		`{"nested": {"deep": {"deeper": [[], {}, [null]]}}}`,
		`{"unicode": "café 😀", "esc": "a\nb\"c"}`,
		`"scalar root"`,
		`-17`,
		`{}`,
		`[]`,
	}
	for _, doc := range docs {
		v := assembleString(t, doc)

		var viaStdlib any
		if err := json.Unmarshal([]byte(doc), &viaStdlib); err != nil {
			t.Fatalf("invalid test document %q: %s", doc, err)
		}
		want, err := json.Marshal(viaStdlib)
		if err != nil {
			t.Fatal(err)
		}
		got, err := json.Marshal(v.ToGo())
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != string(want) {
			t.Fatalf("round trip mismatch for %q: got %s, want %s", doc, got, want)
		}
	}
}

func TestGroupedTopLevelArray(t *testing.T) {
	// One group per array element, in order, each equal to the
	// assembled element.
	doc := `[{"name": "alice", "age": 33}, {"name": "bob"}, [1, 2], "tail"]`
	elements := []string{
		`{"name": "alice", "age": 33}`,
		`{"name": "bob"}`,
		`[1, 2]`,
		`"tail"`,
	}

	g := NewGrouper(NewParser(strings.NewReader(doc)), 1)
	for i, elt := range elements {
		group, err := g.Next()
		if err != nil {
			t.Fatalf("group %d: unexpected error %s", i, err)
		}
		if !group.Prefix.Equal(Path{Index(i)}) {
			t.Fatalf("group %d: unexpected prefix %s", i, group.Prefix)
		}
		if !Equal(group.Value, assembleString(t, elt)) {
			t.Fatalf("group %d: expected %v, got %v", i, assembleString(t, elt), group.Value)
		}
	}
	_, err := g.Next()
	if err != io.EOF {
		t.Fatalf("expected io.EOF after last group, got %v", err)
	}
}

func TestGroupedObject(t *testing.T) {
	doc := `{"alice": {"age": 33}, "bob": {"age": 44}}`
	g := NewGrouper(NewParser(strings.NewReader(doc)), 1)

	group, err := g.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !group.Prefix.Equal(Path{Key("alice")}) {
		t.Fatalf("unexpected prefix %s", group.Prefix)
	}
	if !Equal(group.Value, assembleString(t, `{"age": 33}`)) {
		t.Fatalf("unexpected value %v", group.Value)
	}

	group, err = g.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !group.Prefix.Equal(Path{Key("bob")}) {
		t.Fatalf("unexpected prefix %s", group.Prefix)
	}

	_, err = g.Next()
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestGroupedDepthZero(t *testing.T) {
	// Depth 0 degenerates to a single group holding the whole
	// document.
	doc := `{"a": [1, 2], "b": {"c": 3}}`
	g := NewGrouper(NewParser(strings.NewReader(doc)), 0)
	group, err := g.Next()
	if err != nil {
		t.Fatal(err)
	}
	if len(group.Prefix) != 0 {
		t.Fatalf("expected empty prefix, got %s", group.Prefix)
	}
	if !Equal(group.Value, assembleString(t, doc)) {
		t.Fatalf("expected whole document, got %v", group.Value)
	}
	_, err = g.Next()
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestGroupedCount(t *testing.T) {
	// A top-level array of N elements yields exactly N groups.
	var b strings.Builder
	b.WriteByte('[')
	const n = 57
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"i": `)
		b.WriteString(strings.Repeat("1", 1+i%3))
		b.WriteByte('}')
	}
	b.WriteByte(']')

	g := NewGrouper(NewParser(strings.NewReader(b.String())), 1)
	count := 0
	for {
		_, err := g.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		count++
	}
	if count != n {
		t.Fatalf("expected %d groups, got %d", n, count)
	}
}

func TestGroupedShallowScalar(t *testing.T) {
	// A scalar above the grouping depth groups under the empty prefix.
	g := NewGrouper(NewParser(strings.NewReader(`42`)), 1)
	group, err := g.Next()
	if err != nil {
		t.Fatal(err)
	}
	if len(group.Prefix) != 0 {
		t.Fatalf("expected empty prefix, got %s", group.Prefix)
	}
	if !Equal(group.Value, NewNumber("42")) {
		t.Fatalf("unexpected value %v", group.Value)
	}
	_, err = g.Next()
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestGroupedPropagatesErrors(t *testing.T) {
	g := NewGrouper(NewParser(strings.NewReader(`[{"a": 1}, {"b": 2}, {"c": }]`)), 1)
	// The first group closes before the malformed one is reached.
	group, err := g.Next()
	if err != nil {
		t.Fatalf("unexpected error on first group: %s", err)
	}
	if !Equal(group.Value, assembleString(t, `{"a": 1}`)) {
		t.Fatalf("unexpected first group %v", group.Value)
	}
	_, err = g.Next()
	var structErr *StructuralError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected *StructuralError, got %v", err)
	}
	// Errors repeat.
	_, err2 := g.Next()
	if err2 != err {
		t.Fatalf("expected repeated error, got %v", err2)
	}
}
