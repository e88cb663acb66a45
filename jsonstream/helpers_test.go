package jsonstream

import (
	"io"
	"strings"
	"testing"

	"github.com/arnodel/httpstream/jsonstream/token"
)

// chunkReader delivers a string in predetermined fragments, one per
// Read call, to simulate arbitrary network chunking.
type chunkReader struct {
	chunks []string
}

func newChunkReader(chunks ...string) *chunkReader {
	return &chunkReader{chunks: chunks}
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	if n < len(r.chunks[0]) {
		r.chunks[0] = r.chunks[0][n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

// splitEverywhere returns the input split into single-byte fragments.
func splitEverywhere(s string) []string {
	chunks := make([]string, len(s))
	for i := 0; i < len(s); i++ {
		chunks[i] = s[i : i+1]
	}
	return chunks
}

func collectTokens(t *testing.T, input string) []token.Token {
	t.Helper()
	lex := NewLexer(strings.NewReader(input))
	var toks []token.Token
	for {
		tok, err := lex.Next()
		if err == io.EOF {
			return toks
		}
		if err != nil {
			t.Fatalf("unexpected lexer error: %s", err)
		}
		toks = append(toks, tok)
	}
}

func collectEvents(t *testing.T, p *Parser) []Event {
	t.Helper()
	var evs []Event
	for {
		ev, err := p.Next()
		if err == io.EOF {
			return evs
		}
		if err != nil {
			t.Fatalf("unexpected parser error: %s", err)
		}
		evs = append(evs, ev)
	}
}

func parseEvents(t *testing.T, input string) []Event {
	t.Helper()
	return collectEvents(t, NewParser(strings.NewReader(input)))
}

func assertTokensEqual(t *testing.T, got, expected []token.Token) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("expected %d tokens, got %d (%v)", len(expected), len(got), got)
	}
	for i, tok := range got {
		xtok := expected[i]
		xs, xok := xtok.(*token.Scalar)
		s, ok := tok.(*token.Scalar)
		if xok != ok {
			t.Fatalf("token %d: expected %s, got %s", i, xtok, tok)
		}
		if ok {
			if !s.Equal(xs) || string(s.Bytes) != string(xs.Bytes) {
				t.Fatalf("token %d: expected %s, got %s", i, xtok, tok)
			}
		} else if tok.String() != xtok.String() {
			t.Fatalf("token %d: expected %s, got %s", i, xtok, tok)
		}
	}
}

func assertEventsEqual(t *testing.T, got, expected []Event) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("expected %d events, got %d (%v)", len(expected), len(got), got)
	}
	for i, ev := range got {
		xev := expected[i]
		if !ev.Path.Equal(xev.Path) {
			t.Fatalf("event %d: expected path %s, got %s", i, xev.Path, ev.Path)
		}
		if !Equal(ev.Value, xev.Value) {
			t.Fatalf("event %d (%s): expected value %v, got %v", i, ev.Path, xev.Value, ev.Value)
		}
	}
}

func str(s string) *token.Scalar {
	return token.NewString([]byte(`"`+s+`"`), s)
}

func num(lit string) *token.Scalar {
	return token.NewScalar(token.Number, []byte(lit))
}
