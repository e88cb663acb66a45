package scanner

import (
	"strings"
	"testing"
	"testing/iotest"
)

func strScanner(s string) *Scanner {
	return NewScanner(strings.NewReader(s))
}

func assertRead(t *testing.T, s *Scanner, xb byte, xerr error) {
	t.Helper()
	b, err := s.Read()
	if b != xb {
		t.Fatalf("Read: expected b = %q, got %q", xb, b)
	}
	if err != xerr {
		t.Fatalf("Read: expected err = %s, got %s", xerr, err)
	}
}

func assertPeek(t *testing.T, s *Scanner, xb byte, xerr error) {
	t.Helper()
	b, err := s.Peek()
	if b != xb {
		t.Fatalf("Peek: expected b = %q, got %q", xb, b)
	}
	if err != xerr {
		t.Fatalf("Peek: expected err = %s, got %s", xerr, err)
	}
}

func assertCurrentPos(t *testing.T, s *Scanner, offset, line, col int) {
	t.Helper()
	pos := s.CurrentPos()
	if pos.Offset != offset || pos.Line != line || pos.Col != col {
		t.Fatalf("CurrentPos: expected (%d, %d, %d) got (%d, %d, %d)",
			offset, line, col, pos.Offset, pos.Line, pos.Col)
	}
}

func assertStartToken(t *testing.T, s *Scanner, offset int) {
	t.Helper()
	pos := s.StartToken()
	if pos.Offset != offset {
		t.Fatalf("StartToken: expected offset %d got %d", offset, pos.Offset)
	}
}

func assertEndToken(t *testing.T, s *Scanner, tokStr string) {
	t.Helper()
	tok := s.EndToken()
	if string(tok) != tokStr {
		t.Fatalf("EndToken: expected %q got %q", tokStr, tok)
	}
}

func TestSimple(t *testing.T) {
	scanner := strScanner("bonjour")
	assertRead(t, scanner, 'b', nil)
	assertRead(t, scanner, 'o', nil)
	assertCurrentPos(t, scanner, 2, 0, 2)
	assertPeek(t, scanner, 'n', nil)
	assertCurrentPos(t, scanner, 2, 0, 2)
	assertRead(t, scanner, 'n', nil)
	assertCurrentPos(t, scanner, 3, 0, 3)
	scanner.Back()
	assertCurrentPos(t, scanner, 2, 0, 2)
	assertRead(t, scanner, 'n', nil)
	assertCurrentPos(t, scanner, 3, 0, 3)

	assertStartToken(t, scanner, 3)
	assertRead(t, scanner, 'j', nil)
	assertRead(t, scanner, 'o', nil)
	assertRead(t, scanner, 'u', nil)
	assertRead(t, scanner, 'r', nil)
	assertCurrentPos(t, scanner, 7, 0, 7)
	assertRead(t, scanner, EOF, nil)
	scanner.Back()
	assertRead(t, scanner, EOF, nil)
	assertCurrentPos(t, scanner, 7, 0, 7)
	assertEndToken(t, scanner, "jour")
}

func TestLineTracking(t *testing.T) {
	scanner := strScanner("ab\ncd")
	assertRead(t, scanner, 'a', nil)
	assertRead(t, scanner, 'b', nil)
	assertRead(t, scanner, '\n', nil)
	assertCurrentPos(t, scanner, 3, 1, 0)
	assertRead(t, scanner, 'c', nil)
	assertCurrentPos(t, scanner, 4, 1, 1)
}

func TestSkipSpace(t *testing.T) {
	scanner := strScanner("  \t\n  x y")
	b, err := scanner.SkipSpaceAndPeek()
	if b != 'x' || err != nil {
		t.Fatalf("SkipSpaceAndPeek: got %q, %s", b, err)
	}
	assertCurrentPos(t, scanner, 6, 1, 2)
	assertRead(t, scanner, 'x', nil)
	b, err = scanner.SkipSpaceAndRead()
	if b != 'y' || err != nil {
		t.Fatalf("SkipSpaceAndRead: got %q, %s", b, err)
	}
	assertCurrentPos(t, scanner, 9, 1, 5)
	b, err = scanner.SkipSpaceAndRead()
	if b != EOF || err != nil {
		t.Fatalf("SkipSpaceAndRead at end: got %q, %s", b, err)
	}
}

func TestLargeInput(t *testing.T) {
	const line = "A very long string.\n"
	scanner := NewScannerSize(strings.NewReader(strings.Repeat(line, 100)), 16)
	lc := 0
	// Check we get the correct bytes after the buffer is refilled.
	var acc []byte
	for lc < 10 {
		b, err := scanner.Read()
		if err != nil {
			t.Fatal("unexpected error")
		}
		acc = append(acc, b)
		if b == '\n' {
			lc++
		}
	}
	if string(acc) != strings.Repeat(line, 10) {
		t.Fatalf("incorrect input")
	}
	// Check tokens get put together correctly and everything is cleaned
	// up after each token is returned
	for i := 1; i <= 3; i++ {
		assertStartToken(t, scanner, 10*20*i)
		lc = 0
		for lc < 10 {
			b, err := scanner.Read()
			if err != nil {
				t.Fatal("unexpected error")
			}
			if b == '\n' {
				lc++
			}
		}
		assertEndToken(t, scanner, strings.Repeat(line, 10))
	}
}

func TestOneByteReads(t *testing.T) {
	// Fragment boundaries must not affect what comes out of the scanner.
	scanner := NewScanner(iotest.OneByteReader(strings.NewReader(`{"key": 123}`)))
	scanner.StartToken()
	var acc []byte
	for {
		b, err := scanner.Read()
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if b == EOF {
			break
		}
		acc = append(acc, b)
	}
	scanner.Back() // EOF does not count towards the token
	assertEndToken(t, scanner, `{"key": 123}`)
	if string(acc) != `{"key": 123}` {
		t.Fatalf("incorrect bytes: %q", acc)
	}
}
