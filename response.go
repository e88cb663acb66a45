package httpstream

import (
	"bufio"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/arnodel/httpstream/jsonstream"
	"github.com/arnodel/httpstream/uri"
)

// DefaultEncoding is assumed for response bodies whose Content-Type
// carries no charset parameter.
const DefaultEncoding = "ISO-8859-1"

// A Response to an HTTP request.  It reads as a stream of text: the
// body is decoded from the charset announced in the Content-Type
// header, so Read always delivers UTF-8.  The caller owns the response
// and must Close it, whether or not the body was consumed.
type Response struct {
	uri    *uri.URI
	res    *http.Response
	body   io.Reader
	logger *zap.Logger
	closed bool
}

func newResponse(u *uri.URI, res *http.Response, logger *zap.Logger) *Response {
	r := &Response{uri: u, res: res, body: res.Body, logger: logger}
	// Only an explicit charset parameter triggers transcoding.  The
	// Encoding default applies to the header, not to the bytes: most
	// unlabelled bodies are in fact UTF-8 and must pass through intact.
	if _, params, err := mime.ParseMediaType(res.Header.Get("Content-Type")); err == nil {
		switch strings.ToLower(params["charset"]) {
		case "iso-8859-1", "latin1":
			r.body = &latin1Reader{src: res.Body}
		}
	}
	return r
}

func (r *Response) String() string {
	if r.res.ContentLength < 0 {
		return fmt.Sprintf("%d %s [chunked]", r.StatusCode(), r.Reason())
	}
	return fmt.Sprintf("%d %s [%d]", r.StatusCode(), r.Reason(), r.res.ContentLength)
}

// URI returns the URI the response was eventually fetched from, after
// any redirections.
func (r *Response) URI() *uri.URI {
	return r.uri
}

func (r *Response) StatusCode() int {
	return r.res.StatusCode
}

// Reason returns the reason phrase of the status line.
func (r *Response) Reason() string {
	if reason := strings.TrimPrefix(r.res.Status, fmt.Sprintf("%d ", r.res.StatusCode)); reason != "" {
		return reason
	}
	return http.StatusText(r.res.StatusCode)
}

func (r *Response) Header() http.Header {
	return r.res.Header
}

// ContentLength returns the announced body length, or -1 when unknown,
// e.g. for chunked transfer encoding.
func (r *Response) ContentLength() int64 {
	return r.res.ContentLength
}

// ContentType returns the media type of the body without parameters,
// e.g. "application/json", or "" if there is none.
func (r *Response) ContentType() string {
	contentType := r.res.Header.Get("Content-Type")
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mediaType
}

// Encoding returns the charset of the body, DefaultEncoding if the
// Content-Type header does not name one.
func (r *Response) Encoding() string {
	contentType := r.res.Header.Get("Content-Type")
	if contentType == "" {
		return DefaultEncoding
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return DefaultEncoding
	}
	if charset, ok := params["charset"]; ok {
		return charset
	}
	return DefaultEncoding
}

func (r *Response) IsJSON() bool {
	switch r.ContentType() {
	case "application/json", "application/x-javascript":
		return true
	}
	return false
}

func (r *Response) IsText() bool {
	return strings.HasPrefix(r.ContentType(), "text/")
}

// Read reads the decoded response body.
func (r *Response) Read(p []byte) (int, error) {
	return r.body.Read(p)
}

// Close releases the connection.  A small unread remainder is drained
// first so the connection can be reused.
func (r *Response) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	io.CopyN(io.Discard, r.res.Body, 64*1024)
	return r.res.Body.Close()
}

// Events returns a parser delivering the response body as a stream of
// (path, value) events.
func (r *Response) Events() *jsonstream.Parser {
	return jsonstream.NewParser(r)
}

// Assembled reads the whole JSON body and returns it as a single
// value.
func (r *Response) Assembled() (jsonstream.Value, error) {
	return jsonstream.Assembled(r.Events())
}

// Grouped returns the JSON body re-chunked into groups of events
// sharing the same path prefix of the given depth.
func (r *Response) Grouped(depth int) *jsonstream.Grouper {
	return jsonstream.NewGrouper(r.Events(), depth)
}

// Lines returns the body as a sequence of lines.  Line terminators may
// be LF, CR or CRLF and are not part of the lines returned.
func (r *Response) Lines() *LineReader {
	scanner := bufio.NewScanner(r)
	scanner.Split(scanEOL)
	return &LineReader{scanner: scanner}
}

// LineReader delivers a response body line by line.
type LineReader struct {
	scanner *bufio.Scanner
	err     error
}

// Next returns the next line, or io.EOF after the last one.
func (l *LineReader) Next() (string, error) {
	if l.err != nil {
		return "", l.err
	}
	if l.scanner.Scan() {
		return l.scanner.Text(), nil
	}
	if err := l.scanner.Err(); err != nil {
		l.err = err
	} else {
		l.err = io.EOF
	}
	return "", l.err
}

func scanEOL(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\n':
			return i + 1, data[:i], nil
		case '\r':
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if atEOF {
				return i + 1, data[:i], nil
			}
			// need one more byte to tell CR from CRLF
			return 0, nil, nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// latin1Reader decodes an ISO-8859-1 stream into UTF-8.
type latin1Reader struct {
	src io.Reader
	out []byte
	err error
}

func (r *latin1Reader) Read(p []byte) (int, error) {
	for len(r.out) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		var in [2048]byte
		n, err := r.src.Read(in[:])
		out := make([]byte, 0, 2*n)
		for _, b := range in[:n] {
			if b < 0x80 {
				out = append(out, b)
			} else {
				out = append(out, 0xC0|b>>6, 0x80|b&0x3F)
			}
		}
		r.out = out
		r.err = err
	}
	n := copy(p, r.out)
	r.out = r.out[n:]
	return n, nil
}
