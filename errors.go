package httpstream

import (
	"fmt"

	"github.com/arnodel/httpstream/uri"
)

// SocketError is returned when a request fails at the transport level,
// e.g. a refused connection or an unresolvable host.
type SocketError struct {
	Netloc string
	Err    error
}

func (e *SocketError) Error() string {
	return fmt.Sprintf("httpstream: %s: %s", e.Netloc, e.Err)
}

func (e *SocketError) Unwrap() error {
	return e.Err
}

// RedirectionError is returned when following redirects goes wrong,
// typically because a redirection points back at itself.
type RedirectionError struct {
	URI *uri.URI
	Msg string
}

func (e *RedirectionError) Error() string {
	return fmt.Sprintf("httpstream: %s: %s", e.Msg, e.URI)
}

// ClientError is returned for responses with a 4xx status code.  The
// response it carries is still open and must be closed by the caller.
type ClientError struct {
	Response *Response
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("httpstream: %d %s", e.Response.StatusCode(), e.Response.Reason())
}

// ServerError is returned for responses with a 5xx status code.  The
// response it carries is still open and must be closed by the caller.
type ServerError struct {
	Response *Response
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("httpstream: %d %s", e.Response.StatusCode(), e.Response.Reason())
}
