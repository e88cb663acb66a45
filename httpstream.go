// Package httpstream is a resource-oriented HTTP client with support
// for incremental JSON document retrieval and RFC 6570 URI templates.
//
// A resource is bound to a URI and requests are made through it:
//
//	res, err := httpstream.Get(ctx, "https://api.example.com/things")
//	if err != nil {
//		...
//	}
//	defer res.Close()
//	events := res.Events()
//	for {
//		ev, err := events.Next()
//		if err == io.EOF {
//			break
//		}
//		...
//	}
//
// Response bodies can be consumed as they arrive: as a stream of JSON
// (path, value) events, re-assembled into whole values, grouped into
// subtrees, or line by line for text responses.
package httpstream

import (
	"context"
	"fmt"
	"io"
	"os"
)

// DefaultClient is the client used by the package-level request
// functions.
var DefaultClient = New()

// Get issues a GET request to the given URI using the default client.
func Get(ctx context.Context, uri string, options ...RequestOption) (*Response, error) {
	return DefaultClient.Resource(uri).Get(ctx, options...)
}

// Head issues a HEAD request to the given URI using the default
// client.
func Head(ctx context.Context, uri string, options ...RequestOption) (*Response, error) {
	return DefaultClient.Resource(uri).Head(ctx, options...)
}

// Put issues a PUT request to the given URI using the default client.
func Put(ctx context.Context, uri string, body any, options ...RequestOption) (*Response, error) {
	return DefaultClient.Resource(uri).Put(ctx, body, options...)
}

// Post issues a POST request to the given URI using the default
// client.
func Post(ctx context.Context, uri string, body any, options ...RequestOption) (*Response, error) {
	return DefaultClient.Resource(uri).Post(ctx, body, options...)
}

// Patch issues a PATCH request to the given URI using the default
// client.
func Patch(ctx context.Context, uri string, body any, options ...RequestOption) (*Response, error) {
	return DefaultClient.Resource(uri).Patch(ctx, body, options...)
}

// Delete issues a DELETE request to the given URI using the default
// client.
func Delete(ctx context.Context, uri string, options ...RequestOption) (*Response, error) {
	return DefaultClient.Resource(uri).Delete(ctx, options...)
}

// Download fetches the given URI and writes the raw body to the named
// file.  When name is empty the last segment of the URI path is used.
func Download(ctx context.Context, uriString, name string, options ...RequestOption) error {
	res, err := Get(ctx, uriString, options...)
	if err != nil {
		return err
	}
	defer res.Close()
	if name == "" {
		segments := res.URI().Path().Segments()
		name = segments[len(segments)-1]
		if name == "" {
			return fmt.Errorf("httpstream: cannot derive file name from %q", uriString)
		}
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, res.res.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
