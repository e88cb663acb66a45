package httpstream

import (
	"context"
	"net/http"

	"github.com/arnodel/httpstream/uri"
)

// A Resource is an HTTP resource bound to a URI, which may be an RFC
// 6570 template expanded per request with WithFields.  Resources are
// cheap and may be created freely from a Client.
type Resource struct {
	client  *Client
	uri     string
	headers http.Header
}

// WithResourceHeaders returns a copy of the resource with extra headers
// sent on every request made through it.
func (r *Resource) WithResourceHeaders(headers http.Header) *Resource {
	merged := r.headers.Clone()
	if merged == nil {
		merged = http.Header{}
	}
	for key, values := range headers {
		merged[key] = values
	}
	return &Resource{client: r.client, uri: r.uri, headers: merged}
}

// URI returns the URI the resource is bound to, with any cached
// permanent redirect applied.
func (r *Resource) URI() *uri.URI {
	return r.client.permanentTarget(uri.Parse(r.uri))
}

// RequestOption adjusts a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	query       *uri.Query
	fragment    string
	hasFragment bool
	fields      uri.Values
	headers     http.Header
	redirects   int
}

// WithQuery adds a "key=value" item to the query of the request URI.
// The first use replaces the query already present, if any.
func WithQuery(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.query == nil {
			o.query = uri.NewQuery()
		}
		o.query.Add(key, value)
	}
}

// WithFragment sets the fragment of the request URI.
func WithFragment(fragment string) RequestOption {
	return func(o *requestOptions) {
		o.fragment = fragment
		o.hasFragment = true
	}
}

// WithFields supplies values for expanding the resource's URI
// template.
func WithFields(fields uri.Values) RequestOption {
	return func(o *requestOptions) { o.fields = fields }
}

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers.Add(key, value)
	}
}

// WithRedirects overrides the client's redirect limit for this
// request.  Zero disables redirect following.
func WithRedirects(limit int) RequestOption {
	return func(o *requestOptions) { o.redirects = limit }
}

func (r *Resource) prepare(options []RequestOption) (*uri.URI, http.Header, int) {
	o := requestOptions{redirects: r.client.redirectLimit}
	for _, option := range options {
		option(&o)
	}
	var u *uri.URI
	if o.fields != nil {
		u = uri.NewTemplate(r.uri).Expand(o.fields)
	} else {
		u = uri.Parse(r.uri)
	}
	if o.query != nil {
		u.SetQuery(o.query)
	}
	if o.hasFragment {
		u.SetFragment(o.fragment)
	}
	headers := r.headers.Clone()
	if headers == nil {
		headers = http.Header{}
	}
	for key, values := range o.headers {
		headers[key] = values
	}
	return u, headers, o.redirects
}

func (r *Resource) do(ctx context.Context, method string, body any, options []RequestOption) (*Response, error) {
	u, headers, redirects := r.prepare(options)
	return r.client.do(ctx, method, u, body, headers, redirects)
}

// Get issues a GET request to the resource.
func (r *Resource) Get(ctx context.Context, options ...RequestOption) (*Response, error) {
	return r.do(ctx, http.MethodGet, nil, options)
}

// Head issues a HEAD request to the resource.
func (r *Resource) Head(ctx context.Context, options ...RequestOption) (*Response, error) {
	return r.do(ctx, http.MethodHead, nil, options)
}

// Put issues a PUT request.  Bodies that are not nil, a string, a
// []byte or an io.Reader are sent as JSON.
func (r *Resource) Put(ctx context.Context, body any, options ...RequestOption) (*Response, error) {
	return r.do(ctx, http.MethodPut, body, options)
}

// Post issues a POST request with the same body handling as Put.
func (r *Resource) Post(ctx context.Context, body any, options ...RequestOption) (*Response, error) {
	return r.do(ctx, http.MethodPost, body, options)
}

// Patch issues a PATCH request with the same body handling as Put.
func (r *Resource) Patch(ctx context.Context, body any, options ...RequestOption) (*Response, error) {
	return r.do(ctx, http.MethodPatch, body, options)
}

// Delete issues a DELETE request to the resource.
func (r *Resource) Delete(ctx context.Context, options ...RequestOption) (*Response, error) {
	return r.do(ctx, http.MethodDelete, nil, options)
}
