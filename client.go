package httpstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/arnodel/httpstream/uri"
)

// DefaultRedirectLimit is the number of redirects followed when no
// limit is configured.
const DefaultRedirectLimit = 5

// A Client issues HTTP requests on behalf of resources.  The zero
// configuration obtained from New is ready to use: it logs nowhere,
// applies no rate limit and follows up to DefaultRedirectLimit
// redirects.
//
// Permanent redirects (301 and 308) are remembered for the lifetime of
// the client and later requests go straight to the target.
type Client struct {
	hc            *http.Client
	logger        *zap.Logger
	product       string
	redirectLimit int
	limiter       *rate.Limiter
	headers       http.Header

	mu        sync.Mutex
	permanent map[string]*uri.URI
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request and response tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUserAgent prepends a product token, e.g. "myapp/2.1", to the
// default User-Agent header.
func WithUserAgent(product string) Option {
	return func(c *Client) { c.product = product }
}

// WithRedirectLimit sets how many redirects a request may follow.
func WithRedirectLimit(limit int) Option {
	return func(c *Client) { c.redirectLimit = limit }
}

// WithRateLimit makes every request wait on the given limiter.
func WithRateLimit(limiter *rate.Limiter) Option {
	return func(c *Client) { c.limiter = limiter }
}

// WithTransport sets the underlying round tripper.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) { c.hc.Transport = transport }
}

// WithHeaders sets headers sent with every request.
func WithHeaders(headers http.Header) Option {
	return func(c *Client) { c.headers = headers.Clone() }
}

// New returns a Client configured by the given options.
func New(options ...Option) *Client {
	c := &Client{
		hc: &http.Client{
			// redirects are followed manually so that permanent ones
			// can be cached and circular ones detected
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger:        zap.NewNop(),
		redirectLimit: DefaultRedirectLimit,
		permanent:     map[string]*uri.URI{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Resource returns a resource bound to the given URI, which may be an
// RFC 6570 template.
func (c *Client) Resource(u string) *Resource {
	return &Resource{client: c, uri: u}
}

// permanentTarget follows the chain of cached permanent redirects
// starting at u.
func (c *Client) permanentTarget(u *uri.URI) *uri.URI {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < c.redirectLimit; i++ {
		target, ok := c.permanent[u.String()]
		if !ok {
			return u
		}
		u = target
	}
	return u
}

func (c *Client) rememberPermanent(from, to *uri.URI) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.permanent[from.String()] = to
}

// encodeBody turns a request body into a reader and the Content-Type
// it implies.  Values that are not nil, a string, a []byte or an
// io.Reader are marshalled as JSON.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case string:
		return strings.NewReader(b), "", nil
	case io.Reader:
		return b, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("httpstream: cannot encode request body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func (c *Client) do(ctx context.Context, method string, target *uri.URI, body any, headers http.Header, redirectLimit int) (*Response, error) {
	if target.Host() == "" {
		return nil, fmt.Errorf("httpstream: no host in request URI %q", target)
	}
	if r, ok := body.(io.Reader); ok {
		// A reader can only be drained once; buffer it up front so the
		// body survives redirected re-submissions.
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("httpstream: cannot read request body: %w", err)
		}
		body = data
	}
	requestID := uuid.NewString()
	logger := c.logger.With(zap.String("request_id", requestID))
	u := c.permanentTarget(target)
	for {
		res, err := c.submit(ctx, logger, method, u, body, headers, requestID)
		if err != nil {
			return nil, err
		}
		switch res.StatusCode() / 100 {
		case 3:
			location := res.Header().Get("Location")
			if location == "" {
				return res, nil
			}
			next := u.Resolve(uri.Parse(location), true)
			if next.Equal(u) {
				res.Close()
				return nil, &RedirectionError{URI: u, Msg: "circular redirection"}
			}
			if redirectLimit <= 0 {
				return res, nil
			}
			redirectLimit--
			code := res.StatusCode()
			if code == http.StatusMovedPermanently || code == http.StatusPermanentRedirect {
				c.rememberPermanent(u, next)
			}
			res.Close()
			u = next
		case 4:
			return nil, &ClientError{Response: res}
		case 5:
			return nil, &ServerError{Response: res}
		default:
			return res, nil
		}
	}
}

func (c *Client) submit(ctx context.Context, logger *zap.Logger, method string, u *uri.URI, body any, headers http.Header, requestID string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("httpstream: %w", err)
	}
	for key, values := range c.headers {
		req.Header[key] = values
	}
	for key, values := range headers {
		req.Header[key] = values
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent(c.product))
	}
	req.Header.Set("X-Request-Id", requestID)

	logger.Info(fmt.Sprintf(">>> %s %s", method, u))
	for key, values := range req.Header {
		logger.Debug(fmt.Sprintf(">>> %s: %s", key, strings.Join(values, ", ")))
	}
	res, err := c.hc.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, &SocketError{Netloc: u.HostPort(), Err: err}
	}
	response := newResponse(u, res, logger)
	logger.Info(fmt.Sprintf("<<< %s", response))
	for key, values := range res.Header {
		logger.Debug(fmt.Sprintf("<<< %s: %s", key, strings.Join(values, ", ")))
	}
	return response, nil
}
