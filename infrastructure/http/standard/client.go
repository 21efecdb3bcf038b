// ABOUTME: Standard HTTP client used by upstream sources, one instance per source
// ABOUTME: Performs a single attempt per call with an optional token bucket for upstream politeness

package standard

import (
	"context"
	"io"
	"net/http"
	"time"

	"otakubantu-api/core/interfaces"

	"golang.org/x/time/rate"
)

const defaultUserAgent = "OtakuBantu/1.0 (+https://github.com/otakubantu)"

// StandardHTTPClient implements the HTTPClient interface using the standard library.
// It never retries: moving on to the next source is the resolver's job.
type StandardHTTPClient struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	headers   map[string]string
}

// Option configures a StandardHTTPClient
type Option func(*StandardHTTPClient)

// WithRateLimit caps outgoing requests to rps with the given burst.
// A non-positive rps leaves the client unthrottled.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *StandardHTTPClient) {
		if rps <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *StandardHTTPClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHeader adds a header sent on every request
func WithHeader(key, value string) Option {
	return func(c *StandardHTTPClient) {
		c.headers[key] = value
	}
}

// WithLogger logs every outgoing request at debug level, tagged with source
func WithLogger(logger interfaces.Logger, source string) Option {
	return func(c *StandardHTTPClient) {
		if logger == nil {
			return
		}
		c.client.Transport = &LoggingRoundTripper{
			Transport: c.client.Transport,
			Logger:    logger,
			Source:    source,
		}
	}
}

// NewStandardHTTPClient creates a new HTTP client with the specified timeout
func NewStandardHTTPClient(timeout time.Duration, opts ...Option) *StandardHTTPClient {
	c := &StandardHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
		headers:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request. Waiting for a rate limit token counts
// against ctx like the request itself.
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
