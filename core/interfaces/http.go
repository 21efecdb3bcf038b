package interfaces

import (
	"context"
	"io"
)

// HTTPClient defines the interface for making HTTP requests to upstream sources.
// This abstraction allows for easy mocking in tests and for wrapping the client
// with per-source politeness limits.
type HTTPClient interface {
	// Get performs an HTTP GET request to the specified URL.
	// The request is bound to ctx and aborted when ctx is done.
	Get(ctx context.Context, url string) (Response, error)
}

// Response defines the interface for HTTP responses.
// This abstraction allows different HTTP client implementations to provide
// their own response types while maintaining a consistent interface.
type Response interface {
	// StatusCode returns the HTTP status code of the response.
	StatusCode() int

	// Body returns the response body as an io.ReadCloser.
	// The caller is responsible for closing the body when done.
	Body() io.ReadCloser

	// Header returns the value of the specified header.
	// Returns an empty string if the header is not present.
	// Header names are case-insensitive.
	Header(key string) string
}
