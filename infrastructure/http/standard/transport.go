// ABOUTME: Logging round tripper for outgoing upstream requests
// ABOUTME: Records method, URL, status and latency at debug level

package standard

import (
	"net/http"
	"time"

	"otakubantu-api/core/interfaces"
)

// LoggingRoundTripper implements http.RoundTripper with logging
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Logger    interfaces.Logger
	Source    string
}

// RoundTrip logs outgoing HTTP requests
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	resp, err := transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.Logger.Debug("Outgoing HTTP request failed", map[string]interface{}{
			"source":   t.Source,
			"method":   req.Method,
			"url":      req.URL.String(),
			"duration": duration.String(),
			"error":    err.Error(),
		})
		return nil, err
	}

	t.Logger.Debug("Outgoing HTTP response", map[string]interface{}{
		"source":   t.Source,
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration.String(),
	})

	return resp, nil
}
