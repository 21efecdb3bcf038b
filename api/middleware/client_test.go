package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "first forwarded hop wins",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1, 10.0.0.2"},
			remoteAddr: "10.0.0.2:4000",
			expected:   "203.0.113.7",
		},
		{
			name:       "single forwarded address",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			remoteAddr: "10.0.0.2:4000",
			expected:   "203.0.113.7",
		},
		{
			name:       "real ip when no forwarded header",
			headers:    map[string]string{"X-Real-IP": "198.51.100.4"},
			remoteAddr: "10.0.0.2:4000",
			expected:   "198.51.100.4",
		},
		{
			name:       "remote addr host without port",
			remoteAddr: "192.0.2.1:5555",
			expected:   "192.0.2.1",
		},
		{
			name:       "remote addr without port kept as is",
			remoteAddr: "192.0.2.1",
			expected:   "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/search?q=naruto", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tt.expected, extractIP(req))
		})
	}
}

func TestClientIdentity_StoresIDInContext(t *testing.T) {
	var got string
	handler := ClientIdentity()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClientIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/popular", nil)
	req.RemoteAddr = "192.0.2.9:1234"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "192.0.2.9", got)
}

func TestClientIDFromContext_Unknown(t *testing.T) {
	assert.Equal(t, "unknown", ClientIDFromContext(context.Background()))
}
