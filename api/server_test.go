package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"otakubantu-api/api/middleware"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields map[string]interface{}) {}
func (nopLogger) Info(msg string, fields map[string]interface{})  {}
func (nopLogger) Warn(msg string, fields map[string]interface{})  {}
func (nopLogger) Error(msg string, fields map[string]interface{}) {}

type whoamiOutput struct {
	Body struct {
		ClientID string `json:"clientId"`
	}
}

func TestNewAPI_Info(t *testing.T) {
	api, router := NewAPI(APIConfig{})

	require.NotNil(t, api)
	require.NotNil(t, router)
	assert.Equal(t, "OtakuBantu API", api.OpenAPI().Info.Title)
	assert.Equal(t, "1.0.0", api.OpenAPI().Info.Version)
}

func TestAPI_OpenAPIEndpoint(t *testing.T) {
	_, router := NewAPI(APIConfig{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/openapi.json", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.oai.openapi+json", w.Header().Get("Content-Type"))
}

func TestAPI_CORSPreflight(t *testing.T) {
	_, router := NewAPI(APIConfig{})

	req := httptest.NewRequest(http.MethodOptions, "/search", nil)
	req.Header.Set("Origin", "https://frontend.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestAPI_MetricsMounted(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("rate_limited_requests_total 0\n"))
	})
	_, router := NewAPI(APIConfig{MetricsHandler: metrics})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limited_requests_total")
}

func TestAPI_ClientIdentityReachesHandlers(t *testing.T) {
	api, router := NewAPI(APIConfig{Logger: nopLogger{}})
	huma.Get(api, "/whoami", func(ctx context.Context, _ *struct{}) (*whoamiOutput, error) {
		out := &whoamiOutput{}
		out.Body.ClientID = middleware.ClientIDFromContext(ctx)
		return out, nil
	})

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"clientId":"203.0.113.7"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
