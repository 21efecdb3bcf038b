// ABOUTME: Health endpoint for the Huma API
// ABOUTME: Reports liveness together with the configured source cascade

package handlers

import (
	"context"
	"net/http"

	"otakubantu-api/api/dto/mappers"
	"otakubantu-api/api/dto/responses"
	"otakubantu-api/core/domain"

	"github.com/danielgtaylor/huma/v2"
)

// HealthHandler serves GET /health
type HealthHandler struct {
	cacheType string
	sources   []domain.SourceDescriptor
}

// NewHealthHandler creates a health handler for the given cascade
func NewHealthHandler(cacheType string, sources []domain.SourceDescriptor) *HealthHandler {
	return &HealthHandler{cacheType: cacheType, sources: sources}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, h.Health)
}

// HealthOutput defines the output for the Health operation
type HealthOutput struct {
	Body responses.HealthResponse
}

// Health handles GET /health. It never contacts an upstream.
func (h *HealthHandler) Health(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	return &HealthOutput{Body: responses.HealthResponse{
		Status:  "ok",
		Cache:   h.cacheType,
		Sources: mappers.ToSourceResponses(h.sources),
	}}, nil
}
