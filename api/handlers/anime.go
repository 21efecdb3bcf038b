// ABOUTME: Anime handlers for the Huma API
// ABOUTME: Each endpoint hands one resolution request to the gateway

package handlers

import (
	"context"
	"net/http"

	"otakubantu-api/api/dto/mappers"
	"otakubantu-api/api/dto/requests"
	"otakubantu-api/api/dto/responses"
	"otakubantu-api/api/middleware"
	"otakubantu-api/core/gateway"

	"github.com/danielgtaylor/huma/v2"
)

// AnimeService is the gateway surface the handlers need
type AnimeService interface {
	Search(ctx context.Context, clientID, query string, page int) (*gateway.Response, error)
	GetDetails(ctx context.Context, clientID, id string) (*gateway.Response, error)
	GetEpisodeSources(ctx context.Context, clientID, episodeID string) (*gateway.Response, error)
	ListPopular(ctx context.Context, clientID string) (*gateway.Response, error)
	ListRecent(ctx context.Context, clientID string, page int) (*gateway.Response, error)
	ListByGenre(ctx context.Context, clientID, genre string, page int) (*gateway.Response, error)
}

// AnimeHandler handles anime resolution requests
type AnimeHandler struct {
	service AnimeService
}

// NewAnimeHandler creates a new anime handler
func NewAnimeHandler(service AnimeService) *AnimeHandler {
	return &AnimeHandler{service: service}
}

// RegisterRoutes registers all anime routes
func (h *AnimeHandler) RegisterRoutes(api huma.API) {
	tags := []string{"Anime"}
	errs := []int{http.StatusBadRequest, http.StatusTooManyRequests}

	huma.Register(api, huma.Operation{
		OperationID: "searchAnime",
		Method:      http.MethodGet,
		Path:        "/search",
		Summary:     "Search anime",
		Description: "Searches the catalog, falling back to mirrors and scraped sources when the primary fails",
		Tags:        tags,
		Errors:      errs,
	}, h.Search)

	huma.Register(api, huma.Operation{
		OperationID: "getAnimeDetails",
		Method:      http.MethodGet,
		Path:        "/anime/{id}",
		Summary:     "Get anime details",
		Tags:        tags,
		Errors:      errs,
	}, h.GetDetails)

	huma.Register(api, huma.Operation{
		OperationID: "getEpisodeSources",
		Method:      http.MethodGet,
		Path:        "/watch/{episodeId}",
		Summary:     "Get streaming sources of an episode",
		Tags:        tags,
		Errors:      errs,
	}, h.GetEpisodeSources)

	huma.Register(api, huma.Operation{
		OperationID: "listPopular",
		Method:      http.MethodGet,
		Path:        "/popular",
		Summary:     "List popular anime",
		Tags:        tags,
		Errors:      errs,
	}, h.ListPopular)

	huma.Register(api, huma.Operation{
		OperationID: "listRecent",
		Method:      http.MethodGet,
		Path:        "/recent",
		Summary:     "List recently released episodes",
		Tags:        tags,
		Errors:      errs,
	}, h.ListRecent)

	huma.Register(api, huma.Operation{
		OperationID: "listByGenre",
		Method:      http.MethodGet,
		Path:        "/genre/{genre}",
		Summary:     "List anime of one genre",
		Tags:        tags,
		Errors:      errs,
	}, h.ListByGenre)
}

// SearchInput defines the input for the Search operation
type SearchInput struct {
	requests.SearchRequest
}

// DetailsInput defines the input for the GetDetails operation
type DetailsInput struct {
	requests.DetailsRequest
}

// WatchInput defines the input for the GetEpisodeSources operation
type WatchInput struct {
	requests.WatchRequest
}

// RecentInput defines the input for the ListRecent operation
type RecentInput struct {
	requests.PageQuery
}

// GenreInput defines the input for the ListByGenre operation
type GenreInput struct {
	requests.GenreRequest
}

// ResolveOutput is shared by every anime operation
type ResolveOutput struct {
	Body responses.ResolveResponse
}

// Search handles GET /search
func (h *AnimeHandler) Search(ctx context.Context, input *SearchInput) (*ResolveOutput, error) {
	resp, err := h.service.Search(ctx, middleware.ClientIDFromContext(ctx), input.Query, input.Page)
	return respond(resp, err)
}

// GetDetails handles GET /anime/{id}
func (h *AnimeHandler) GetDetails(ctx context.Context, input *DetailsInput) (*ResolveOutput, error) {
	resp, err := h.service.GetDetails(ctx, middleware.ClientIDFromContext(ctx), input.ID)
	return respond(resp, err)
}

// GetEpisodeSources handles GET /watch/{episodeId}
func (h *AnimeHandler) GetEpisodeSources(ctx context.Context, input *WatchInput) (*ResolveOutput, error) {
	resp, err := h.service.GetEpisodeSources(ctx, middleware.ClientIDFromContext(ctx), input.EpisodeID)
	return respond(resp, err)
}

// ListPopular handles GET /popular
func (h *AnimeHandler) ListPopular(ctx context.Context, _ *struct{}) (*ResolveOutput, error) {
	resp, err := h.service.ListPopular(ctx, middleware.ClientIDFromContext(ctx))
	return respond(resp, err)
}

// ListRecent handles GET /recent
func (h *AnimeHandler) ListRecent(ctx context.Context, input *RecentInput) (*ResolveOutput, error) {
	resp, err := h.service.ListRecent(ctx, middleware.ClientIDFromContext(ctx), input.Page)
	return respond(resp, err)
}

// ListByGenre handles GET /genre/{genre}
func (h *AnimeHandler) ListByGenre(ctx context.Context, input *GenreInput) (*ResolveOutput, error) {
	resp, err := h.service.ListByGenre(ctx, middleware.ClientIDFromContext(ctx), input.Genre, input.Page)
	return respond(resp, err)
}

func respond(resp *gateway.Response, err error) (*ResolveOutput, error) {
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ResolveOutput{Body: *mappers.ToResolveResponse(resp)}, nil
}
