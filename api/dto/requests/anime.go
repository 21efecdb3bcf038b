// ABOUTME: Request DTOs for anime endpoints
// ABOUTME: Query and path parameters shared by the resolution handlers

package requests

// PageQuery is the optional page number of listing endpoints. Zero means
// the first page; negative values are rejected by the gateway.
type PageQuery struct {
	Page int `query:"page" doc:"Page number (1-based)" example:"1"`
}

// SearchRequest holds the search query parameters
type SearchRequest struct {
	Query string `query:"q" doc:"Search terms" example:"naruto"`
	PageQuery
}

// DetailsRequest identifies one catalog entry
type DetailsRequest struct {
	ID string `path:"id" doc:"Upstream anime identifier" example:"one-piece"`
}

// WatchRequest identifies one episode
type WatchRequest struct {
	EpisodeID string `path:"episodeId" doc:"Upstream episode identifier" example:"one-piece-episode-1"`
}

// GenreRequest selects a genre listing
type GenreRequest struct {
	Genre string `path:"genre" doc:"Genre slug" example:"action"`
	PageQuery
}
