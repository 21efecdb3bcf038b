// ABOUTME: Response DTOs for anime endpoints
// ABOUTME: One envelope carries listings, details or streams plus fallback provenance

package responses

// ResolveResponse is returned by every resolution endpoint.
//
// Items is always present and is an empty list when every source was
// exhausted; Fallback is then true and Source is empty.
type ResolveResponse struct {
	Fallback    bool   `json:"fallback" doc:"True when a non-primary source answered or no source had data"`
	Source      string `json:"source,omitempty" doc:"Name of the fallback source that answered"`
	Cached      bool   `json:"cached" doc:"True when served from the result cache"`
	CurrentPage int    `json:"currentPage,omitempty"`
	HasNextPage bool   `json:"hasNextPage"`

	Items  []ItemResponse  `json:"items"`
	Detail *DetailResponse `json:"detail,omitempty"`
	Stream *StreamResponse `json:"stream,omitempty"`
}

// ItemResponse is one entry of a listing or search
type ItemResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Image         string   `json:"image,omitempty"`
	URL           string   `json:"url,omitempty"`
	ReleaseDate   string   `json:"releaseDate,omitempty"`
	SubOrDub      string   `json:"subOrDub,omitempty"`
	EpisodeID     string   `json:"episodeId,omitempty"`
	EpisodeNumber float64  `json:"episodeNumber,omitempty"`
	Genres        []string `json:"genres,omitempty"`
}

// DetailResponse is one catalog entry
type DetailResponse struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	URL           string            `json:"url,omitempty"`
	Image         string            `json:"image,omitempty"`
	Description   string            `json:"description,omitempty"`
	Genres        []string          `json:"genres"`
	Type          string            `json:"type,omitempty"`
	Status        string            `json:"status,omitempty"`
	ReleaseDate   string            `json:"releaseDate,omitempty"`
	OtherName     string            `json:"otherName,omitempty"`
	TotalEpisodes int               `json:"totalEpisodes"`
	Episodes      []EpisodeResponse `json:"episodes"`
}

// EpisodeResponse is one entry of an episode list
type EpisodeResponse struct {
	ID     string  `json:"id"`
	Number float64 `json:"number"`
	URL    string  `json:"url,omitempty"`
}

// StreamResponse lists the playable sources of an episode
type StreamResponse struct {
	Headers  map[string]string      `json:"headers,omitempty"`
	Sources  []StreamSourceResponse `json:"sources"`
	Download string                 `json:"download,omitempty"`
}

// StreamSourceResponse is one playable URL
type StreamSourceResponse struct {
	URL     string `json:"url"`
	Quality string `json:"quality,omitempty"`
	IsM3U8  bool   `json:"isM3U8"`
}

// HealthResponse reports liveness and the configured cascade
type HealthResponse struct {
	Status  string           `json:"status" example:"ok"`
	Cache   string           `json:"cache" example:"memory"`
	Sources []SourceResponse `json:"sources"`
}

// SourceResponse describes one configured upstream
type SourceResponse struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Order int    `json:"order"`
}
