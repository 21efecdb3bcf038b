// ABOUTME: Anime catalog domain models normalized from every upstream source
// ABOUTME: Defines list items, detail pages and episode stream sources

package domain

// Item is one normalized catalog or episode entry in a listing or search result
type Item struct {
	// ID is the upstream identifier used by the details/watch operations
	ID string `json:"id"`

	// Title is the display title
	Title string `json:"title"`

	// Image is the thumbnail or poster URL
	Image string `json:"image,omitempty"`

	// URL links to the item on the upstream site
	URL string `json:"url,omitempty"`

	// ReleaseDate is free text as given upstream (year or date)
	ReleaseDate string `json:"releaseDate,omitempty"`

	// SubOrDub is "sub" or "dub" when the upstream tells
	SubOrDub string `json:"subOrDub,omitempty"`

	// EpisodeID and EpisodeNumber are set on recent-episode listings
	EpisodeID     string  `json:"episodeId,omitempty"`
	EpisodeNumber float64 `json:"episodeNumber,omitempty"`

	// Genres lists genre names when available
	Genres []string `json:"genres,omitempty"`
}

// IsValid reports whether the item has the fields every caller relies on
func (i Item) IsValid() bool {
	return i.ID != "" && i.Title != ""
}

// Episode is one entry in an anime's episode list
type Episode struct {
	ID     string  `json:"id"`
	Number float64 `json:"number"`
	URL    string  `json:"url,omitempty"`
}

// AnimeDetail is the catalog entry returned by the details operation
type AnimeDetail struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url,omitempty"`
	Image         string    `json:"image,omitempty"`
	Description   string    `json:"description,omitempty"`
	Genres        []string  `json:"genres,omitempty"`
	Type          string    `json:"type,omitempty"`
	Status        string    `json:"status,omitempty"`
	ReleaseDate   string    `json:"releaseDate,omitempty"`
	OtherName     string    `json:"otherName,omitempty"`
	TotalEpisodes int       `json:"totalEpisodes,omitempty"`
	Episodes      []Episode `json:"episodes"`
}

// StreamSource is one playable video URL for an episode
type StreamSource struct {
	URL     string `json:"url"`
	Quality string `json:"quality,omitempty"`
	IsM3U8  bool   `json:"isM3U8"`
}

// StreamSources is the result of the watch operation
type StreamSources struct {
	Headers  map[string]string `json:"headers,omitempty"`
	Sources  []StreamSource    `json:"sources"`
	Download string            `json:"download,omitempty"`
}
