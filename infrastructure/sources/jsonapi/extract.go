package jsonapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"otakubantu-api/core/domain"
	"otakubantu-api/pkg/utils/parse"
)

// listEnvelope is the paginated wrapper used by every listing route
type listEnvelope struct {
	CurrentPage flexInt           `json:"currentPage"`
	HasNextPage bool              `json:"hasNextPage"`
	Results     []json.RawMessage `json:"results"`
	Message     string            `json:"message"`
}

type rawItem struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Image         string     `json:"image"`
	URL           string     `json:"url"`
	ReleaseDate   string     `json:"releaseDate"`
	Released      string     `json:"released"`
	SubOrDub      string     `json:"subOrDub"`
	EpisodeID     string     `json:"episodeId"`
	EpisodeNumber flexNumber `json:"episodeNumber"`
	Genres        []string   `json:"genres"`
}

type rawEpisode struct {
	ID     string     `json:"id"`
	Number flexNumber `json:"number"`
	URL    string     `json:"url"`
}

type rawDetail struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	URL           string       `json:"url"`
	Image         string       `json:"image"`
	Description   string       `json:"description"`
	Genres        []string     `json:"genres"`
	Type          string       `json:"type"`
	Status        string       `json:"status"`
	ReleaseDate   string       `json:"releaseDate"`
	OtherName     string       `json:"otherName"`
	TotalEpisodes flexInt      `json:"totalEpisodes"`
	Episodes      []rawEpisode `json:"episodes"`
}

type rawStream struct {
	Headers map[string]string `json:"headers"`
	Sources []struct {
		URL     string `json:"url"`
		Quality string `json:"quality"`
		IsM3U8  bool   `json:"isM3U8"`
	} `json:"sources"`
	Download string `json:"download"`
}

// extractList decodes items one by one; a malformed item is dropped
// without affecting its siblings
func extractList(raw []byte) (domain.Payload, error) {
	var env listEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.Payload{}, fmt.Errorf("decode listing: %w", err)
	}
	if env.Results == nil && env.Message != "" {
		return domain.Payload{}, fmt.Errorf("upstream message: %s", env.Message)
	}

	items := make([]domain.Item, 0, len(env.Results))
	for _, r := range env.Results {
		var ri rawItem
		if err := json.Unmarshal(r, &ri); err != nil {
			continue
		}
		item := domain.Item{
			ID:            strings.TrimSpace(ri.ID),
			Title:         strings.TrimSpace(ri.Title),
			Image:         ri.Image,
			URL:           ri.URL,
			ReleaseDate:   firstNonEmpty(ri.ReleaseDate, ri.Released),
			SubOrDub:      ri.SubOrDub,
			EpisodeID:     ri.EpisodeID,
			EpisodeNumber: float64(ri.EpisodeNumber),
			Genres:        ri.Genres,
		}
		if !item.IsValid() {
			continue
		}
		items = append(items, item)
	}

	return domain.Payload{
		CurrentPage: int(env.CurrentPage),
		HasNextPage: env.HasNextPage,
		Items:       items,
	}, nil
}

func extractDetail(raw []byte) (domain.Payload, error) {
	var rd rawDetail
	if err := json.Unmarshal(raw, &rd); err != nil {
		return domain.Payload{}, fmt.Errorf("decode detail: %w", err)
	}
	if rd.ID == "" && rd.Title == "" {
		return domain.Payload{}, nil
	}

	episodes := make([]domain.Episode, 0, len(rd.Episodes))
	for _, e := range rd.Episodes {
		if e.ID == "" {
			continue
		}
		episodes = append(episodes, domain.Episode{ID: e.ID, Number: float64(e.Number), URL: e.URL})
	}

	return domain.Payload{
		Detail: &domain.AnimeDetail{
			ID:            rd.ID,
			Title:         rd.Title,
			URL:           rd.URL,
			Image:         rd.Image,
			Description:   strings.TrimSpace(rd.Description),
			Genres:        rd.Genres,
			Type:          rd.Type,
			Status:        rd.Status,
			ReleaseDate:   rd.ReleaseDate,
			OtherName:     rd.OtherName,
			TotalEpisodes: int(rd.TotalEpisodes),
			Episodes:      episodes,
		},
	}, nil
}

func extractStream(raw []byte) (domain.Payload, error) {
	var rs rawStream
	if err := json.Unmarshal(raw, &rs); err != nil {
		return domain.Payload{}, fmt.Errorf("decode sources: %w", err)
	}

	sources := make([]domain.StreamSource, 0, len(rs.Sources))
	for _, src := range rs.Sources {
		if src.URL == "" {
			continue
		}
		sources = append(sources, domain.StreamSource{URL: src.URL, Quality: src.Quality, IsM3U8: src.IsM3U8})
	}
	if len(sources) == 0 {
		return domain.Payload{}, nil
	}

	return domain.Payload{
		Stream: &domain.StreamSources{
			Headers:  rs.Headers,
			Sources:  sources,
			Download: rs.Download,
		},
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// flexNumber accepts 12, 12.5 or "12" for episode numbers. Anything else
// decodes as zero.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	*n = flexNumber(parse.FloatOrZero(string(b)))
	return nil
}

// flexInt accepts 3 or "3"
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	*n = flexInt(parse.IntOrZero(string(b)))
	return nil
}
