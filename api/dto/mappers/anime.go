// ABOUTME: Mappers for converting gateway responses and domain models to API DTOs
// ABOUTME: Keeps the wire shape stable whatever source produced the payload

package mappers

import (
	"otakubantu-api/api/dto/responses"
	"otakubantu-api/core/domain"
	"otakubantu-api/core/gateway"
)

// ToResolveResponse converts a gateway response to the API envelope
func ToResolveResponse(resp *gateway.Response) *responses.ResolveResponse {
	out := &responses.ResolveResponse{
		Items: []responses.ItemResponse{},
	}
	if resp == nil {
		out.Fallback = true
		return out
	}

	out.Cached = resp.Cached
	if resp.Exhausted() {
		out.Fallback = true
		return out
	}

	out.Source = resp.SourceName()
	out.Fallback = out.Source != ""

	payload := resp.Result.Payload
	out.CurrentPage = payload.CurrentPage
	out.HasNextPage = payload.HasNextPage
	for _, item := range payload.Items {
		out.Items = append(out.Items, ToItemResponse(item))
	}
	out.Detail = ToDetailResponse(payload.Detail)
	out.Stream = ToStreamResponse(payload.Stream)

	return out
}

// ToItemResponse converts a domain Item
func ToItemResponse(item domain.Item) responses.ItemResponse {
	return responses.ItemResponse{
		ID:            item.ID,
		Title:         item.Title,
		Image:         item.Image,
		URL:           item.URL,
		ReleaseDate:   item.ReleaseDate,
		SubOrDub:      item.SubOrDub,
		EpisodeID:     item.EpisodeID,
		EpisodeNumber: item.EpisodeNumber,
		Genres:        item.Genres,
	}
}

// ToDetailResponse converts a domain AnimeDetail; nil stays nil
func ToDetailResponse(detail *domain.AnimeDetail) *responses.DetailResponse {
	if detail == nil {
		return nil
	}

	out := &responses.DetailResponse{
		ID:            detail.ID,
		Title:         detail.Title,
		URL:           detail.URL,
		Image:         detail.Image,
		Description:   detail.Description,
		Genres:        append([]string{}, detail.Genres...),
		Type:          detail.Type,
		Status:        detail.Status,
		ReleaseDate:   detail.ReleaseDate,
		OtherName:     detail.OtherName,
		TotalEpisodes: detail.TotalEpisodes,
		Episodes:      make([]responses.EpisodeResponse, 0, len(detail.Episodes)),
	}
	for _, ep := range detail.Episodes {
		out.Episodes = append(out.Episodes, responses.EpisodeResponse{
			ID:     ep.ID,
			Number: ep.Number,
			URL:    ep.URL,
		})
	}
	if out.TotalEpisodes == 0 {
		out.TotalEpisodes = len(out.Episodes)
	}
	return out
}

// ToStreamResponse converts domain StreamSources; nil stays nil
func ToStreamResponse(stream *domain.StreamSources) *responses.StreamResponse {
	if stream == nil {
		return nil
	}

	out := &responses.StreamResponse{
		Headers:  stream.Headers,
		Sources:  make([]responses.StreamSourceResponse, 0, len(stream.Sources)),
		Download: stream.Download,
	}
	for _, s := range stream.Sources {
		out.Sources = append(out.Sources, responses.StreamSourceResponse{
			URL:     s.URL,
			Quality: s.Quality,
			IsM3U8:  s.IsM3U8,
		})
	}
	return out
}

// ToSourceResponses describes the configured cascade in attempt order
func ToSourceResponses(descs []domain.SourceDescriptor) []responses.SourceResponse {
	out := make([]responses.SourceResponse, 0, len(descs))
	for _, d := range descs {
		out = append(out, responses.SourceResponse{
			Name:  d.Name,
			Role:  string(d.Role),
			Order: d.Order,
		})
	}
	return out
}
