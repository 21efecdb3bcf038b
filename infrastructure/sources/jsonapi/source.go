// ABOUTME: JSON API source for Consumet-compatible anime providers
// ABOUTME: Serves as the primary source and its mirrors; reshapes upstream JSON into domain payloads

package jsonapi

import (
	"context"
	"errors"
	"fmt"

	"otakubantu-api/core/domain"
	coreerrors "otakubantu-api/core/errors"
	"otakubantu-api/core/interfaces"
	"otakubantu-api/infrastructure/sources/upstream"
)

// Kind is the descriptor kind handled by this package
const Kind = "jsonapi"

// Source talks to one Consumet-compatible base URL, for example
// https://api.consumet.org/anime/gogoanime
type Source struct {
	desc   domain.SourceDescriptor
	client interfaces.HTTPClient
}

// NewSource creates a JSON API source
func NewSource(desc domain.SourceDescriptor, client interfaces.HTTPClient) (*Source, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if desc.BaseURL == "" {
		return nil, fmt.Errorf("source %s: base URL is required", desc.Name)
	}
	if client == nil {
		return nil, errors.New("http client cannot be nil")
	}
	return &Source{desc: desc, client: client}, nil
}

// Descriptor returns the static configuration of the source
func (s *Source) Descriptor() domain.SourceDescriptor {
	return s.desc
}

// Fetch retrieves the JSON document answering req
func (s *Source) Fetch(ctx context.Context, req domain.ResolutionRequest) ([]byte, error) {
	return upstream.Get(ctx, s.client, s.desc.Name, s.endpoint(req))
}

// endpoint maps a request onto the upstream route
func (s *Source) endpoint(req domain.ResolutionRequest) string {
	base := s.desc.BaseURL
	page := map[string]string{"page": upstream.Page(req.Page())}

	switch req.Kind() {
	case domain.KindSearch:
		return upstream.WithQuery(upstream.JoinPath(base, req.Key()), page)
	case domain.KindDetails:
		return upstream.JoinPath(base, "info", req.Key())
	case domain.KindWatch:
		return upstream.JoinPath(base, "watch", req.Key())
	}

	if genre, ok := req.Genre(); ok {
		return upstream.WithQuery(upstream.JoinPath(base, "genre", genre), page)
	}
	if req.Key() == domain.ListingRecent {
		return upstream.WithQuery(upstream.JoinPath(base, "recent-episodes"), page)
	}
	return upstream.WithQuery(upstream.JoinPath(base, "popular"), page)
}

// Extract reshapes the upstream JSON into a payload
func (s *Source) Extract(req domain.ResolutionRequest, raw []byte) (domain.Payload, error) {
	var (
		payload domain.Payload
		err     error
	)

	switch req.Kind() {
	case domain.KindDetails:
		payload, err = extractDetail(raw)
	case domain.KindWatch:
		payload, err = extractStream(raw)
	default:
		payload, err = extractList(raw)
	}

	if err != nil {
		return domain.Payload{}, &coreerrors.ExtractionError{Source: s.desc.Name, Err: err}
	}
	return payload, nil
}
