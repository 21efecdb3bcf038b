// ABOUTME: HTML scrape source used as the last line of fallback
// ABOUTME: Fetches catalog pages from an anime site and reads items through a fixed selector path

package htmlscrape

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
const Kind = "htmlscrape"

// Source scrapes one gogoanime-style site
type Source struct {
	desc      domain.SourceDescriptor
	client    interfaces.HTTPClient
	selectors Selectors
}

// Option configures a Source
type Option func(*Source)

// WithSelectors overrides the default selector path
func WithSelectors(sel Selectors) Option {
	return func(s *Source) {
		s.selectors = sel
	}
}

// NewSource creates a scrape source
func NewSource(desc domain.SourceDescriptor, client interfaces.HTTPClient, opts ...Option) (*Source, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if desc.BaseURL == "" {
		return nil, fmt.Errorf("source %s: base URL is required", desc.Name)
	}
	if client == nil {
		return nil, errors.New("http client cannot be nil")
	}

	s := &Source{
		desc:      desc,
		client:    client,
		selectors: DefaultSelectors(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Descriptor returns the static configuration of the source
func (s *Source) Descriptor() domain.SourceDescriptor {
	return s.desc
}

// Fetch retrieves the HTML page answering req
func (s *Source) Fetch(ctx context.Context, req domain.ResolutionRequest) ([]byte, error) {
	return upstream.Get(ctx, s.client, s.desc.Name, s.pageURL(req))
}

// pageURL maps a request onto the site's page layout
func (s *Source) pageURL(req domain.ResolutionRequest) string {
	base := s.desc.BaseURL
	page := upstream.Page(req.Page())

	switch req.Kind() {
	case domain.KindSearch:
		return upstream.WithQuery(base+"/search.html", map[string]string{"keyword": req.Key(), "page": page})
	case domain.KindDetails:
		return upstream.JoinPath(base, "category", req.Key())
	case domain.KindWatch:
		return upstream.JoinPath(base, req.Key())
	}

	if genre, ok := req.Genre(); ok {
		return upstream.WithQuery(upstream.JoinPath(base, "genre", genre), map[string]string{"page": page})
	}
	if req.Key() == domain.ListingRecent {
		return upstream.WithQuery(base+"/", map[string]string{"page": page})
	}
	return upstream.WithQuery(base+"/popular.html", map[string]string{"page": page})
}

// Extract reads the page into a payload. Items missing an id or title are
// skipped; they never fail the page.
func (s *Source) Extract(req domain.ResolutionRequest, raw []byte) (domain.Payload, error) {
	doc, err := parseDocument(raw)
	if err != nil {
		return domain.Payload{}, &coreerrors.ExtractionError{Source: s.desc.Name, Err: err}
	}

	pageURL := s.pageURL(req)
	switch req.Kind() {
	case domain.KindDetails:
		return s.extractDetail(doc, req.Key(), pageURL), nil
	case domain.KindWatch:
		return s.extractStream(doc, pageURL), nil
	}

	return s.extractItems(doc, req, pageURL), nil
}
