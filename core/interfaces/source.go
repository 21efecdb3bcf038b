// ABOUTME: Source interface pairs an upstream client with the extractor for its format
// ABOUTME: Implementations live in infrastructure/sources and are ordered by the resolver

package interfaces

import (
	"context"

	"otakubantu-api/core/domain"
)

// Source is one upstream provider able to answer resolution requests.
//
// Fetch performs the network call and must honor ctx cancellation; any
// non-2xx status, transport error or timeout is returned as an error.
// Extract is a pure function of the fetched bytes and returns a payload
// with zero items when the document holds nothing usable. A document that
// cannot be parsed at all returns an error.
type Source interface {
	// Descriptor returns the static configuration of the source
	Descriptor() domain.SourceDescriptor

	// Fetch retrieves the raw document answering req
	Fetch(ctx context.Context, req domain.ResolutionRequest) ([]byte, error)

	// Extract normalizes a raw document into a payload
	Extract(req domain.ResolutionRequest, raw []byte) (domain.Payload, error)
}

// KindFilter is implemented by sources that answer only some requests.
// The resolver skips such a source for unsupported requests without
// recording an attempt.
type KindFilter interface {
	Supports(req domain.ResolutionRequest) bool
}
