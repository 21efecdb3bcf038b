// ABOUTME: ResolutionRequest domain model describes one logical lookup against the sources
// ABOUTME: Provides key normalization and the fingerprint used for caching and single-flight

package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// RequestKind identifies which upstream operation a request maps to
type RequestKind string

const (
	// KindSearch looks up catalog entries by free-text query
	KindSearch RequestKind = "search"

	// KindDetails fetches a single catalog entry with its episode list
	KindDetails RequestKind = "details"

	// KindWatch resolves the streaming sources of one episode
	KindWatch RequestKind = "watch"

	// KindListing fetches a category listing (popular, recent, genre)
	KindListing RequestKind = "listing"
)

// Listing categories carried in the Key of a KindListing request
const (
	ListingPopular = "popular"
	ListingRecent  = "recent"

	// GenrePrefix prefixes the genre name in a genre listing key
	GenrePrefix = "genre:"
)

// Valid reports whether k is one of the known request kinds
func (k RequestKind) Valid() bool {
	switch k {
	case KindSearch, KindDetails, KindWatch, KindListing:
		return true
	}
	return false
}

// ResolutionRequest is an immutable description of what a caller wants resolved.
// Build it with NewResolutionRequest so the key is normalized consistently.
type ResolutionRequest struct {
	kind RequestKind
	key  string
	page int
}

// NewResolutionRequest validates and normalizes the request fields.
// A page of 0 means "not paginated"; negative pages are rejected.
func NewResolutionRequest(kind RequestKind, key string, page int) (ResolutionRequest, error) {
	if !kind.Valid() {
		return ResolutionRequest{}, fmt.Errorf("unknown request kind %q", kind)
	}

	key = normalizeKey(kind, key)
	if key == "" {
		return ResolutionRequest{}, fmt.Errorf("request key cannot be empty")
	}

	if page < 0 {
		return ResolutionRequest{}, fmt.Errorf("page must be a positive integer")
	}

	return ResolutionRequest{kind: kind, key: key, page: page}, nil
}

// Kind returns the request kind
func (r ResolutionRequest) Kind() RequestKind { return r.kind }

// Key returns the normalized query, id or listing category
func (r ResolutionRequest) Key() string { return r.key }

// Page returns the requested page, or 0 when the request is not paginated
func (r ResolutionRequest) Page() int { return r.page }

// PageOrDefault returns the page, treating "not paginated" as page 1
func (r ResolutionRequest) PageOrDefault() int {
	if r.page == 0 {
		return 1
	}
	return r.page
}

// Genre returns the genre name of a genre listing request
func (r ResolutionRequest) Genre() (string, bool) {
	if r.kind != KindListing || !strings.HasPrefix(r.key, GenrePrefix) {
		return "", false
	}
	return strings.TrimPrefix(r.key, GenrePrefix), true
}

// Fingerprint derives the cache and single-flight key: kind, key and page
func (r ResolutionRequest) Fingerprint() string {
	fp := string(r.kind) + ":" + r.key
	if r.page > 0 {
		fp += ":" + strconv.Itoa(r.page)
	}
	return fp
}

// String implements fmt.Stringer
func (r ResolutionRequest) String() string {
	return r.Fingerprint()
}

// normalizeKey collapses whitespace so "  One  Piece " and "one piece" share a
// fingerprint. Ids are case-sensitive upstream and only get trimmed.
func normalizeKey(kind RequestKind, s string) string {
	switch kind {
	case KindDetails, KindWatch:
		return strings.TrimSpace(s)
	}
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
