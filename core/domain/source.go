// ABOUTME: SourceDescriptor domain model describes one statically configured upstream
// ABOUTME: Provides the ordering rules the resolver relies on (primary, mirrors, scrape fallbacks)

package domain

import (
	"fmt"
	"sort"
	"time"
)

// SourceRole classifies where a source sits in the fallback cascade
type SourceRole string

const (
	// RolePrimary is the single source attempted first
	RolePrimary SourceRole = "primary"

	// RoleMirror sources serve the same API shape as the primary
	RoleMirror SourceRole = "mirror"

	// RoleScrapeFallback sources are scraped pages or feeds, attempted last
	RoleScrapeFallback SourceRole = "scrape_fallback"
)

// rank orders roles in the cascade
func (r SourceRole) rank() int {
	switch r {
	case RolePrimary:
		return 0
	case RoleMirror:
		return 1
	case RoleScrapeFallback:
		return 2
	}
	return 3
}

// Valid reports whether r is a known role
func (r SourceRole) Valid() bool {
	return r.rank() < 3
}

// SourceDescriptor is the static configuration of one upstream source.
// Descriptors are built at startup and never mutated afterwards.
type SourceDescriptor struct {
	// Name uniquely identifies the source in logs, metrics and provenance
	Name string

	// Role places the source in the cascade
	Role SourceRole

	// Timeout bounds a single fetch against this source
	Timeout time.Duration

	// Order is the ascending attempt priority within the role
	Order int

	// BaseURL is the upstream endpoint root
	BaseURL string

	// Kind names the client/extractor variant (jsonapi, htmlscrape, rssfeed)
	Kind string
}

// Validate checks the fields of a single descriptor
func (d SourceDescriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("source name cannot be empty")
	}
	if !d.Role.Valid() {
		return fmt.Errorf("source %s: unknown role %q", d.Name, d.Role)
	}
	if d.Timeout <= 0 {
		return fmt.Errorf("source %s: timeout must be greater than zero", d.Name)
	}
	return nil
}

// SortDescriptors returns a copy of ds in attempt order: the primary, then
// mirrors, then scrape fallbacks, each group by ascending Order. Ties keep
// their configured position.
func SortDescriptors(ds []SourceDescriptor) []SourceDescriptor {
	sorted := make([]SourceDescriptor, len(ds))
	copy(sorted, ds)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Role.rank() != sorted[j].Role.rank() {
			return sorted[i].Role.rank() < sorted[j].Role.rank()
		}
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// ValidateDescriptors enforces the cascade invariants: every descriptor is
// valid, names are unique and exactly one primary is configured.
func ValidateDescriptors(ds []SourceDescriptor) error {
	if len(ds) == 0 {
		return fmt.Errorf("at least one source must be configured")
	}

	names := make(map[string]struct{}, len(ds))
	primaries := 0
	for _, d := range ds {
		if err := d.Validate(); err != nil {
			return err
		}
		if _, dup := names[d.Name]; dup {
			return fmt.Errorf("duplicate source name %q", d.Name)
		}
		names[d.Name] = struct{}{}
		if d.Role == RolePrimary {
			primaries++
		}
	}

	if primaries != 1 {
		return fmt.Errorf("exactly one primary source is required, got %d", primaries)
	}
	return nil
}
