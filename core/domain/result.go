// ABOUTME: ResolutionResult domain model carries the outcome of one fallback cascade
// ABOUTME: Distinguishes a non-empty success, an empty answer and a hard failure

package domain

// Payload is the normalized data produced by an extractor. Exactly one of
// Items, Detail or Stream is populated depending on the request kind.
type Payload struct {
	CurrentPage int            `json:"currentPage,omitempty"`
	HasNextPage bool           `json:"hasNextPage,omitempty"`
	Items       []Item         `json:"items,omitempty"`
	Detail      *AnimeDetail   `json:"detail,omitempty"`
	Stream      *StreamSources `json:"stream,omitempty"`
}

// Count returns the number of usable items in the payload. A detail page
// counts as one item, a stream as its number of sources.
func (p Payload) Count() int {
	switch {
	case p.Detail != nil:
		if p.Detail.ID == "" && p.Detail.Title == "" {
			return 0
		}
		return 1
	case p.Stream != nil:
		return len(p.Stream.Sources)
	}
	return len(p.Items)
}

// Outcome classifies a single source attempt
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeEmpty     Outcome = "empty"
	OutcomeFailure   Outcome = "failure"
	OutcomeCancelled Outcome = "cancelled"
)

// Attempt records what one source did during a cascade
type Attempt struct {
	Source    string  `json:"source"`
	Outcome   Outcome `json:"outcome"`
	LatencyMs int64   `json:"latencyMs"`
	Error     string  `json:"error,omitempty"`
}

// ResolutionResult is the outcome of resolving one request.
//
// Succeeded with IsEmpty=false means SourceName produced at least one item.
// Succeeded with IsEmpty=true means every source was exhausted and the last
// one answered without error but had nothing. Succeeded=false means the
// cascade was exhausted and the last attempt was a hard failure.
type ResolutionResult struct {
	Succeeded  bool       `json:"succeeded"`
	SourceName string     `json:"sourceName,omitempty"`
	Role       SourceRole `json:"role,omitempty"`
	Payload    Payload    `json:"payload"`
	IsEmpty    bool       `json:"isEmpty"`
	Attempts   []Attempt  `json:"attempts,omitempty"`
}

// Exhausted reports whether no source produced usable data
func (r ResolutionResult) Exhausted() bool {
	return !r.Succeeded || r.IsEmpty
}

// FromFallback reports whether the answer came from a non-primary source
func (r ResolutionResult) FromFallback() bool {
	return !r.Exhausted() && r.Role != RolePrimary
}
