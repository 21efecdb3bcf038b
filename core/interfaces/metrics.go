package interfaces

import (
	"time"

	"otakubantu-api/core/domain"
)

// Metrics records resolution pipeline events. A nil Metrics in
// Dependencies disables recording.
type Metrics interface {
	// ObserveAttempt records one source attempt and its latency
	ObserveAttempt(source string, outcome domain.Outcome, latency time.Duration)

	// ObserveResolution records the terminal state of a cascade
	ObserveResolution(kind domain.RequestKind, exhausted bool)

	// CacheLookup records a cache hit or miss
	CacheLookup(hit bool)

	// RateLimited records a rejected admission
	RateLimited()
}
