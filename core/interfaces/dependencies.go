// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the core business logic

package interfaces

// Dependencies holds the cross-cutting collaborators shared by core services.
// Cache backends and HTTP clients are injected where they are used: the
// result cache wraps its backend and each source owns its client.
type Dependencies struct {
	// Logger provides structured logging; optional
	Logger Logger

	// Metrics records pipeline counters; optional
	Metrics Metrics
}
