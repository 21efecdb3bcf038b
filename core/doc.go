// Package core contains the business logic of the OtakuBantu API.
// It is framework-agnostic: nothing here imports an HTTP router, a cache
// driver or a logging library.
//
// The core package is organized into several sub-packages:
//
// - domain: request, source descriptor, result and anime catalog models
// - resolver: the ordered fallback cascade across configured sources
// - cache: the result cache and its positive/negative TTL policy
// - ratelimit: per-client fixed window admission
// - gateway: the entry point combining admission, validation, cache and resolver
// - errors: typed errors for validation, rate limiting and source faults
// - interfaces: contracts for sources, cache backends, HTTP, logging and metrics
//
// # Design Principles
//
// - All external dependencies are injected via interfaces
// - Exhaustion of every source is data, not an error
// - Components are constructed once at startup; there are no singletons
//
// # Usage Example
//
//	deps := interfaces.Dependencies{Logger: logger, Metrics: metrics}
//
//	res, err := resolver.NewResolver(sources, deps)
//	if err != nil {
//	    // misconfigured cascade
//	}
//
//	gw := gateway.NewGateway(res, cache.NewResultCache(backend, cache.DefaultPolicy(), logger),
//	    ratelimit.NewLimiter(100, 15*time.Minute), deps, gateway.Options{SingleFlight: true})
//
//	resp, err := gw.Search(ctx, clientID, "naruto", 1)
package core
