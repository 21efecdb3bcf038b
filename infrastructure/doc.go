// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: in-process cache on patrickmn/go-cache
// - cache/redis: Redis cache on go-redis
// - cache/sqlite: file-backed cache on go-sqlite3
// - http/standard: per-source HTTP client with an optional token bucket
// - logger/logrus: JSON logger with optional lumberjack file rotation
// - logger/standard: plain line logger on the standard library
// - metrics: Prometheus collectors for attempts, resolutions, cache and limiter
// - sources: upstream adapters (jsonapi, htmlscrape, rssfeed) and their builder
//
// # Sources
//
// Each configured source gets its own HTTP client so one upstream's rate
// limit never throttles another:
//
//	srcs, err := sources.Build(cfg.Sources, logger)
//
// # Cache Implementations
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "key", []byte("value"), time.Minute)
//	value, err := cache.Get(ctx, "key")
package infrastructure
