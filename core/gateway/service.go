// ABOUTME: Gateway is the entry point collaborators call to resolve anime resources
// ABOUTME: Applies rate limiting, validation, caching and single-flight around the resolver

package gateway

import (
	"context"
	"strings"
	"sync"

	"otakubantu-api/core/cache"
	"otakubantu-api/core/domain"
	coreerrors "otakubantu-api/core/errors"
	"otakubantu-api/core/interfaces"
	"otakubantu-api/core/ratelimit"

	"golang.org/x/sync/singleflight"
)

// Resolver runs the fallback cascade
type Resolver interface {
	Resolve(ctx context.Context, req domain.ResolutionRequest) domain.ResolutionResult
}

// Admitter gates requests per client
type Admitter interface {
	Admit(clientID string) ratelimit.Decision
}

// Options tunes the gateway
type Options struct {
	// SingleFlight shares one upstream resolution between concurrent
	// callers of the same uncached fingerprint
	SingleFlight bool
}

// Response is what the gateway hands back for a resolved request
type Response struct {
	// Request is the normalized request that was resolved
	Request domain.ResolutionRequest

	// Result is the resolver outcome, possibly served from cache
	Result domain.ResolutionResult

	// Cached is true when no upstream was contacted
	Cached bool
}

// Exhausted reports whether every source failed or answered empty
func (r Response) Exhausted() bool {
	return r.Result.Exhausted()
}

// SourceName returns the provenance to show callers: set only when a
// non-primary source answered
func (r Response) SourceName() string {
	if r.Result.FromFallback() {
		return r.Result.SourceName
	}
	return ""
}

// Gateway validates requests and drives the resolver. Construct once at
// startup and share; it is safe for concurrent use.
type Gateway struct {
	resolver Resolver
	cache    *cache.ResultCache
	limiter  Admitter
	opts     Options
	deps     interfaces.Dependencies
	flights  singleflight.Group

	// mu guards running and keeps it in step with flights
	mu      sync.Mutex
	running map[string]*flight
}

// flight is one shared resolution and the callers still waiting on it
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// NewGateway wires the gateway. A nil cache or limiter disables that stage.
func NewGateway(resolver Resolver, resultCache *cache.ResultCache, limiter Admitter, deps interfaces.Dependencies, opts Options) *Gateway {
	return &Gateway{
		resolver: resolver,
		cache:    resultCache,
		limiter:  limiter,
		opts:     opts,
		deps:     deps,
		running:  make(map[string]*flight),
	}
}

// Search looks up catalog entries matching query
func (g *Gateway) Search(ctx context.Context, clientID, query string, page int) (*Response, error) {
	return g.handle(ctx, clientID, domain.KindSearch, "q", "", query, defaultPage(page))
}

// GetDetails fetches one catalog entry
func (g *Gateway) GetDetails(ctx context.Context, clientID, id string) (*Response, error) {
	return g.handle(ctx, clientID, domain.KindDetails, "id", "", id, 0)
}

// GetEpisodeSources resolves the streaming sources of an episode
func (g *Gateway) GetEpisodeSources(ctx context.Context, clientID, episodeID string) (*Response, error) {
	return g.handle(ctx, clientID, domain.KindWatch, "episodeId", "", episodeID, 0)
}

// ListPopular returns the popular listing
func (g *Gateway) ListPopular(ctx context.Context, clientID string) (*Response, error) {
	return g.handle(ctx, clientID, domain.KindListing, "category", "", domain.ListingPopular, 0)
}

// ListRecent returns recently released episodes
func (g *Gateway) ListRecent(ctx context.Context, clientID string, page int) (*Response, error) {
	return g.handle(ctx, clientID, domain.KindListing, "category", "", domain.ListingRecent, defaultPage(page))
}

// ListByGenre returns catalog entries of one genre
func (g *Gateway) ListByGenre(ctx context.Context, clientID, genre string, page int) (*Response, error) {
	return g.handle(ctx, clientID, domain.KindListing, "genre", domain.GenrePrefix, genre, defaultPage(page))
}

// handle runs admission, validation, cache lookup and resolution in that order.
// field names the caller-supplied value in validation errors; prefix is
// prepended to it to form the request key.
func (g *Gateway) handle(ctx context.Context, clientID string, kind domain.RequestKind, field, prefix, value string, page int) (*Response, error) {
	if err := g.admit(clientID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(value) == "" {
		return nil, &coreerrors.ValidationError{Field: field, Message: field + " is required"}
	}
	if page < 0 {
		return nil, &coreerrors.ValidationError{Field: "page", Message: "page must be a positive integer"}
	}

	req, err := domain.NewResolutionRequest(kind, prefix+value, page)
	if err != nil {
		return nil, &coreerrors.ValidationError{Field: field, Message: err.Error()}
	}

	fingerprint := req.Fingerprint()
	if g.cache != nil {
		result, hit := g.cache.Get(ctx, fingerprint)
		g.observeCache(hit)
		if hit {
			g.debug("Cache hit", fingerprint)
			return &Response{Request: req, Result: result, Cached: true}, nil
		}
	}

	result, err := g.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Response{Request: req, Result: result}, nil
}

// resolve runs the cascade and caches its outcome. Results of a cascade cut
// short by cancellation are never cached.
func (g *Gateway) resolve(ctx context.Context, req domain.ResolutionRequest) (domain.ResolutionResult, error) {
	if !g.opts.SingleFlight {
		result := g.resolver.Resolve(ctx, req)
		if err := ctx.Err(); err != nil {
			return domain.ResolutionResult{}, err
		}
		g.store(ctx, req, result)
		return result, nil
	}

	key := req.Fingerprint()
	f, ch := g.join(ctx, key, req)

	select {
	case res := <-ch:
		g.leave(key, f)
		return res.Val.(domain.ResolutionResult), nil
	case <-ctx.Done():
		g.leave(key, f)
		return domain.ResolutionResult{}, ctx.Err()
	}
}

// join attaches the caller to the running flight for key, starting one when
// none is running. The flight context is cancelled only when every waiter
// has gone.
func (g *Gateway) join(ctx context.Context, key string, req domain.ResolutionRequest) (*flight, <-chan singleflight.Result) {
	g.mu.Lock()
	defer g.mu.Unlock()

	f, ok := g.running[key]
	if !ok {
		flightCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: flightCtx, cancel: cancel}
		g.running[key] = f
	}
	f.waiters++

	ch := g.flights.DoChan(key, func() (interface{}, error) {
		defer g.finish(key, f)
		result := g.resolver.Resolve(f.ctx, req)
		g.store(context.WithoutCancel(f.ctx), req, result)
		return result, nil
	})
	return f, ch
}

// leave detaches a caller. The last caller out cancels the flight and
// unregisters it so later callers start afresh.
func (g *Gateway) leave(key string, f *flight) {
	g.mu.Lock()
	defer g.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	g.forget(key, f)
}

func (g *Gateway) finish(key string, f *flight) {
	g.mu.Lock()
	defer g.mu.Unlock()

	f.cancel()
	g.forget(key, f)
}

// forget drops f if it is still the registered flight for key. Callers hold mu.
func (g *Gateway) forget(key string, f *flight) {
	if g.running[key] == f {
		delete(g.running, key)
		g.flights.Forget(key)
	}
}

func (g *Gateway) store(ctx context.Context, req domain.ResolutionRequest, result domain.ResolutionResult) {
	if g.cache == nil || cancelled(result) {
		return
	}
	if err := g.cache.Store(ctx, req.Fingerprint(), result); err != nil && g.deps.Logger != nil {
		g.deps.Logger.Warn("Failed to cache result", map[string]interface{}{
			"request_key": req.Fingerprint(),
			"error":       err.Error(),
		})
	}
}

func (g *Gateway) admit(clientID string) error {
	if g.limiter == nil {
		return nil
	}

	decision := g.limiter.Admit(clientID)
	if decision.Allowed {
		return nil
	}

	if g.deps.Metrics != nil {
		g.deps.Metrics.RateLimited()
	}
	if g.deps.Logger != nil {
		g.deps.Logger.Warn("Rate limit exceeded", map[string]interface{}{
			"client_id":   clientID,
			"retry_after": decision.RetryAfter.String(),
		})
	}
	return &coreerrors.RateLimitError{
		ClientID:   clientID,
		Limit:      decision.Limit,
		RetryAfter: decision.RetryAfter,
	}
}

func (g *Gateway) observeCache(hit bool) {
	if g.deps.Metrics != nil {
		g.deps.Metrics.CacheLookup(hit)
	}
}

func (g *Gateway) debug(msg, key string) {
	if g.deps.Logger != nil {
		g.deps.Logger.Debug(msg, map[string]interface{}{"request_key": key})
	}
}

func cancelled(result domain.ResolutionResult) bool {
	for _, a := range result.Attempts {
		if a.Outcome == domain.OutcomeCancelled {
			return true
		}
	}
	return false
}

func defaultPage(page int) int {
	if page == 0 {
		return 1
	}
	return page
}
