// ABOUTME: Result cache stores resolved results by request fingerprint
// ABOUTME: Applies the positive and negative TTL policy on top of any byte cache backend

package cache

import (
	"context"
	"encoding/json"
	"time"

	"otakubantu-api/core/domain"
	"otakubantu-api/core/interfaces"
)

// Default TTLs
const (
	DefaultTTL         = 300 * time.Second
	DefaultNegativeTTL = 30 * time.Second
)

const keyPrefix = "resolve:"

// Policy decides how long a result may be served from cache
type Policy struct {
	// TTL applies to results that carried at least one item
	TTL time.Duration

	// NegativeTTL applies to exhausted results; zero disables negative caching
	NegativeTTL time.Duration
}

// DefaultPolicy returns the reference TTLs
func DefaultPolicy() Policy {
	return Policy{TTL: DefaultTTL, NegativeTTL: DefaultNegativeTTL}
}

// TTLFor returns the TTL for result, or zero when it must not be cached
func (p Policy) TTLFor(result domain.ResolutionResult) time.Duration {
	if result.Exhausted() {
		return p.NegativeTTL
	}
	return p.TTL
}

// CacheEntry is the stored form of a result
type CacheEntry struct {
	Key       string                  `json:"key"`
	Value     domain.ResolutionResult `json:"value"`
	ExpiresAt time.Time               `json:"expiresAt"`
}

// ResultCache maps request fingerprints to resolution results. Entries are
// written whole and replaced, never mutated in place.
type ResultCache struct {
	backend interfaces.Cache
	policy  Policy
	now     func() time.Time
	logger  interfaces.Logger
}

// NewResultCache wraps a byte cache backend
func NewResultCache(backend interfaces.Cache, policy Policy, logger interfaces.Logger) *ResultCache {
	return &ResultCache{
		backend: backend,
		policy:  policy,
		now:     time.Now,
		logger:  logger,
	}
}

// Policy returns the TTL policy in use
func (c *ResultCache) Policy() Policy {
	return c.policy
}

// Get returns the cached result for key. Missing, expired and undecodable
// entries are all reported as absent.
func (c *ResultCache) Get(ctx context.Context, key string) (domain.ResolutionResult, bool) {
	data, err := c.backend.Get(ctx, keyPrefix+key)
	if err != nil || data == nil {
		return domain.ResolutionResult{}, false
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.warn("Discarding undecodable cache entry", key, err)
		_ = c.backend.Delete(ctx, keyPrefix+key)
		return domain.ResolutionResult{}, false
	}

	// backends round expiry differently; the entry's own deadline wins
	if !c.now().Before(entry.ExpiresAt) {
		_ = c.backend.Delete(ctx, keyPrefix+key)
		return domain.ResolutionResult{}, false
	}

	return entry.Value, true
}

// Set stores value for ttl, overwriting any previous entry
func (c *ResultCache) Set(ctx context.Context, key string, value domain.ResolutionResult, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	entry := CacheEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: c.now().Add(ttl),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return c.backend.Set(ctx, keyPrefix+key, data, ttl)
}

// Store caches value with the TTL the policy assigns to it
func (c *ResultCache) Store(ctx context.Context, key string, value domain.ResolutionResult) error {
	return c.Set(ctx, key, value, c.policy.TTLFor(value))
}

func (c *ResultCache) warn(msg, key string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(msg, map[string]interface{}{
		"key":   key,
		"error": err.Error(),
	})
}
