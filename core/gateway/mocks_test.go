package gateway

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"otakubantu-api/core/domain"
	"otakubantu-api/core/ratelimit"
)

// mockResolver is a mock implementation of the Resolver interface
type mockResolver struct {
	resolveFunc func(ctx context.Context, req domain.ResolutionRequest) domain.ResolutionResult
	count       int32
}

func (m *mockResolver) Resolve(ctx context.Context, req domain.ResolutionRequest) domain.ResolutionResult {
	atomic.AddInt32(&m.count, 1)
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, req)
	}
	return primaryHit()
}

func (m *mockResolver) calls() int {
	return int(atomic.LoadInt32(&m.count))
}

// mockAdmitter is a mock implementation of the Admitter interface
type mockAdmitter struct {
	admitFunc func(clientID string) ratelimit.Decision
	count     int32
}

func (m *mockAdmitter) Admit(clientID string) ratelimit.Decision {
	atomic.AddInt32(&m.count, 1)
	if m.admitFunc != nil {
		return m.admitFunc(clientID)
	}
	return ratelimit.Decision{Allowed: true, Limit: 100, Remaining: 99}
}

// mapCache is a mock implementation of the Cache interface
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}}
}

func (m *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (m *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mapCache) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}

// mockMetrics is a mock implementation of the Metrics interface
type mockMetrics struct {
	mu          sync.Mutex
	hits        int
	misses      int
	rateLimited int
}

func (m *mockMetrics) ObserveAttempt(source string, outcome domain.Outcome, latency time.Duration) {}

func (m *mockMetrics) ObserveResolution(kind domain.RequestKind, exhausted bool) {}

func (m *mockMetrics) CacheLookup(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *mockMetrics) RateLimited() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rateLimited++
}

func primaryHit() domain.ResolutionResult {
	return domain.ResolutionResult{
		Succeeded:  true,
		SourceName: "consumet",
		Role:       domain.RolePrimary,
		Payload: domain.Payload{
			CurrentPage: 1,
			Items:       []domain.Item{{ID: "naruto", Title: "Naruto"}},
		},
		Attempts: []domain.Attempt{{Source: "consumet", Outcome: domain.OutcomeSuccess, LatencyMs: 12}},
	}
}
