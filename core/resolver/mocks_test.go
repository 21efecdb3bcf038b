package resolver

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"otakubantu-api/core/domain"
)

// mockSource is a mock implementation of the Source interface
type mockSource struct {
	desc        domain.SourceDescriptor
	fetchFunc   func(ctx context.Context, req domain.ResolutionRequest) ([]byte, error)
	extractFunc func(req domain.ResolutionRequest, raw []byte) (domain.Payload, error)
	fetches     int32
	onFetch     func(name string)
}

func newMockSource(name string, role domain.SourceRole, order int) *mockSource {
	return &mockSource{
		desc: domain.SourceDescriptor{
			Name:    name,
			Role:    role,
			Order:   order,
			Timeout: time.Second,
		},
	}
}

func (m *mockSource) Descriptor() domain.SourceDescriptor {
	return m.desc
}

func (m *mockSource) Fetch(ctx context.Context, req domain.ResolutionRequest) ([]byte, error) {
	atomic.AddInt32(&m.fetches, 1)
	if m.onFetch != nil {
		m.onFetch(m.desc.Name)
	}
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, req)
	}
	return []byte("{}"), nil
}

func (m *mockSource) Extract(req domain.ResolutionRequest, raw []byte) (domain.Payload, error) {
	if m.extractFunc != nil {
		return m.extractFunc(req, raw)
	}
	return domain.Payload{}, nil
}

func (m *mockSource) calls() int {
	return int(atomic.LoadInt32(&m.fetches))
}

// withItems makes the source answer with n valid items
func (m *mockSource) withItems(n int) *mockSource {
	m.extractFunc = func(req domain.ResolutionRequest, raw []byte) (domain.Payload, error) {
		items := make([]domain.Item, 0, n)
		for i := 0; i < n; i++ {
			items = append(items, domain.Item{ID: m.desc.Name + "-item", Title: "Title"})
		}
		return domain.Payload{Items: items}, nil
	}
	return m
}

// failing makes the source return a transport error
func (m *mockSource) failing(err error) *mockSource {
	m.fetchFunc = func(ctx context.Context, req domain.ResolutionRequest) ([]byte, error) {
		return nil, err
	}
	return m
}

// logEntry is one captured log call
type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

// mockLogger is a mock implementation of the Logger interface that records calls
type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (m *mockLogger) log(level, msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) { m.log("debug", msg, fields) }
func (m *mockLogger) Info(msg string, fields map[string]interface{})  { m.log("info", msg, fields) }
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  { m.log("warn", msg, fields) }
func (m *mockLogger) Error(msg string, fields map[string]interface{}) { m.log("error", msg, fields) }

func (m *mockLogger) all() []logEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]logEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// mockMetrics is a mock implementation of the Metrics interface
type mockMetrics struct {
	mu          sync.Mutex
	attempts    map[string]domain.Outcome
	resolutions int
	exhausted   int
}

func (m *mockMetrics) ObserveAttempt(source string, outcome domain.Outcome, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attempts == nil {
		m.attempts = make(map[string]domain.Outcome)
	}
	m.attempts[source] = outcome
}

func (m *mockMetrics) ObserveResolution(kind domain.RequestKind, exhausted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions++
	if exhausted {
		m.exhausted++
	}
}

func (m *mockMetrics) CacheLookup(hit bool) {}

func (m *mockMetrics) RateLimited() {}

// filteredSource only answers the listed kinds, narrowed further by accept when set
type filteredSource struct {
	*mockSource
	kinds  []domain.RequestKind
	accept func(req domain.ResolutionRequest) bool
}

func (f *filteredSource) Supports(req domain.ResolutionRequest) bool {
	if f.accept != nil && !f.accept(req) {
		return false
	}
	for _, k := range f.kinds {
		if k == req.Kind() {
			return true
		}
	}
	return false
}
