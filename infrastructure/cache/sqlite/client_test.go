package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"), &mockLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSQLiteCache_SetGet(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "resolve:search:naruto:1", []byte(`{"succeeded":true}`), time.Minute))

	got, err := client.Get(ctx, "resolve:search:naruto:1")
	require.NoError(t, err)
	assert.Equal(t, `{"succeeded":true}`, string(got))
}

func TestSQLiteCache_GetMissing(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Get(context.Background(), "absent")

	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestSQLiteCache_ExpiredIsMiss(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	now := time.Now()
	client.now = func() time.Time { return now }

	require.NoError(t, client.Set(ctx, "k", []byte("v"), time.Second))

	now = now.Add(time.Second)
	_, err := client.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestSQLiteCache_ZeroTTLNeverExpires(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	now := time.Now()
	client.now = func() time.Time { return now }

	require.NoError(t, client.Set(ctx, "k", []byte("v"), 0))

	now = now.Add(24 * 365 * time.Hour)
	_, err := client.Get(ctx, "k")
	assert.NoError(t, err)
}

func TestSQLiteCache_SetOverwrites(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", []byte("first"), time.Minute))
	require.NoError(t, client.Set(ctx, "k", []byte("second"), time.Minute))

	got, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestSQLiteCache_Delete(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, client.Delete(ctx, "k"))

	_, err := client.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrCacheMiss))
	assert.NoError(t, client.Delete(ctx, "never-set"))
}

func TestSQLiteCache_KeyValidation(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"too long", strings.Repeat("k", maxKeyLength+1)},
		{"null byte", "search:\x00naruto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, client.Set(ctx, tt.key, []byte("v"), time.Minute))
			_, err := client.Get(ctx, tt.key)
			assert.Error(t, err)
		})
	}
}

func TestSQLiteCache_InjectionLookingKeysAreStoredLiterally(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	key := "resolve:search:'; DROP TABLE resolved_results; --:1"
	require.NoError(t, client.Set(ctx, key, []byte("v"), time.Minute))

	got, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestSQLiteCache_ValueValidation(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	assert.Error(t, client.Set(ctx, "k", nil, time.Minute))
	assert.Error(t, client.Set(ctx, "k", make([]byte, maxValueLength+1), time.Minute))
}

func TestSQLiteCache_CleanupAndStats(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	now := time.Now()
	client.now = func() time.Time { return now }

	require.NoError(t, client.Set(ctx, "short", []byte("v"), time.Second))
	require.NoError(t, client.Set(ctx, "long", []byte("v"), time.Hour))
	now = now.Add(2 * time.Second)

	stats, err := client.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats["total_entries"])
	assert.Equal(t, 1, stats["expired_entries"])

	removed, err := client.cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	require.NoError(t, client.Clear(ctx))
	stats, err = client.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats["total_entries"])
}

func TestSQLiteCache_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	first, err := NewSQLiteCache(path, nil)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, first.Close())

	second, err := NewSQLiteCache(path, nil)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}
