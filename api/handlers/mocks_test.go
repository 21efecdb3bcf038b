package handlers

import (
	"context"
	"sync"

	"otakubantu-api/core/domain"
	"otakubantu-api/core/gateway"
)

// call records one invocation of the mock service
type call struct {
	op       string
	clientID string
	value    string
	page     int
}

// mockAnimeService implements AnimeService for testing
type mockAnimeService struct {
	mu    sync.Mutex
	calls []call
	resp  *gateway.Response
	err   error
}

func (m *mockAnimeService) record(op, clientID, value string, page int) (*gateway.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{op: op, clientID: clientID, value: value, page: page})
	if m.err != nil {
		return nil, m.err
	}
	if m.resp != nil {
		return m.resp, nil
	}
	return primaryResponse(), nil
}

func (m *mockAnimeService) lastCall() call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

func (m *mockAnimeService) Search(ctx context.Context, clientID, query string, page int) (*gateway.Response, error) {
	return m.record("search", clientID, query, page)
}

func (m *mockAnimeService) GetDetails(ctx context.Context, clientID, id string) (*gateway.Response, error) {
	return m.record("details", clientID, id, 0)
}

func (m *mockAnimeService) GetEpisodeSources(ctx context.Context, clientID, episodeID string) (*gateway.Response, error) {
	return m.record("watch", clientID, episodeID, 0)
}

func (m *mockAnimeService) ListPopular(ctx context.Context, clientID string) (*gateway.Response, error) {
	return m.record("popular", clientID, "", 0)
}

func (m *mockAnimeService) ListRecent(ctx context.Context, clientID string, page int) (*gateway.Response, error) {
	return m.record("recent", clientID, "", page)
}

func (m *mockAnimeService) ListByGenre(ctx context.Context, clientID, genre string, page int) (*gateway.Response, error) {
	return m.record("genre", clientID, genre, page)
}

func primaryResponse() *gateway.Response {
	return &gateway.Response{
		Result: domain.ResolutionResult{
			Succeeded:  true,
			SourceName: "consumet",
			Role:       domain.RolePrimary,
			Payload: domain.Payload{
				CurrentPage: 1,
				HasNextPage: true,
				Items:       []domain.Item{{ID: "naruto", Title: "Naruto"}},
			},
		},
	}
}
