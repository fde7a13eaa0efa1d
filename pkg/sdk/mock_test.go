package sheetdex

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/sheetdex/internal/db"
	searchuc "github.com/kailas-cloud/sheetdex/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/sheetdex/internal/usecase/upload"
)

// --- use case mocks ---

type mockUploadUC struct {
	fn  func(ctx context.Context, in uploaduc.Input) (*uploaduc.Result, error)
	got uploaduc.Input
}

func (m *mockUploadUC) Upload(ctx context.Context, in uploaduc.Input) (*uploaduc.Result, error) {
	m.got = in
	return m.fn(ctx, in)
}

type mockSearchUC struct {
	fn      func(ctx context.Context, dataset, q string, k int) (searchuc.Response, error)
	dataset string
	q       string
	k       int
}

func (m *mockSearchUC) Search(ctx context.Context, dataset, q string, k int) (searchuc.Response, error) {
	m.dataset, m.q, m.k = dataset, q, k
	return m.fn(ctx, dataset, q, k)
}

// --- embedder mocks ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

type mockBatchEmbedder struct {
	mockEmbedder
	batchFn func(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

func (m *mockBatchEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	return m.batchFn(ctx, texts)
}

// fixedEmbedder returns the same vector for every text.
func fixedEmbedder(dim int) *mockEmbedder {
	return &mockEmbedder{fn: func(context.Context, string) (EmbeddingResult, error) {
		v := make([]float32, dim)
		v[0] = 1
		return EmbeddingResult{Embedding: v, TotalTokens: 1}, nil
	}}
}

// --- in-memory store ---

type fakeStore struct {
	mu        sync.Mutex
	indexes   map[string]bool
	hashes    map[string]map[string]string
	pingErr   error
	searchErr error
	closed    bool
}

var _ db.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{indexes: map[string]bool{}, hashes: map[string]map[string]string{}}
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func (s *fakeStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.hashes[it.Key] = it.Fields
	}
	return nil
}

func (s *fakeStore) Get(context.Context, string) ([]byte, error) { return nil, db.ErrKeyNotFound }

func (s *fakeStore) SetWithTTL(context.Context, string, []byte, time.Duration) error { return nil }

func (s *fakeStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[def.Name] = true
	return nil
}

func (s *fakeStore) DropIndex(_ context.Context, name string, _ bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.indexes, name)
	return nil
}

func (s *fakeStore) IndexExists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexes[name], nil
}

func (s *fakeStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.indexes[q.IndexName] {
		return nil, db.ErrIndexNotFound
	}
	return &db.SearchResult{}, nil
}

func (s *fakeStore) Close() { s.closed = true }

func (s *fakeStore) WaitForReady(context.Context, time.Duration) error { return nil }

// --- helpers ---

func testClient(up uploadUseCase, search searchUseCase) *Client {
	return &Client{
		uploadSvc:      up,
		searchSvc:      search,
		maxQueryLength: 500,
		defaultDataset: "default",
	}
}
