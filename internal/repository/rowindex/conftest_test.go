package rowindex

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sheetdex/internal/db"
	"github.com/kailas-cloud/sheetdex/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	mu sync.Mutex

	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string, deleteDocs bool) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	searchKNNFn   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)

	written []db.HashSetItem
	dropped []string
	created []*db.IndexDefinition
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	m.mu.Lock()
	m.created = append(m.created, def)
	m.mu.Unlock()
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string, deleteDocs bool) error {
	m.mu.Lock()
	m.dropped = append(m.dropped, name)
	m.mu.Unlock()
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name, deleteDocs)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		if err := m.hsetMultiFn(ctx, items); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.written = append(m.written, items...)
	m.mu.Unlock()
	return nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

// mockEmbedder returns a fixed vector for every text.
type mockEmbedder struct {
	mu         sync.Mutex
	vec        []float32
	err        error
	batchCalls int
	texts      []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 1}, nil
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.mu.Lock()
	m.batchCalls++
	m.texts = append(m.texts, texts...)
	m.mu.Unlock()
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = m.vec
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings, TotalTokens: len(texts)}, nil
}

func newTestRepo(t *testing.T, cfg Config) (*Repo, *mockStore, *mockEmbedder) {
	t.Helper()
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 4
	}
	ms := &mockStore{}
	emb := &mockEmbedder{vec: testVector()}
	repo, err := New(ms, emb, emb, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(repo.Release)
	return repo, ms, emb
}

func testVector() []float32 {
	return []float32{0.1, 0.2, 0.3, 0.4}
}
