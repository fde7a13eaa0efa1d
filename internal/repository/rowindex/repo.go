// Package rowindex stores spreadsheet row documents in a Redis/Valkey vector index
// and answers KNN queries over them.
package rowindex

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sheetdex/internal/db"
	"github.com/kailas-cloud/sheetdex/internal/domain"
	"github.com/kailas-cloud/sheetdex/internal/domain/rowdoc"
	"github.com/kailas-cloud/sheetdex/internal/metrics"
)

// Hash field names of a stored row.
const (
	fieldContent     = "__content"
	fieldVector      = "vector"
	fieldRowIndex    = "row_index"
	fieldCategories  = "categories"
	fieldColumnTypes = "column_types"
	fieldExplanation = "explanation"
)

var returnFields = []string{fieldContent, fieldRowIndex, fieldCategories, fieldColumnTypes, fieldExplanation}

// store is the consumer interface for the row index (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Config holds row index settings.
type Config struct {
	KeyPrefix  string
	Dimensions int
	HNSW       HNSWConfig
	// Workers bounds concurrent embedding batches during Index.
	Workers int
	// BatchSize is the number of rows embedded and written per batch.
	BatchSize int
}

// Repo implements the external index used by the upload and search use cases.
type Repo struct {
	store   store
	docs    domain.BatchEmbedder
	queries domain.Embedder
	cfg     Config
	pool    *ants.Pool
	logger  *zap.Logger
}

// New creates a row index. docs embeds row texts in batches, queries embeds search terms;
// they usually wrap the same provider with different instructions.
func New(
	s store, docs domain.BatchEmbedder, queries domain.Embedder,
	cfg Config, logger *zap.Logger,
) (*Repo, error) {
	if cfg.Dimensions <= 0 {
		return nil, errors.New("rowindex: dimensions must be positive")
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "sheetdex:"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = max(1, runtime.NumCPU()/2)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 64
	}

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("rowindex: create worker pool: %w", err)
	}

	return &Repo{
		store:   s,
		docs:    docs,
		queries: queries,
		cfg:     cfg,
		pool:    pool,
		logger:  logger,
	}, nil
}

// Release stops the embedding worker pool.
func (r *Repo) Release() {
	r.pool.Release()
}

// Index replaces the dataset's index with docs: the old index and its rows are dropped,
// a fresh index is created and every row is embedded and written.
func (r *Repo) Index(ctx context.Context, dataset string, docs []rowdoc.Document) error {
	if !db.IsValidIdentifier(dataset) {
		return domain.NewIndexError("index", fmt.Errorf("invalid dataset name %q", dataset))
	}

	if err := r.reset(ctx, dataset); err != nil {
		return err
	}

	if err := r.writeRows(ctx, dataset, docs); err != nil {
		return domain.NewIndexError("write", err)
	}

	metrics.RowsIndexedTotal.Add(float64(len(docs)))
	r.logger.Info("Dataset indexed",
		zap.String("dataset", dataset),
		zap.Int("rows", len(docs)),
	)
	return nil
}

// Search embeds text and returns the k nearest rows, best first.
// Score is the cosine distance (lower is better).
func (r *Repo) Search(ctx context.Context, dataset, text string, k int) ([]rowdoc.Hit, error) {
	if !db.IsValidIdentifier(dataset) {
		return nil, fmt.Errorf("dataset %q: %w", dataset, domain.ErrInvalidQuery)
	}

	emb, err := r.queries.Embed(ctx, text)
	if err != nil {
		return nil, domain.NewIndexError("embed", err)
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.indexName(dataset),
		VectorField:  fieldVector,
		Vector:       emb.Embedding,
		K:            k,
		ReturnFields: returnFields,
		RawScores:    true,
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("dataset %s: %w", dataset, domain.ErrIndexNotReady)
		}
		return nil, domain.NewIndexError("search", err)
	}

	return r.parseHits(dataset, sr), nil
}

func (r *Repo) reset(ctx context.Context, dataset string) error {
	name := r.indexName(dataset)

	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return domain.NewIndexError("info", err)
	}
	if exists {
		if err := r.store.DropIndex(ctx, name, true); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return domain.NewIndexError("drop", err)
		}
	}

	def, err := db.NewIndex(name).
		Prefix(r.rowPrefix(dataset)).
		Text(fieldContent).
		Numeric(fieldRowIndex).
		VectorHNSW(fieldVector, r.cfg.Dimensions, db.DistanceCosine, r.cfg.HNSW.M, r.cfg.HNSW.EFConstruct).
		Build()
	if err != nil {
		return domain.NewIndexError("create", fmt.Errorf("build index: %w", err))
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		return domain.NewIndexError("create", err)
	}
	return nil
}

// writeRows embeds and stores docs in batches on the worker pool.
// The first failing batch cancels the rest.
func (r *Repo) writeRows(ctx context.Context, dataset string, docs []rowdoc.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for offset := 0; offset < len(docs); offset += r.cfg.BatchSize {
		batch := docs[offset:min(offset+r.cfg.BatchSize, len(docs))]

		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			if err := r.writeBatch(ctx, dataset, batch); err != nil {
				fail(err)
			}
		})
		if err != nil {
			wg.Done()
			fail(fmt.Errorf("submit batch at %d: %w", offset, err))
			break
		}
	}

	wg.Wait()
	return firstErr
}

func (r *Repo) writeBatch(ctx context.Context, dataset string, batch []rowdoc.Document) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck // cancellation from a sibling batch
	}

	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].Text
	}

	res, err := r.docs.BatchEmbed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed rows %d..%d: %w", batch[0].RowIndex, batch[len(batch)-1].RowIndex, err)
	}
	if len(res.Embeddings) != len(batch) {
		return fmt.Errorf("embed rows: got %d vectors for %d rows: %w",
			len(res.Embeddings), len(batch), domain.ErrEmbeddingProviderError)
	}

	items := make([]db.HashSetItem, len(batch))
	for i := range batch {
		items[i] = db.HashSetItem{
			Key:    r.rowKey(dataset, batch[i].RowIndex),
			Fields: rowFields(&batch[i], res.Embeddings[i]),
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("store rows: %w", err)
	}
	return nil
}

func rowFields(doc *rowdoc.Document, vec []float32) map[string]string {
	return map[string]string{
		fieldContent:     doc.Text,
		fieldVector:      vectorToString(vec),
		fieldRowIndex:    strconv.Itoa(doc.RowIndex),
		fieldCategories:  rowdoc.EncodeCategories(doc.Categories),
		fieldColumnTypes: rowdoc.EncodeColumnTypes(doc.ColumnTypes),
		fieldExplanation: doc.Explanation,
	}
}

func (r *Repo) parseHits(dataset string, sr *db.SearchResult) []rowdoc.Hit {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	prefix := r.rowPrefix(dataset)
	hits := make([]rowdoc.Hit, 0, len(sr.Entries))

	for _, entry := range sr.Entries {
		rowIndex, ok := parseRowIndex(entry, prefix)
		if !ok {
			r.logger.Warn("Skipping search entry without row index", zap.String("key", entry.Key))
			continue
		}

		hits = append(hits, rowdoc.Hit{
			RowIndex: rowIndex,
			Score:    entry.Score,
			Document: rowdoc.Document{
				Text:        entry.Fields[fieldContent],
				RowIndex:    rowIndex,
				Categories:  rowdoc.DecodeCategories(entry.Fields[fieldCategories]),
				ColumnTypes: rowdoc.DecodeColumnTypes(entry.Fields[fieldColumnTypes]),
				Explanation: entry.Fields[fieldExplanation],
			},
		})
	}

	return hits
}

// parseRowIndex reads the row_index field, falling back to the key suffix.
func parseRowIndex(entry db.SearchEntry, prefix string) (int, bool) {
	if v, ok := entry.Fields[fieldRowIndex]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(entry.Key, prefix)); err == nil {
		return n, true
	}
	return 0, false
}

func (r *Repo) indexName(dataset string) string {
	return fmt.Sprintf("%s%s:idx", r.cfg.KeyPrefix, dataset)
}

func (r *Repo) rowPrefix(dataset string) string {
	return fmt.Sprintf("%s%s:row:", r.cfg.KeyPrefix, dataset)
}

func (r *Repo) rowKey(dataset string, rowIndex int) string {
	return r.rowPrefix(dataset) + strconv.Itoa(rowIndex)
}
