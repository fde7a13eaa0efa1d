package sheetdex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sheetdex/internal/db"
	dbRedis "github.com/kailas-cloud/sheetdex/internal/db/redis"
	"github.com/kailas-cloud/sheetdex/internal/domain"
	"github.com/kailas-cloud/sheetdex/internal/domain/lexicon"
	"github.com/kailas-cloud/sheetdex/internal/domain/query"
	"github.com/kailas-cloud/sheetdex/internal/domain/rowdoc"
	"github.com/kailas-cloud/sheetdex/internal/domain/tagging"
	"github.com/kailas-cloud/sheetdex/internal/repository/rowindex"
	healthuc "github.com/kailas-cloud/sheetdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/sheetdex/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/sheetdex/internal/usecase/upload"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultK                = 5
)

// Internal interfaces so tests can swap the use cases.
type uploadUseCase interface {
	Upload(ctx context.Context, in uploaduc.Input) (*uploaduc.Result, error)
}

type searchUseCase interface {
	Search(ctx context.Context, dataset, q string, k int) (searchuc.Response, error)
}

// Client is the sheetdex SDK entry point.
type Client struct {
	store     db.Store
	index     *rowindex.Repo
	uploadSvc uploadUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer

	maxQueryLength int
	defaultDataset string
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("sheetdex: database address required (use WithRedis)")
	}
	if cfg.dimensions <= 0 {
		return nil, fmt.Errorf("sheetdex: dimensions must be positive, got %d", cfg.dimensions)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.addrs,
		Password:   cfg.password,
		ClientName: "sheetdex-sdk",
	})
	if err != nil {
		return nil, fmt.Errorf("sheetdex: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("sheetdex: database not ready: %w", err)
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	lx, err := lexicon.New()
	if err != nil {
		return nil, fmt.Errorf("sheetdex: compile lexicon: %w", err)
	}

	var emb interface {
		domain.Embedder
		domain.BatchEmbedder
	} = noopEmbedder{}
	var checker healthuc.EmbeddingChecker
	if cfg.embedder != nil {
		emb = &embedderAdapter{inner: cfg.embedder}
		if hc, ok := cfg.embedder.(healthuc.EmbeddingChecker); ok {
			checker = hc
		}
	}

	// Internal layers log through zap; SDK callers observe operations through slog.
	logger := zap.NewNop()

	index, err := rowindex.New(store, emb, emb, rowindex.Config{
		KeyPrefix:  cfg.keyPrefix,
		Dimensions: cfg.dimensions,
		HNSW: rowindex.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEFConstruct,
		},
		Workers:   cfg.workers,
		BatchSize: cfg.batchSize,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("sheetdex: %w", err)
	}

	builder := rowdoc.NewBuilder(tagging.New(lx), logger)
	uploadSvc := uploaduc.New(index, builder, uploaduc.Config{
		Limits:         uploaduc.Limits{MaxBytes: cfg.maxBytes, MaxRows: cfg.maxRows},
		DefaultDataset: cfg.defaultDataset,
	}, logger)

	return &Client{
		store:          store,
		index:          index,
		uploadSvc:      uploadSvc,
		searchSvc:      searchuc.New(index, query.NewProcessor(lx)),
		healthSvc:      healthuc.New(store, checker),
		obs:            obs,
		maxQueryLength: cfg.maxQueryLength,
		defaultDataset: cfg.defaultDataset,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.index != nil {
		c.index.Release()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Upload parses a .csv or .xlsx file, tags and embeds every row, and replaces the dataset's
// index with them. Rejected files return an error matching ErrInvalidUpload.
func (c *Client) Upload(ctx context.Context, filename string, data []byte, opts ...CallOption) (_ *UploadResult, err error) {
	call := c.callConfig(opts)
	start := time.Now()
	defer func() {
		c.obs.observe("upload", start, err, slog.String("dataset", call.dataset), slog.String("filename", filename))
	}()

	res, err := c.uploadSvc.Upload(ctx, uploaduc.Input{Filename: filename, Dataset: call.dataset, Data: data})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}

	types := make(map[string]ColumnType, len(res.ColumnTypes))
	for col, t := range res.ColumnTypes {
		types[col] = ColumnType(t)
	}
	return &UploadResult{
		UploadID:    res.UploadID,
		Filename:    res.Filename,
		Dataset:     res.Dataset,
		NumRows:     res.NumRows,
		Columns:     res.Columns,
		ColumnTypes: types,
		Preview:     res.Preview,
	}, nil
}

// Query answers a natural-language question over a previously uploaded dataset.
// Searching a dataset that was never uploaded returns ErrIndexNotReady.
func (c *Client) Query(ctx context.Context, question string, opts ...CallOption) (_ *QueryResult, err error) {
	call := c.callConfig(opts)
	start := time.Now()
	defer func() {
		c.obs.observe("query", start, err, slog.String("dataset", call.dataset), slog.Int("k", call.k))
	}()

	if call.k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d: %w", call.k, domain.ErrInvalidQuery)
	}
	q, err := query.Sanitize(question, c.maxQueryLength)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	resp, err := c.searchSvc.Search(ctx, call.dataset, q, call.k)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return queryResultFromSearch(&resp), nil
}

func (c *Client) callConfig(opts []CallOption) callConfig {
	call := callConfig{dataset: c.defaultDataset, k: defaultK}
	for _, o := range opts {
		o(&call)
	}
	if call.dataset == "" {
		call.dataset = c.defaultDataset
	}
	return call
}

func queryResultFromSearch(resp *searchuc.Response) *QueryResult {
	rows := make([]Row, len(resp.Results))
	for i, r := range resp.Results {
		doc := r.Hit.Document
		types := make(map[string]ColumnType, len(doc.ColumnTypes))
		for col, t := range doc.ColumnTypes {
			types[col] = ColumnType(t)
		}
		rows[i] = Row{
			Index:           r.Hit.RowIndex,
			Text:            doc.Text,
			Score:           r.Hit.Score,
			Categories:      doc.Categories,
			Explanation:     doc.Explanation,
			ColumnTypes:     types,
			RelevanceReason: r.RelevanceReason,
		}
	}

	a := &resp.Analysis
	return &QueryResult{
		Rows: rows,
		Analysis: Analysis{
			Query:          a.OriginalQuery,
			Category:       a.Categorization.Primary,
			Confidence:     a.Categorization.Confidence,
			Intent:         a.Intent.Primary,
			Concepts:       a.Concepts,
			ExpandedTerms:  a.ExpandedTerms,
			TemporalTypes:  a.Temporal.Types,
			SearchStrategy: a.Processing.SearchStrategy,
		},
	}
}
