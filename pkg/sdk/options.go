package sheetdex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	embedder Embedder

	dimensions      int
	keyPrefix       string
	hnswM           int
	hnswEFConstruct int
	workers         int
	batchSize       int

	maxBytes       int64
	maxRows        int
	maxQueryLength int
	defaultDataset string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		dimensions:     1536,
		keyPrefix:      "sheetdex:",
		maxBytes:       10 << 20,
		maxRows:        50000,
		maxQueryLength: 500,
		defaultDataset: "default",
	}
}

// WithRedis connects the client to a Redis 8+ (or Valkey with search) instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder sets the text embedding provider.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithDimensions sets the embedding vector dimension. Defaults to 1536.
func WithDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithKeyPrefix namespaces every key and index the client creates. Defaults to "sheetdex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithIndexing bounds concurrent embedding batches and the rows per batch during uploads.
func WithIndexing(workers, batchSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = workers
		c.batchSize = batchSize
	})
}

// WithUploadLimits caps file size and data rows per upload. Zero keeps the default.
func WithUploadLimits(maxBytes int64, maxRows int) Option {
	return optionFunc(func(c *clientConfig) {
		if maxBytes > 0 {
			c.maxBytes = maxBytes
		}
		if maxRows > 0 {
			c.maxRows = maxRows
		}
	})
}

// WithDefaultDataset names the dataset used when a call does not pass Dataset.
func WithDefaultDataset(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultDataset = name
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// CallOption tunes a single Upload or Query call.
type CallOption func(*callConfig)

type callConfig struct {
	dataset string
	k       int
}

// Dataset selects the dataset an Upload replaces or a Query searches.
func Dataset(name string) CallOption {
	return func(c *callConfig) { c.dataset = name }
}

// TopK sets how many rows a Query returns. Defaults to 5.
func TopK(k int) CallOption {
	return func(c *callConfig) { c.k = k }
}
