package search

import (
	"context"

	"github.com/kailas-cloud/sheetdex/internal/domain/query"
	"github.com/kailas-cloud/sheetdex/internal/domain/rowdoc"
)

// Index runs a similarity search over one dataset's rows.
type Index interface {
	Search(ctx context.Context, dataset, text string, k int) ([]rowdoc.Hit, error)
}

// Analyzer classifies a sanitized query.
type Analyzer interface {
	Process(q string) query.Analysis
}
