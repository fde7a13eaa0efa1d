package chi

import (
	"context"

	healthuc "github.com/kailas-cloud/sheetdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/sheetdex/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/sheetdex/internal/usecase/upload"
)

// Uploader indexes uploaded spreadsheets.
type Uploader interface {
	Upload(ctx context.Context, in uploaduc.Input) (*uploaduc.Result, error)
}

// Searcher answers natural-language queries.
type Searcher interface {
	Search(ctx context.Context, dataset, q string, k int) (searchuc.Response, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
