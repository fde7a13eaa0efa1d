package search

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/sheetdex/internal/domain/query"
	"github.com/kailas-cloud/sheetdex/internal/domain/rowdoc"
	"github.com/kailas-cloud/sheetdex/internal/metrics"
)

// maxTerms bounds the index fan-out per query.
const maxTerms = 3

// Result is a ranked hit with its relevance explanation.
type Result struct {
	Hit             rowdoc.Hit
	RelevanceReason string
}

// Response is the outcome of one search.
type Response struct {
	Analysis query.Analysis
	Results  []Result
}

// Service answers natural-language queries over indexed spreadsheet rows.
type Service struct {
	index    Index
	analyzer Analyzer
}

// New creates a search service.
func New(index Index, analyzer Analyzer) *Service {
	return &Service{index: index, analyzer: analyzer}
}

// Search analyses q, searches the original query and up to two expansions concurrently
// with 2k candidates each, then merges, filters and truncates to k.
// Index errors are returned as is.
func (s *Service) Search(ctx context.Context, dataset, q string, k int) (Response, error) {
	start := time.Now()
	analysis := s.analyzer.Process(q)
	strategy := analysis.Processing.SearchStrategy
	terms := searchTerms(q, analysis.ExpandedTerms, maxTerms)

	perTerm := make([][]rowdoc.Hit, len(terms))
	g, gctx := errgroup.WithContext(ctx)
	for i, term := range terms {
		i, term := i, term
		g.Go(func() error {
			hits, err := s.index.Search(gctx, dataset, term, 2*k)
			if err != nil {
				return fmt.Errorf("search term %d: %w", i, err)
			}
			perTerm[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.QueriesTotal.WithLabelValues(strategy, "error").Inc()
		return Response{}, err //nolint:wrapcheck // already wrapped per term
	}

	hits := filterByCategories(mergeHits(perTerm), analysis.Processing.FilterCategories)
	if len(hits) > k {
		hits = hits[:k]
	}

	results := make([]Result, len(hits))
	for i := range hits {
		results[i] = Result{
			Hit:             hits[i],
			RelevanceReason: relevanceReason(&analysis, &hits[i].Document),
		}
	}

	metrics.QueriesTotal.WithLabelValues(strategy, "ok").Inc()
	metrics.QueryDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
	metrics.QueryResults.Observe(float64(len(results)))

	return Response{Analysis: analysis, Results: results}, nil
}
