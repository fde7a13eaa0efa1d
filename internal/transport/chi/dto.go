package chi

import (
	"math"

	"github.com/kailas-cloud/sheetdex/internal/domain/query"
	"github.com/kailas-cloud/sheetdex/internal/domain/sheet"
	searchuc "github.com/kailas-cloud/sheetdex/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/sheetdex/internal/usecase/upload"
)

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question string `json:"question"`
	K        *int   `json:"k,omitempty"`
	Dataset  string `json:"dataset,omitempty"`
}

// QueryResult is one ranked row.
type QueryResult struct {
	RowIndex           int                         `json:"row_index"`
	RowText            string                      `json:"row_text"`
	Score              float64                     `json:"score"`
	BusinessCategories []string                    `json:"business_categories"`
	Explanation        string                      `json:"explanation"`
	ColumnTypes        map[string]sheet.ColumnType `json:"column_types"`
	RelevanceReason    string                      `json:"relevance_reason"`
}

// QueryAnalysis is the client-facing summary of the query classification.
type QueryAnalysis struct {
	OriginalQuery     string   `json:"original_query"`
	QueryType         string   `json:"query_type"`
	Confidence        float64  `json:"confidence"`
	ExtractedConcepts []string `json:"extracted_concepts"`
	SearchStrategy    string   `json:"search_strategy"`
	PrimaryIntent     string   `json:"primary_intent"`
	IntentConfidence  float64  `json:"intent_confidence"`
	TemporalTypes     []string `json:"temporal_types"`
}

// QueryResponse is the body of a successful POST /query.
type QueryResponse struct {
	Results           []QueryResult `json:"results"`
	QueryAnalysis     QueryAnalysis `json:"query_analysis"`
	TotalResultsFound int           `json:"total_results_found"`
}

// UploadResponse is the body of a successful POST /upload.
type UploadResponse struct {
	UploadID    string                      `json:"upload_id"`
	Filename    string                      `json:"filename"`
	Dataset     string                      `json:"dataset"`
	NumRows     int                         `json:"num_rows"`
	Columns     []string                    `json:"columns"`
	ColumnTypes map[string]sheet.ColumnType `json:"column_types"`
	Preview     []map[string]any            `json:"preview"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Features map[string]bool   `json:"features"`
}

func queryResponseFromSearch(resp searchuc.Response) QueryResponse {
	results := make([]QueryResult, len(resp.Results))
	for i, r := range resp.Results {
		doc := r.Hit.Document
		results[i] = QueryResult{
			RowIndex:           r.Hit.RowIndex,
			RowText:            doc.Text,
			Score:              roundScore(r.Hit.Score),
			BusinessCategories: nonNilStrings(doc.Categories),
			Explanation:        doc.Explanation,
			ColumnTypes:        doc.ColumnTypes,
			RelevanceReason:    r.RelevanceReason,
		}
		if results[i].ColumnTypes == nil {
			results[i].ColumnTypes = map[string]sheet.ColumnType{}
		}
	}

	return QueryResponse{
		Results:           results,
		QueryAnalysis:     queryAnalysisFromDomain(&resp.Analysis),
		TotalResultsFound: len(results),
	}
}

func queryAnalysisFromDomain(a *query.Analysis) QueryAnalysis {
	strategy := a.Processing.SearchStrategy
	if strategy == "" {
		strategy = query.StrategySemanticSimilarity
	}
	return QueryAnalysis{
		OriginalQuery:     a.OriginalQuery,
		QueryType:         a.Categorization.Primary,
		Confidence:        a.Categorization.Confidence,
		ExtractedConcepts: nonNilStrings(a.Concepts),
		SearchStrategy:    strategy,
		PrimaryIntent:     a.Intent.Primary,
		IntentConfidence:  a.Intent.Confidence,
		TemporalTypes:     nonNilStrings(a.Temporal.Types),
	}
}

func uploadResponseFromResult(r *uploaduc.Result) UploadResponse {
	return UploadResponse{
		UploadID:    r.UploadID,
		Filename:    r.Filename,
		Dataset:     r.Dataset,
		NumRows:     r.NumRows,
		Columns:     r.Columns,
		ColumnTypes: r.ColumnTypes,
		Preview:     r.Preview,
	}
}

func roundScore(s float64) float64 {
	return math.Round(s*1000) / 1000
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
