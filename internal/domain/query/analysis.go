// Package query classifies natural-language search queries over spreadsheet rows.
package query

// Search strategies reported in ProcessingResult.
const (
	StrategySemanticSimilarity = "semantic_similarity"
	StrategyFormulaAnalysis    = "formula_analysis"
	StrategyContextualAnalysis = "contextual_analysis"
	StrategyFinancialSemantic  = "financial_semantic_search"
	StrategyTransactionSearch  = "transaction_search"
	StrategyComparative        = "comparative_analysis"
)

// IntentScore is the score of one intent.
type IntentScore struct {
	Intent string `json:"intent"`
	Score  int    `json:"score"`
}

// IntentAnalysis is the result of intent detection. Scores keep declaration order.
type IntentAnalysis struct {
	Primary    string        `json:"primary_intent"`
	Confidence float64       `json:"confidence"`
	Scores     []IntentScore `json:"intent_scores"`
}

// TemporalEntities holds the matches of one temporal pattern group.
type TemporalEntities struct {
	Type    string   `json:"type"`
	Matches []string `json:"matches"`
}

// TemporalContext is the result of temporal extraction. Entities has one entry per group,
// Types lists the groups that matched.
type TemporalContext struct {
	Entities           []TemporalEntities `json:"temporal_entities"`
	Types              []string           `json:"temporal_types"`
	HasTemporalContext bool               `json:"has_temporal_context"`
}

// CategoryScore is the score of one legacy query category.
type CategoryScore struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
}

// Categorization is the legacy conceptual/functional/comparative classification.
type Categorization struct {
	Primary    string          `json:"primary_category"`
	Confidence float64         `json:"confidence"`
	Scores     []CategoryScore `json:"scores"`
	IsHybrid   bool            `json:"is_hybrid"`
}

// ProcessingResult drives retrieval: the chosen strategy and the categories used to post-filter hits.
// Temporal fields are advisory and never enforced.
type ProcessingResult struct {
	Type             string             `json:"type"`
	TargetConcepts   []string           `json:"target_concepts,omitempty"`
	RelatedConcepts  []string           `json:"related_concepts,omitempty"`
	FunctionTypes    []string           `json:"function_types,omitempty"`
	ComparisonTypes  []string           `json:"comparison_types,omitempty"`
	SearchStrategy   string             `json:"search_strategy"`
	FilterCategories []string           `json:"filter_categories"`
	TemporalFilters  []TemporalEntities `json:"temporal_filters,omitempty"`
	TemporalTypes    []string           `json:"temporal_types,omitempty"`
}

// Analysis is the full classification of one query.
type Analysis struct {
	OriginalQuery  string           `json:"original_query"`
	Intent         IntentAnalysis   `json:"intent_analysis"`
	Temporal       TemporalContext  `json:"temporal_context"`
	Categorization Categorization   `json:"categorization"`
	Concepts       []string         `json:"extracted_concepts"`
	ExpandedTerms  []string         `json:"expanded_terms"`
	Reformulated   []string         `json:"reformulated_queries"`
	Processing     ProcessingResult `json:"processing_result"`
}
