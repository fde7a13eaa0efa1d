package sheetdex

// ColumnType is the inferred semantic type of a spreadsheet column.
type ColumnType string

// UploadResult describes an indexed spreadsheet.
type UploadResult struct {
	UploadID    string
	Filename    string
	Dataset     string
	NumRows     int
	Columns     []string
	ColumnTypes map[string]ColumnType
	// Preview holds the first rows as column -> value, numbers kept numeric.
	Preview []map[string]any
}

// Row is one ranked search hit.
type Row struct {
	Index           int
	Text            string
	Score           float64
	Categories      []string
	Explanation     string
	ColumnTypes     map[string]ColumnType
	RelevanceReason string
}

// Analysis summarizes how a question was understood.
type Analysis struct {
	Query          string
	Category       string
	Confidence     float64
	Intent         string
	Concepts       []string
	ExpandedTerms  []string
	TemporalTypes  []string
	SearchStrategy string
}

// QueryResult is the outcome of Client.Query.
type QueryResult struct {
	Rows     []Row
	Analysis Analysis
}
