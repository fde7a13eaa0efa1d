// Package rowdoc turns parsed spreadsheet rows into indexable documents.
package rowdoc

import (
	"encoding/json"

	"github.com/kailas-cloud/sheetdex/internal/domain/sheet"
)

// Document is one indexed spreadsheet row. It is not modified after Build.
type Document struct {
	Text        string
	RowIndex    int
	Categories  []string
	ColumnTypes map[string]sheet.ColumnType
	Explanation string
}

// Hit is a search match. Score is a cosine distance: lower is better.
type Hit struct {
	RowIndex int
	Score    float64
	Document Document
}

// EncodeCategories serializes categories for index metadata.
func EncodeCategories(categories []string) string {
	if categories == nil {
		categories = []string{}
	}
	b, _ := json.Marshal(categories)
	return string(b)
}

// DecodeCategories parses categories from index metadata. Malformed input yields an empty slice.
func DecodeCategories(s string) []string {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// EncodeColumnTypes serializes column types for index metadata.
func EncodeColumnTypes(types map[string]sheet.ColumnType) string {
	if types == nil {
		types = map[string]sheet.ColumnType{}
	}
	b, _ := json.Marshal(types)
	return string(b)
}

// DecodeColumnTypes parses column types from index metadata. Malformed input and
// unknown types are dropped.
func DecodeColumnTypes(s string) map[string]sheet.ColumnType {
	var raw map[string]string
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return map[string]sheet.ColumnType{}
	}
	out := make(map[string]sheet.ColumnType, len(raw))
	for col, v := range raw {
		if ct := sheet.ColumnType(v); ct.Valid() {
			out[col] = ct
		}
	}
	return out
}
