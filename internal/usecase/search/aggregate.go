package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/sheetdex/internal/domain/query"
	"github.com/kailas-cloud/sheetdex/internal/domain/rowdoc"
)

const reasonPrefixRunes = 50

// searchTerms returns the original query followed by distinct expansions, capped at limit.
func searchTerms(original string, expanded []string, limit int) []string {
	terms := make([]string, 0, limit)
	seen := make(map[string]bool, limit)
	for _, t := range append([]string{original}, expanded...) {
		if len(terms) == limit {
			break
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		terms = append(terms, t)
	}
	return terms
}

// mergeHits concatenates per-term hits in term order, keeps the lowest score per row
// and sorts ascending by score. Ties keep first-seen order.
func mergeHits(perTerm [][]rowdoc.Hit) []rowdoc.Hit {
	pos := make(map[int]int)
	var merged []rowdoc.Hit

	for _, hits := range perTerm {
		for _, h := range hits {
			i, ok := pos[h.RowIndex]
			if !ok {
				pos[h.RowIndex] = len(merged)
				merged = append(merged, h)
				continue
			}
			if h.Score < merged[i].Score {
				merged[i] = h
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score < merged[j].Score
	})
	return merged
}

// filterByCategories keeps hits sharing a category with filter. An empty filter or an
// empty intersection returns hits unchanged.
func filterByCategories(hits []rowdoc.Hit, filter []string) []rowdoc.Hit {
	if len(filter) == 0 {
		return hits
	}
	want := make(map[string]bool, len(filter))
	for _, c := range filter {
		want[c] = true
	}

	var kept []rowdoc.Hit
	for _, h := range hits {
		for _, c := range h.Document.Categories {
			if want[c] {
				kept = append(kept, h)
				break
			}
		}
	}
	if len(kept) == 0 {
		return hits
	}
	return kept
}

// relevanceReason explains why a hit matches the analysed query.
func relevanceReason(a *query.Analysis, doc *rowdoc.Document) string {
	has := make(map[string]bool, len(doc.Categories))
	for _, c := range doc.Categories {
		has[c] = true
	}

	var matching []string
	for _, c := range a.Concepts {
		if has[c] {
			matching = append(matching, c)
		}
	}

	switch {
	case len(matching) > 0:
		return fmt.Sprintf("Matches %s concepts from your %s query",
			strings.Join(matching, ", "), a.Categorization.Primary)
	case len(doc.Categories) > 0:
		n := min(len(doc.Categories), 2)
		return fmt.Sprintf("Contains %s data relevant to your search", strings.Join(doc.Categories[:n], ", "))
	default:
		return fmt.Sprintf("Text similarity match with your query (content: %s...)", runePrefix(doc.Text, reasonPrefixRunes))
	}
}

func runePrefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
