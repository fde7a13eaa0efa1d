// Package tagging assigns business categories to spreadsheet rows.
package tagging

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/sheetdex/internal/domain/lexicon"
	"github.com/kailas-cloud/sheetdex/internal/domain/sheet"
)

// Tags added outside the concept and context tables.
const (
	TagRatioCalculation    = "ratio_calculation"
	TagVarianceCalculation = "variance_calculation"
	TagScalingCalculation  = "scaling_calculation"
	TagPlanningMetrics     = "planning_metrics"
	TagBenchmarkAnalysis   = "benchmark_analysis"

	formulaTagPrefix = "formula_"
)

var (
	planningTerms  = []string{"budget", "actual", "forecast", "target"}
	benchmarkTerms = []string{"benchmark", "industry", "peer", "competitor"}

	operationTags = []struct {
		op  sheet.Operation
		tag string
	}{
		{sheet.Division, TagRatioCalculation},
		{sheet.Subtraction, TagVarianceCalculation},
		{sheet.Multiplication, TagScalingCalculation},
	}

	taggedColumnTypes = map[sheet.ColumnType]bool{
		sheet.Percentage: true,
		sheet.Currency:   true,
		sheet.Ratio:      true,
	}
)

// Tagger classifies rows against a compiled lexicon. It holds no mutable state.
type Tagger struct {
	lx *lexicon.Lexicon
}

// New creates a Tagger.
func New(lx *lexicon.Lexicon) *Tagger {
	return &Tagger{lx: lx}
}

// Tag returns the sorted, deduplicated categories of a rendered row.
// formulas and colTypes may be nil.
func (t *Tagger) Tag(rowText string, formulas map[string]sheet.FormulaInfo, colTypes map[string]sheet.ColumnType) []string {
	text := strings.ToLower(rowText)
	set := make(map[string]struct{})
	add := func(tag string) { set[tag] = struct{}{} }

	for _, c := range t.lx.MatchConcepts(text) {
		add(c)
	}

	for _, c := range t.lx.Compounds() {
		if strings.Contains(text, c.Term) {
			add(c.Concept)
		}
	}

	for i := range t.lx.Contexts() {
		g := &t.lx.Contexts()[i]
		if g.Matches(text) {
			add(g.Key)
		}
	}

	for _, f := range formulas {
		for _, tag := range t.formulaTags(f) {
			add(tag)
		}
	}

	for _, ct := range colTypes {
		if taggedColumnTypes[ct] {
			add(string(ct))
		}
	}

	if containsAny(text, planningTerms) {
		add(TagPlanningMetrics)
	}
	if containsAny(text, benchmarkTerms) {
		add(TagBenchmarkAnalysis)
	}

	out := make([]string, 0, len(set))
	for tag := range set {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func (t *Tagger) formulaTags(f sheet.FormulaInfo) []string {
	var tags []string
	if len(f.Functions) > 0 {
		used := make(map[string]bool, len(f.Functions))
		for _, fn := range f.Functions {
			used[strings.ToLower(fn)] = true
		}
		for _, g := range t.lx.FunctionGroups() {
			for _, m := range g.Members {
				if used[m] {
					tags = append(tags, formulaTagPrefix+g.Name)
					break
				}
			}
		}
	}
	for _, o := range operationTags {
		if f.HasOperation(o.op) {
			tags = append(tags, o.tag)
		}
	}
	return tags
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
