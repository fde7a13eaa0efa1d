package query

import (
	"strings"

	"github.com/kailas-cloud/sheetdex/internal/domain/lexicon"
	"github.com/kailas-cloud/sheetdex/internal/domain/tagging"
)

const (
	maxExpandedTerms = 5
	maxReformulated  = 5
)

var reformulations = map[string][]string{
	lexicon.IntentSpendingAnalysis:  {"total expenses", "spending breakdown", "cost analysis"},
	lexicon.IntentBudgeting:         {"budget vs actual", "planned spending", "budget variance"},
	lexicon.IntentTrendAnalysis:     {"trend over time", "growth pattern", "time series"},
	lexicon.IntentCategoryAnalysis:  {"category breakdown", "spending by type", "classification"},
	lexicon.IntentTransactionSearch: {"find transactions", "search payments", "locate purchases"},
	lexicon.IntentComparison:        {"compare", "versus analysis", "benchmark"},
}

type keywordGroup struct {
	name  string
	terms []string
}

// Order matters: aggregation is detected by two groups and reported once.
var functionKeywords = []keywordGroup{
	{"percentage", []string{"percentage", "%", "percent"}},
	{"aggregation", []string{"average", "mean"}},
	{"aggregation", []string{"sum", "total", "add"}},
	{"lookup", []string{"vlookup", "lookup", "index", "match"}},
	{"conditional", []string{"if", "conditional", "condition"}},
}

var comparisonKeywords = []keywordGroup{
	{"planning", []string{"budget", "actual", "forecast", "target"}},
	{"temporal", []string{"time", "trend", "historical", "series"}},
	{"benchmark", []string{"benchmark", "industry", "peer", "standard"}},
}

// Comparative queries always filter on the same three tags, whatever sub-types matched.
var comparativeFilter = []string{
	tagging.TagPlanningMetrics,
	lexicon.ContextTimeSeries,
	tagging.TagBenchmarkAnalysis,
}

// Processor runs the query classification pipeline. It is stateless and safe for concurrent use.
// Input is expected to be sanitized already.
type Processor struct {
	lx *lexicon.Lexicon
}

// NewProcessor creates a Processor.
func NewProcessor(lx *lexicon.Lexicon) *Processor {
	return &Processor{lx: lx}
}

// Process classifies q.
func (p *Processor) Process(q string) Analysis {
	lower := strings.ToLower(q)

	intent := p.DetectIntent(lower)
	temporal := p.ExtractTemporal(lower)
	cat := p.Categorize(lower)
	concepts := p.ExtractConcepts(lower)

	a := Analysis{
		OriginalQuery:  q,
		Intent:         intent,
		Temporal:       temporal,
		Categorization: cat,
		Concepts:       concepts,
		ExpandedTerms:  p.ExpandTerms(q),
		Reformulated:   Reformulate(q, intent.Primary),
	}

	switch intent.Primary {
	case lexicon.IntentSpendingAnalysis, lexicon.IntentBudgeting,
		lexicon.IntentTrendAnalysis, lexicon.IntentCategoryAnalysis:
		a.Processing = p.conceptual(concepts)
		a.Processing.SearchStrategy = StrategyFinancialSemantic
	case lexicon.IntentTransactionSearch:
		a.Processing = functional(lower)
		a.Processing.SearchStrategy = StrategyTransactionSearch
	case lexicon.IntentComparison:
		a.Processing = comparative(lower)
		a.Processing.SearchStrategy = StrategyComparative
	default:
		switch cat.Primary {
		case lexicon.CategoryFunctional:
			a.Processing = functional(lower)
		case lexicon.CategoryComparative:
			a.Processing = comparative(lower)
		default:
			a.Processing = p.conceptual(concepts)
		}
	}

	if temporal.HasTemporalContext {
		for _, e := range temporal.Entities {
			if len(e.Matches) > 0 {
				a.Processing.TemporalFilters = append(a.Processing.TemporalFilters, e)
			}
		}
		a.Processing.TemporalTypes = temporal.Types
	}

	return a
}

// DetectIntent scores every intent on lower-cased text. The first intent with the highest
// score wins; a query with no hits is a general query.
func (p *Processor) DetectIntent(lower string) IntentAnalysis {
	rules := p.lx.Intents()
	res := IntentAnalysis{
		Primary: lexicon.IntentGeneralQuery,
		Scores:  make([]IntentScore, 0, len(rules)),
	}

	best, total := 0, 0
	for i := range rules {
		s := rules[i].Score(lower)
		res.Scores = append(res.Scores, IntentScore{Intent: rules[i].Intent, Score: s})
		total += s
		if s > best {
			best = s
			res.Primary = rules[i].Intent
		}
	}
	if total > 0 {
		res.Confidence = float64(best) / float64(total)
	}
	return res
}

// ExtractTemporal collects temporal matches per group from lower-cased text.
func (p *Processor) ExtractTemporal(lower string) TemporalContext {
	groups := p.lx.Temporal()
	res := TemporalContext{
		Entities: make([]TemporalEntities, 0, len(groups)),
		Types:    []string{},
	}
	for i := range groups {
		matches := groups[i].FindAll(lower)
		if matches == nil {
			matches = []string{}
		}
		res.Entities = append(res.Entities, TemporalEntities{Type: groups[i].Key, Matches: matches})
		if len(matches) > 0 {
			res.Types = append(res.Types, groups[i].Key)
		}
	}
	res.HasTemporalContext = len(res.Types) > 0
	return res
}

// Categorize runs the legacy conceptual/functional/comparative classification.
// Ties go to the earlier category; a query with no hits is conceptual with zero confidence.
func (p *Processor) Categorize(lower string) Categorization {
	families := p.lx.QueryFamilies()
	res := Categorization{Scores: make([]CategoryScore, 0, len(families))}

	best, total, nonZero := -1, 0, 0
	for i := range families {
		s := families[i].CountMatches(lower)
		res.Scores = append(res.Scores, CategoryScore{Category: families[i].Key, Score: s})
		total += s
		if s > 0 {
			nonZero++
		}
		if s > best {
			best = s
			res.Primary = families[i].Key
		}
	}
	if total > 0 {
		res.Confidence = float64(best) / float64(total)
	}
	res.IsHybrid = nonZero > 1
	return res
}

// ExtractConcepts returns the lexicon concepts hit by lower-cased text, in lexicon order.
func (p *Processor) ExtractConcepts(lower string) []string {
	concepts := p.lx.MatchConcepts(lower)
	if concepts == nil {
		return []string{}
	}
	return concepts
}

// ExpandTerms builds query variants by swapping each primary term found in q for the
// concept's synonyms. The original query comes first; at most 5 variants are returned.
func (p *Processor) ExpandTerms(q string) []string {
	lower := strings.ToLower(q)
	out := []string{q}
	seen := map[string]bool{q: true}

	for _, c := range p.lx.Concepts() {
		for _, term := range c.Primary {
			if !strings.Contains(lower, term) {
				continue
			}
			for _, syn := range c.Synonyms {
				v := strings.ReplaceAll(lower, term, syn)
				if seen[v] {
					continue
				}
				seen[v] = true
				out = append(out, v)
				if len(out) == maxExpandedTerms {
					return out
				}
			}
		}
	}
	return out
}

// Reformulate returns q followed by the intent's phrasal templates, capped at 5.
func Reformulate(q, intent string) []string {
	out := []string{q}
	for _, prefix := range reformulations[intent] {
		if len(out) == maxReformulated {
			break
		}
		out = append(out, prefix+" "+q)
	}
	return out
}

func (p *Processor) conceptual(concepts []string) ProcessingResult {
	related := p.lx.Related(concepts)
	return ProcessingResult{
		Type:             lexicon.CategoryConceptual,
		TargetConcepts:   concepts,
		RelatedConcepts:  related,
		SearchStrategy:   StrategySemanticSimilarity,
		FilterCategories: dedup(append(append([]string{}, concepts...), related...)),
	}
}

func functional(lower string) ProcessingResult {
	types := detectGroups(lower, functionKeywords)
	filter := make([]string, 0, len(types))
	for _, t := range types {
		filter = append(filter, "formula_"+t)
	}
	return ProcessingResult{
		Type:             lexicon.CategoryFunctional,
		FunctionTypes:    types,
		SearchStrategy:   StrategyFormulaAnalysis,
		FilterCategories: filter,
	}
}

func comparative(lower string) ProcessingResult {
	return ProcessingResult{
		Type:             lexicon.CategoryComparative,
		ComparisonTypes:  detectGroups(lower, comparisonKeywords),
		SearchStrategy:   StrategyContextualAnalysis,
		FilterCategories: append([]string(nil), comparativeFilter...),
	}
}

func detectGroups(lower string, groups []keywordGroup) []string {
	var names []string
	for _, g := range groups {
		for _, term := range g.terms {
			if strings.Contains(lower, term) {
				names = append(names, g.name)
				break
			}
		}
	}
	return dedup(names)
}

func dedup(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}
