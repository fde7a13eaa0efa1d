package lexicon

// Intent names produced by the query intent classifier.
const (
	IntentSpendingAnalysis  = "spending_analysis"
	IntentBudgeting         = "budgeting"
	IntentTrendAnalysis     = "trend_analysis"
	IntentCategoryAnalysis  = "category_analysis"
	IntentTransactionSearch = "transaction_search"
	IntentComparison        = "comparison"
	IntentGeneralQuery      = "general_query"
)

// Legacy query categories.
const (
	CategoryConceptual  = "conceptual"
	CategoryFunctional  = "functional"
	CategoryComparative = "comparative"
)

// Temporal pattern groups.
const (
	TemporalRelative = "relative_time"
	TemporalSpecific = "specific_periods"
	TemporalRanges   = "time_ranges"
)

// Context tags attached to rows by the context patterns.
const (
	ContextTimeSeries  = "time_series"
	ContextPercentage  = "percentage"
	ContextCurrency    = "currency"
	ContextComparative = "comparative"
)

type conceptDef struct {
	name     string
	primary  []string
	synonyms []string
	patterns []string
}

type compoundDef struct {
	term    string
	concept string
}

type patternGroupDef struct {
	key      string
	patterns []string
}

type intentDef struct {
	intent   string
	patterns []string
	keywords []string
}

type groupDef struct {
	name    string
	members []string
}

// tables is the raw, uncompiled form of a Lexicon.
type tables struct {
	concepts  []conceptDef
	compounds []compoundDef
	contexts  []patternGroupDef
	functions []groupDef
	intents   []intentDef
	temporal  []patternGroupDef
	families  []patternGroupDef
	hierarchy []groupDef
}

func builtinTables() tables {
	return tables{
		concepts:  builtinConcepts,
		compounds: builtinCompounds,
		contexts:  builtinContexts,
		functions: builtinFunctions,
		intents:   builtinIntents,
		temporal:  builtinTemporal,
		families:  builtinFamilies,
		hierarchy: builtinHierarchy,
	}
}

var builtinConcepts = []conceptDef{
	{
		name:     "profitability",
		primary:  []string{"profit", "margin", "ebitda", "ebit", "earnings", "net income", "operating income"},
		synonyms: []string{"bottom line", "profitability", "margins", "net profit", "gross profit", "operating profit"},
		patterns: []string{`\bprofit\b`, `\bmargin\b`, `\bearnings\b`, `\bebitda\b`},
	},
	{
		name:     "revenue",
		primary:  []string{"revenue", "sales", "income", "receipts", "turnover"},
		synonyms: []string{"top line", "gross sales", "net sales", "total sales", "sales revenue"},
		patterns: []string{`\brevenue\b`, `\bsales\b`, `\bincome\b`, `\bturnover\b`},
	},
	{
		name:     "cost",
		primary:  []string{"cost", "expense", "expenditure", "overhead", "opex", "capex"},
		synonyms: []string{"costs", "expenses", "spending", "outlay", "outgoing", "cogs"},
		patterns: []string{`\bcost\b`, `\bexpense\b`, `\boverhead\b`, `\bcogs\b`},
	},
	{
		name:     "growth",
		primary:  []string{"growth", "increase", "expansion", "rise"},
		synonyms: []string{"yoy", "qoq", "mom", "cagr", "change", "variance", "delta"},
		patterns: []string{`\bgrowth\b`, `\byoy\b`, `\bqoq\b`, `\bcagr\b`, `%\s*change`},
	},
	{
		name:     "efficiency",
		primary:  []string{"efficiency", "productivity", "utilization", "performance"},
		synonyms: []string{"roi", "roe", "roa", "roic", "turnover", "ratio", "yield"},
		patterns: []string{`\broi\b`, `\broe\b`, `\broa\b`, `\bturnover\b`, `\bratio\b`},
	},
	{
		name:     "liquidity",
		primary:  []string{"cash", "liquidity", "working capital", "current ratio"},
		synonyms: []string{"cash flow", "liquid assets", "quick ratio", "cash position"},
		patterns: []string{`\bcash\b`, `\bliquidity\b`, `working\s+capital`},
	},
	{
		name:     "leverage",
		primary:  []string{"debt", "leverage", "liability", "borrowing"},
		synonyms: []string{"debt ratio", "debt to equity", "gearing", "financial leverage"},
		patterns: []string{`\bdebt\b`, `\bleverage\b`, `debt\s+to\s+equity`},
	},
}

var builtinCompounds = []compoundDef{
	{"gross profit", "profitability"},
	{"net profit", "profitability"},
	{"operating profit", "profitability"},
	{"profit margin", "profitability"},
	{"gross margin", "profitability"},
	{"net margin", "profitability"},
	{"total revenue", "revenue"},
	{"net revenue", "revenue"},
	{"sales revenue", "revenue"},
	{"operating expense", "cost"},
	{"cost of goods sold", "cost"},
	{"return on investment", "efficiency"},
	{"return on equity", "efficiency"},
	{"working capital", "liquidity"},
	{"cash flow", "liquidity"},
}

// Context patterns are matched case-insensitively.
var builtinContexts = []patternGroupDef{
	{ContextTimeSeries, []string{`\b(q[1-4]|quarter|yr\d+|year|monthly|annual)\b`}},
	{ContextPercentage, []string{`%|percent|margin|rate|ratio`}},
	{ContextCurrency, []string{`\$|revenue|cost|profit|expense|price|value`}},
	{ContextComparative, []string{`\bvs\b|versus|compared|budget|actual|forecast|target`}},
}

var builtinFunctions = []groupDef{
	{"aggregation", []string{"sum", "average", "count", "max", "min", "median"}},
	{"lookup", []string{"vlookup", "hlookup", "index", "match", "xlookup"}},
	{"conditional", []string{"if", "sumif", "countif", "averageif", "sumifs", "countifs"}},
	{"mathematical", []string{"round", "abs", "sqrt", "power", "log"}},
	{"text", []string{"concatenate", "left", "right", "mid", "len", "trim"}},
	{"date", []string{"today", "now", "year", "month", "day", "date"}},
}

// Intent order is the tie-break order of the classifier.
var builtinIntents = []intentDef{
	{
		intent: IntentSpendingAnalysis,
		patterns: []string{
			`\bhow\s+much\s+(did|do|have)\s+(i|we)\s+spen[dt]`,
			`\bspen(d|t|ding)\s+(on|for|in|at)\b`,
			`\b(total|monthly|annual)\s+(spending|expenses?|costs?)\b`,
			`\bwhere\s+(did|does)\s+(my|our|the)\s+money\s+go\b`,
		},
		keywords: []string{"spend", "spent", "spending", "expense", "expenditure", "outflow", "cost"},
	},
	{
		intent: IntentBudgeting,
		patterns: []string{
			`\bbudget(s|ed|ing)?\b`,
			`\b(over|under|within)\s+(the\s+)?budget\b`,
			`\b(planned|allocated|forecast(ed)?)\s+(spend|spending|amount|budget|costs?)\b`,
		},
		keywords: []string{"budget", "forecast", "allocation", "planned", "target", "actual"},
	},
	{
		intent: IntentTrendAnalysis,
		patterns: []string{
			`\btrend(s|ing)?\b`,
			`\bover\s+time\b`,
			`\b(increase|decrease|growth|decline|change)\s+(in|of)\b`,
			`\b(month|quarter|year)[-\s]over[-\s](month|quarter|year)\b`,
		},
		keywords: []string{"trend", "growth", "over time", "historical", "yoy", "pattern"},
	},
	{
		intent: IntentCategoryAnalysis,
		patterns: []string{
			`\bby\s+(category|type|department|segment|vendor)\b`,
			`\bbreak\s*down\b`,
			`\bcategor(y|ies|ize|ized|ised)\b`,
		},
		keywords: []string{"category", "categories", "breakdown", "segment", "classification", "group by"},
	},
	{
		intent: IntentTransactionSearch,
		patterns: []string{
			`\b(find|show|list|search|get)\s+(me\s+)?(all\s+)?(the\s+)?(transactions?|payments?|purchases?|invoices?|receipts?)\b`,
			`\b(transactions?|payments?)\s+(from|to|with|at|over|above|below)\b`,
			`\bpaid\s+to\b`,
		},
		keywords: []string{"transaction", "payment", "purchase", "invoice", "receipt", "vendor", "merchant"},
	},
	{
		intent: IntentComparison,
		patterns: []string{
			`\b(vs|versus)\b`,
			`\bcompar(e|ed|es|ing|ison)\b`,
			`\b(difference|gap|variance)\s+between\b`,
			`\bbudget\s+vs\.?\s+actual\b|\bactual\s+vs\.?\s+budget\b`,
		},
		keywords: []string{"compare", "comparison", "versus", "vs", "against", "relative to"},
	},
}

var builtinTemporal = []patternGroupDef{
	{TemporalRelative, []string{
		`\b(last|this|next|previous|current|past)\s+(week|month|quarter|year|fiscal\s+year)\b`,
		`\b(yesterday|today|ytd|mtd|qtd|year[-\s]to[-\s]date)\b`,
		`\b(last|past|previous)\s+\d+\s+(days?|weeks?|months?|quarters?|years?)\b`,
	}},
	{TemporalSpecific, []string{
		`\bq[1-4]\b`,
		`\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`,
		`\b(jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)\b`,
		`\b(19|20)\d{2}\b`,
		`\bfy\s?'?\d{2,4}\b`,
		`\b(h1|h2|first\s+half|second\s+half)\b`,
	}},
	{TemporalRanges, []string{
		`\b(from|between)\s+\w+(\s+\d{4})?\s+(to|and|through)\s+\w+(\s+\d{4})?`,
		`\b(since|until|before|after)\s+\w+`,
		`\b(daily|weekly|monthly|quarterly|yearly|annually)\b`,
		`\bover\s+the\s+(last|past)\s+\w+`,
	}},
}

// Family order is the tie-break order of the legacy categorizer.
var builtinFamilies = []patternGroupDef{
	{CategoryConceptual, []string{
		`\b(find|show|get|search)\s+(all\s+)?(profitability|revenue|cost|growth|efficiency|margin|profit)`,
		`\b(where\s+are|locate)\s+(my\s+)?(.+\s+)?(metrics|calculations|ratios|analyses)`,
		`\b(profitability|revenue|cost|growth|efficiency)\s+(metrics|data|calculations)`,
	}},
	{CategoryFunctional, []string{
		`\b(percentage|average|sum|count|conditional|lookup)\s+(calculations|formulas)`,
		`\b(show|find|get)\s+(formulas|calculations)\s+(that|with)`,
		`\b(vlookup|index|match|if|sumif|countif|average|sum)\s+(formulas|functions)`,
	}},
	{CategoryComparative, []string{
		`\b(budget\s+vs\s+actual|actual\s+vs\s+budget)`,
		`\b(time\s+series|monthly|quarterly|yearly|historical)`,
		`\b(compare|comparison|versus|vs|against)`,
		`\b(trend|progression|change\s+over\s+time)`,
		`\b(benchmark|industry\s+standard|peer\s+analysis)`,
	}},
}

var builtinHierarchy = []groupDef{
	{"financial_performance", []string{"profitability", "revenue", "cost", "efficiency"}},
	{"growth_metrics", []string{"growth", "variance_calculation", "time_series"}},
	{"financial_position", []string{"liquidity", "leverage", "working_capital"}},
	{"operational_metrics", []string{"efficiency", "productivity", "utilization"}},
	{"analytical_tools", []string{"ratio_calculation", "benchmark_analysis", "planning_metrics"}},
}
