package tagging

import (
	"strings"

	"github.com/kailas-cloud/sheetdex/internal/domain/lexicon"
)

// NoClassification is the explanation of a row without categories.
const NoClassification = "No specific business classification found."

var explanations = map[string]string{
	"revenue":                 "Contains revenue/sales data (top-line metric)",
	"cost":                    "Contains cost/expense data (operational metric)",
	"growth":                  "Contains growth or change metrics (performance indicator)",
	"efficiency":              "Contains efficiency ratios (performance metric)",
	lexicon.ContextPercentage: "Contains percentage-based calculations",
	TagRatioCalculation:       "Contains ratio calculations (analytical metric)",
}

// Explain renders a human-readable reason for categories, in category order.
// Categories without a canned phrase are listed verbatim when nothing else applies.
func Explain(categories []string, rowText string) string {
	if len(categories) == 0 {
		return NoClassification
	}

	text := strings.ToLower(rowText)
	var parts []string
	for _, c := range categories {
		if c == "profitability" {
			switch {
			case strings.Contains(text, "margin"):
				parts = append(parts, "Contains margin calculations (profitability metric)")
			case strings.Contains(text, "profit"):
				parts = append(parts, "Contains profit-related data (profitability metric)")
			}
			continue
		}
		if phrase, ok := explanations[c]; ok {
			parts = append(parts, phrase)
		}
	}

	if len(parts) == 0 {
		return "Classified as: " + strings.Join(categories, ", ")
	}
	return strings.Join(parts, "; ")
}
