package sheet

import "strings"

// ColumnType is the semantic type of a spreadsheet column.
type ColumnType string

const (
	// Percentage holds percent values or fractions in [0,1].
	Percentage ColumnType = "percentage"
	// Currency holds monetary amounts.
	Currency ColumnType = "currency"
	// Ratio holds financial ratios.
	Ratio ColumnType = "ratio"
	// Date holds periods or dates.
	Date ColumnType = "date"
	// Formula holds spreadsheet formulas.
	Formula ColumnType = "formula"
	// Categorical holds free-form labels.
	Categorical ColumnType = "categorical"
	// Numeric holds plain numbers.
	Numeric ColumnType = "numeric"
	// TextType is the fallback for columns with no usable values.
	TextType ColumnType = "text"
)

var validColumnTypes = map[ColumnType]bool{
	Percentage: true, Currency: true, Ratio: true, Date: true,
	Formula: true, Categorical: true, Numeric: true, TextType: true,
}

// Valid reports whether t is one of the known column types.
func (t ColumnType) Valid() bool { return validColumnTypes[t] }

const sampleSize = 10

var (
	percentNameHints  = []string{"percent", "margin", "growth", "rate"}
	dateNameHints     = []string{"date", "year", "month", "quarter"}
	currencyNameHints = []string{"amount", "price", "cost", "revenue", "income", "profit", "expense"}
	ratioNameHints    = []string{"ratio", "turnover", "roi", "roe"}
)

// AnalyzeColumns classifies every column of t. The result is keyed by column name.
func AnalyzeColumns(t *Table) map[string]ColumnType {
	out := make(map[string]ColumnType, len(t.Columns))
	for i, name := range t.Columns {
		out[name] = ClassifyColumn(name, t.Column(i))
	}
	return out
}

// ClassifyColumn derives a column type from its name and values; the first matching rule wins.
func ClassifyColumn(name string, values []Value) ColumnType {
	lname := strings.ToLower(name)
	nonNull := make([]Value, 0, len(values))
	textual := false
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		if v.Kind() == Text {
			textual = true
		}
		nonNull = append(nonNull, v)
	}
	sample := nonNull
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	switch {
	case textual:
		return classifyTextual(lname, sample)
	case len(nonNull) > 0:
		return classifyNumeric(lname, nonNull, sample)
	default:
		return TextType
	}
}

func classifyTextual(lname string, sample []Value) ColumnType {
	if hasAny(lname, percentNameHints) || strings.HasSuffix(lname, "%") {
		withPercent := 0
		for _, v := range sample {
			if strings.Contains(v.String(), "%") {
				withPercent++
			}
		}
		if len(sample) > 0 && float64(withPercent)/float64(len(sample)) > 0.5 {
			return Percentage
		}
	}
	if hasAny(lname, dateNameHints) {
		return Date
	}
	for _, v := range sample {
		if strings.Contains(v.String(), "=") {
			return Formula
		}
	}
	return Categorical
}

func classifyNumeric(lname string, nonNull, sample []Value) ColumnType {
	unit := true
	for _, v := range nonNull {
		f, _ := v.Float()
		if f < 0 || f > 1 {
			unit = false
			break
		}
	}
	if unit || strings.Contains(lname, "percent") {
		return Percentage
	}
	if hasAny(lname, currencyNameHints) || sampleContains(sample, "$") {
		return Currency
	}
	if hasAny(lname, ratioNameHints) {
		return Ratio
	}
	return Numeric
}

func sampleContains(sample []Value, sub string) bool {
	for _, v := range sample {
		if strings.Contains(v.String(), sub) {
			return true
		}
	}
	return false
}

func hasAny(s string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(s, h) {
			return true
		}
	}
	return false
}
