package sheet

import (
	"regexp"
	"strings"
)

// Operation is an arithmetic operator found in a formula.
type Operation string

const (
	// Addition is "+".
	Addition Operation = "addition"
	// Subtraction is "-".
	Subtraction Operation = "subtraction"
	// Multiplication is "*".
	Multiplication Operation = "multiplication"
	// Division is "/".
	Division Operation = "division"
)

var operators = []struct {
	char string
	op   Operation
}{
	{"+", Addition},
	{"-", Subtraction},
	{"*", Multiplication},
	{"/", Division},
}

// Longer names come first so SUMIF is not read as SUM.
var functionRegex = regexp.MustCompile(`(?i)\b(SUMIF|COUNTIF|SUM|AVERAGE|COUNT|IF|VLOOKUP|INDEX|MATCH)\s*\(`)

// FormulaInfo describes a formula cell.
type FormulaInfo struct {
	Raw        string
	Functions  []string
	Operations []Operation
}

// IsEmpty reports whether no functions or operations were found.
func (f FormulaInfo) IsEmpty() bool {
	return len(f.Functions) == 0 && len(f.Operations) == 0
}

// HasOperation reports whether op was found.
func (f FormulaInfo) HasOperation(op Operation) bool {
	for _, o := range f.Operations {
		if o == op {
			return true
		}
	}
	return false
}

// IsFormula reports whether v is a formula-like cell: text starting with "=".
func IsFormula(v Value) bool {
	return v.Kind() == Text && strings.HasPrefix(v.str, "=")
}

// ExtractFormula parses a formula cell. ok is false when v is not formula-like.
// A formula with no recognised functions or operators yields an empty info.
func ExtractFormula(v Value) (FormulaInfo, bool) {
	if !IsFormula(v) {
		return FormulaInfo{}, false
	}
	raw := v.str
	info := FormulaInfo{Raw: raw}

	seen := make(map[string]bool)
	for _, m := range functionRegex.FindAllStringSubmatch(raw, -1) {
		name := strings.ToUpper(m[1])
		if !seen[name] {
			seen[name] = true
			info.Functions = append(info.Functions, name)
		}
	}

	body := raw[1:]
	for _, o := range operators {
		if strings.Contains(body, o.char) {
			info.Operations = append(info.Operations, o.op)
		}
	}

	return info, true
}

// RowFormulas extracts formula info for every formula cell of row i, keyed by column name.
// It returns nil when the row has no formula cells.
func (t *Table) RowFormulas(i int) map[string]FormulaInfo {
	var out map[string]FormulaInfo
	for j, v := range t.Rows[i] {
		info, ok := ExtractFormula(v)
		if !ok || j >= len(t.Columns) {
			continue
		}
		if out == nil {
			out = make(map[string]FormulaInfo)
		}
		out[t.Columns[j]] = info
	}
	return out
}
