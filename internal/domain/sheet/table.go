// Package sheet models uploaded spreadsheet tables and classifies their columns.
package sheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind is the dynamic type of a cell value.
type Kind int

const (
	// Null is an empty cell.
	Null Kind = iota
	// Number is a numeric cell.
	Number
	// Text is a textual cell.
	Text
)

// Value is a single cell.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// NullValue returns an empty cell.
func NullValue() Value { return Value{} }

// NumberValue returns a numeric cell.
func NumberValue(f float64) Value { return Value{kind: Number, num: f} }

// TextValue returns a textual cell.
func TextValue(s string) Value { return Value{kind: Text, str: s} }

// ParseValue infers a cell from its raw spreadsheet text: blank is null,
// anything strconv can read as a float is a number, the rest is text.
func ParseValue(raw string) Value {
	s := strings.TrimSpace(norm.NFKC.String(raw))
	if s == "" {
		return NullValue()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return NumberValue(f)
	}
	return TextValue(s)
}

// Kind returns the cell kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the cell is empty.
func (v Value) IsNull() bool { return v.kind == Null }

// Float returns the numeric value; ok is false for non-numeric cells.
func (v Value) Float() (float64, bool) { return v.num, v.kind == Number }

// String renders the cell the way it appears in row text.
func (v Value) String() string {
	switch v.kind {
	case Number:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case Text:
		return v.str
	default:
		return ""
	}
}

// Table is a rectangular set of named columns.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// NewTable builds a table from a header and raw string records.
// Every record must have exactly len(header) fields.
func NewTable(header []string, records [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("header row is empty")
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(norm.NFKC.String(h))
		if cols[i] == "" {
			cols[i] = fmt.Sprintf("column_%d", i+1)
		}
	}

	rows := make([][]Value, 0, len(records))
	for i, rec := range records {
		if len(rec) != len(cols) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(rec), len(cols))
		}
		row := make([]Value, len(rec))
		for j, raw := range rec {
			row[j] = ParseValue(raw)
		}
		rows = append(rows, row)
	}

	return &Table{Columns: cols, Rows: rows}, nil
}

// Column returns all values of column i.
func (t *Table) Column(i int) []Value {
	out := make([]Value, 0, len(t.Rows))
	for _, row := range t.Rows {
		if i < len(row) {
			out = append(out, row[i])
		}
	}
	return out
}

// RenderRow renders row i as "col: value, col: value", skipping null cells.
func (t *Table) RenderRow(i int) string {
	row := t.Rows[i]
	parts := make([]string, 0, len(row))
	for j, v := range row {
		if v.IsNull() || j >= len(t.Columns) {
			continue
		}
		parts = append(parts, t.Columns[j]+": "+v.String())
	}
	return strings.Join(parts, ", ")
}

// Record returns row i as a column→value map, with numbers kept numeric and nulls as nil.
func (t *Table) Record(i int) map[string]any {
	row := t.Rows[i]
	m := make(map[string]any, len(row))
	for j, v := range row {
		if j >= len(t.Columns) {
			break
		}
		switch v.Kind() {
		case Number:
			m[t.Columns[j]] = v.num
		case Text:
			m[t.Columns[j]] = v.str
		default:
			m[t.Columns[j]] = nil
		}
	}
	return m
}
