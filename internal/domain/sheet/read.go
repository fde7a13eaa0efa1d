package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoData signals a table without a header or without data rows.
var ErrNoData = errors.New("table has no data rows")

// ReadCSV parses a CSV stream with a header row. Rows must be rectangular.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrNoData
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return NewTable(header, records[1:])
}

// ReadXLSX parses the first worksheet of an xlsx workbook. The first non-empty row is the header.
// Short rows are padded with empty cells since excelize trims trailing blanks.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets: %w", ErrNoData)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	start := 0
	for start < len(rows) && isBlankRow(rows[start]) {
		start++
	}
	if len(rows)-start < 2 {
		return nil, ErrNoData
	}

	header := rows[start]
	records := make([][]string, 0, len(rows)-start-1)
	for _, row := range rows[start+1:] {
		if isBlankRow(row) {
			continue
		}
		if len(row) > len(header) {
			return nil, fmt.Errorf("row has %d cells, header has %d", len(row), len(header))
		}
		padded := make([]string, len(header))
		copy(padded, row)
		records = append(records, padded)
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	return NewTable(header, records)
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
