package upload

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/sheetdex/internal/domain"
	"github.com/kailas-cloud/sheetdex/internal/domain/sheet"
)

// Format is a supported spreadsheet format.
type Format string

// Supported upload formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const maxDatasetLen = 64

// Limits bounds an upload.
type Limits struct {
	MaxBytes int64
	MaxRows  int
}

// DetectFormat maps a filename extension to a Format.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file type %q, expected .csv or .xlsx: %w",
			filepath.Ext(filename), domain.ErrInvalidUpload)
	}
}

// ValidateFile checks the raw upload before parsing: format, size and, for CSV, encoding.
func ValidateFile(filename string, data []byte, lim Limits) (Format, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("file is empty: %w", domain.ErrInvalidUpload)
	}
	if lim.MaxBytes > 0 && int64(len(data)) > lim.MaxBytes {
		return "", fmt.Errorf("file is %d bytes, limit is %d: %w", len(data), lim.MaxBytes, domain.ErrInvalidUpload)
	}
	if format == FormatCSV && !utf8.Valid(data) {
		return "", fmt.Errorf("csv is not valid UTF-8: %w", domain.ErrInvalidUpload)
	}
	return format, nil
}

// ValidateTable checks a parsed table against the row limit.
func ValidateTable(t *sheet.Table, lim Limits) error {
	if len(t.Rows) == 0 {
		return fmt.Errorf("no data rows: %w", domain.ErrInvalidUpload)
	}
	if lim.MaxRows > 0 && len(t.Rows) > lim.MaxRows {
		return fmt.Errorf("%d rows exceed the limit of %d: %w", len(t.Rows), lim.MaxRows, domain.ErrInvalidUpload)
	}
	return nil
}

// ValidateDataset checks a dataset name: 1-64 characters from [A-Za-z0-9_-].
func ValidateDataset(name string) error {
	if name == "" || len(name) > maxDatasetLen {
		return fmt.Errorf("dataset name must be 1-%d characters: %w", maxDatasetLen, domain.ErrInvalidUpload)
	}
	for _, r := range name {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum && r != '_' && r != '-' {
			return fmt.Errorf("dataset name %q has invalid characters: %w", name, domain.ErrInvalidUpload)
		}
	}
	return nil
}
