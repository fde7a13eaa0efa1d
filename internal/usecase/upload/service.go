package upload

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sheetdex/internal/domain"
	"github.com/kailas-cloud/sheetdex/internal/domain/sheet"
	logpkg "github.com/kailas-cloud/sheetdex/internal/logger"
	"github.com/kailas-cloud/sheetdex/internal/metrics"
)

// Config holds upload settings.
type Config struct {
	Limits
	PreviewRows    int
	DefaultDataset string
}

// Input is one uploaded file.
type Input struct {
	Filename string
	// Dataset names the target index; empty selects the default dataset.
	Dataset string
	Data    []byte
}

// Result describes an indexed upload.
type Result struct {
	UploadID    string
	Filename    string
	Dataset     string
	NumRows     int
	Columns     []string
	ColumnTypes map[string]sheet.ColumnType
	Preview     []map[string]any
}

// Service validates, parses, tags and indexes spreadsheet uploads.
type Service struct {
	index   Index
	builder DocumentBuilder
	cfg     Config
	logger  *zap.Logger
}

// New creates an upload service.
func New(index Index, builder DocumentBuilder, cfg Config, logger *zap.Logger) *Service {
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = 5
	}
	if cfg.DefaultDataset == "" {
		cfg.DefaultDataset = "default"
	}
	return &Service{index: index, builder: builder, cfg: cfg, logger: logger}
}

// Upload replaces the target dataset with the rows of in.
// Invalid files yield domain.ErrInvalidUpload; index failures are returned as is.
func (s *Service) Upload(ctx context.Context, in Input) (*Result, error) {
	dataset := in.Dataset
	if dataset == "" {
		dataset = s.cfg.DefaultDataset
	}
	if err := ValidateDataset(dataset); err != nil {
		return nil, err
	}

	format, err := ValidateFile(in.Filename, in.Data, s.cfg.Limits)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("unknown", "rejected").Inc()
		return nil, err
	}

	table, err := ParseTable(format, in.Data)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(format), "rejected").Inc()
		return nil, err
	}
	if err := ValidateTable(table, s.cfg.Limits); err != nil {
		metrics.UploadsTotal.WithLabelValues(string(format), "rejected").Inc()
		return nil, err
	}

	docs := s.builder.Build(table)

	if err := s.index.Index(ctx, dataset, docs); err != nil {
		metrics.UploadsTotal.WithLabelValues(string(format), "error").Inc()
		return nil, fmt.Errorf("index dataset %s: %w", dataset, err)
	}
	metrics.UploadsTotal.WithLabelValues(string(format), "ok").Inc()

	res := &Result{
		UploadID: uuid.NewString(),
		Filename: in.Filename,
		Dataset:  dataset,
		NumRows:  len(table.Rows),
		Columns:  table.Columns,
		Preview:  preview(table, s.cfg.PreviewRows),
	}
	if len(docs) > 0 {
		res.ColumnTypes = docs[0].ColumnTypes
	} else {
		res.ColumnTypes = sheet.AnalyzeColumns(table)
	}

	logpkg.FromContext(ctx, s.logger).Info("Spreadsheet indexed",
		zap.String("upload_id", res.UploadID),
		zap.String("filename", in.Filename),
		zap.String("dataset", dataset),
		zap.String("format", string(format)),
		zap.Int("rows", res.NumRows),
	)

	return res, nil
}

// ParseTable parses an already validated file. Parse failures wrap domain.ErrInvalidUpload.
func ParseTable(format Format, data []byte) (*sheet.Table, error) {
	var (
		t   *sheet.Table
		err error
	)
	switch format {
	case FormatXLSX:
		t, err = sheet.ReadXLSX(bytes.NewReader(data))
	default:
		t, err = sheet.ReadCSV(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", format, domain.ErrInvalidUpload, err)
	}
	return t, nil
}

func preview(t *sheet.Table, n int) []map[string]any {
	n = min(n, len(t.Rows))
	out := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		out[i] = t.Record(i)
	}
	return out
}
