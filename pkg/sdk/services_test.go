package sheetdex

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/sheetdex/internal/domain"
	"github.com/kailas-cloud/sheetdex/internal/domain/query"
	"github.com/kailas-cloud/sheetdex/internal/domain/rowdoc"
	"github.com/kailas-cloud/sheetdex/internal/domain/sheet"
	searchuc "github.com/kailas-cloud/sheetdex/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/sheetdex/internal/usecase/upload"
)

const financeCSV = "Department,Revenue,Margin %\n" +
	"Sales,120000,12%\n" +
	"Marketing,80000,8%\n"

func TestUpload_ConvertsResult(t *testing.T) {
	up := &mockUploadUC{fn: func(_ context.Context, in uploaduc.Input) (*uploaduc.Result, error) {
		return &uploaduc.Result{
			UploadID:    "id-1",
			Filename:    in.Filename,
			Dataset:     in.Dataset,
			NumRows:     2,
			Columns:     []string{"Revenue"},
			ColumnTypes: map[string]sheet.ColumnType{"Revenue": sheet.Currency},
		}, nil
	}}
	c := testClient(up, nil)

	res, err := c.Upload(context.Background(), "finance.csv", []byte(financeCSV), Dataset("q2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.got.Dataset != "q2" || up.got.Filename != "finance.csv" {
		t.Errorf("unexpected input: %+v", up.got)
	}
	if res.UploadID != "id-1" || res.NumRows != 2 || res.Dataset != "q2" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.ColumnTypes["Revenue"] != ColumnType(sheet.Currency) {
		t.Errorf("column type = %q", res.ColumnTypes["Revenue"])
	}
}

func TestUpload_DefaultDataset(t *testing.T) {
	up := &mockUploadUC{fn: func(context.Context, uploaduc.Input) (*uploaduc.Result, error) {
		return &uploaduc.Result{}, nil
	}}
	c := testClient(up, nil)

	if _, err := c.Upload(context.Background(), "a.csv", []byte(financeCSV)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.got.Dataset != "default" {
		t.Errorf("dataset = %q, want default", up.got.Dataset)
	}
}

func TestUpload_Error(t *testing.T) {
	up := &mockUploadUC{fn: func(context.Context, uploaduc.Input) (*uploaduc.Result, error) {
		return nil, domain.ErrInvalidUpload
	}}
	c := testClient(up, nil)

	_, err := c.Upload(context.Background(), "a.txt", []byte("x"))
	if !errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("expected ErrInvalidUpload, got %v", err)
	}
}

func TestQuery_ConvertsResponse(t *testing.T) {
	search := &mockSearchUC{fn: func(_ context.Context, _, q string, _ int) (searchuc.Response, error) {
		return searchuc.Response{
			Analysis: query.Analysis{
				OriginalQuery:  q,
				Intent:         query.IntentAnalysis{Primary: "lookup"},
				Categorization: query.Categorization{Primary: "financial", Confidence: 0.8},
				Processing:     query.ProcessingResult{SearchStrategy: query.StrategyFinancialSemantic},
			},
			Results: []searchuc.Result{{
				Hit: rowdoc.Hit{
					RowIndex: 3,
					Score:    0.25,
					Document: rowdoc.Document{
						Text:        "Revenue: 120000",
						Categories:  []string{"revenue"},
						ColumnTypes: map[string]sheet.ColumnType{"Revenue": sheet.Currency},
					},
				},
				RelevanceReason: "Text similarity match",
			}},
		}, nil
	}}
	c := testClient(nil, search)

	res, err := c.Query(context.Background(), "  total   revenue ", Dataset("q2"), TopK(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if search.q != "total revenue" {
		t.Errorf("expected sanitized query, got %q", search.q)
	}
	if search.dataset != "q2" || search.k != 3 {
		t.Errorf("unexpected call: dataset=%q k=%d", search.dataset, search.k)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Rows))
	}
	row := res.Rows[0]
	if row.Index != 3 || row.Score != 0.25 || row.Text != "Revenue: 120000" {
		t.Errorf("unexpected row: %+v", row)
	}
	if row.ColumnTypes["Revenue"] != ColumnType(sheet.Currency) {
		t.Errorf("column type = %q", row.ColumnTypes["Revenue"])
	}
	if res.Analysis.Category != "financial" || res.Analysis.Intent != "lookup" {
		t.Errorf("unexpected analysis: %+v", res.Analysis)
	}
	if res.Analysis.SearchStrategy != query.StrategyFinancialSemantic {
		t.Errorf("strategy = %q", res.Analysis.SearchStrategy)
	}
}

func TestQuery_Defaults(t *testing.T) {
	search := &mockSearchUC{fn: func(context.Context, string, string, int) (searchuc.Response, error) {
		return searchuc.Response{}, nil
	}}
	c := testClient(nil, search)

	if _, err := c.Query(context.Background(), "revenue"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if search.dataset != "default" || search.k != 5 {
		t.Errorf("expected default dataset and k=5, got %q %d", search.dataset, search.k)
	}
}

func TestQuery_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		question string
		opts     []CallOption
	}{
		{"empty", "   ", nil},
		{"too long", strings.Repeat("a", 501), nil},
		{"zero k", "revenue", []CallOption{TopK(0)}},
		{"script", "<script>alert(1)</script>", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			search := &mockSearchUC{fn: func(context.Context, string, string, int) (searchuc.Response, error) {
				t.Fatal("search must not be called")
				return searchuc.Response{}, nil
			}}
			c := testClient(nil, search)

			_, err := c.Query(context.Background(), tt.question, tt.opts...)
			if !errors.Is(err, ErrInvalidQuery) {
				t.Fatalf("expected ErrInvalidQuery, got %v", err)
			}
		})
	}
}

func TestQuery_SearchError(t *testing.T) {
	search := &mockSearchUC{fn: func(context.Context, string, string, int) (searchuc.Response, error) {
		return searchuc.Response{}, domain.ErrIndexNotReady
	}}
	c := testClient(nil, search)

	_, err := c.Query(context.Background(), "revenue")
	if !errors.Is(err, ErrIndexNotReady) {
		t.Fatalf("expected ErrIndexNotReady, got %v", err)
	}
}

func TestWiredClient_UploadThenQuery(t *testing.T) {
	store := newFakeStore()
	cfg := defaultClientConfig()
	WithEmbedder(fixedEmbedder(4)).apply(cfg)
	WithDimensions(4).apply(cfg)

	c, err := wireClient(store, cfg, nil)
	if err != nil {
		t.Fatalf("wireClient: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if _, err := c.Query(ctx, "revenue", Dataset("q2")); !errors.Is(err, ErrIndexNotReady) {
		t.Fatalf("expected ErrIndexNotReady before upload, got %v", err)
	}

	up, err := c.Upload(ctx, "finance.csv", []byte(financeCSV), Dataset("q2"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if up.NumRows != 2 || up.Dataset != "q2" {
		t.Errorf("unexpected upload result: %+v", up)
	}
	if len(store.hashes) != 2 {
		t.Errorf("expected 2 row hashes, got %d", len(store.hashes))
	}
	if _, err := c.Query(ctx, "revenue", Dataset("q2")); err != nil {
		t.Fatalf("query after upload: %v", err)
	}
}

func TestWiredClient_NoEmbedder(t *testing.T) {
	c, err := wireClient(newFakeStore(), defaultClientConfig(), nil)
	if err != nil {
		t.Fatalf("wireClient: %v", err)
	}
	defer c.Close()

	_, err = c.Upload(context.Background(), "finance.csv", []byte(financeCSV))
	if err == nil || !strings.Contains(err.Error(), "embedder not configured") {
		t.Fatalf("expected missing embedder error, got %v", err)
	}
}

func TestWiredClient_Health(t *testing.T) {
	store := newFakeStore()
	c, err := wireClient(store, defaultClientConfig(), nil)
	if err != nil {
		t.Fatalf("wireClient: %v", err)
	}
	defer c.Close()

	h := c.Health(context.Background())
	if h.Status != "healthy" || h.Checks["database"] != "ok" {
		t.Errorf("unexpected health: %+v", h)
	}

	store.pingErr = errors.New("down")
	if h := c.Health(context.Background()); h.Status != "unhealthy" {
		t.Errorf("expected unhealthy, got %+v", h)
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Error("expected ping error")
	}
}

func TestClient_CloseReleasesStore(t *testing.T) {
	store := newFakeStore()
	c, err := wireClient(store, defaultClientConfig(), nil)
	if err != nil {
		t.Fatalf("wireClient: %v", err)
	}
	c.Close()
	if !store.closed {
		t.Error("expected store to be closed")
	}
}
