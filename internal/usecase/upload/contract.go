package upload

import (
	"context"

	"github.com/kailas-cloud/sheetdex/internal/domain/rowdoc"
	"github.com/kailas-cloud/sheetdex/internal/domain/sheet"
)

// Index replaces a dataset with freshly built row documents.
type Index interface {
	Index(ctx context.Context, dataset string, docs []rowdoc.Document) error
}

// DocumentBuilder turns a parsed table into row documents.
type DocumentBuilder interface {
	Build(t *sheet.Table) []rowdoc.Document
}
