package rowdoc

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sheetdex/internal/domain"
	"github.com/kailas-cloud/sheetdex/internal/domain/sheet"
	"github.com/kailas-cloud/sheetdex/internal/domain/tagging"
)

// Builder renders, tags and explains table rows.
type Builder struct {
	tagger *tagging.Tagger
	logger *zap.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(tagger *tagging.Tagger, logger *zap.Logger) *Builder {
	return &Builder{tagger: tagger, logger: logger}
}

// Build produces one document per row, in row order. Column types are computed once
// for the whole table and shared by every document. A row that cannot be classified
// is kept with no categories.
func (b *Builder) Build(t *sheet.Table) []Document {
	colTypes := sheet.AnalyzeColumns(t)
	docs := make([]Document, 0, len(t.Rows))

	for i := range t.Rows {
		text := t.RenderRow(i)
		cats, err := b.classify(t, i, text, colTypes)
		if err != nil {
			b.logger.Warn("row classification failed",
				zap.Int("row_index", i),
				zap.Error(err),
			)
			cats = []string{}
		}
		docs = append(docs, Document{
			Text:        text,
			RowIndex:    i,
			Categories:  cats,
			ColumnTypes: colTypes,
			Explanation: tagging.Explain(cats, text),
		})
	}

	return docs
}

func (b *Builder) classify(
	t *sheet.Table, i int, text string, colTypes map[string]sheet.ColumnType,
) ([]string, error) {
	if len(t.Rows[i]) != len(t.Columns) {
		return nil, fmt.Errorf("row has %d cells, table has %d columns: %w",
			len(t.Rows[i]), len(t.Columns), domain.ErrClassification)
	}
	return b.tagger.Tag(text, t.RowFormulas(i), colTypes), nil
}
