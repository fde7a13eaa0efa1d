// Command sheetdex-cli runs row tagging and query analysis offline, without a vector store.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sheetdex/internal/config"
	"github.com/kailas-cloud/sheetdex/internal/domain/lexicon"
	"github.com/kailas-cloud/sheetdex/internal/domain/query"
	"github.com/kailas-cloud/sheetdex/internal/domain/rowdoc"
	"github.com/kailas-cloud/sheetdex/internal/domain/sheet"
	"github.com/kailas-cloud/sheetdex/internal/domain/tagging"
	logpkg "github.com/kailas-cloud/sheetdex/internal/logger"
	uploaduc "github.com/kailas-cloud/sheetdex/internal/usecase/upload"
	"github.com/kailas-cloud/sheetdex/internal/version"
)

const defaultMaxQueryLength = 500

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	var (
		logger = zap.NewNop()
		lx     *lexicon.Lexicon
	)

	return &cli.App{
		Name:    "sheetdex-cli",
		Usage:   "Tag spreadsheet rows and analyze search queries offline",
		Version: version.String(),
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: func(c *cli.Context) error {
			l, err := logpkg.NewLogger("cli", c.String("log-level"))
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			logger = l
			lx, err = lexicon.New()
			if err != nil {
				return fmt.Errorf("compile lexicon: %w", err)
			}
			return nil
		},
		After: func(*cli.Context) error {
			_ = logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "tag",
				Usage:     "Print column types, categories and explanations for every row of a .csv or .xlsx file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "rows",
						Usage: "Print at most N rows (0 = all)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print documents as JSON",
					},
				},
				Action: func(c *cli.Context) error {
					return tagCommand(c, lx, logger)
				},
			},
			{
				Name:      "analyze",
				Usage:     "Print the analysis of a natural-language query as JSON",
				ArgsUsage: "<query>",
				Action: func(c *cli.Context) error {
					return analyzeCommand(c, lx)
				},
			},
		},
	}
}

type taggedRow struct {
	RowIndex    int      `json:"row_index"`
	Text        string   `json:"row_text"`
	Categories  []string `json:"business_categories"`
	Explanation string   `json:"explanation"`
}

func tagCommand(c *cli.Context, lx *lexicon.Lexicon, logger *zap.Logger) error {
	if c.NArg() != 1 {
		return errors.New("usage: sheetdex-cli tag <file>")
	}
	path := c.Args().First()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	format, err := uploaduc.ValidateFile(filepath.Base(path), data, uploaduc.Limits{})
	if err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	table, err := uploaduc.ParseTable(format, data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	docs := rowdoc.NewBuilder(tagging.New(lx), logger).Build(table)
	if n := c.Int("rows"); n > 0 && n < len(docs) {
		docs = docs[:n]
	}

	out := c.App.Writer
	if c.Bool("json") {
		rows := make([]taggedRow, len(docs))
		for i, d := range docs {
			rows[i] = taggedRow{RowIndex: d.RowIndex, Text: d.Text, Categories: d.Categories, Explanation: d.Explanation}
		}
		return writeJSON(out, map[string]any{
			"columns":      table.Columns,
			"column_types": columnTypes(docs),
			"rows":         rows,
		})
	}

	fmt.Fprintf(out, "%d rows, %d columns\n", len(table.Rows), len(table.Columns))
	if len(docs) > 0 {
		types := docs[0].ColumnTypes
		for _, col := range table.Columns {
			fmt.Fprintf(out, "  %-24s %s\n", col, types[col])
		}
	}
	for _, d := range docs {
		fmt.Fprintf(out, "\nrow %d: %s\n", d.RowIndex, d.Text)
		cats := "-"
		if len(d.Categories) > 0 {
			cats = strings.Join(d.Categories, ", ")
		}
		fmt.Fprintf(out, "  categories:  %s\n", cats)
		fmt.Fprintf(out, "  explanation: %s\n", d.Explanation)
	}
	return nil
}

// columnTypes returns the table-wide column types shared by every document.
func columnTypes(docs []rowdoc.Document) map[string]sheet.ColumnType {
	if len(docs) == 0 {
		return map[string]sheet.ColumnType{}
	}
	return docs[0].ColumnTypes
}

func analyzeCommand(c *cli.Context, lx *lexicon.Lexicon) error {
	if c.NArg() == 0 {
		return errors.New("usage: sheetdex-cli analyze <query>")
	}
	q, err := query.Sanitize(strings.Join(c.Args().Slice(), " "), defaultMaxQueryLength)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return writeJSON(c.App.Writer, query.NewProcessor(lx).Process(q))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
