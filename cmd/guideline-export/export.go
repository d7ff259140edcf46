package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	storefs "github.com/a11y-reference/guideline-export/adapters/store/fs"
	"github.com/a11y-reference/guideline-export/config"
	"github.com/a11y-reference/guideline-export/export"
	exportdataset "github.com/a11y-reference/guideline-export/sources/dataset"
	exportsql "github.com/a11y-reference/guideline-export/sources/sql"
)

// exportOptions holds export command flags.
type exportOptions struct {
	input     string
	sqlite    string
	query     string
	format    string
	category  string
	tableName string
	columns   []string
	expand    []string
	expandAll bool
	filter    string
	out       string
}

var exportFlags exportOptions

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a guideline table to a file",
	Long: `Export a guideline table loaded from a JSON/YAML dataset or a SQLite query.

Examples:
  # PDF with two rows expanded
  guideline-export export --input wcag.yaml --format pdf --expand 1-1-1,1-4-3

  # CSV of rows matching a filter, written to stdout
  guideline-export export --input wcag.json --filter contrast --out -

  # XLSX from a SQLite table
  guideline-export export --sqlite guidelines.db --query "SELECT * FROM wcag" \
    --table-name "WCAG 2.2" --columns wcagSC,wcagLevel,wcagTitle --format xlsx`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	f := exportCmd.Flags()
	f.StringVarP(&exportFlags.input, "input", "i", "", "dataset file (.json, .yaml, .yml)")
	f.StringVar(&exportFlags.sqlite, "sqlite", "", "SQLite database to read rows from")
	f.StringVar(&exportFlags.query, "query", "", "SQL query selecting rows (with --sqlite)")
	f.StringVarP(&exportFlags.format, "format", "f", "", "output format (csv, pdf, xlsx, json, html, sqlite)")
	f.StringVar(&exportFlags.category, "category", "", "table category (wcag, readability, ...)")
	f.StringVar(&exportFlags.tableName, "table-name", "", "table title used for headings and filenames")
	f.StringSliceVar(&exportFlags.columns, "columns", nil, "visible column keys, in order")
	f.StringSliceVar(&exportFlags.expand, "expand", nil, "row ids whose details are expanded")
	f.BoolVar(&exportFlags.expandAll, "expand-all", false, "expand every exported row")
	f.StringVar(&exportFlags.filter, "filter", "", "keep rows matching this text and show it in the PDF heading")
	f.StringVarP(&exportFlags.out, "out", "o", "", "output directory, or - for stdout (default from config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := slogLogger{l: newSlogLogger(cfg.Logging, cmd.ErrOrStderr())}

	table, err := loadTable(cmd.Context())
	if err != nil {
		return err
	}

	rows := table.Rows
	if exportFlags.filter != "" {
		rows = exportdataset.Filter(rows, table.Columns, exportFlags.filter)
	}
	expandIDs := exportFlags.expand
	if exportFlags.expandAll {
		expandIDs = make([]string, 0, len(rows))
		for _, row := range rows {
			expandIDs = append(expandIDs, row.ID)
		}
	}

	sink, err := exportSink(cfg, cmd)
	if err != nil {
		return err
	}
	svc, err := buildService(cfg, serviceDeps{Sink: sink, Logger: logger})
	if err != nil {
		return err
	}

	format := export.Format(exportFlags.format)
	if format == "" {
		format = export.Format(cfg.Export.Format)
	}
	result, err := svc.Export(cmd.Context(), export.Request{
		Rows:       rows,
		Columns:    table.Columns,
		Category:   table.Category,
		TableName:  table.TableName,
		Expanded:   exportdataset.ExpandIDs(rows, expandIDs),
		FilterText: exportFlags.filter,
		Format:     format,
	})
	if err != nil {
		return err
	}

	if exportFlags.out != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d rows to %s (%d bytes)\n", result.Rows, result.Artifact.Key, result.Bytes)
	}
	return nil
}

// loadTable resolves rows from the dataset or SQLite flags; flags override
// dataset metadata.
func loadTable(ctx context.Context) (exportdataset.Dataset, error) {
	var table exportdataset.Dataset
	switch {
	case exportFlags.input != "" && exportFlags.sqlite != "":
		return table, fmt.Errorf("--input and --sqlite are mutually exclusive")
	case exportFlags.input != "":
		loaded, err := exportdataset.LoadFile(exportFlags.input)
		if err != nil {
			return table, err
		}
		table = loaded
	case exportFlags.sqlite != "":
		if strings.TrimSpace(exportFlags.query) == "" {
			return table, fmt.Errorf("--query is required with --sqlite")
		}
		rows, err := querySQLite(ctx, exportFlags.sqlite, exportFlags.query)
		if err != nil {
			return table, err
		}
		table.Rows = rows
	default:
		return table, fmt.Errorf("one of --input or --sqlite is required")
	}

	if exportFlags.category != "" {
		table.Category = export.Category(exportFlags.category)
	}
	if exportFlags.tableName != "" {
		table.TableName = exportFlags.tableName
	}
	if len(exportFlags.columns) > 0 {
		table.Columns = exportFlags.columns
	}
	if len(table.Columns) == 0 {
		return table, fmt.Errorf("no columns selected; pass --columns or list them in the dataset")
	}
	return table, nil
}

func querySQLite(ctx context.Context, path, query string) ([]export.GuidelineRow, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()
	return exportsql.NewSource(db).Rows(ctx, query)
}

func exportSink(cfg *config.Config, cmd *cobra.Command) (export.ArtifactSink, error) {
	if exportFlags.out == "-" {
		return export.WriterSink{W: cmd.OutOrStdout()}, nil
	}
	dir := cfg.Export.OutputDir
	if exportFlags.out != "" {
		dir = exportFlags.out
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	sink := storefs.NewSink(dir)
	sink.Prefix = cfg.Export.Prefix
	return sink, nil
}
