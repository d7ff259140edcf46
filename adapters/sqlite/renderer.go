package exportsqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/a11y-reference/guideline-export/export"
)

const defaultTableName = "data"

// Renderer writes a guideline table into a SQLite database file.
type Renderer struct {
	// TableName overrides the SQL table name derived from the table title.
	TableName string
}

// Render builds the database in a temp file and streams it to w.
func (r Renderer) Render(ctx context.Context, table export.Table, w io.Writer) (export.RenderStats, error) {
	headers := table.HeadersWithDetails()
	if len(headers) == 0 {
		return export.RenderStats{}, export.NewError(export.KindValidation, "table has no columns", nil)
	}

	name := strings.TrimSpace(r.TableName)
	if name == "" {
		name = table.Title
	}
	spec := buildTableSpec(sanitizeIdentifier(name, defaultTableName), headers)

	tempFile, err := os.CreateTemp("", "guideline-export-*.sqlite")
	if err != nil {
		return export.RenderStats{}, export.NewError(export.KindInternal, "sqlite temp file create failed", err)
	}
	path := tempFile.Name()
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(path)
		return export.RenderStats{}, export.NewError(export.KindInternal, "sqlite temp file close failed", err)
	}
	defer func() {
		_ = os.Remove(path)
	}()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return export.RenderStats{}, export.NewError(export.KindInternal, "sqlite open failed", err)
	}

	stats, err := writeRecords(ctx, db, spec, table.RecordsWithDetails())
	if err != nil {
		_ = db.Close()
		return stats, err
	}
	if err := db.Close(); err != nil {
		return stats, export.NewError(export.KindInternal, "sqlite close failed", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return stats, export.NewError(export.KindInternal, "sqlite temp file open failed", err)
	}
	defer func() {
		_ = file.Close()
	}()

	cw := &countingWriter{w: w}
	if _, err := io.Copy(cw, file); err != nil {
		return export.RenderStats{Rows: stats.Rows, Bytes: cw.count}, err
	}
	stats.Bytes = cw.count
	return stats, nil
}

type tableSpec struct {
	tableName string
	columns   []string
	createSQL string
	insertSQL string
}

// buildTableSpec names one TEXT column per header. Labels repeated without
// regard to case get a numeric suffix.
func buildTableSpec(tableName string, headers []string) tableSpec {
	seen := make(map[string]int, len(headers))
	columns := make([]string, len(headers))
	defs := make([]string, len(headers))
	quoted := make([]string, len(headers))

	for i, label := range headers {
		name := strings.TrimSpace(label)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		key := strings.ToLower(name)
		seen[key]++
		if n := seen[key]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		columns[i] = name
		quoted[i] = quoteIdentifier(name)
		defs[i] = quoted[i] + " TEXT"
	}

	return tableSpec{
		tableName: tableName,
		columns:   columns,
		createSQL: fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdentifier(tableName), strings.Join(defs, ", ")),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdentifier(tableName), strings.Join(quoted, ", "), strings.Join(placeholders(len(columns)), ", ")),
	}
}

func writeRecords(ctx context.Context, db *sql.DB, spec tableSpec, records [][]string) (export.RenderStats, error) {
	stats := export.RenderStats{}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return stats, export.NewError(export.KindInternal, "sqlite begin transaction failed", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, spec.createSQL); err != nil {
		return stats, export.NewError(export.KindInternal, "sqlite create table failed", err)
	}

	stmt, err := tx.PrepareContext(ctx, spec.insertSQL)
	if err != nil {
		return stats, export.NewError(export.KindInternal, "sqlite prepare insert failed", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	values := make([]any, len(spec.columns))
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		for i := range values {
			values[i] = record[i]
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return stats, export.NewError(export.KindInternal, "sqlite insert failed", err)
		}
		stats.Rows++
	}

	if err := tx.Commit(); err != nil {
		return stats, export.NewError(export.KindInternal, "sqlite commit failed", err)
	}
	return stats, nil
}

func placeholders(count int) []string {
	out := make([]string, count)
	for i := range out {
		out[i] = "?"
	}
	return out
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sanitizeIdentifier(name, fallback string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune('_')
		}
	}
	sanitized := strings.Trim(b.String(), "_")
	if sanitized == "" {
		return fallback
	}
	if sanitized[0] >= '0' && sanitized[0] <= '9' {
		sanitized = "t_" + sanitized
	}
	return sanitized
}

type countingWriter struct {
	w     io.Writer
	count int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.count += int64(n)
	return n, err
}
