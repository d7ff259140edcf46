package export

import (
	"context"
	"io"
	"strings"
)

// CSVRenderer renders CSV output. Every field is quoted, embedded quotes are
// doubled, and lines are joined with "\n" without a trailing newline.
type CSVRenderer struct{}

// Render writes the header line and one line per row.
func (r CSVRenderer) Render(ctx context.Context, table Table, w io.Writer) (RenderStats, error) {
	cw := &countingWriter{w: w}

	if _, err := io.WriteString(cw, csvLine(table.HeadersWithDetails())); err != nil {
		return RenderStats{}, err
	}

	stats := RenderStats{}
	for _, record := range table.RecordsWithDetails() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if _, err := io.WriteString(cw, "\n"+csvLine(record)); err != nil {
			return stats, err
		}
		stats.Rows++
	}

	stats.Bytes = cw.count
	return stats, nil
}

func csvLine(fields []string) string {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = csvQuote(field)
	}
	return strings.Join(quoted, ",")
}

func csvQuote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
