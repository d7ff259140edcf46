package export

import "time"

// Table is the column-projected snapshot both export pipelines render from.
type Table struct {
	Title       string
	Category    Category
	Columns     []string
	Headers     []string
	Rows        []GuidelineRow
	Cells       [][]string
	Expanded    *ExpandedRows
	FilterText  string
	GeneratedAt time.Time
}

// Project resolves headers and extracts cells for req. The returned table
// does not share slices with req.
func Project(req Request, now time.Time) Table {
	columns := append([]string(nil), req.Columns...)
	rows := append([]GuidelineRow(nil), req.Rows...)

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = ProjectRow(row, columns)
	}

	return Table{
		Title:       req.TableName,
		Category:    NormalizeCategory(req.Category),
		Columns:     columns,
		Headers:     ResolveHeaders(req.Category, columns),
		Rows:        rows,
		Cells:       cells,
		Expanded:    req.Expanded,
		FilterText:  req.FilterText,
		GeneratedAt: now,
	}
}

// HasExpansion reports whether the expanded-details column is active.
func (t Table) HasExpansion() bool {
	return t.Expanded.Len() > 0
}

// ExpandedDetail returns the flattened detail cell for row, or "" when the
// row is not expanded.
func (t Table) ExpandedDetail(row GuidelineRow) string {
	expanded, ok := t.Expanded.Get(row.ID)
	if !ok {
		return ""
	}
	return DetailCell(expanded)
}

// ExpandedInTable returns expanded rows, in expansion order, whose ids are
// still present in the table rows.
func (t Table) ExpandedInTable() []GuidelineRow {
	if t.Expanded.Len() == 0 {
		return nil
	}
	present := make(map[string]struct{}, len(t.Rows))
	for _, row := range t.Rows {
		present[row.ID] = struct{}{}
	}
	result := make([]GuidelineRow, 0, t.Expanded.Len())
	for _, row := range t.Expanded.Rows() {
		if _, ok := present[row.ID]; ok {
			result = append(result, row)
		}
	}
	return result
}

// HeadersWithDetails returns headers plus the expanded-details label when
// expansion is active.
func (t Table) HeadersWithDetails() []string {
	headers := append([]string(nil), t.Headers...)
	if t.HasExpansion() {
		headers = append(headers, ExpandedDetailsHeader)
	}
	return headers
}

// RecordsWithDetails returns cell rows plus the expanded-details cell when
// expansion is active.
func (t Table) RecordsWithDetails() [][]string {
	records := make([][]string, len(t.Cells))
	for i, cells := range t.Cells {
		record := append([]string(nil), cells...)
		if t.HasExpansion() {
			record = append(record, t.ExpandedDetail(t.Rows[i]))
		}
		records[i] = record
	}
	return records
}
