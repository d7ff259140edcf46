package export

import "strings"

// ExpandedRows maps row ids to rows the user expanded, remembering insertion
// order. The zero value is empty and ready to use; a nil *ExpandedRows is
// treated as empty.
type ExpandedRows struct {
	order []string
	rows  map[string]GuidelineRow
}

// NewExpandedRows creates an expansion map seeded with rows in order.
func NewExpandedRows(rows ...GuidelineRow) *ExpandedRows {
	expanded := &ExpandedRows{}
	for _, row := range rows {
		expanded.Set(row)
	}
	return expanded
}

// Set adds or replaces a row. Replacing keeps the original position.
func (e *ExpandedRows) Set(row GuidelineRow) {
	if e.rows == nil {
		e.rows = make(map[string]GuidelineRow)
	}
	if _, exists := e.rows[row.ID]; !exists {
		e.order = append(e.order, row.ID)
	}
	e.rows[row.ID] = row
}

// Get returns the expanded row for id.
func (e *ExpandedRows) Get(id string) (GuidelineRow, bool) {
	if e == nil {
		return GuidelineRow{}, false
	}
	row, ok := e.rows[id]
	return row, ok
}

// Has reports whether id is expanded.
func (e *ExpandedRows) Has(id string) bool {
	_, ok := e.Get(id)
	return ok
}

// Len returns the number of expanded rows.
func (e *ExpandedRows) Len() int {
	if e == nil {
		return 0
	}
	return len(e.order)
}

// IDs returns expanded ids in insertion order.
func (e *ExpandedRows) IDs() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.order...)
}

// Rows returns expanded rows in insertion order.
func (e *ExpandedRows) Rows() []GuidelineRow {
	if e == nil {
		return nil
	}
	rows := make([]GuidelineRow, 0, len(e.order))
	for _, id := range e.order {
		rows = append(rows, e.rows[id])
	}
	return rows
}

// DetailSection is one labeled block of long-form text.
type DetailSection struct {
	Label string
	Text  string
}

// DetailSections returns the normalized long-form sections present on row in
// fixed order: remediation guidelines, clause description, fixing suggestions.
func DetailSections(row GuidelineRow) []DetailSection {
	sources := []struct {
		label string
		text  string
	}{
		{"Remediation Guidelines", row.RemediationGuidelines},
		{"PDF/UA Clause Description", row.PDFUAClauseDescription},
		{"PDF/UA Fixing Suggestions", row.PDFUAFixingSuggestions},
	}

	sections := make([]DetailSection, 0, len(sources))
	for _, src := range sources {
		if src.text == "" {
			continue
		}
		sections = append(sections, DetailSection{Label: src.label, Text: Normalize(src.text)})
	}
	return sections
}

// DetailCell flattens the detail sections of row into a single-line cell.
func DetailCell(row GuidelineRow) string {
	sections := DetailSections(row)
	if len(sections) == 0 {
		return ""
	}
	blocks := make([]string, len(sections))
	for i, section := range sections {
		blocks[i] = section.Label + ":\n" + section.Text
	}
	return flattenLines(strings.Join(blocks, "\n\n"))
}

// DisplayTitle picks the heading for an expanded row: the title field, else
// the category name field, else empty.
func DisplayTitle(row GuidelineRow, category Category) string {
	if row.WCAGTitle != "" {
		return row.WCAGTitle
	}
	if NormalizeCategory(category) == CategoryPDFUA && row.ColumnName == "" && row.PDFUAClause != "" {
		return row.PDFUAClause
	}
	return row.ColumnName
}
