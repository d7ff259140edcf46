package exporttemplate

import (
	"context"
	"io"

	"github.com/a11y-reference/guideline-export/export"
)

// DefaultTemplateName is executed when Renderer.TemplateName is empty.
const DefaultTemplateName = "export"

// TemplateExecutor executes a named template with data.
type TemplateExecutor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// Renderer renders HTML exports through a template executor.
type Renderer struct {
	Templates    TemplateExecutor
	TemplateName string
}

// DetailView is one expanded row as shown below the table.
type DetailView struct {
	Title    string
	Sections []export.DetailSection
}

// TemplateData is the view passed to templates.
type TemplateData struct {
	Title      string
	Category   string
	Headers    []string
	Rows       [][]string
	RowCount   int
	FilterText string
	Filtered   bool
	Generated  string
	Details    []DetailView
}

// NewTemplateData builds the template view of table.
func NewTemplateData(table export.Table) TemplateData {
	data := TemplateData{
		Title:      table.Title,
		Category:   string(table.Category),
		Headers:    table.Headers,
		Rows:       table.Cells,
		RowCount:   len(table.Rows),
		FilterText: table.FilterText,
		Filtered:   table.FilterText != "",
		Generated:  table.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"),
	}
	for _, row := range table.ExpandedInTable() {
		data.Details = append(data.Details, DetailView{
			Title:    export.DisplayTitle(row, table.Category),
			Sections: export.DetailSections(row),
		})
	}
	return data
}

// Render executes the template with the table view.
func (r Renderer) Render(ctx context.Context, table export.Table, w io.Writer) (export.RenderStats, error) {
	if r.Templates == nil {
		return export.RenderStats{}, export.NewError(export.KindNotImpl, "html renderer requires templates", nil)
	}
	if err := ctx.Err(); err != nil {
		return export.RenderStats{}, err
	}

	name := r.TemplateName
	if name == "" {
		name = DefaultTemplateName
	}

	cw := &countingWriter{w: w}
	if err := r.Templates.ExecuteTemplate(cw, name, NewTemplateData(table)); err != nil {
		return export.RenderStats{}, export.NewError(export.KindInternal, "html template failed", err)
	}
	return export.RenderStats{Rows: int64(len(table.Rows)), Bytes: cw.count}, nil
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
