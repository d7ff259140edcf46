package exporttemplate

import (
	"fmt"
	"io"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/a11y-reference/guideline-export/export"
)

const defaultTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ data.Title }}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 14pt; color: #212121; }
h1 { font-size: 16pt; margin: 0 0 6pt; }
.meta { font-size: 10pt; margin: 0; }
table { border-collapse: collapse; width: 100%; margin-top: 10pt; font-size: 8pt; }
th { background: #2980b9; color: #fff; text-align: left; }
th, td { padding: 3pt; vertical-align: top; }
tbody tr:nth-child(odd) { background: #f5f5f5; }
.detail { border-top: 1px solid #c8c8c8; margin-top: 10pt; padding-top: 6pt; }
.detail h2 { font-size: 11pt; margin: 0 0 4pt; }
.detail h3 { font-size: 9pt; margin: 6pt 0 2pt; }
.detail p { font-size: 9pt; margin: 0; white-space: pre-wrap; }
footer { font-size: 8pt; color: #6e6e6e; margin-top: 14pt; }
</style>
</head>
<body>
<h1>{{ data.Title }}</h1>
{% if data.Filtered %}<p class="meta">Filtered by: "{{ data.FilterText }}"</p>
<p class="meta">Results: {{ data.RowCount }}</p>{% else %}<p class="meta">Total items: {{ data.RowCount }}</p>{% endif %}
<table>
<thead><tr>{% for header in data.Headers %}<th>{{ header }}</th>{% endfor %}</tr></thead>
<tbody>
{% for row in data.Rows %}<tr>{% for cell in row %}<td>{{ cell }}</td>{% endfor %}</tr>
{% endfor %}</tbody>
</table>
{% for detail in data.Details %}<section class="detail">
<h2>{{ detail.Title }}</h2>
{% for section in detail.Sections %}<h3>{{ section.Label }}:</h3>
<p>{{ section.Text }}</p>
{% endfor %}</section>
{% endfor %}<footer>Exported: {{ data.Generated }}</footer>
</body>
</html>
`

// Pongo2Executor executes named pongo2 templates. Templates see the view as
// "data".
type Pongo2Executor struct {
	mu        sync.RWMutex
	templates map[string]*pongo2.Template
}

// NewPongo2Executor creates an executor with the default "export" template.
func NewPongo2Executor() (*Pongo2Executor, error) {
	e := &Pongo2Executor{templates: make(map[string]*pongo2.Template)}
	if err := e.Register(DefaultTemplateName, defaultTemplate); err != nil {
		return nil, err
	}
	return e, nil
}

// Register compiles source under name, replacing any previous template.
func (e *Pongo2Executor) Register(name, source string) error {
	tpl, err := pongo2.FromString(source)
	if err != nil {
		return export.NewError(export.KindValidation, fmt.Sprintf("invalid template %q", name), err)
	}
	e.mu.Lock()
	e.templates[name] = tpl
	e.mu.Unlock()
	return nil
}

// ExecuteTemplate renders the named template into w.
func (e *Pongo2Executor) ExecuteTemplate(w io.Writer, name string, data any) error {
	e.mu.RLock()
	tpl, ok := e.templates[name]
	e.mu.RUnlock()
	if !ok {
		return export.NewError(export.KindNotFound, fmt.Sprintf("template %q not registered", name), nil)
	}
	return tpl.ExecuteWriter(pongo2.Context{"data": data}, w)
}
