// Package exporttemplate renders guideline tables as printable HTML pages.
//
// Renderer builds a TemplateData view of the table and hands it to a
// TemplateExecutor. Pongo2Executor is the bundled executor; its default
// "export" template draws the title, the filter line or total count, the
// table, and the expanded detail sections. Values are HTML-escaped.
package exporttemplate
