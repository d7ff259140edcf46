// Package exportpdf provides the fpdf-backed document used by the PDF
// exporter, plus AutoTable, a paginating table layout that works on any
// export.Document.
package exportpdf
