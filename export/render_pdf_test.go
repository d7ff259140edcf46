package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

type textOp struct {
	page int
	x, y float64
	text string
	bold bool
}

// recordingDocument is a Document that records drawing calls.
type recordingDocument struct {
	width, height float64
	page          int
	bold          bool
	texts         []textOp
	lines         int
	saved         bool
}

func newRecordingDocument() *recordingDocument {
	return &recordingDocument{width: 595, height: 842, page: 1}
}

func (d *recordingDocument) PageSize() (float64, float64) { return d.width, d.height }
func (d *recordingDocument) AddPage() { d.page++ }
func (d *recordingDocument) SetFont(style FontStyle, size float64) {
	d.bold = style == FontBold
}
func (d *recordingDocument) SetTextColor(Color) {}
func (d *recordingDocument) SetFillColor(Color) {}
func (d *recordingDocument) SetDrawColor(Color) {}
func (d *recordingDocument) FillRect(x, y, w, h float64) {}
func (d *recordingDocument) Line(x1, y1, x2, y2 float64) { d.lines++ }
func (d *recordingDocument) TextWidth(text string) float64 { return float64(len(text)) * 4 }
func (d *recordingDocument) SplitText(text string, width float64) []string {
	return strings.Split(text, "\n")
}
func (d *recordingDocument) Text(x, y float64, text string) {
	d.texts = append(d.texts, textOp{page: d.page, x: x, y: y, text: text, bold: d.bold})
}
func (d *recordingDocument) Save(w io.Writer) error {
	d.saved = true
	_, err := io.WriteString(w, "%PDF-fake")
	return err
}

func (d *recordingDocument) hasText(text string) bool {
	for _, op := range d.texts {
		if op.text == text {
			return true
		}
	}
	return false
}

// drawingDocument also carries its own table layout.
type drawingDocument struct {
	*recordingDocument
	specs []TableSpec
}

func (d *drawingDocument) DrawTable(spec TableSpec) (float64, error) {
	d.specs = append(d.specs, spec)
	return spec.StartY + float64(len(spec.Body)+1)*12, nil
}

type recordingLayout struct {
	specs  []TableSpec
	finalY float64
}

func (l *recordingLayout) DrawTable(doc Document, spec TableSpec) (float64, error) {
	l.specs = append(l.specs, spec)
	if l.finalY > 0 {
		return l.finalY, nil
	}
	return spec.StartY + 20, nil
}

func pdfTable(rows []GuidelineRow, expanded *ExpandedRows, filter string) Table {
	return Project(Request{
		Rows:       rows,
		Columns:    []string{"wcagSC", "wcagTitle"},
		Category:   CategoryWCAG,
		TableName:  "WCAG 2.2",
		Expanded:   expanded,
		FilterText: filter,
	}, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestPDFRenderer_TitleAndCount(t *testing.T) {
	doc := newRecordingDocument()
	layout := &recordingLayout{}
	renderer := PDFRenderer{
		Documents:   func() (Document, error) { return doc, nil },
		TableLayout: layout,
	}

	buf := &bytes.Buffer{}
	stats, err := renderer.Render(context.Background(), pdfTable([]GuidelineRow{{ID: "a"}, {ID: "b"}}, nil, ""), buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !doc.hasText("WCAG 2.2") || !doc.hasText("Total items: 2") {
		t.Fatalf("expected title and total count, got %+v", doc.texts)
	}
	for _, op := range doc.texts {
		if strings.HasPrefix(op.text, "Filtered by") {
			t.Fatalf("unexpected filter line without filter text")
		}
	}
	if !doc.hasText("Exported: 2024-01-02 03:04 UTC") {
		t.Fatalf("expected export timestamp footer, got %+v", doc.texts)
	}
	if len(layout.specs) != 1 || layout.specs[0].StartY != pdfTableStartY {
		t.Fatalf("expected one table at %v, got %+v", pdfTableStartY, layout.specs)
	}
	if stats.Rows != 2 || stats.Bytes != int64(buf.Len()) || buf.String() != "%PDF-fake" {
		t.Fatalf("unexpected stats %+v / output %q", stats, buf.String())
	}
}

func TestPDFRenderer_FilterLineShiftsTable(t *testing.T) {
	doc := newRecordingDocument()
	layout := &recordingLayout{}
	renderer := PDFRenderer{
		Documents:   func() (Document, error) { return doc, nil },
		TableLayout: layout,
	}

	if _, err := renderer.Render(context.Background(), pdfTable([]GuidelineRow{{ID: "a"}}, nil, "contrast"), io.Discard); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !doc.hasText(`Filtered by: "contrast"`) || !doc.hasText("Results: 1") {
		t.Fatalf("expected filter metadata, got %+v", doc.texts)
	}
	if doc.hasText("Total items: 1") {
		t.Fatalf("total count must not be drawn alongside filter line")
	}
	if got := layout.specs[0].StartY; got != pdfTableStartY+pdfFilterOffset {
		t.Fatalf("expected start Y %v, got %v", pdfTableStartY+pdfFilterOffset, got)
	}
}

func TestPDFRenderer_TruncatesTableCells(t *testing.T) {
	exact := strings.Repeat("a", 100)
	over := strings.Repeat("b", 101)
	doc := newRecordingDocument()
	layout := &recordingLayout{}
	renderer := PDFRenderer{
		Documents:   func() (Document, error) { return doc, nil },
		TableLayout: layout,
	}

	rows := []GuidelineRow{{ID: "a", WCAGSC: "1.1.1", WCAGTitle: exact}, {ID: "b", WCAGSC: "1.2.1", WCAGTitle: over}}
	if _, err := renderer.Render(context.Background(), pdfTable(rows, nil, ""), io.Discard); err != nil {
		t.Fatalf("render: %v", err)
	}

	body := layout.specs[0].Body
	if body[0][1] != exact {
		t.Fatalf("expected 100-char cell unchanged, got %d chars", len(body[0][1]))
	}
	if body[1][1] != strings.Repeat("b", 100)+"..." {
		t.Fatalf("expected truncated cell, got %q", body[1][1])
	}
	head := layout.specs[0].Head
	if len(head) != 2 || head[0] != "WCAG Principle" {
		t.Fatalf("unexpected head %v", head)
	}
	if !layout.specs[0].HeadStyle.Bold || !layout.specs[0].HeadStyle.Filled {
		t.Fatalf("expected bold filled header style")
	}
}

func TestPDFRenderer_MissingTableLayoutIsFatal(t *testing.T) {
	doc := newRecordingDocument()
	renderer := PDFRenderer{
		Documents: func() (Document, error) { return doc, nil },
	}

	buf := &bytes.Buffer{}
	_, err := renderer.Render(context.Background(), pdfTable([]GuidelineRow{{ID: "a"}}, nil, ""), buf)
	if !errors.Is(err, ErrTableLayoutUnavailable) {
		t.Fatalf("expected table layout error, got %v", err)
	}
	if KindFromError(err) != KindNotImpl {
		t.Fatalf("expected not_implemented kind, got %q", KindFromError(err))
	}
	if doc.saved || buf.Len() != 0 {
		t.Fatalf("document must not be saved when the table cannot be drawn")
	}
}

func TestPDFRenderer_NilLayoutFuncIsFatal(t *testing.T) {
	doc := newRecordingDocument()
	var fn TableLayoutFunc
	renderer := PDFRenderer{
		Documents:   func() (Document, error) { return doc, nil },
		TableLayout: fn,
	}
	if _, err := renderer.Render(context.Background(), pdfTable(nil, nil, ""), io.Discard); !errors.Is(err, ErrTableLayoutUnavailable) {
		t.Fatalf("expected table layout error, got %v", err)
	}
	if doc.saved {
		t.Fatalf("document must not be saved")
	}
}

func TestPDFRenderer_UsesDocumentTableDrawer(t *testing.T) {
	doc := &drawingDocument{recordingDocument: newRecordingDocument()}
	renderer := PDFRenderer{
		Documents: func() (Document, error) { return doc, nil },
	}

	if _, err := renderer.Render(context.Background(), pdfTable([]GuidelineRow{{ID: "a"}}, nil, ""), io.Discard); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(doc.specs) != 1 {
		t.Fatalf("expected the document's own table drawer to be used")
	}
}

func TestPDFRenderer_StandaloneLayoutFunc(t *testing.T) {
	doc := newRecordingDocument()
	calls := 0
	renderer := PDFRenderer{
		Documents: func() (Document, error) { return doc, nil },
		TableLayout: TableLayoutFunc(func(d Document, spec TableSpec) (float64, error) {
			calls++
			if d != doc {
				t.Fatalf("expected the document as first argument")
			}
			return spec.StartY, nil
		}),
	}
	if _, err := renderer.Render(context.Background(), pdfTable(nil, nil, ""), io.Discard); err != nil {
		t.Fatalf("render: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected layout func to be called once, got %d", calls)
	}
}

func TestPDFRenderer_ExpandedDetails(t *testing.T) {
	rows := []GuidelineRow{
		{ID: "a", WCAGSC: "1.1.1", WCAGTitle: "Non-text Content", RemediationGuidelines: "Add **alt** text."},
		{ID: "b", WCAGSC: "1.4.3", ColumnName: "Contrast (Minimum)", PDFUAFixingSuggestions: "Raise contrast."},
		{ID: "c", WCAGSC: "2.1.1", WCAGTitle: "Keyboard"},
	}
	stale := GuidelineRow{ID: "gone", WCAGTitle: "Stale", RemediationGuidelines: "Stale text"}
	expanded := NewExpandedRows(rows[1], stale, rows[0])

	doc := newRecordingDocument()
	renderer := PDFRenderer{
		Documents:   func() (Document, error) { return doc, nil },
		TableLayout: &recordingLayout{},
	}
	if _, err := renderer.Render(context.Background(), pdfTable(rows, expanded, ""), io.Discard); err != nil {
		t.Fatalf("render: %v", err)
	}

	var order []string
	for _, op := range doc.texts {
		switch op.text {
		case "Contrast (Minimum)", "Non-text Content", "Keyboard", "Stale":
			order = append(order, op.text)
		}
	}
	if strings.Join(order, "|") != "Contrast (Minimum)|Non-text Content" {
		t.Fatalf("expected expansion order without stale or unexpanded rows, got %v", order)
	}
	if doc.hasText("Stale text") {
		t.Fatalf("stale expanded row must not contribute details")
	}
	if !doc.hasText("Add alt text.") || !doc.hasText("Raise contrast.") {
		t.Fatalf("expected normalized detail text, got %+v", doc.texts)
	}
	if !doc.hasText("Remediation Guidelines:") || !doc.hasText("PDF/UA Fixing Suggestions:") {
		t.Fatalf("expected section labels")
	}
	if doc.lines != 2 {
		t.Fatalf("expected one separator per expanded row, got %d", doc.lines)
	}
}

func TestPDFRenderer_DetailsPaginate(t *testing.T) {
	long := strings.Repeat("line\n", 200)
	row := GuidelineRow{ID: "a", WCAGTitle: "Long", RemediationGuidelines: long}
	doc := newRecordingDocument()
	renderer := PDFRenderer{
		Documents:   func() (Document, error) { return doc, nil },
		TableLayout: &recordingLayout{finalY: 800},
	}
	if _, err := renderer.Render(context.Background(), pdfTable([]GuidelineRow{row}, NewExpandedRows(row), ""), io.Discard); err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc.page < 3 {
		t.Fatalf("expected detail text to span pages, got %d page(s)", doc.page)
	}
	limit := doc.height - pdfBottomMargin
	for _, op := range doc.texts {
		if op.page > 1 && op.y > limit {
			t.Fatalf("text drawn below bottom margin: %+v", op)
		}
	}
}

func TestPDFRenderer_NoDocumentFactory(t *testing.T) {
	_, err := (PDFRenderer{}).Render(context.Background(), pdfTable(nil, nil, ""), io.Discard)
	if KindFromError(err) != KindNotImpl {
		t.Fatalf("expected not_implemented, got %v", err)
	}
}
