package exportpdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/a11y-reference/guideline-export/export"
)

const (
	fontFamily      = "Helvetica"
	defaultFontSize = 10.0
	defaultPageSize = "A4"
)

var pageSizes = map[string]string{
	"A3":     "A3",
	"A4":     "A4",
	"A5":     "A5",
	"LETTER": "Letter",
	"LEGAL":  "Legal",
}

// Options configure documents produced by NewDocumentFactory.
type Options struct {
	PageSize  string
	Landscape bool
}

func (o Options) resolve() (size string, orientation string, err error) {
	key := strings.ToUpper(strings.TrimSpace(o.PageSize))
	if key == "" {
		key = defaultPageSize
	}
	size, ok := pageSizes[key]
	if !ok {
		return "", "", export.NewError(export.KindValidation, fmt.Sprintf("unsupported pdf page size %q", o.PageSize), nil)
	}
	orientation = "P"
	if o.Landscape {
		orientation = "L"
	}
	return size, orientation, nil
}

// NewDocumentFactory returns a factory of fpdf-backed documents measured in
// points.
func NewDocumentFactory(opts Options) (export.DocumentFactory, error) {
	size, orientation, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	return func() (export.Document, error) {
		return NewDocument(size, orientation)
	}, nil
}

// Document draws onto an fpdf document with core fonts. Text is translated
// to the cp1252 encoding the core fonts use.
type Document struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// NewDocument opens a document with its first page added.
func NewDocument(size, orientation string) (*Document, error) {
	pdf := fpdf.New(orientation, "pt", size, "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPage()
	pdf.SetFont(fontFamily, "", defaultFontSize)
	if err := pdf.Error(); err != nil {
		return nil, export.NewError(export.KindInternal, "pdf document init failed", err)
	}
	return &Document{pdf: pdf, translate: pdf.UnicodeTranslatorFromDescriptor("")}, nil
}

func (d *Document) PageSize() (float64, float64) {
	return d.pdf.GetPageSize()
}

func (d *Document) AddPage() {
	d.pdf.AddPage()
}

// PageCount returns the number of pages added so far.
func (d *Document) PageCount() int {
	return d.pdf.PageNo()
}

func (d *Document) SetFont(style export.FontStyle, size float64) {
	d.pdf.SetFont(fontFamily, string(style), size)
}

func (d *Document) SetTextColor(c export.Color) {
	d.pdf.SetTextColor(c.R, c.G, c.B)
}

func (d *Document) SetFillColor(c export.Color) {
	d.pdf.SetFillColor(c.R, c.G, c.B)
}

func (d *Document) SetDrawColor(c export.Color) {
	d.pdf.SetDrawColor(c.R, c.G, c.B)
}

func (d *Document) Text(x, y float64, text string) {
	d.pdf.Text(x, y, d.translate(text))
}

func (d *Document) Line(x1, y1, x2, y2 float64) {
	d.pdf.Line(x1, y1, x2, y2)
}

func (d *Document) FillRect(x, y, w, h float64) {
	d.pdf.Rect(x, y, w, h, "F")
}

func (d *Document) TextWidth(text string) float64 {
	return d.pdf.GetStringWidth(d.translate(text))
}

// SplitText wraps text at word boundaries so each line fits width in the
// current font. Existing line breaks are kept; words wider than a line are
// broken between characters.
func (d *Document) SplitText(text string, width float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if width <= 0 {
		return strings.Split(text, "\n")
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, d.wrap(paragraph, width)...)
	}
	return lines
}

func (d *Document) wrap(paragraph string, width float64) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if d.TextWidth(candidate) <= width {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		for len(word) > 0 && d.TextWidth(word) > width {
			head, rest := d.breakWord(word, width)
			lines = append(lines, head)
			word = rest
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// breakWord returns the longest prefix of word that fits width, keeping at
// least one character.
func (d *Document) breakWord(word string, width float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && d.TextWidth(string(runes[:n+1])) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

// Save writes the finished document. The document cannot be drawn on after.
func (d *Document) Save(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return export.NewError(export.KindInternal, "pdf output failed", err)
	}
	return nil
}

// DrawTable lays out a table on this document with AutoTable.
func (d *Document) DrawTable(spec export.TableSpec) (float64, error) {
	return AutoTable(d, spec)
}
