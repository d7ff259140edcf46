package export

import "io"

// FontStyle selects the font weight used by a Document.
type FontStyle string

const (
	FontRegular FontStyle = ""
	FontBold    FontStyle = "B"
)

// Color is an RGB color with 0-255 components.
type Color struct {
	R, G, B int
}

// Document is the drawing surface of the PDF document renderer. Coordinates
// are in the document's user unit with the origin at the top-left corner;
// Text draws at a baseline.
type Document interface {
	PageSize() (width, height float64)
	AddPage()
	SetFont(style FontStyle, size float64)
	SetTextColor(c Color)
	SetFillColor(c Color)
	SetDrawColor(c Color)
	Text(x, y float64, text string)
	Line(x1, y1, x2, y2 float64)
	FillRect(x, y, w, h float64)
	TextWidth(text string) float64
	SplitText(text string, width float64) []string
	Save(w io.Writer) error
}

// DocumentFactory opens a new document with its implicit first page.
type DocumentFactory func() (Document, error)

// Margins in document units.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// CellStyle styles a table section.
type CellStyle struct {
	Fill      Color
	TextColor Color
	Bold      bool
	Filled    bool
}

// TableSpec describes a table handed to a TableLayout.
type TableSpec struct {
	Head          []string
	Body          [][]string
	StartY        float64
	Margin        Margins
	FontSize      float64
	CellPadding   float64
	HeadStyle     CellStyle
	BodyStyle     CellStyle
	AlternateFill Color
}

// TableLayout draws a table onto a document, paginating as needed, and
// returns the vertical position just below the last drawn row.
type TableLayout interface {
	DrawTable(doc Document, spec TableSpec) (finalY float64, err error)
}

// TableLayoutFunc adapts a standalone function taking the document first.
type TableLayoutFunc func(doc Document, spec TableSpec) (float64, error)

func (f TableLayoutFunc) DrawTable(doc Document, spec TableSpec) (float64, error) {
	if f == nil {
		return 0, ErrTableLayoutUnavailable
	}
	return f(doc, spec)
}

// TableDrawer is implemented by documents that carry their own table layout.
type TableDrawer interface {
	DrawTable(spec TableSpec) (finalY float64, err error)
}

type documentTableLayout struct{}

func (documentTableLayout) DrawTable(doc Document, spec TableSpec) (float64, error) {
	drawer, ok := doc.(TableDrawer)
	if !ok {
		return 0, ErrTableLayoutUnavailable
	}
	return drawer.DrawTable(spec)
}

// ResolveTableLayout picks the configured layout, else the document's own
// table drawer. It fails when neither is available.
func ResolveTableLayout(doc Document, configured TableLayout) (TableLayout, error) {
	if configured != nil {
		if fn, ok := configured.(TableLayoutFunc); !ok || fn != nil {
			return configured, nil
		}
	}
	if _, ok := doc.(TableDrawer); ok {
		return documentTableLayout{}, nil
	}
	return nil, ErrTableLayoutUnavailable
}
