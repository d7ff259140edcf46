package export

import (
	"context"
	"fmt"
	"io"
	"time"
)

const (
	pdfMarginX          = 14.0
	pdfTopMargin        = 30.0
	pdfBottomMargin     = 20.0
	pdfTitleY           = 22.0
	pdfTitleSize        = 16.0
	pdfMetaY            = 36.0
	pdfMetaLineHeight   = 10.0
	pdfMetaSize         = 10.0
	pdfFooterSize       = 8.0
	pdfFooterOffset     = 10.0
	pdfTableStartY      = 50.0
	pdfFilterOffset     = 5.0
	pdfTableFontSize    = 8.0
	pdfCellPadding      = 3.0
	pdfDetailBreakSpace = 40.0
	pdfDetailTitleSize  = 11.0
	pdfDetailTextSize   = 9.0
	pdfDetailLineHeight = 11.0
	pdfSectionGap       = 6.0
	pdfRowGap           = 10.0

	// PDFCellLimit is the longest cell text drawn in PDF tables.
	PDFCellLimit = 100
)

var (
	pdfHeadFill     = Color{R: 41, G: 128, B: 185}
	pdfHeadText     = Color{R: 255, G: 255, B: 255}
	pdfBodyText     = Color{R: 33, G: 33, B: 33}
	pdfAlternate    = Color{R: 245, G: 245, B: 245}
	pdfMutedText    = Color{R: 110, G: 110, B: 110}
	pdfSeparator    = Color{R: 200, G: 200, B: 200}
	pdfDefaultBlack = Color{}
)

// PDFRenderer lays out a title, metadata, a paginated table, and expanded
// detail sections through a Document.
type PDFRenderer struct {
	Documents   DocumentFactory
	TableLayout TableLayout
}

// Render draws table into a new document and saves it to w. Nothing is
// written to w unless the whole document was laid out.
func (r PDFRenderer) Render(ctx context.Context, table Table, w io.Writer) (RenderStats, error) {
	if r.Documents == nil {
		return RenderStats{}, NewError(KindNotImpl, "pdf document renderer unavailable", nil)
	}
	doc, err := r.Documents()
	if err != nil {
		return RenderStats{}, NewError(KindInternal, "pdf document open failed", err)
	}
	layout, err := ResolveTableLayout(doc, r.TableLayout)
	if err != nil {
		return RenderStats{}, err
	}

	pageWidth, pageHeight := doc.PageSize()
	filtered := table.FilterText != ""

	doc.SetTextColor(pdfDefaultBlack)
	doc.SetFont(FontBold, pdfTitleSize)
	doc.Text(pdfMarginX, pdfTitleY, table.Title)

	doc.SetFont(FontRegular, pdfMetaSize)
	if filtered {
		doc.Text(pdfMarginX, pdfMetaY, `Filtered by: "`+table.FilterText+`"`)
		doc.Text(pdfMarginX, pdfMetaY+pdfMetaLineHeight, fmt.Sprintf("Results: %d", len(table.Rows)))
	} else {
		doc.Text(pdfMarginX, pdfMetaY, fmt.Sprintf("Total items: %d", len(table.Rows)))
	}

	doc.SetFont(FontRegular, pdfFooterSize)
	doc.SetTextColor(pdfMutedText)
	doc.Text(pdfMarginX, pageHeight-pdfFooterOffset, "Exported: "+exportTimestamp(table.GeneratedAt))
	doc.SetTextColor(pdfDefaultBlack)

	startY := pdfTableStartY
	if filtered {
		startY += pdfFilterOffset
	}

	finalY, err := layout.DrawTable(doc, TableSpec{
		Head:        table.Headers,
		Body:        truncatedCells(table.Cells, PDFCellLimit),
		StartY:      startY,
		Margin:      Margins{Top: pdfTopMargin, Right: pdfMarginX, Bottom: pdfBottomMargin, Left: pdfMarginX},
		FontSize:    pdfTableFontSize,
		CellPadding: pdfCellPadding,
		HeadStyle: CellStyle{
			Fill:      pdfHeadFill,
			TextColor: pdfHeadText,
			Bold:      true,
			Filled:    true,
		},
		BodyStyle:     CellStyle{TextColor: pdfBodyText},
		AlternateFill: pdfAlternate,
	})
	if err != nil {
		return RenderStats{}, err
	}
	if err := ctx.Err(); err != nil {
		return RenderStats{}, err
	}

	writeDetails(doc, table, finalY, pageWidth, pageHeight)

	cw := &countingWriter{w: w}
	if err := doc.Save(cw); err != nil {
		return RenderStats{}, NewError(KindInternal, "pdf save failed", err)
	}
	return RenderStats{Rows: int64(len(table.Rows)), Bytes: cw.count}, nil
}

func writeDetails(doc Document, table Table, finalY, pageWidth, pageHeight float64) {
	printable := pageWidth - 2*pdfMarginX
	limit := pageHeight - pdfBottomMargin
	y := finalY + pdfRowGap

	advance := func(step float64) {
		if y+step > limit {
			doc.AddPage()
			y = pdfTopMargin
		}
	}

	for _, row := range table.ExpandedInTable() {
		if y > pageHeight-pdfDetailBreakSpace {
			doc.AddPage()
			y = pdfTopMargin
		}

		doc.SetDrawColor(pdfSeparator)
		doc.Line(pdfMarginX, y, pageWidth-pdfMarginX, y)
		y += pdfDetailLineHeight + 2

		doc.SetFont(FontBold, pdfDetailTitleSize)
		doc.Text(pdfMarginX, y, DisplayTitle(row, table.Category))
		y += pdfDetailLineHeight + 3

		for _, section := range DetailSections(row) {
			advance(pdfDetailLineHeight)
			doc.SetFont(FontBold, pdfDetailTextSize)
			doc.Text(pdfMarginX, y, section.Label+":")
			y += pdfDetailLineHeight

			doc.SetFont(FontRegular, pdfDetailTextSize)
			for _, line := range doc.SplitText(section.Text, printable) {
				advance(pdfDetailLineHeight)
				doc.Text(pdfMarginX, y, line)
				y += pdfDetailLineHeight
			}
			y += pdfSectionGap
		}
		y += pdfRowGap
	}
}

func truncatedCells(cells [][]string, limit int) [][]string {
	out := make([][]string, len(cells))
	for i, row := range cells {
		truncated := make([]string, len(row))
		for j, cell := range row {
			truncated[j] = truncateCell(cell, limit)
		}
		out[i] = truncated
	}
	return out
}

func exportTimestamp(at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}
	return at.UTC().Format("2006-01-02 15:04 MST")
}
