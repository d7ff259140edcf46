package exportpdf

import "github.com/a11y-reference/guideline-export/export"

const (
	defaultTableFontSize = 8.0
	lineSpacing          = 1.15
	baselineRatio        = 0.8
)

// AutoTable draws spec onto doc starting at spec.StartY. Columns share the
// printable width in proportion to their content. Rows that do not fit above
// the bottom margin move to a new page, where the head row is repeated.
// It returns the Y position just below the last row.
func AutoTable(doc export.Document, spec export.TableSpec) (float64, error) {
	if doc == nil {
		return 0, export.NewError(export.KindValidation, "table document is required", nil)
	}
	if len(spec.Head) == 0 {
		return spec.StartY, nil
	}
	if spec.FontSize <= 0 {
		spec.FontSize = defaultTableFontSize
	}

	pageWidth, pageHeight := doc.PageSize()
	layout := tableLayout{
		doc:        doc,
		spec:       spec,
		lineHeight: spec.FontSize * lineSpacing,
		bottom:     pageHeight - spec.Margin.Bottom,
	}
	layout.widths = layout.columnWidths(pageWidth - spec.Margin.Left - spec.Margin.Right)

	head := layout.wrap(spec.Head, true)
	y := spec.StartY
	if y+layout.height(head) > layout.bottom {
		doc.AddPage()
		y = spec.Margin.Top
	}
	headFill := spec.HeadStyle.Fill
	y = layout.drawRow(y, head, spec.HeadStyle, fillOrNil(spec.HeadStyle.Filled, &headFill))
	pageTop := y

	for i, cells := range spec.Body {
		lines := layout.wrap(cells, spec.BodyStyle.Bold)
		height := layout.height(lines)
		if y+height > layout.bottom && y > pageTop {
			doc.AddPage()
			y = layout.drawRow(spec.Margin.Top, head, spec.HeadStyle, fillOrNil(spec.HeadStyle.Filled, &headFill))
			pageTop = y
		}
		y = layout.drawRow(y, lines, spec.BodyStyle, layout.bodyFill(i))
	}
	return y, nil
}

type tableLayout struct {
	doc        export.Document
	spec       export.TableSpec
	widths     []float64
	lineHeight float64
	bottom     float64
}

func (t tableLayout) columnWidths(available float64) []float64 {
	count := len(t.spec.Head)
	natural := make([]float64, count)

	t.doc.SetFont(export.FontBold, t.spec.FontSize)
	for i, label := range t.spec.Head {
		natural[i] = t.doc.TextWidth(label)
	}
	t.doc.SetFont(export.FontRegular, t.spec.FontSize)
	for _, row := range t.spec.Body {
		for i := 0; i < count && i < len(row); i++ {
			if w := t.doc.TextWidth(row[i]); w > natural[i] {
				natural[i] = w
			}
		}
	}

	total := 0.0
	for i := range natural {
		natural[i] += 2 * t.spec.CellPadding
		total += natural[i]
	}

	widths := make([]float64, count)
	for i := range widths {
		if total <= 0 {
			widths[i] = available / float64(count)
			continue
		}
		widths[i] = available * natural[i] / total
	}
	return widths
}

func (t tableLayout) wrap(cells []string, bold bool) [][]string {
	t.doc.SetFont(fontStyle(bold), t.spec.FontSize)
	lines := make([][]string, len(t.widths))
	for i, width := range t.widths {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		wrapped := t.doc.SplitText(text, width-2*t.spec.CellPadding)
		if len(wrapped) == 0 {
			wrapped = []string{""}
		}
		lines[i] = wrapped
	}
	return lines
}

func (t tableLayout) height(lines [][]string) float64 {
	most := 1
	for _, cell := range lines {
		if len(cell) > most {
			most = len(cell)
		}
	}
	return float64(most)*t.lineHeight + 2*t.spec.CellPadding
}

func (t tableLayout) drawRow(y float64, lines [][]string, style export.CellStyle, fill *export.Color) float64 {
	height := t.height(lines)
	x := t.spec.Margin.Left
	if fill != nil {
		width := 0.0
		for _, w := range t.widths {
			width += w
		}
		t.doc.SetFillColor(*fill)
		t.doc.FillRect(x, y, width, height)
	}

	t.doc.SetFont(fontStyle(style.Bold), t.spec.FontSize)
	t.doc.SetTextColor(style.TextColor)
	baseline := y + t.spec.CellPadding + t.spec.FontSize*baselineRatio
	for i, cell := range lines {
		for n, line := range cell {
			if line == "" {
				continue
			}
			t.doc.Text(x+t.spec.CellPadding, baseline+float64(n)*t.lineHeight, line)
		}
		x += t.widths[i]
	}
	return y + height
}

// bodyFill stripes even rows with the alternate fill.
func (t tableLayout) bodyFill(index int) *export.Color {
	if t.spec.BodyStyle.Filled {
		fill := t.spec.BodyStyle.Fill
		if index%2 == 0 && t.spec.AlternateFill != (export.Color{}) {
			fill = t.spec.AlternateFill
		}
		return &fill
	}
	if index%2 == 0 && t.spec.AlternateFill != (export.Color{}) {
		fill := t.spec.AlternateFill
		return &fill
	}
	return nil
}

func fillOrNil(filled bool, c *export.Color) *export.Color {
	if !filled {
		return nil
	}
	return c
}

func fontStyle(bold bool) export.FontStyle {
	if bold {
		return export.FontBold
	}
	return export.FontRegular
}
