package export

import (
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	excelMaxRows      = 1048576
	excelMaxCellChars = 32767
	defaultSheetName  = "Export"
	maxSheetNameLen   = 31
	minColumnWidth    = 10.0
	maxColumnWidth    = 60.0
)

var sheetNameReplacer = strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")

// XLSXRenderer renders a single-sheet workbook with bold headers.
type XLSXRenderer struct {
	SheetName string
}

// Render writes headers and rows into a workbook and streams it to w.
func (r XLSXRenderer) Render(ctx context.Context, table Table, w io.Writer) (RenderStats, error) {
	if len(table.Rows)+1 > excelMaxRows {
		return RenderStats{}, NewError(KindValidation, "xlsx row limit exceeded", nil)
	}

	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	sheetName := xlsxSheetName(r.SheetName, table.Title)
	defaultSheet := file.GetSheetName(0)
	if defaultSheet != sheetName {
		file.SetSheetName(defaultSheet, sheetName)
	}

	headerID, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2980B9"}},
	})
	if err != nil {
		return RenderStats{}, err
	}
	wrapID, err := file.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return RenderStats{}, err
	}

	stream, err := file.NewStreamWriter(sheetName)
	if err != nil {
		return RenderStats{}, err
	}

	headers := table.HeadersWithDetails()
	widths := make([]float64, len(headers))
	headerCells := make([]interface{}, len(headers))
	for i, label := range headers {
		headerCells[i] = excelize.Cell{StyleID: headerID, Value: label}
		widths[i] = columnWidth(widths[i], label)
	}

	records := table.RecordsWithDetails()
	for _, record := range records {
		for i, value := range record {
			widths[i] = columnWidth(widths[i], value)
		}
	}
	for i, width := range widths {
		if err := stream.SetColWidth(i+1, i+1, width); err != nil {
			return RenderStats{}, err
		}
	}

	cell, err := excelize.CoordinatesToCellName(1, 1)
	if err != nil {
		return RenderStats{}, err
	}
	if err := stream.SetRow(cell, headerCells); err != nil {
		return RenderStats{}, err
	}

	stats := RenderStats{}
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		cells := make([]interface{}, len(record))
		for j, value := range record {
			cells[j] = excelize.Cell{StyleID: wrapID, Value: clampCellText(value)}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return stats, err
		}
		if err := stream.SetRow(cell, cells); err != nil {
			return stats, err
		}
		stats.Rows++
	}

	if err := stream.Flush(); err != nil {
		return stats, err
	}

	cw := &countingWriter{w: w}
	if _, err := file.WriteTo(cw); err != nil {
		return stats, err
	}
	stats.Bytes = cw.count
	return stats, nil
}

func xlsxSheetName(configured, title string) string {
	name := configured
	if name == "" {
		name = title
	}
	name = sheetNameReplacer.Replace(name)
	if utf8.RuneCountInString(name) > maxSheetNameLen {
		name = string([]rune(name)[:maxSheetNameLen])
	}
	if name == "" {
		return defaultSheetName
	}
	return name
}

func columnWidth(current float64, value string) float64 {
	width := float64(utf8.RuneCountInString(value)) + 2
	if width < minColumnWidth {
		width = minColumnWidth
	}
	if width > maxColumnWidth {
		width = maxColumnWidth
	}
	if width > current {
		return width
	}
	return current
}

func clampCellText(value string) string {
	if utf8.RuneCountInString(value) <= excelMaxCellChars {
		return value
	}
	return string([]rune(value)[:excelMaxCellChars])
}
