package exporthttp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/a11y-reference/guideline-export/export"
	exportdataset "github.com/a11y-reference/guideline-export/sources/dataset"
)

type exportPayload struct {
	TableName    string           `json:"tableName"`
	Category     string           `json:"category"`
	Format       string           `json:"format"`
	Columns      []string         `json:"columns"`
	Rows         []map[string]any `json:"rows"`
	ExpandedIDs  []string         `json:"expandedIds"`
	ExpandedRows []map[string]any `json:"expandedRows"`
	FilterText   string           `json:"filterText"`
}

// decodeRequest reads an export request from a JSON body. The format may
// also come from the "format" query parameter. Expanded rows are taken from
// expandedIds, resolved against rows, followed by any explicit expandedRows.
func decodeRequest(r *http.Request, maxBytes int64) (export.Request, error) {
	if r.Body == nil {
		return export.Request{}, export.NewError(export.KindValidation, "request body is required", nil)
	}
	defer r.Body.Close()

	var payload exportPayload
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBytes))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return export.Request{}, export.NewError(export.KindValidation, "invalid export request body", err)
	}

	rows := make([]export.GuidelineRow, len(payload.Rows))
	for i, raw := range payload.Rows {
		rows[i] = export.RowFromMap(raw)
		if rows[i].ID == "" {
			rows[i].ID = fmt.Sprintf("row-%d", i+1)
		}
	}

	expanded := exportdataset.ExpandIDs(rows, payload.ExpandedIDs)
	for _, raw := range payload.ExpandedRows {
		row := export.RowFromMap(raw)
		if row.ID == "" {
			return export.Request{}, export.NewError(export.KindValidation, "expanded rows require an id", nil)
		}
		expanded.Set(row)
	}

	format := payload.Format
	if format == "" {
		format = r.URL.Query().Get("format")
	}

	return export.Request{
		Rows:       rows,
		Columns:    payload.Columns,
		Category:   export.Category(payload.Category),
		TableName:  payload.TableName,
		Expanded:   expanded,
		FilterText: payload.FilterText,
		Format:     export.Format(format),
	}, nil
}
