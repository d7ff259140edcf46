package exportsql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/a11y-reference/guideline-export/export"
)

// Source loads guideline rows from a SQL query. Result columns are matched
// to guideline fields by name; other columns are kept in Extra.
type Source struct {
	DB *sql.DB
}

// NewSource creates a query-backed row source.
func NewSource(db *sql.DB) *Source {
	return &Source{DB: db}
}

// Rows runs query and converts each result row into a GuidelineRow. Rows
// without an "id" column are numbered in result order.
func (s *Source) Rows(ctx context.Context, query string, args ...any) ([]export.GuidelineRow, error) {
	if s == nil || s.DB == nil {
		return nil, export.NewError(export.KindValidation, "database is required", nil)
	}
	if strings.TrimSpace(query) == "" {
		return nil, export.NewError(export.KindValidation, "query is required", nil)
	}

	result, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, export.NewError(export.KindInternal, "guideline query failed", err)
	}
	defer func() {
		_ = result.Close()
	}()

	columns, err := result.Columns()
	if err != nil {
		return nil, err
	}

	var rows []export.GuidelineRow
	for result.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := result.Scan(targets...); err != nil {
			return nil, err
		}

		record := make(map[string]any, len(columns))
		for i, name := range columns {
			if raw, ok := values[i].([]byte); ok {
				record[name] = string(raw)
				continue
			}
			record[name] = values[i]
		}
		row := export.RowFromMap(record)
		if row.ID == "" {
			row.ID = fmt.Sprintf("row-%d", len(rows)+1)
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
