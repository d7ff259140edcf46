package exportdataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/a11y-reference/guideline-export/export"
)

// Kind selects the document encoding.
type Kind string

const (
	KindJSON Kind = "json"
	KindYAML Kind = "yaml"
)

// Dataset is a guideline table loaded from a document.
type Dataset struct {
	Category  export.Category
	TableName string
	Columns   []string
	Rows      []export.GuidelineRow
}

type document struct {
	Category  string           `json:"category" yaml:"category"`
	TableName string           `json:"tableName" yaml:"tableName"`
	Columns   []string         `json:"columns" yaml:"columns"`
	Rows      []map[string]any `json:"rows" yaml:"rows"`
}

// KindFromPath picks the encoding from a file extension; YAML is assumed for
// anything that is not ".json".
func KindFromPath(path string) Kind {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return KindJSON
	}
	return KindYAML
}

// LoadFile reads a dataset from disk.
func LoadFile(path string) (Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open dataset %q: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()
	return Load(file, KindFromPath(path))
}

// Load decodes a dataset. Keys that do not name a known guideline field are
// kept in each row's Extra map.
func Load(r io.Reader, kind Kind) (Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Dataset{}, err
	}

	var doc document
	switch kind {
	case KindJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		err = decoder.Decode(&doc)
	case KindYAML, "":
		err = yaml.Unmarshal(data, &doc)
	default:
		return Dataset{}, export.NewError(export.KindValidation, fmt.Sprintf("unsupported dataset kind %q", kind), nil)
	}
	if err != nil {
		return Dataset{}, export.NewError(export.KindValidation, "decode dataset", err)
	}

	rows := make([]export.GuidelineRow, 0, len(doc.Rows))
	for i, raw := range doc.Rows {
		row := export.RowFromMap(raw)
		if row.ID == "" {
			row.ID = fmt.Sprintf("row-%d", i+1)
		}
		rows = append(rows, row)
	}

	return Dataset{
		Category:  export.NormalizeCategory(export.Category(doc.Category)),
		TableName: doc.TableName,
		Columns:   doc.Columns,
		Rows:      rows,
	}, nil
}

// Filter keeps rows where any selected column's cell contains text,
// ignoring case. An empty text keeps every row.
func Filter(rows []export.GuidelineRow, columns []string, text string) []export.GuidelineRow {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return rows
	}
	var out []export.GuidelineRow
	for _, row := range rows {
		for _, key := range columns {
			if strings.Contains(strings.ToLower(export.CellValue(row, key)), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// ExpandIDs builds an expansion map for ids, in the order given, from rows.
// Ids without a matching row are skipped.
func ExpandIDs(rows []export.GuidelineRow, ids []string) *export.ExpandedRows {
	byID := make(map[string]export.GuidelineRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	expanded := &export.ExpandedRows{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if row, ok := byID[id]; ok {
			expanded.Set(row)
		}
	}
	return expanded
}
