package exportdataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a11y-reference/guideline-export/export"
)

const yamlDataset = `
category: readability
tableName: Readability Metrics
columns: [columnName, readabilityThreshold]
rows:
  - id: flesch
    columnName: Flesch Reading Ease
    readabilityThreshold: 60
    explanation: Higher is easier.
    owner: docs-team
  - columnName: Gunning Fog
    readabilityThreshold: 12
    remediationGuidelines: |
      ## Shorten sentences
      Keep **sentences** under 20 words.
`

func TestLoad_YAML(t *testing.T) {
	ds, err := Load(strings.NewReader(yamlDataset), KindYAML)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Category != export.CategoryReadability || ds.TableName != "Readability Metrics" {
		t.Fatalf("unexpected dataset header %+v", ds)
	}
	if len(ds.Rows) != 2 || len(ds.Columns) != 2 {
		t.Fatalf("unexpected rows/columns %d/%d", len(ds.Rows), len(ds.Columns))
	}
	if ds.Rows[0].ReadabilityThreshold != "60" {
		t.Fatalf("expected stringified threshold, got %q", ds.Rows[0].ReadabilityThreshold)
	}
	if got := export.CellValue(ds.Rows[0], "owner"); got != "docs-team" {
		t.Fatalf("expected extra field, got %q", got)
	}
	if ds.Rows[1].ID != "row-2" {
		t.Fatalf("expected generated id, got %q", ds.Rows[1].ID)
	}
}

func TestLoad_JSON(t *testing.T) {
	payload := `{"category":"pdf/ua","tableName":"PDF/UA","rows":[{"id":"7.1","pdfuaClause":"7.1","pdfuaSeverity":"error","tags":["a","b"]}]}`
	ds, err := Load(strings.NewReader(payload), KindJSON)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Category != export.CategoryPDFUA {
		t.Fatalf("expected pdfua category, got %q", ds.Category)
	}
	if got := export.CellValue(ds.Rows[0], "tags"); got != `["a","b"]` {
		t.Fatalf("expected structured extra, got %q", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	if _, err := Load(strings.NewReader("rows: [unterminated"), KindYAML); export.KindFromError(err) != export.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := Load(strings.NewReader("{}"), Kind("toml")); err == nil {
		t.Fatalf("expected unsupported kind error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wave.json")
	if err := os.WriteFile(path, []byte(`{"category":"wave","tableName":"WAVE","rows":[{"id":"alt_missing","columnName":"alt_missing"}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if ds.Rows[0].ColumnName != "alt_missing" {
		t.Fatalf("unexpected row %+v", ds.Rows[0])
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestFilter(t *testing.T) {
	rows := []export.GuidelineRow{
		{ID: "a", WCAGTitle: "Contrast (Minimum)"},
		{ID: "b", WCAGTitle: "Keyboard", Explanation: "contrast mentioned here"},
	}
	if got := Filter(rows, []string{"wcagTitle"}, "CONTRAST"); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected only selected columns to match, got %+v", got)
	}
	if got := Filter(rows, []string{"wcagTitle"}, " "); len(got) != 2 {
		t.Fatalf("expected empty filter to keep all rows")
	}
}

func TestExpandIDs(t *testing.T) {
	rows := []export.GuidelineRow{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	expanded := ExpandIDs(rows, []string{"c", "missing", " a "})
	if strings.Join(expanded.IDs(), ",") != "c,a" {
		t.Fatalf("expected c,a, got %v", expanded.IDs())
	}
}
