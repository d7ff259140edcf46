package export

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func jsonTable() Table {
	rows := sampleRows()
	return Project(Request{
		Rows:     rows,
		Columns:  []string{"wcagTitle", "wcagSC"},
		Category: CategoryWCAG,
		Expanded: NewExpandedRows(rows[0]),
	}, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestJSONRenderer_KeepsColumnOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	stats, err := (JSONRenderer{}).Render(context.Background(), jsonTable(), buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if stats.Rows != 2 || stats.Bytes != int64(buf.Len()) {
		t.Fatalf("unexpected stats %+v", stats)
	}

	output := buf.String()
	if !strings.HasPrefix(output, `[{"WCAG Title":"Non-text Content","WCAG Principle":"1.1.1","Expanded Details":`) {
		t.Fatalf("expected ordered keys, got %q", output)
	}

	var decoded []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 || decoded[1]["Expanded Details"] != "" {
		t.Fatalf("unexpected decoded rows %v", decoded)
	}
}

func TestJSONRenderer_Lines(t *testing.T) {
	buf := &bytes.Buffer{}
	if _, err := (JSONRenderer{Lines: true}).Render(context.Background(), jsonTable(), buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, line := range lines {
		var obj map[string]string
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			t.Fatalf("line %q: %v", line, err)
		}
	}
}

func TestJSONRenderer_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	if _, err := (JSONRenderer{}).Render(context.Background(), Table{}, buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}
