package export

import (
	"strings"
	"testing"
)

func TestExpandedRows_InsertionOrder(t *testing.T) {
	expanded := NewExpandedRows(GuidelineRow{ID: "b"}, GuidelineRow{ID: "a"})
	expanded.Set(GuidelineRow{ID: "b", WCAGTitle: "replaced"})
	expanded.Set(GuidelineRow{ID: "c"})

	if got := strings.Join(expanded.IDs(), ","); got != "b,a,c" {
		t.Fatalf("expected insertion order, got %q", got)
	}
	row, ok := expanded.Get("b")
	if !ok || row.WCAGTitle != "replaced" {
		t.Fatalf("expected replaced row, got %+v", row)
	}
	if expanded.Len() != 3 || !expanded.Has("c") || expanded.Has("z") {
		t.Fatalf("unexpected membership")
	}
}

func TestExpandedRows_NilIsEmpty(t *testing.T) {
	var expanded *ExpandedRows
	if expanded.Len() != 0 || expanded.Has("a") || expanded.IDs() != nil || expanded.Rows() != nil {
		t.Fatalf("nil expansion map must behave as empty")
	}
	var zero ExpandedRows
	zero.Set(GuidelineRow{ID: "a"})
	if zero.Len() != 1 {
		t.Fatalf("zero value must be usable")
	}
}

func TestDetailCell_NoSections(t *testing.T) {
	if got := DetailCell(GuidelineRow{ID: "a", WCAGTitle: "Only a title"}); got != "" {
		t.Fatalf("expected empty cell, got %q", got)
	}
}

func TestDetailCell_MultipleSections(t *testing.T) {
	row := GuidelineRow{
		RemediationGuidelines:  "Step one\n\n\n\nStep two",
		PDFUAFixingSuggestions: "Use `<Figure>` tags",
	}
	want := "Remediation Guidelines: | Step one | Step two | PDF/UA Fixing Suggestions: | Use tags"
	if got := DetailCell(row); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDisplayTitle(t *testing.T) {
	cases := []struct {
		row      GuidelineRow
		category Category
		want     string
	}{
		{GuidelineRow{WCAGTitle: "Keyboard", ColumnName: "ignored"}, CategoryWCAG, "Keyboard"},
		{GuidelineRow{ColumnName: "Flesch Reading Ease"}, CategoryReadability, "Flesch Reading Ease"},
		{GuidelineRow{PDFUAClause: "7.1"}, CategoryPDFUA, "7.1"},
		{GuidelineRow{PDFUAClause: "7.1"}, CategoryWCAG, ""},
	}
	for _, tc := range cases {
		if got := DisplayTitle(tc.row, tc.category); got != tc.want {
			t.Fatalf("DisplayTitle(%+v): expected %q, got %q", tc.row, tc.want, got)
		}
	}
}

func TestTable_ExpandedInTableSkipsStaleIDs(t *testing.T) {
	rows := []GuidelineRow{{ID: "a"}, {ID: "b"}}
	table := Project(Request{
		Rows:     rows,
		Expanded: NewExpandedRows(GuidelineRow{ID: "b"}, GuidelineRow{ID: "gone"}, GuidelineRow{ID: "a"}),
	}, fixedNow())

	var ids []string
	for _, row := range table.ExpandedInTable() {
		ids = append(ids, row.ID)
	}
	if strings.Join(ids, ",") != "b,a" {
		t.Fatalf("expected b,a, got %v", ids)
	}
}
