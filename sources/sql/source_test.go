package exportsql

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/a11y-reference/guideline-export/export"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})

	stmts := []string{
		`CREATE TABLE criteria (id TEXT, wcagSC TEXT, wcagLevel TEXT, wcagTitle TEXT, priority INTEGER, notes BLOB)`,
		`INSERT INTO criteria VALUES ('1-1-1', '1.1.1', 'A', 'Non-text Content', 1, 'alt text')`,
		`INSERT INTO criteria VALUES ('1-4-3', '1.4.3', 'AA', 'Contrast (Minimum)', 2, NULL)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return db
}

func TestSource_Rows(t *testing.T) {
	source := NewSource(openTestDB(t))

	rows, err := source.Rows(context.Background(), `SELECT * FROM criteria WHERE wcagLevel IN (?, ?) ORDER BY id`, "A", "AA")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != "1-1-1" || rows[0].WCAGTitle != "Non-text Content" {
		t.Fatalf("unexpected row %+v", rows[0])
	}
	if got := export.CellValue(rows[0], "priority"); got != "1" {
		t.Fatalf("expected extra priority column, got %q", got)
	}
	if got := export.CellValue(rows[0], "notes"); got != "alt text" {
		t.Fatalf("expected blob decoded as text, got %q", got)
	}
	if got := export.CellValue(rows[1], "notes"); got != "" {
		t.Fatalf("expected NULL to be empty, got %q", got)
	}
}

func TestSource_NumbersRowsWithoutID(t *testing.T) {
	source := NewSource(openTestDB(t))
	rows, err := source.Rows(context.Background(), `SELECT wcagSC FROM criteria ORDER BY wcagSC`)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if rows[0].ID != "row-1" || rows[1].ID != "row-2" {
		t.Fatalf("expected generated ids, got %q %q", rows[0].ID, rows[1].ID)
	}
}

func TestSource_Errors(t *testing.T) {
	if _, err := (&Source{}).Rows(context.Background(), "SELECT 1"); export.KindFromError(err) != export.KindValidation {
		t.Fatalf("expected validation error without db, got %v", err)
	}
	source := NewSource(openTestDB(t))
	if _, err := source.Rows(context.Background(), "SELECT * FROM nope"); export.KindFromError(err) != export.KindInternal {
		t.Fatalf("expected internal error for bad query, got %v", err)
	}
}
