package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/a11y-reference/guideline-export/config"
	"github.com/a11y-reference/guideline-export/export"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Defaults()
	cfg.Export.OutputDir = t.TempDir()
	registry := prometheus.NewRegistry()
	svc, err := buildService(&cfg, serviceDeps{Sink: export.NewMemorySink(), Registry: registry})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return newRouter(&cfg, svc, export.NopLogger{}, registry)
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_FormatsIncludeEveryRenderer(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports/formats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	for _, format := range []string{"csv", "html", "json", "pdf", "sqlite", "xlsx"} {
		if !strings.Contains(rec.Body.String(), `"`+format+`"`) {
			t.Fatalf("expected %s in %s", format, rec.Body.String())
		}
	}
}

func TestRouter_ExportAndMetrics(t *testing.T) {
	router := newTestRouter(t)
	body := `{"tableName":"WCAG","category":"wcag","format":"html","columns":["wcagSC"],"rows":[{"id":"1","wcagSC":"1.1.1"}]}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/exports/", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "1.1.1") {
		t.Fatalf("expected row in html export")
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	data, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(data), `guideline_export_total{category="wcag",error_kind="",format="html",outcome="completed"} 1`) {
		t.Fatalf("expected export counter in metrics output:\n%s", data)
	}
}
