package exportprom

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/a11y-reference/guideline-export/export"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHook_RecordsOutcomes(t *testing.T) {
	hook, err := NewHook(prometheus.NewRegistry(), Options{})
	if err != nil {
		t.Fatalf("new hook: %v", err)
	}
	ctx := context.Background()

	_ = hook.Emit(ctx, export.MetricsEvent{Name: "export.completed", Format: export.FormatCSV, Category: export.CategoryWCAG, Rows: 3, Bytes: 2048, Duration: 20 * time.Millisecond})
	_ = hook.Emit(ctx, export.MetricsEvent{Name: "export.completed", Format: export.FormatCSV, Category: export.CategoryWCAG, Rows: 2, Bytes: 10})
	_ = hook.Emit(ctx, export.MetricsEvent{Name: "export.failed", Format: export.FormatPDF, Category: export.CategoryWCAG, ErrorKind: export.KindNotImpl})
	_ = hook.Emit(ctx, export.MetricsEvent{Name: "export.started", Format: export.FormatCSV})

	if got := testutil.ToFloat64(hook.total.WithLabelValues("csv", "wcag", "completed", "")); got != 2 {
		t.Fatalf("expected 2 completed csv exports, got %v", got)
	}
	if got := testutil.ToFloat64(hook.total.WithLabelValues("pdf", "wcag", "failed", "not_implemented")); got != 1 {
		t.Fatalf("expected 1 failed pdf export, got %v", got)
	}
	if got := testutil.ToFloat64(hook.rows.WithLabelValues("csv", "wcag")); got != 5 {
		t.Fatalf("expected 5 rows, got %v", got)
	}
	if got := testutil.CollectAndCount(hook.size); got != 1 {
		t.Fatalf("expected one size series, got %d", got)
	}
}

func TestNewHook_DuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	if _, err := NewHook(registry, Options{}); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewHook(registry, Options{}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if _, err := NewHook(registry, Options{Namespace: "other"}); err != nil {
		t.Fatalf("distinct namespace should register: %v", err)
	}
}

func TestHook_WithService(t *testing.T) {
	hook, err := NewHook(nil, Options{})
	if err != nil {
		t.Fatalf("new hook: %v", err)
	}
	svc, err := export.NewService(export.ServiceConfig{
		Sink: export.ArtifactSinkFunc(func(ctx context.Context, r io.Reader, meta export.ArtifactMeta) (export.ArtifactRef, error) {
			return export.ArtifactRef{}, errors.New("disk full")
		}),
		Metrics: hook,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	rows := []export.GuidelineRow{{ID: "1", WCAGSC: "1.1.1"}}
	if _, err := svc.ExportCSV(context.Background(), rows, []string{"wcagSC"}, export.CategoryWCAG, "WCAG", nil); err == nil {
		t.Fatalf("expected sink failure")
	}
	if got := testutil.ToFloat64(hook.total.WithLabelValues("csv", "wcag", "failed", "internal")); got != 1 {
		t.Fatalf("expected failed export to be counted, got %v", got)
	}
}
