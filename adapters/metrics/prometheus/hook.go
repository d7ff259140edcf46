// Package exportprom records export lifecycle events as Prometheus metrics.
package exportprom

import (
	"context"
	"strings"

	"github.com/a11y-reference/guideline-export/export"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultNamespace = "guideline"
	defaultSubsystem = "export"
)

// Options configures metric names and buckets.
type Options struct {
	Namespace       string
	Subsystem       string
	DurationBuckets []float64
	SizeBuckets     []float64
}

// Hook implements export.MetricsHook.
//
// Metrics:
//   - guideline_export_total: exports by format, category, outcome
//   - guideline_export_duration_seconds: render plus save duration
//   - guideline_export_size_bytes: artifact size of completed exports
//   - guideline_export_rows_total: rows written by completed exports
type Hook struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	size     *prometheus.HistogramVec
	rows     *prometheus.CounterVec
}

// NewHook creates a Hook and registers its collectors. A nil registerer uses
// a private registry.
func NewHook(registerer prometheus.Registerer, opts Options) (*Hook, error) {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	if opts.Namespace == "" {
		opts.Namespace = defaultNamespace
	}
	if opts.Subsystem == "" {
		opts.Subsystem = defaultSubsystem
	}
	if len(opts.DurationBuckets) == 0 {
		opts.DurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	}
	if len(opts.SizeBuckets) == 0 {
		opts.SizeBuckets = prometheus.ExponentialBuckets(1024, 4, 8)
	}

	h := &Hook{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: opts.Namespace,
				Subsystem: opts.Subsystem,
				Name:      "total",
				Help:      "Total number of table exports by outcome",
			},
			[]string{"format", "category", "outcome", "error_kind"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: opts.Namespace,
				Subsystem: opts.Subsystem,
				Name:      "duration_seconds",
				Help:      "Duration of table exports in seconds",
				Buckets:   opts.DurationBuckets,
			},
			[]string{"format", "outcome"},
		),
		size: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: opts.Namespace,
				Subsystem: opts.Subsystem,
				Name:      "size_bytes",
				Help:      "Size of exported artifacts in bytes",
				Buckets:   opts.SizeBuckets,
			},
			[]string{"format"},
		),
		rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: opts.Namespace,
				Subsystem: opts.Subsystem,
				Name:      "rows_total",
				Help:      "Total number of rows written by completed exports",
			},
			[]string{"format", "category"},
		),
	}

	for _, c := range []prometheus.Collector{h.total, h.duration, h.size, h.rows} {
		if err := registerer.Register(c); err != nil {
			return nil, export.NewError(export.KindInternal, "metrics registration failed", err)
		}
	}
	return h, nil
}

// Emit records evt. Events other than export.completed and export.failed are
// ignored.
func (h *Hook) Emit(ctx context.Context, evt export.MetricsEvent) error {
	_ = ctx
	if h == nil {
		return nil
	}
	outcome := outcomeFor(evt.Name)
	if outcome == "" {
		return nil
	}

	format := string(evt.Format)
	category := string(evt.Category)
	if category == "" {
		category = "none"
	}

	h.total.WithLabelValues(format, category, outcome, string(evt.ErrorKind)).Inc()
	h.duration.WithLabelValues(format, outcome).Observe(evt.Duration.Seconds())
	if outcome == "completed" {
		h.size.WithLabelValues(format).Observe(float64(evt.Bytes))
		h.rows.WithLabelValues(format, category).Add(float64(evt.Rows))
	}
	return nil
}

func outcomeFor(name string) string {
	switch strings.TrimPrefix(name, "export.") {
	case "completed":
		return "completed"
	case "failed":
		return "failed"
	default:
		return ""
	}
}

var _ export.MetricsHook = (*Hook)(nil)
