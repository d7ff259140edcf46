package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ServiceConfig supplies dependencies for Service.
type ServiceConfig struct {
	Renderers   *RendererRegistry
	Sink        ArtifactSink
	Documents   DocumentFactory
	TableLayout TableLayout
	Logger      Logger
	Metrics     MetricsHook
	Now         func() time.Time
	IDGenerator func() string
}

// Service renders guideline tables and hands the artifacts to a sink.
// Calls share no mutable state; each export works on its own snapshot.
type Service struct {
	renderers   *RendererRegistry
	sink        ArtifactSink
	logger      Logger
	metrics     MetricsHook
	now         func() time.Time
	idGenerator func() string
}

// NewService creates a Service. CSV, JSON, and XLSX renderers are registered
// when absent; PDF is registered when a document factory is configured and
// its table layout resolves.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Sink == nil {
		return nil, NewError(KindValidation, "artifact sink is required", nil)
	}

	renderers := cfg.Renderers
	if renderers == nil {
		renderers = NewRendererRegistry()
	}
	defaults := map[Format]Renderer{
		FormatCSV:  CSVRenderer{},
		FormatJSON: JSONRenderer{},
		FormatXLSX: XLSXRenderer{},
	}
	if cfg.Documents != nil {
		if err := probeTableLayout(cfg.Documents, cfg.TableLayout); err != nil {
			return nil, err
		}
		defaults[FormatPDF] = PDFRenderer{Documents: cfg.Documents, TableLayout: cfg.TableLayout}
	}
	for format, renderer := range defaults {
		if _, ok := renderers.Resolve(format); ok {
			continue
		}
		if err := renderers.Register(format, renderer); err != nil {
			return nil, err
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}

	return &Service{
		renderers:   renderers,
		sink:        cfg.Sink,
		logger:      logger,
		metrics:     cfg.Metrics,
		now:         nowFn,
		idGenerator: idGen,
	}, nil
}

func probeTableLayout(documents DocumentFactory, configured TableLayout) error {
	doc, err := documents()
	if err != nil {
		return NewError(KindInternal, "pdf document open failed", err)
	}
	_, err = ResolveTableLayout(doc, configured)
	return err
}

// WithSink returns a service that shares renderers, logging, and metrics with
// s but saves artifacts to sink.
func (s *Service) WithSink(sink ArtifactSink) *Service {
	clone := *s
	clone.sink = sink
	return &clone
}

// Formats lists formats the service can export.
func (s *Service) Formats() []Format {
	return s.renderers.Formats()
}

// ExportCSV exports rows as CSV with an optional expanded-details column.
func (s *Service) ExportCSV(ctx context.Context, rows []GuidelineRow, columns []string, category Category, tableName string, expanded *ExpandedRows) (Result, error) {
	return s.Export(ctx, Request{
		Rows:      rows,
		Columns:   columns,
		Category:  category,
		TableName: tableName,
		Expanded:  expanded,
		Format:    FormatCSV,
	})
}

// ExportPDF exports rows as a paginated PDF with expanded detail sections.
func (s *Service) ExportPDF(ctx context.Context, rows []GuidelineRow, columns []string, category Category, tableName string, expanded *ExpandedRows, filterText string) (Result, error) {
	return s.Export(ctx, Request{
		Rows:       rows,
		Columns:    columns,
		Category:   category,
		TableName:  tableName,
		Expanded:   expanded,
		FilterText: filterText,
		Format:     FormatPDF,
	})
}

// Export renders req fully in memory, then saves it through the sink. Sink
// errors are returned as-is.
func (s *Service) Export(ctx context.Context, req Request) (Result, error) {
	if s == nil {
		return Result{}, AsGoError(NewError(KindInternal, "service is nil", nil))
	}
	if ctx == nil {
		ctx = context.Background()
	}

	format := NormalizeFormat(req.Format)
	exportID := s.idGenerator()
	startedAt := s.now()
	evt := MetricsEvent{ExportID: exportID, Format: format, Category: NormalizeCategory(req.Category)}

	if strings.TrimSpace(req.TableName) == "" {
		return Result{}, s.fail(ctx, evt, startedAt, NewError(KindValidation, "table name is required", nil))
	}

	renderer, ok := s.renderers.Resolve(format)
	if !ok {
		return Result{}, s.fail(ctx, evt, startedAt, NewError(KindNotFound, fmt.Sprintf("renderer %q not registered", format), nil))
	}

	s.logger.Debugf("export %s started: table=%q format=%s rows=%d expanded=%d", exportID, req.TableName, format, len(req.Rows), req.Expanded.Len())

	table := Project(req, startedAt)
	var buf bytes.Buffer
	stats, err := renderer.Render(ctx, table, &buf)
	if err != nil {
		return Result{}, s.fail(ctx, evt, startedAt, err)
	}

	filename := BuildFilename(req.TableName, format, startedAt)
	ref, err := s.sink.Save(ctx, &buf, ArtifactMeta{
		ContentType: ContentType(format),
		Filename:    filename,
		CreatedAt:   startedAt,
	})
	if err != nil {
		s.logger.Errorf("export %s save failed: %v", exportID, err)
		s.emitMetrics(ctx, "export.failed", evt, startedAt, err)
		return Result{}, err
	}

	evt.Rows = stats.Rows
	evt.Bytes = stats.Bytes
	s.emitMetrics(ctx, "export.completed", evt, startedAt, nil)
	s.logger.Infof("export %s completed: file=%s rows=%d bytes=%d", exportID, filename, stats.Rows, stats.Bytes)

	return Result{
		ID:       exportID,
		Format:   format,
		Rows:     stats.Rows,
		Bytes:    stats.Bytes,
		Filename: filename,
		Artifact: ref,
	}, nil
}

func (s *Service) fail(ctx context.Context, evt MetricsEvent, startedAt time.Time, err error) error {
	s.logger.Errorf("export %s failed: %v", evt.ExportID, err)
	s.emitMetrics(ctx, "export.failed", evt, startedAt, err)
	return AsGoError(err)
}

func (s *Service) emitMetrics(ctx context.Context, name string, evt MetricsEvent, startedAt time.Time, err error) {
	if s.metrics == nil {
		return
	}
	now := s.now()
	evt.Name = name
	evt.Duration = now.Sub(startedAt)
	evt.Timestamp = now
	if err != nil {
		evt.ErrorKind = KindFromError(err)
	}
	_ = s.metrics.Emit(ctx, evt)
}
