package export

import (
	"context"
	"io"
	"time"
)

// Format is the export output format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatXLSX   Format = "xlsx"
	FormatPDF    Format = "pdf"
	FormatHTML   Format = "html"
	FormatSQLite Format = "sqlite"
)

// Category selects the header vocabulary for a guideline table.
type Category string

const (
	CategoryWCAG        Category = "wcag"
	CategoryReadability Category = "readability"
	CategoryWAVE        Category = "wave"
	CategoryPDFUA       Category = "pdfua"
)

// GuidelineRow is one accessibility rule, criterion, or metric shown in a table.
// Fields outside the known set are kept in Extra.
type GuidelineRow struct {
	ID                     string         `json:"id" yaml:"id"`
	WCAGSC                 string         `json:"wcagSC,omitempty" yaml:"wcagSC,omitempty"`
	WCAGLevel              string         `json:"wcagLevel,omitempty" yaml:"wcagLevel,omitempty"`
	WCAGTitle              string         `json:"wcagTitle,omitempty" yaml:"wcagTitle,omitempty"`
	ColumnName             string         `json:"columnName,omitempty" yaml:"columnName,omitempty"`
	Explanation            string         `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	ReadabilityThreshold   string         `json:"readabilityThreshold,omitempty" yaml:"readabilityThreshold,omitempty"`
	WAVEType               string         `json:"waveType,omitempty" yaml:"waveType,omitempty"`
	PDFUAClause            string         `json:"pdfuaClause,omitempty" yaml:"pdfuaClause,omitempty"`
	PDFUACode              string         `json:"pdfuaCode,omitempty" yaml:"pdfuaCode,omitempty"`
	PDFUASeverity          string         `json:"pdfuaSeverity,omitempty" yaml:"pdfuaSeverity,omitempty"`
	Section508             string         `json:"section508,omitempty" yaml:"section508,omitempty"`
	ADATitleII             string         `json:"adaTitleII,omitempty" yaml:"adaTitleII,omitempty"`
	RemediationGuidelines  string         `json:"remediationGuidelines,omitempty" yaml:"remediationGuidelines,omitempty"`
	PDFUAClauseDescription string         `json:"pdfuaClauseDescription,omitempty" yaml:"pdfuaClauseDescription,omitempty"`
	PDFUAFixingSuggestions string         `json:"pdfuaFixingSuggestions,omitempty" yaml:"pdfuaFixingSuggestions,omitempty"`
	Extra                  map[string]any `json:"-" yaml:"-"`
}

// Request captures the inputs of a single export call.
type Request struct {
	Rows       []GuidelineRow
	Columns    []string
	Category   Category
	TableName  string
	Expanded   *ExpandedRows
	FilterText string
	Format     Format
}

// Result describes a produced artifact.
type Result struct {
	ID       string
	Format   Format
	Rows     int64
	Bytes    int64
	Filename string
	Artifact ArtifactRef
}

// Renderer encodes a projected table into w.
type Renderer interface {
	Render(ctx context.Context, table Table, w io.Writer) (RenderStats, error)
}

// RendererFunc adapts a function to a Renderer.
type RendererFunc func(ctx context.Context, table Table, w io.Writer) (RenderStats, error)

func (f RendererFunc) Render(ctx context.Context, table Table, w io.Writer) (RenderStats, error) {
	if f == nil {
		return RenderStats{}, NewError(KindInternal, "renderer func is nil", nil)
	}
	return f(ctx, table, w)
}

// RenderStats capture renderer output.
type RenderStats struct {
	Rows  int64
	Bytes int64
}

// ArtifactMeta captures artifact metadata handed to a sink.
type ArtifactMeta struct {
	ContentType string
	Size        int64
	Filename    string
	CreatedAt   time.Time
}

// ArtifactRef references a saved artifact.
type ArtifactRef struct {
	Key  string
	Meta ArtifactMeta
}

// ArtifactSink hands finished artifacts to the host environment.
type ArtifactSink interface {
	Save(ctx context.Context, r io.Reader, meta ArtifactMeta) (ArtifactRef, error)
}

// ArtifactSinkFunc adapts a function to an ArtifactSink.
type ArtifactSinkFunc func(ctx context.Context, r io.Reader, meta ArtifactMeta) (ArtifactRef, error)

func (f ArtifactSinkFunc) Save(ctx context.Context, r io.Reader, meta ArtifactMeta) (ArtifactRef, error) {
	if f == nil {
		return ArtifactRef{}, NewError(KindInternal, "artifact sink func is nil", nil)
	}
	return f(ctx, r, meta)
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger is a no-op logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// MetricsEvent describes lifecycle metrics.
type MetricsEvent struct {
	Name      string
	ExportID  string
	Format    Format
	Category  Category
	Rows      int64
	Bytes     int64
	Duration  time.Duration
	ErrorKind ErrorKind
	Timestamp time.Time
}

// MetricsHook emits metrics-friendly lifecycle observations.
type MetricsHook interface {
	Emit(ctx context.Context, evt MetricsEvent) error
}
