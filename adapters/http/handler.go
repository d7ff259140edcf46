package exporthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/a11y-reference/guideline-export/export"
)

// DefaultMaxBodyBytes caps export request bodies.
const DefaultMaxBodyBytes int64 = 8 * 1024 * 1024

// Config configures the HTTP adapter.
type Config struct {
	Service      *export.Service
	Logger       export.Logger
	MaxBodyBytes int64
}

// Handler exposes export endpoints:
//
//	POST /          renders the posted table and streams it as a download
//	GET  /formats   lists the formats the service can export
type Handler struct {
	service      *export.Service
	logger       export.Logger
	maxBodyBytes int64
	router       chi.Router
}

// NewHandler creates a new HTTP handler. Mount it under a base path such as
// "/exports".
func NewHandler(cfg Config) *Handler {
	h := &Handler{
		service:      cfg.Service,
		logger:       cfg.Logger,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
	if h.logger == nil {
		h.logger = export.NopLogger{}
	}
	if h.maxBodyBytes <= 0 {
		h.maxBodyBytes = DefaultMaxBodyBytes
	}

	r := chi.NewRouter()
	r.Post("/", h.handleExport)
	r.Get("/formats", h.handleFormats)
	h.router = r
	return h
}

// ServeHTTP routes export endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		writeError(w, export.NewError(export.KindInternal, "export service is not configured", nil))
		return
	}
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r, h.maxBodyBytes)
	if err != nil {
		writeError(w, err)
		return
	}

	sink := &ResponseSink{W: w}
	result, err := h.service.WithSink(sink).Export(r.Context(), req)
	if err != nil {
		if sink.Started() {
			h.logger.Errorf("export download interrupted: %v", err)
			return
		}
		writeError(w, err)
		return
	}
	h.logger.Infof("export %s downloaded: file=%s bytes=%d", result.ID, result.Filename, result.Bytes)
}

type formatsResponse struct {
	Formats []export.Format `json:"formats"`
}

func (h *Handler) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, formatsResponse{Formats: h.service.Formats()})
}
