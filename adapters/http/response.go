package exporthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	errorslib "github.com/goliatone/go-errors"

	"github.com/a11y-reference/guideline-export/export"
)

// ResponseSink streams a finished artifact to an HTTP response as an
// attachment download.
type ResponseSink struct {
	W       http.ResponseWriter
	started bool
}

// Save writes download headers and copies the artifact into the response.
func (s *ResponseSink) Save(ctx context.Context, r io.Reader, meta export.ArtifactMeta) (export.ArtifactRef, error) {
	if err := ctx.Err(); err != nil {
		return export.ArtifactRef{}, err
	}
	if s.W == nil {
		return export.ArtifactRef{}, export.NewError(export.KindInternal, "response writer is nil", nil)
	}

	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := s.W.Header()
	header.Set("Content-Type", contentType)
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", attachmentName(meta.Filename)))
	if sized, ok := r.(interface{ Len() int }); ok {
		header.Set("Content-Length", strconv.Itoa(sized.Len()))
	}

	s.started = true
	s.W.WriteHeader(http.StatusOK)
	n, err := io.Copy(s.W, r)
	if err != nil {
		return export.ArtifactRef{}, err
	}
	meta.Size = n
	return export.ArtifactRef{Key: meta.Filename, Meta: meta}, nil
}

// Started reports whether the response status has been written.
func (s *ResponseSink) Started() bool {
	return s.started
}

func attachmentName(filename string) string {
	name := strings.TrimSpace(filename)
	name = strings.ReplaceAll(name, "\"", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		return "export"
	}
	return name
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	ge := export.AsGoError(err)
	writeJSON(w, statusForError(ge), errorResponse{
		Error: errorBody{Message: ge.Message, Code: ge.TextCode},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	if err.TextCode == "not_implemented" {
		return http.StatusNotImplemented
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	case errorslib.CategoryOperation:
		if err.TextCode == "canceled" {
			return http.StatusConflict
		}
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
