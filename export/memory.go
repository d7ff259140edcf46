package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// MemorySink keeps saved artifacts in memory (test/dev only).
type MemorySink struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	order   []string
}

type memoryObject struct {
	data []byte
	meta ArtifactMeta
}

// NewMemorySink creates an in-memory artifact sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{objects: make(map[string]memoryObject)}
}

// Save stores an artifact under its filename.
func (s *MemorySink) Save(ctx context.Context, r io.Reader, meta ArtifactMeta) (ArtifactRef, error) {
	_ = ctx
	if meta.Filename == "" {
		return ArtifactRef{}, NewError(KindValidation, "artifact filename is required", nil)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ArtifactRef{}, err
	}
	meta.Size = int64(len(data))
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}

	s.mu.Lock()
	if _, exists := s.objects[meta.Filename]; !exists {
		s.order = append(s.order, meta.Filename)
	}
	s.objects[meta.Filename] = memoryObject{data: data, meta: meta}
	s.mu.Unlock()

	return ArtifactRef{Key: meta.Filename, Meta: meta}, nil
}

// Open reads a saved artifact.
func (s *MemorySink) Open(key string) (io.ReadCloser, ArtifactMeta, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ArtifactMeta{}, NewError(KindNotFound, fmt.Sprintf("artifact %q not found", key), nil)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.meta, nil
}

// Bytes returns a copy of a saved artifact's content.
func (s *MemorySink) Bytes(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), obj.data...), true
}

// Keys lists saved artifact keys in save order.
func (s *MemorySink) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// WriterSink copies artifacts to a writer, for example stdout.
type WriterSink struct {
	W io.Writer
}

// Save copies the artifact to the underlying writer.
func (s WriterSink) Save(ctx context.Context, r io.Reader, meta ArtifactMeta) (ArtifactRef, error) {
	_ = ctx
	if s.W == nil {
		return ArtifactRef{}, NewError(KindInternal, "writer sink has no writer", nil)
	}
	n, err := io.Copy(s.W, r)
	if err != nil {
		return ArtifactRef{}, err
	}
	meta.Size = n
	return ArtifactRef{Key: meta.Filename, Meta: meta}, nil
}
