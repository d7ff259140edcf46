package storefs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/a11y-reference/guideline-export/export"
)

// Sink saves finished exports under a directory. Each artifact gets a
// ".meta.json" side-car with its content type, size, and creation time.
type Sink struct {
	Root string
	// Prefix is joined in front of the artifact filename, e.g. "exports".
	Prefix string
	Now    func() time.Time
}

// NewSink creates a filesystem-backed artifact sink.
func NewSink(root string) *Sink {
	return &Sink{Root: root, Now: time.Now}
}

// Save writes the artifact atomically under its filename. An existing
// artifact with the same name is replaced.
func (s *Sink) Save(ctx context.Context, r io.Reader, meta export.ArtifactMeta) (export.ArtifactRef, error) {
	if s == nil {
		return export.ArtifactRef{}, export.NewError(export.KindInternal, "sink is nil", nil)
	}
	if s.Root == "" {
		return export.ArtifactRef{}, export.NewError(export.KindValidation, "sink root is required", nil)
	}
	if meta.Filename == "" {
		return export.ArtifactRef{}, export.NewError(export.KindValidation, "artifact filename is required", nil)
	}
	if err := ctx.Err(); err != nil {
		return export.ArtifactRef{}, err
	}

	key := s.key(meta.Filename)
	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return export.ArtifactRef{}, err
	}
	if err := os.MkdirAll(filepath.Dir(pathOnDisk), 0o755); err != nil {
		return export.ArtifactRef{}, err
	}

	size, err := writeAtomic(pathOnDisk, ".export-*", r)
	if err != nil {
		return export.ArtifactRef{}, err
	}

	meta.Size = size
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = s.now()
	}
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(pathOnDisk))
	}

	payload, err := json.Marshal(meta)
	if err != nil {
		return export.ArtifactRef{}, err
	}
	if _, err := writeAtomic(metaPath(pathOnDisk), ".meta-*", strings.NewReader(string(payload))); err != nil {
		return export.ArtifactRef{}, err
	}

	return export.ArtifactRef{Key: key, Meta: meta}, nil
}

// Open reads a saved artifact and its side-car metadata.
func (s *Sink) Open(ctx context.Context, key string) (io.ReadCloser, export.ArtifactMeta, error) {
	_ = ctx
	if s == nil {
		return nil, export.ArtifactMeta{}, export.NewError(export.KindInternal, "sink is nil", nil)
	}
	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return nil, export.ArtifactMeta{}, err
	}

	file, err := os.Open(pathOnDisk)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, export.ArtifactMeta{}, export.NewError(export.KindNotFound, fmt.Sprintf("artifact %q not found", key), err)
		}
		return nil, export.ArtifactMeta{}, err
	}

	meta := readMeta(pathOnDisk)
	if meta.Filename == "" {
		meta.Filename = filepath.Base(pathOnDisk)
	}
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(pathOnDisk))
	}
	if meta.Size == 0 {
		if info, err := file.Stat(); err == nil {
			meta.Size = info.Size()
			if meta.CreatedAt.IsZero() {
				meta.CreatedAt = info.ModTime()
			}
		}
	}
	return file, meta, nil
}

func (s *Sink) key(filename string) string {
	if s.Prefix == "" {
		return filename
	}
	return path.Join(s.Prefix, filename)
}

func (s *Sink) resolvePath(key string) (string, error) {
	if key == "" {
		return "", export.NewError(export.KindValidation, "artifact key is required", nil)
	}
	clean := path.Clean("/" + key)
	rel := strings.TrimPrefix(clean, "/")
	if rel == "" || rel == "." {
		return "", export.NewError(export.KindValidation, "invalid artifact key", nil)
	}

	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	target := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", export.NewError(export.KindValidation, "artifact key escapes root", nil)
	}
	return target, nil
}

func (s *Sink) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// writeAtomic copies r into a temp file next to target and renames it into
// place once synced.
func writeAtomic(target, pattern string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), pattern)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return 0, err
	}
	return size, nil
}

func readMeta(pathOnDisk string) export.ArtifactMeta {
	data, err := os.ReadFile(metaPath(pathOnDisk))
	if err != nil {
		return export.ArtifactMeta{}
	}
	var meta export.ArtifactMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return export.ArtifactMeta{}
	}
	return meta
}

func metaPath(pathOnDisk string) string {
	return pathOnDisk + ".meta.json"
}
