// Package filestore persists uploaded files for projects and submissions.
//
// The mutation service only records descriptors; handlers push bytes through
// a Store before invoking it, and deletion is a best-effort side effect that
// never aborts the logical operation that requested it.
package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SavedFile describes a stored upload.
type SavedFile struct {
	StoredName   string
	OriginalName string
	Path         string
	Size         int64
	MimeType     string
}

// Store is the storage backend contract. Local disk is the only
// implementation today; the interface keeps an S3 backend possible without
// touching handlers.
type Store interface {
	Save(ctx context.Context, originalName, contentType string, r io.Reader) (SavedFile, error)
	// Delete removes the stored file. A file that is already gone is not an
	// error.
	Delete(ctx context.Context, path string) error
	// URL returns the public URL path for a stored file.
	URL(path string) string
}

// Local stores files under a root directory, served via a URL prefix.
type Local struct {
	root      string
	urlPrefix string
}

// NewLocal creates the root directory if needed and returns a local store.
func NewLocal(root, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &Local{root: root, urlPrefix: urlPrefix}, nil
}

// Save writes r to disk under a unique name: YYYY/MM/uuid8-filename.
func (l *Local) Save(ctx context.Context, originalName, contentType string, r io.Reader) (SavedFile, error) {
	now := time.Now().UTC()
	dateDir := fmt.Sprintf("%04d/%02d", now.Year(), now.Month())
	if err := os.MkdirAll(filepath.Join(l.root, dateDir), 0o755); err != nil {
		return SavedFile{}, fmt.Errorf("create upload dir: %w", err)
	}

	storedName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(originalName))
	relPath := filepath.ToSlash(filepath.Join(dateDir, storedName))

	f, err := os.Create(filepath.Join(l.root, dateDir, storedName))
	if err != nil {
		return SavedFile{}, fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		_ = os.Remove(f.Name())
		return SavedFile{}, fmt.Errorf("write upload: %w", err)
	}

	return SavedFile{
		StoredName:   storedName,
		OriginalName: filepath.Base(originalName),
		Path:         relPath,
		Size:         size,
		MimeType:     contentType,
	}, nil
}

// Delete removes the file at the stored path. Missing files are ignored.
func (l *Local) Delete(ctx context.Context, path string) error {
	err := os.Remove(filepath.Join(l.root, filepath.FromSlash(path)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// URL returns the serving path for a stored file.
func (l *Local) URL(path string) string {
	return l.urlPrefix + "/" + path
}

// sanitizeFilename replaces characters that could be problematic in
// filenames and bounds the length, preserving the extension when possible.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
