package storage

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"
)

// BlobStorage stores document content by generated, collision-free paths.
type BlobStorage interface {
	// Save fails with models.ErrUnsupportedType or models.ErrFileTooLarge
	// before anything is written.
	Save(ctx context.Context, r io.Reader, name string, contentType string) (string, error)
	// Open fails with models.ErrFileNotFound when the blob is missing.
	Open(ctx context.Context, path string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, path string) (bool, error)
	Exists(ctx context.Context, path string) (bool, error)
	MaxSize() int64
	IsAllowedType(contentType string) bool
}

const DefaultMaxSize = 10 << 20

var allowedTypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"text/plain": ".txt",
}

// IsAllowedType ignores media type parameters such as charset.
func IsAllowedType(contentType string) bool {
	_, ok := allowedTypes[baseType(contentType)]
	return ok
}

// Extension keeps the original extension and falls back to the one implied by
// the content type.
func Extension(name string, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		return ext
	}
	return allowedTypes[baseType(contentType)]
}

// ContentTypeByPath is used when the backend keeps no metadata of its own.
func ContentTypeByPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	for ct, e := range allowedTypes {
		if e == ext {
			return ct
		}
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func baseType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
