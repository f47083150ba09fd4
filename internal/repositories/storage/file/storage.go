package filestorage

import (
	"context"
	"docmanager/internal/models"
	"docmanager/internal/repositories/storage"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "fileStorage/"

// Storage keeps blobs on the local filesystem under root, one directory per month.
type Storage struct {
	root    string
	maxSize int64
	clock   func() time.Time
}

func New(root string, maxSize int64) (*Storage, error) {
	op := pkg + "New"

	if maxSize <= 0 {
		maxSize = storage.DefaultMaxSize
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		root:    abs,
		maxSize: maxSize,
		clock:   time.Now,
	}, nil
}

func (s *Storage) MaxSize() int64 {
	return s.maxSize
}

func (s *Storage) IsAllowedType(contentType string) bool {
	return storage.IsAllowedType(contentType)
}

func (s *Storage) Save(ctx context.Context, r io.Reader, name string, contentType string) (string, error) {
	op := pkg + "Save"

	if !s.IsAllowedType(contentType) {
		return "", fmt.Errorf("%s: %w", op, models.ErrUnsupportedType)
	}

	rel := filepath.Join(s.clock().UTC().Format("2006-01"), uuid.NewV4().String()+storage.Extension(name, contentType))
	full := filepath.Join(s.root, rel)

	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	written, err := io.Copy(f, io.LimitReader(readerWithContext(ctx, r), s.maxSize+1))
	closeErr := f.Close()

	switch {
	case err != nil:
		_ = os.Remove(full)
		return "", fmt.Errorf("%s: %w", op, err)
	case closeErr != nil:
		_ = os.Remove(full)
		return "", fmt.Errorf("%s: %w", op, closeErr)
	case written > s.maxSize:
		_ = os.Remove(full)
		return "", fmt.Errorf("%s: %w", op, models.ErrFileTooLarge)
	}

	return filepath.ToSlash(rel), nil
}

func (s *Storage) Open(_ context.Context, path string) (io.ReadCloser, string, error) {
	op := pkg + "Open"

	full, err := s.resolve(path)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%s: %w", op, models.ErrFileNotFound)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return f, storage.ContentTypeByPath(full), nil
}

// Delete reports false when there was nothing to delete.
func (s *Storage) Delete(_ context.Context, path string) (bool, error) {
	op := pkg + "Delete"

	full, err := s.resolve(path)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

func (s *Storage) Exists(_ context.Context, path string) (bool, error) {
	op := pkg + "Exists"

	full, err := s.resolve(path)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

// resolve rejects paths that escape the storage root.
func (s *Storage) resolve(path string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", models.ErrFileNotFound
	}
	return full, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
