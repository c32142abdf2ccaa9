package frameflow

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// BlobUploader stores an uploaded file and returns a durable URL for it.
// The production deployment points this at an external image host; tests
// and local runs use the filesystem implementation below.
type BlobUploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// SupportedImageType reports whether the file at path sniffs as PNG or
// JPEG. Detection reads content, not the file extension.
func SupportedImageType(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to open upload")
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to read upload")
	}

	switch http.DetectContentType(head[:n]) {
	case "image/png", "image/jpeg":
		return true, nil
	default:
		return false, nil
	}
}

// LocalUploader copies uploads into a directory served at a base URL.
type LocalUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader builds an uploader writing into dir. Files become
// reachable under baseURL.
func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create upload directory")
	}
	return &LocalUploader{dir: dir, baseURL: baseURL}, nil
}

// Upload implements BlobUploader.
func (u *LocalUploader) Upload(ctx context.Context, path string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	src, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to open upload")
	}
	defer src.Close()

	name := uuid.New().String() + filepath.Ext(path)
	dst, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to store upload")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to copy upload")
	}

	return fmt.Sprintf("%s/%s", u.baseURL, name), nil
}
