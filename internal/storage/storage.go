// Package storage holds uploaded media and hands back public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ObjectStore persists an uploaded object and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, filename string, r io.Reader) (string, error)
}

// LocalStore writes objects under a root directory served as static files
// at baseURL. Stored names are prefixed with a random id so concurrent
// uploads of the same filename cannot collide.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put streams the object to disk and returns its public URL.
func (s *LocalStore) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.New().String() + "-" + sanitize(filename)
	dst, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	return s.baseURL + "/" + name, nil
}

// sanitize strips any path component and keeps only the base name.
func sanitize(filename string) string {
	name := path.Base(filepath.ToSlash(filename))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
