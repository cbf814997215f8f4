// Package blobstore stores prescription images and hands back public URLs.
// It defines the ImageStore interface, an in-memory implementation for
// development and tests, and a MinIO-backed implementation.
package blobstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"sync"
)

var (
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
)

// MaxImageSize is the maximum allowed upload size in bytes (5 MB).
const MaxImageSize = 5 * 1024 * 1024

// ImageStore persists an image and returns its public URL.
type ImageStore interface {
	Put(ctx context.Context, prefix, contentType string, r io.Reader, size int64) (url string, err error)
}

// ValidateImage checks size and content type before an upload is accepted.
func ValidateImage(contentType string, size int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return ErrInvalidContentType
	}
	if size > MaxImageSize {
		return ErrFileTooLarge
	}
	return nil
}

var nonSafe = regexp.MustCompile(`[^a-z0-9\-_.]+`)

// sanitizeKey normalizes an object key prefix to [a-z0-9-_.].
func sanitizeKey(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = nonSafe.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-_")
	if name == "" {
		name = "file"
	}
	return name
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func extForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}

// MemoryStore holds images in memory. Suitable for tests and development.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryStore creates an empty in-memory image store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, prefix, contentType string, r io.Reader, size int64) (string, error) {
	if err := ValidateImage(contentType, size); err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > MaxImageSize {
		return "", ErrFileTooLarge
	}

	key := fmt.Sprintf("%s-%s%s", sanitizeKey(prefix), randomHex(4), extForContentType(contentType))
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return "memory://" + path.Join("prescriptions", key), nil
}

// Get returns a stored object by key suffix. Test helper.
func (s *MemoryStore) Get(url string) ([]byte, bool) {
	key := path.Base(url)
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len reports the number of stored objects. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
