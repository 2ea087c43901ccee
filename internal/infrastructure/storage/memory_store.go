package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
)

// StoredImage is an image kept by MemoryImageStore
type StoredImage struct {
	Content     []byte
	ContentType string
}

// MemoryImageStore keeps images in memory, for development and tests
type MemoryImageStore struct {
	mu      sync.RWMutex
	objects map[string]StoredImage
}

// NewMemoryImageStore creates an empty store
func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{objects: make(map[string]StoredImage)}
}

// Put stores a copy of content and returns a memory:// URL
func (s *MemoryImageStore) Put(_ context.Context, key string, content []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	s.mu.Lock()
	s.objects[key] = StoredImage{Content: append([]byte(nil), content...), ContentType: contentType}
	s.mu.Unlock()
	return "memory://" + key, nil
}

// Get returns a stored image
func (s *MemoryImageStore) Get(key string) (StoredImage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.objects[key]
	return img, ok
}

var _ connector.ImageStore = (*MemoryImageStore)(nil)
