package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Memory is an in-process blob store. It backs local development when no
// bucket is configured and lets tests observe uploads and deletions.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string

	// UploadErr, when set, makes every Upload fail with it.
	UploadErr error
	// DeleteErr, when set, makes every Delete fail with it.
	DeleteErr error
}

// NewMemory creates an empty in-memory blob store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

// Upload stores the content under a fresh key and returns a mem:// URL.
func (m *Memory) Upload(_ context.Context, content io.Reader, originalName, _ string) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}

	url := "mem://" + objectKey(originalName)
	m.mu.Lock()
	m.objects[url] = data
	m.mu.Unlock()
	return url, nil
}

// Delete removes the object behind the URL. Unknown URLs are an error.
func (m *Memory) Delete(_ context.Context, url string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[url]; !ok {
		return fmt.Errorf("object %q not found", url)
	}
	delete(m.objects, url)
	m.deleted = append(m.deleted, url)
	return nil
}

// Has reports whether the URL currently resolves to a stored object.
func (m *Memory) Has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[url]
	return ok
}

// Deleted returns the URLs deleted so far, in order.
func (m *Memory) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.deleted))
	copy(out, m.deleted)
	return out
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
