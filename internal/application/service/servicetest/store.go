package servicetest

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/itww/admin-api/internal/application/service"
)

// MemoryStore is an ObjectStore held in a map. Failures can be injected per operation.
type MemoryStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	types    map[string]string
	PutErr   error
	SignErr  error
	DelErr   error
	Now      func() time.Time
	Deleted  []string
	SignedAt map[string]time.Duration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects:  map[string][]byte{},
		types:    map[string]string{},
		SignedAt: map[string]time.Duration{},
		Now:      time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, namespace, originalName string, body io.Reader, _ int64, contentType string) (string, error) {
	if s.PutErr != nil {
		return "", s.PutErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	key := service.ObjectKey(namespace, originalName, s.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	s.types[key] = contentType
	return key, nil
}

func (s *MemoryStore) SignedReadURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if s.SignErr != nil {
		return "", s.SignErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SignedAt[key] = ttl
	return "https://objects.test/" + key + "?sig=1", nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if s.DelErr != nil {
		return s.DelErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, key)
	delete(s.objects, key)
	delete(s.types, key)
	return nil
}

// Object returns the stored bytes and content type for key.
func (s *MemoryStore) Object(key string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, s.types[key], ok
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
