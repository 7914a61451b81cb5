package titles

import (
	"context"
	"sync"

	"github.com/goliatone/go-linkify/pkg/interfaces"
)

// MemoryStore keeps titles in a process-local map with no eviction.
type MemoryStore struct {
	mu     sync.RWMutex
	titles map[string]string
}

var _ interfaces.TitleStore = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{titles: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	title, ok := s.titles[key]
	return title, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, title string) error {
	s.mu.Lock()
	s.titles[key] = title
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Has(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.titles[key]
	return ok, nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	s.titles = make(map[string]string)
	s.mu.Unlock()
	return nil
}

// Len reports the number of cached titles.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.titles)
}
