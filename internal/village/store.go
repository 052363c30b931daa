package village

import (
	"context"
	"sync"
	"time"
)

// Store holds the village directory. ReplaceAll swaps the whole directory
// atomically; the directory is always imported as a unit.
type Store interface {
	ReplaceAll(ctx context.Context, villages []Village) error
	List(ctx context.Context) ([]Village, error)
	Count(ctx context.Context) (int, error)
}

type MemoryStore struct {
	mu       sync.RWMutex
	villages []Village
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) ReplaceAll(_ context.Context, villages []Village) error {
	importedAt := s.now().UTC()
	next := make([]Village, len(villages))
	for i, v := range villages {
		v.ID = i + 1
		v.ImportedAt = importedAt
		next[i] = v
	}

	s.mu.Lock()
	s.villages = next
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Village, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Village, len(s.villages))
	copy(out, s.villages)
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.villages), nil
}
