package pagecache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore keeps entries in a process-local LRU. Expiry is decided by the
// Cache clock, so stale entries linger until they are overwritten or evicted.
type MemoryStore struct {
	entries *lru.Cache[string, Entry]
}

func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = 16
	}
	entries, err := lru.New[string, Entry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{entries: entries}, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	entry, ok := s.entries.Get(key)
	return entry, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, entry Entry, _ time.Duration) error {
	s.entries.Add(key, entry)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.entries.Purge()
	return nil
}

func (s *MemoryStore) Len() int {
	return s.entries.Len()
}
