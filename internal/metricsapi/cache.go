package metricsapi

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Store is a time-boxed response cache keyed by request URL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Purge(ctx context.Context) error
}

type cacheEntry struct {
	Value      []byte
	Expiration time.Time
}

// MemoryStore keeps responses in process.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]cacheEntry
	now   func() time.Time
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]cacheEntry), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[key]
	if !ok {
		log.Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}
	if s.now().After(entry.Expiration) {
		delete(s.items, key)
		log.Debug().Str("key", key).Msg("Cache entry expired")
		return nil, false
	}
	log.Debug().Str("key", key).Msg("Cache hit")
	return entry.Value, true
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = cacheEntry{Value: value, Expiration: s.now().Add(ttl)}
	log.Debug().Str("key", key).Dur("ttl", ttl).Msg("Added to cache")
}

func (s *MemoryStore) Purge(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.items)
	s.items = make(map[string]cacheEntry)
	log.Info().Int("entries", n).Msg("Response cache purged")
	return nil
}
