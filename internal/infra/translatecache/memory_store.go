package translatecache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yanqian/weatherchat/internal/domain/chat"
	"github.com/yanqian/weatherchat/internal/domain/translate"
)

// DefaultCapacity bounds the in-process cache when no capacity is configured.
const DefaultCapacity = 1024

// MemoryStore is a bounded LRU held in process memory. Entries expire after
// ttl when ttl is positive.
type MemoryStore struct {
	lru *expirable.LRU[string, chat.Response]
}

// NewMemoryStore constructs a store evicting the least recently used entry
// once capacity is reached.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{lru: expirable.NewLRU[string, chat.Response](capacity, nil, ttl)}
}

// Get implements translate.Cache.
func (s *MemoryStore) Get(_ context.Context, key string) (chat.Response, bool, error) {
	value, ok := s.lru.Get(key)
	return value, ok, nil
}

// Set implements translate.Cache.
func (s *MemoryStore) Set(_ context.Context, key string, value chat.Response) error {
	s.lru.Add(key, value)
	return nil
}

// Len reports the number of cached entries.
func (s *MemoryStore) Len() int {
	return s.lru.Len()
}

var _ translate.Cache = (*MemoryStore)(nil)
