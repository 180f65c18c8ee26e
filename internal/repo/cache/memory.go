package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/viccon/sturdyc"
)

type MemoryConfig struct {
	Capacity           int
	NumShards          int
	EvictionPercentage int
}

func (c MemoryConfig) withDefaults() MemoryConfig {
	if c.Capacity <= 0 {
		c.Capacity = 10000
	}
	if c.NumShards <= 0 {
		c.NumShards = 64
	}
	if c.NumShards > c.Capacity {
		c.NumShards = c.Capacity
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		c.EvictionPercentage = 10
	}
	return c
}

// memoryStore keeps entries in process. sturdyc fixes the TTL per client, so
// there is one client per distinct TTL and a key lives in exactly one of them.
type memoryStore struct {
	cfg MemoryConfig

	mu      sync.RWMutex
	clients map[time.Duration]*sturdyc.Client[[]byte]
}

func NewMemoryStore(cfg MemoryConfig) Store {
	return &memoryStore{
		cfg:     cfg.withDefaults(),
		clients: make(map[time.Duration]*sturdyc.Client[[]byte]),
	}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
	}
	return nil, ErrMiss
}

func (s *memoryStore) SetWithExpiry(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[ttl]
	if !ok {
		c = sturdyc.New[[]byte](s.cfg.Capacity, s.cfg.NumShards, ttl, s.cfg.EvictionPercentage)
		s.clients[ttl] = c
	}
	for other, oc := range s.clients {
		if other != ttl {
			oc.Delete(key)
		}
	}
	c.Set(key, value)
	return nil
}

func (s *memoryStore) DeleteByPrefix(_ context.Context, prefix string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var deleted int64
	for _, c := range s.clients {
		for _, key := range c.ScanKeys() {
			if strings.HasPrefix(key, prefix) {
				c.Delete(key)
				deleted++
			}
		}
	}
	return deleted, nil
}

func (s *memoryStore) Ping(context.Context) error {
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
