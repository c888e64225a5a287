package repositories

import (
	"hash/fnv"
	"sync"
)

const defaultShardCount = 32

type shard[K ~string, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// shardedMap spreads keys over independently locked shards so that
// unrelated keys never wait on each other.
type shardedMap[K ~string, V any] struct {
	shards []*shard[K, V]
}

func newShardedMap[K ~string, V any](count int) *shardedMap[K, V] {
	if count <= 0 {
		count = defaultShardCount
	}
	shards := make([]*shard[K, V], count)
	for i := range shards {
		shards[i] = &shard[K, V]{items: make(map[K]V)}
	}
	return &shardedMap[K, V]{shards: shards}
}

func (m *shardedMap[K, V]) shardFor(key K) *shard[K, V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return m.shards[h.Sum32()%uint32(len(m.shards))]
}

func (m *shardedMap[K, V]) Get(key K) (V, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// PutIfAbsent stores the value only when the key is free and reports whether it did.
func (m *shardedMap[K, V]) PutIfAbsent(key K, value V) bool {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; ok {
		return false
	}
	s.items[key] = value
	return true
}

func (m *shardedMap[K, V]) Delete(key K) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// Update runs fn under the shard write lock. fn receives the current value
// (zero value and false when absent) and returns the value to store.
func (m *shardedMap[K, V]) Update(key K, fn func(current V, ok bool) V) V {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.items[key]
	next := fn(current, ok)
	s.items[key] = next
	return next
}

// Values returns a snapshot of every stored value, shard by shard.
func (m *shardedMap[K, V]) Values() []V {
	var out []V
	for _, s := range m.shards {
		s.mu.RLock()
		for _, v := range s.items {
			out = append(out, v)
		}
		s.mu.RUnlock()
	}
	return out
}
