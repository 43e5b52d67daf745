package links

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

// shardedMap is a string-keyed map split across independently locked shards.
// Operations on different keys rarely contend, and a write only blocks readers
// of keys in the same shard.
type shardedMap[V any] struct {
	shards [shardCount]shard[V]
}

type shard[V any] struct {
	mu sync.RWMutex
	m  map[string]V
}

func newShardedMap[V any]() *shardedMap[V] {
	s := &shardedMap[V]{}
	for i := range s.shards {
		s.shards[i].m = make(map[string]V)
	}
	return s
}

func (s *shardedMap[V]) shardFor(key string) *shard[V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key)) //nolint:errcheck // hash.Hash never returns an error
	return &s.shards[h.Sum32()%shardCount]
}

func (s *shardedMap[V]) load(key string) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	v, ok := sh.m[key]
	return v, ok
}

// loadOrStore stores value under key unless key is present, and returns the
// value now held together with whether it was already there.
func (s *shardedMap[V]) loadOrStore(key string, value V) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if existing, ok := sh.m[key]; ok {
		return existing, true
	}
	sh.m[key] = value
	return value, false
}

func (s *shardedMap[V]) delete(key string) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.m[key]; !ok {
		return false
	}
	delete(sh.m, key)
	return true
}

func (s *shardedMap[V]) len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.m)
		sh.mu.RUnlock()
	}
	return n
}

// each calls fn for every entry. Each shard is copied under its read lock
// before fn runs, so fn may call back into the map.
func (s *shardedMap[V]) each(fn func(key string, value V)) {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		keys := make([]string, 0, len(sh.m))
		values := make([]V, 0, len(sh.m))
		for k, v := range sh.m {
			keys = append(keys, k)
			values = append(values, v)
		}
		sh.mu.RUnlock()
		for j := range keys {
			fn(keys[j], values[j])
		}
	}
}
