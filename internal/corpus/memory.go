package corpus

import (
	"sort"
	"sync"

	"github.com/framework-learner/penrose/internal/errors"
)

// MemoryBackend implements Backend with in-memory maps. Nothing is
// persisted.
type MemoryBackend struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{buckets: make(map[string]map[string][]byte)}
}

func (m *MemoryBackend) EnsureBucket(name []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.buckets[string(name)]; !ok {
		m.buckets[string(name)] = make(map[string][]byte)
	}
	return nil
}

func (m *MemoryBackend) Put(bucket, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bkt, ok := m.buckets[string(bucket)]
	if !ok {
		return errors.Wrapf(ErrBucketNotFound, "%s", bucket)
	}
	bkt[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBackend) Get(bucket, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bkt, ok := m.buckets[string(bucket)]
	if !ok {
		return nil, errors.Wrapf(ErrBucketNotFound, "%s", bucket)
	}
	v, ok := bkt[string(key)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bkt, ok := m.buckets[string(bucket)]
	if !ok {
		return errors.Wrapf(ErrBucketNotFound, "%s", bucket)
	}
	keys := make([]string, 0, len(bkt))
	for k := range bkt {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k), bkt[k]); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
