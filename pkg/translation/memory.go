package translation

import (
	"container/list"
	"context"
	"sync"
)

// DefaultMemoryCapacity is used by NewMemoryStore for non-positive capacities.
const DefaultMemoryCapacity = 1024

type memoryKey struct {
	locale string
	source string
}

type memoryEntry struct {
	key  memoryKey
	text string
}

// MemoryStore is a bounded, least-recently-used Store. It is safe for
// concurrent use. Its lifetime is its owner's: the serve command keeps one per
// server, tests keep one per case.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[memoryKey]*list.Element
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore holding at most capacity entries.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}

	return &MemoryStore{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[memoryKey]*list.Element),
	}
}

// GetTranslations implements Store. Hits are marked as recently used.
func (m *MemoryStore) GetTranslations(_ context.Context, locale string, sources []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string, len(sources))
	for _, src := range sources {
		el, ok := m.items[memoryKey{locale: locale, source: src}]
		if !ok {
			continue
		}
		m.order.MoveToFront(el)
		out[src] = el.Value.(*memoryEntry).text //nolint: forcetypeassert
	}

	return out, nil
}

// SetTranslations implements Store. The least recently used entries are
// evicted once capacity is exceeded.
func (m *MemoryStore) SetTranslations(_ context.Context, locale string, entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for src, text := range entries {
		key := memoryKey{locale: locale, source: src}
		if el, ok := m.items[key]; ok {
			el.Value.(*memoryEntry).text = text //nolint: forcetypeassert
			m.order.MoveToFront(el)

			continue
		}
		m.items[key] = m.order.PushFront(&memoryEntry{key: key, text: text})
	}

	for m.order.Len() > m.capacity {
		oldest := m.order.Back()
		m.order.Remove(oldest)
		delete(m.items, oldest.Value.(*memoryEntry).key) //nolint: forcetypeassert
	}

	return nil
}

// Len returns the number of cached entries.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.order.Len()
}
