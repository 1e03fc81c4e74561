package jobs

import (
	"sync"

	"golang.org/x/exp/maps"
)

// ReadyMap is the hand-off point between workers and the frame thread.
// Workers insert or replace by key; the frame thread drains with Take.
type ReadyMap[K comparable, V any] struct {
	mu    sync.Mutex
	items map[K]V
}

func NewReadyMap[K comparable, V any]() *ReadyMap[K, V] {
	return &ReadyMap[K, V]{items: make(map[K]V)}
}

func (m *ReadyMap[K, V]) Put(key K, value V) {
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()
}

// PublishUnless stores value unless t has been cancelled. The check and the
// insert happen under the same lock as Revoke, so a revoked ticket can never
// publish afterwards.
func (m *ReadyMap[K, V]) PublishUnless(t *Ticket, key K, value V) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.Cancelled() {
		return false
	}
	m.items[key] = value
	return true
}

// Revoke runs cancel and drops any result already stored for key, atomically
// with respect to PublishUnless.
func (m *ReadyMap[K, V]) Revoke(key K, cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	delete(m.items, key)
}

func (m *ReadyMap[K, V]) Get(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

// Update applies fn to the current entry under the lock; fn returns the
// value to store and whether to store it.
func (m *ReadyMap[K, V]) Update(key K, fn func(current V, ok bool) (V, bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.items[key]
	if next, store := fn(current, ok); store {
		m.items[key] = next
	}
}

func (m *ReadyMap[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Keys returns a snapshot of the stored keys in no particular order.
func (m *ReadyMap[K, V]) Keys() []K {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Keys(m.items)
}

// Take swaps out every stored entry and leaves the map empty.
func (m *ReadyMap[K, V]) Take() map[K]V {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) == 0 {
		return nil
	}
	out := m.items
	m.items = make(map[K]V)
	return out
}

func (m *ReadyMap[K, V]) Clear() {
	m.mu.Lock()
	m.items = make(map[K]V)
	m.mu.Unlock()
}
