package cmap

// Item is a key-value pair copied out of a Map.
type Item[K comparable, V any] struct {
	Key   K
	Value V
}

// Range calls fn for every pair, one shard at a time.
// fn returning false stops the iteration. fn must not write to m.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Keys returns a copy of all keys.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Count())
	m.Range(func(key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Items returns a copy of all pairs.
func (m *Map[K, V]) Items() []Item[K, V] {
	items := make([]Item[K, V], 0, m.Count())
	m.Range(func(key K, value V) bool {
		items = append(items, Item[K, V]{Key: key, Value: value})
		return true
	})
	return items
}
