// Package omap provides a minimal insertion-order-preserving string-keyed
// map, used where flattening classes must observe earlier entries in
// declaration order (the classinator/clastrack tracking maps). Plain Go
// maps have no iteration order guarantee, so a small ordered map keeps
// that order a correctness property rather than an accident of map
// internals.
package omap

// Map is an insertion-ordered string -> V map.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// New creates an empty ordered map.
func New[V any]() *Map[V] {
	return &Map[V]{values: make(map[string]V)}
}

// Set inserts or overwrites key, appending it to the key order the
// first time it's seen.
func (m *Map[V]) Set(key string, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns key's value and whether it was present.
func (m *Map[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map[V]) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	return len(m.keys)
}

// Each calls fn for every entry in insertion order.
func (m *Map[V]) Each(fn func(key string, value V)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}
