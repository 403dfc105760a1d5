package client

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// OrderedMap is a JSON object decoded with its key order and the raw bytes of
// every value preserved. The API keys listings by job number or name and the
// CLI renders rows in the order the server sent them.
type OrderedMap[V any] struct {
	pairs *orderedmap.OrderedMap[string, entry[V]]
}

// entry keeps a decoded value next to the bytes it was decoded from.
type entry[V any] struct {
	value V
	raw   json.RawMessage
}

func (e *entry[V]) UnmarshalJSON(data []byte) error {
	e.raw = append(json.RawMessage(nil), data...)
	return json.Unmarshal(data, &e.value)
}

// MarshalJSON reuses the received bytes so that fields unknown to V survive.
func (e entry[V]) MarshalJSON() ([]byte, error) {
	if e.raw != nil {
		return e.raw, nil
	}
	return json.Marshal(e.value)
}

// NewOrderedMap returns an empty map ready for Set.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{pairs: orderedmap.New[string, entry[V]]()}
}

// Keys returns the keys in insertion order.
func (m *OrderedMap[V]) Keys() []string {
	if m == nil || m.pairs == nil {
		return nil
	}
	keys := make([]string, 0, m.pairs.Len())
	for p := m.pairs.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Len returns the number of entries.
func (m *OrderedMap[V]) Len() int {
	if m == nil || m.pairs == nil {
		return 0
	}
	return m.pairs.Len()
}

// Get returns the decoded value for key.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	if m == nil || m.pairs == nil {
		var zero V
		return zero, false
	}
	e, ok := m.pairs.Get(key)
	return e.value, ok
}

// Raw returns the value bytes exactly as received, or nil when the entry
// was added with Set.
func (m *OrderedMap[V]) Raw(key string) json.RawMessage {
	if m == nil || m.pairs == nil {
		return nil
	}
	e, _ := m.pairs.Get(key)
	return e.raw
}

// Set adds or replaces an entry. New keys are appended.
func (m *OrderedMap[V]) Set(key string, v V) {
	m.setRaw(key, v, nil)
}

func (m *OrderedMap[V]) setRaw(key string, v V, raw json.RawMessage) {
	if m.pairs == nil {
		m.pairs = orderedmap.New[string, entry[V]]()
	}
	m.pairs.Set(key, entry[V]{value: v, raw: raw})
}

// Each calls fn for every entry in order until fn returns false.
func (m *OrderedMap[V]) Each(fn func(key string, v V) bool) {
	if m == nil || m.pairs == nil {
		return
	}
	for p := m.pairs.Oldest(); p != nil; p = p.Next() {
		if !fn(p.Key, p.Value.value) {
			return
		}
	}
}

// UnmarshalJSON replaces the contents of m. A JSON null leaves m empty.
func (m *OrderedMap[V]) UnmarshalJSON(data []byte) error {
	m.pairs = orderedmap.New[string, entry[V]]()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	return m.pairs.UnmarshalJSON(data)
}

// MarshalJSON writes entries in order.
func (m OrderedMap[V]) MarshalJSON() ([]byte, error) {
	if m.pairs == nil {
		return []byte("{}"), nil
	}
	return m.pairs.MarshalJSON()
}
