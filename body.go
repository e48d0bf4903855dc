package objmodel

import (
	"sort"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Body is an ordered set of annotated member keys and their values.
// Order matters: members are assembled, and overloads registered, in key order.
type Body struct {
	m *linkedhashmap.Map
}

// NewBody returns an empty body.
func NewBody() *Body {
	return &Body{m: linkedhashmap.New()}
}

// BodyOf builds a body from a map. Go maps are unordered, so keys are
// added in sorted order. Use NewBody and Set when order is significant.
func BodyOf(members map[string]any) *Body {
	keys := make([]string, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b := NewBody()
	for _, k := range keys {
		b.Set(k, members[k])
	}
	return b
}

// Set adds key with value. Replacing an existing key keeps its position.
// It returns the body for chaining.
func (b *Body) Set(key string, value any) *Body {
	b.m.Put(key, value)
	return b
}

// Get returns the value stored under key.
func (b *Body) Get(key string) (any, bool) {
	if b == nil {
		return nil, false
	}
	return b.m.Get(key)
}

// Keys returns the keys in insertion order.
func (b *Body) Keys() []string {
	if b == nil {
		return nil
	}
	keys := make([]string, 0, b.m.Size())
	for _, k := range b.m.Keys() {
		keys = append(keys, k.(string))
	}
	return keys
}

// Len returns the number of keys.
func (b *Body) Len() int {
	if b == nil {
		return 0
	}
	return b.m.Size()
}

// Each calls fn for every key in insertion order.
func (b *Body) Each(fn func(key string, value any)) {
	if b == nil {
		return
	}
	b.m.Each(func(k, v any) {
		fn(k.(string), v)
	})
}
