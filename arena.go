package objmodel

import "sync"

// TypeID addresses a descriptor in an Arena. The zero TypeID means "none".
type TypeID uint32

// Arena is an append-only store of published type descriptors.
// A descriptor refers to its parent and interfaces by TypeID, so replacing
// a registered name never changes what existing descriptors point at.
type Arena struct {
	mu    sync.RWMutex
	types []*TypeDescriptor
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// add publishes d and assigns its ID.
func (a *Arena) add(d *TypeDescriptor) TypeID {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.types = append(a.types, d)
	d.id = TypeID(len(a.types))
	return d.id
}

// Get returns the descriptor with the given ID.
func (a *Arena) Get(id TypeID) (*TypeDescriptor, bool) {
	if id == 0 {
		return nil, false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if int(id) > len(a.types) {
		return nil, false
	}
	return a.types[id-1], true
}

// Len returns the number of published descriptors.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.types)
}
