package objmodel

import "slices"

// Enum is a named, closed set of values. Members typed with an enum only
// accept values of that set.
type Enum struct {
	name   string
	values []any
}

// Name returns the enumeration name.
func (e *Enum) Name() string { return e.name }

// Values returns the members in declaration order.
func (e *Enum) Values() []any { return slices.Clone(e.values) }

// Contains reports whether v is a member. Numbers compare by value, so
// int 1 and float64 1 are the same member.
func (e *Enum) Contains(v any) bool {
	for _, m := range e.values {
		if sameValue(m, v) {
			return true
		}
	}
	return false
}
