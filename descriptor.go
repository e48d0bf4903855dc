package objmodel

import (
	"slices"

	"github.com/broady/objmodel/member"
)

// constructorName is the method dispatched by New when a type declares it.
const constructorName = "__construct"

// reserved member names cannot be declared and are never inherited.
var reserved = map[string]bool{
	"super":       true,
	"instanceOf":  true,
	"serialize":   true,
	"deserialize": true,
}

// environment is shared by every descriptor built against the same arena.
type environment struct {
	arena     *Arena
	lookup    Lookup
	intercept func() Interceptor
}

func (e *environment) interceptor() Interceptor {
	if e.intercept == nil {
		return nil
	}
	return e.intercept()
}

// TypeDescriptor is the shape of a declared class or interface.
// It is immutable once published and safe for concurrent use.
type TypeDescriptor struct {
	id          TypeID
	name        string
	isInterface bool
	isAbstract  bool
	isFinal     bool
	parent      TypeID
	env         *environment

	implements []string
	interfaces []string
	ifaceIDs   []TypeID
	identity   map[string]bool

	constants map[string]any
	members   map[string]member.Metadata
	order     []string
	defaults  map[string]any
	methods   map[string]*OverloadSet

	// own holds the names declared in this type's (trait-merged) body.
	own map[string]bool
}

func newDescriptor(name string, isInterface bool, env *environment) *TypeDescriptor {
	return &TypeDescriptor{
		name:        name,
		isInterface: isInterface,
		env:         env,
		implements:  []string{name},
		identity:    map[string]bool{name: true},
		constants:   make(map[string]any),
		members:     make(map[string]member.Metadata),
		defaults:    make(map[string]any),
		methods:     make(map[string]*OverloadSet),
		own:         make(map[string]bool),
	}
}

// Name returns the declared type name.
func (d *TypeDescriptor) Name() string { return d.name }

// ID returns the arena ID assigned when the descriptor was published.
func (d *TypeDescriptor) ID() TypeID { return d.id }

// Descriptor implements TypeRef.
func (d *TypeDescriptor) Descriptor() *TypeDescriptor { return d }

// Parent returns the snapshot this type was linked against, if any.
func (d *TypeDescriptor) Parent() (*TypeDescriptor, bool) {
	return d.env.arena.Get(d.parent)
}

// Implements returns the type name followed by each ancestor's name.
func (d *TypeDescriptor) Implements() []string { return slices.Clone(d.implements) }

// Interfaces returns the names of implemented interfaces, inherited first.
func (d *TypeDescriptor) Interfaces() []string { return slices.Clone(d.interfaces) }

func (d *TypeDescriptor) IsInterface() bool { return d.isInterface }
func (d *TypeDescriptor) IsAbstract() bool  { return d.isAbstract }
func (d *TypeDescriptor) IsFinal() bool     { return d.isFinal }

// Is reports whether name is this type, one of its ancestors, or an
// interface implemented anywhere along the chain.
func (d *TypeDescriptor) Is(name string) bool { return d.identity[name] }

// Constants returns a copy of the constant table, inherited values overridden by own ones.
func (d *TypeDescriptor) Constants() map[string]any {
	out := make(map[string]any, len(d.constants))
	for k, v := range d.constants {
		out[k] = cloneValue(v)
	}
	return out
}

// Constant returns the value of one constant.
func (d *TypeDescriptor) Constant(name string) (any, bool) {
	v, ok := d.constants[name]
	return cloneValue(v), ok
}

// Member returns the metadata of name. For methods, IsAbstract reports
// whether any registered overload is still abstract.
func (d *TypeDescriptor) Member(name string) (member.Metadata, bool) {
	m, ok := d.members[name]
	if !ok {
		return member.Metadata{}, false
	}
	m = m.Clone()
	if set, ok := d.methods[name]; ok {
		m.IsAbstract = set.IsAbstract()
	}
	return m, true
}

// Members returns every member name in declaration order: own members,
// then inherited ones, then generated accessors.
func (d *TypeDescriptor) Members() []string { return slices.Clone(d.order) }

// Overloads returns the registered signatures of a method, in registration order.
func (d *TypeDescriptor) Overloads(name string) []Signature {
	set, ok := d.methods[name]
	if !ok {
		return nil
	}
	out := make([]Signature, len(set.entries))
	for i, o := range set.entries {
		out[i] = o.Signature()
	}
	return out
}

// IsMethod reports whether name is a method of the type.
func (d *TypeDescriptor) IsMethod(name string) bool {
	_, ok := d.methods[name]
	return ok
}

// isData reports whether name is a plain data member with an instance slot.
func (d *TypeDescriptor) isData(name string) bool {
	_, ok := d.defaults[name]
	return ok
}

// addMember records metadata for name, appending it to the declaration
// order the first time it is seen.
func (d *TypeDescriptor) addMember(meta member.Metadata) {
	if _, ok := d.members[meta.Name]; !ok {
		d.order = append(d.order, meta.Name)
	}
	d.members[meta.Name] = meta
}

func (d *TypeDescriptor) kind() string {
	if d.isInterface {
		return "interface"
	}
	return "class"
}
