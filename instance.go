package objmodel

import (
	"github.com/broady/objmodel/member"
)

// Instance is one object of a declared class. Its data slots are
// independent deep copies of the type's defaults.
//
// Instances are not synchronized: use one logical call stack per instance.
type Instance struct {
	typ   *TypeDescriptor
	slots map[string]any
}

// New creates an instance of d and runs its __construct method, if any, with args.
// Interfaces and abstract classes cannot be instantiated.
func (d *TypeDescriptor) New(args ...any) (*Instance, error) {
	if d.isInterface {
		return nil, Errorf(CodeInstantiation, "cannot instantiate interface %s", d.name).WithDetail("type", d.name)
	}
	if d.isAbstract {
		return nil, Errorf(CodeInstantiation, "cannot instantiate abstract class %s", d.name).WithDetail("type", d.name)
	}

	inst := &Instance{typ: d, slots: make(map[string]any, len(d.defaults))}
	for k, v := range d.defaults {
		inst.slots[k] = cloneValue(v)
	}
	if d.IsMethod(constructorName) {
		if _, err := d.invoke(inst, constructorName, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Type returns the descriptor the instance was created from.
func (i *Instance) Type() *TypeDescriptor { return i.typ }

// Descriptor implements TypeRef.
func (i *Instance) Descriptor() *TypeDescriptor {
	if i == nil {
		return nil
	}
	return i.typ
}

// Is reports whether the instance's type is, extends or implements name.
func (i *Instance) Is(name string) bool { return i.typ.Is(name) }

// InstanceOf reports whether the instance's type is, extends or implements
// ref. ref may be a type name, a *TypeDescriptor or any TypeRef.
func (i *Instance) InstanceOf(ref any) (bool, error) {
	switch r := ref.(type) {
	case string:
		return i.typ.Is(r), nil
	case TypeRef:
		if d := r.Descriptor(); d != nil {
			return i.typ.Is(d.name), nil
		}
	}
	return false, Errorf(CodeResolutionFailure, "cannot resolve a type from %s", typeName(ref)).
		WithDetails(map[string]any{"type": i.typ.name, "actual": typeName(ref)})
}

// Super calls name on the nearest ancestor of the instance's type that has it.
func (i *Instance) Super(name string, args ...any) (any, error) {
	ctx := &Context{self: i, typ: i.typ}
	return ctx.Super(name, args...)
}

// Call calls a public method, including generated accessors.
func (i *Instance) Call(name string, args ...any) (any, error) {
	meta, ok := i.typ.members[name]
	if !ok || !i.typ.IsMethod(name) {
		return nil, Errorf(CodeResolutionFailure, "method %s does not exist on %s", name, i.typ.name).
			WithDetails(map[string]any{"type": i.typ.name, "member": name})
	}
	if meta.Visibility != member.Public {
		return nil, accessViolation(i.typ.name, name, "method %s of %s is %s", name, i.typ.name, meta.Visibility)
	}
	return i.typ.invoke(i, name, args)
}

// Get reads a public data member or a constant.
func (i *Instance) Get(name string) (any, error) {
	return i.get(name, true)
}

// Set writes a public, writable data member. The value is type-checked
// the same way the generated setter checks it.
func (i *Instance) Set(name string, value any) error {
	return i.set(name, value, true)
}

func (i *Instance) get(name string, public bool) (any, error) {
	if v, ok := i.typ.constants[name]; ok {
		return cloneValue(v), nil
	}
	meta, ok := i.typ.members[name]
	if !ok || !i.typ.isData(name) {
		return nil, Errorf(CodeResolutionFailure, "data member %s does not exist on %s", name, i.typ.name).
			WithDetails(map[string]any{"type": i.typ.name, "member": name})
	}
	if public && meta.Visibility != member.Public {
		return nil, accessViolation(i.typ.name, name, "member %s of %s is %s", name, i.typ.name, meta.Visibility)
	}
	return i.slots[name], nil
}

func (i *Instance) set(name string, value any, public bool) error {
	if _, ok := i.typ.constants[name]; ok {
		return accessViolation(i.typ.name, name, "constant %s of %s cannot be changed", name, i.typ.name)
	}
	meta, ok := i.typ.members[name]
	if !ok || !i.typ.isData(name) {
		return Errorf(CodeResolutionFailure, "data member %s does not exist on %s", name, i.typ.name).
			WithDetails(map[string]any{"type": i.typ.name, "member": name})
	}
	if public {
		if meta.Visibility != member.Public {
			return accessViolation(i.typ.name, name, "member %s of %s is %s", name, i.typ.name, meta.Visibility)
		}
		if meta.IsReadOnly {
			return accessViolation(i.typ.name, name, "member %s of %s is read-only", name, i.typ.name)
		}
	}
	if err := checkValue(meta, value, name, i.typ.env.lookup); err != nil {
		return err
	}
	i.slots[name] = value
	return nil
}

func accessViolation(typeName, memberName, format string, args ...any) *Error {
	return Errorf(CodeAccessViolation, format, args...).
		WithDetails(map[string]any{"type": typeName, "member": memberName})
}
