package objmodel

import (
	"slices"

	"github.com/broady/objmodel/member"
)

// resolveRef resolves a parent or interface reference. Names are looked up
// as classes first, then as interfaces. Descriptors published into another
// arena cannot be referenced.
func (b *Builder) resolveRef(ref any) (*TypeDescriptor, bool) {
	var d *TypeDescriptor
	switch r := ref.(type) {
	case string:
		var ok bool
		if d, ok = b.env.lookup.Class(r); !ok {
			d, _ = b.env.lookup.Interface(r)
		}
	case TypeRef:
		d = r.Descriptor()
	}
	if d == nil || d.env == nil || d.env.arena != b.env.arena {
		return nil, false
	}
	return d, true
}

// link merges the parent's shape into d.
func (b *Builder) link(d *TypeDescriptor, extends any) error {
	parent, ok := b.resolveRef(extends)
	if !ok {
		return declarationConflict(d.name, "", "%s %s may only extend a declared class or interface, got %s", d.kind(), d.name, typeName(extends))
	}
	if parent.isFinal {
		return inheritanceViolation(d.name, "", "unable to extend final class %s", parent.name).
			WithDetail("parent", parent.name)
	}
	if parent.isInterface != d.isInterface {
		return inheritanceViolation(d.name, "", "%s %s cannot extend %s %s", d.kind(), d.name, parent.kind(), parent.name).
			WithDetail("parent", parent.name)
	}

	d.parent = parent.id
	d.implements = append([]string{d.name}, parent.implements...)
	d.interfaces = append(d.interfaces, parent.interfaces...)
	d.ifaceIDs = append(d.ifaceIDs, parent.ifaceIDs...)
	for name := range parent.identity {
		d.identity[name] = true
	}

	constants := make(map[string]any, len(parent.constants)+len(d.constants))
	for k, v := range parent.constants {
		constants[k] = cloneValue(v)
	}
	for k, v := range d.constants {
		constants[k] = v
	}
	d.constants = constants

	for _, name := range parent.order {
		if reserved[name] {
			continue
		}
		pm := parent.members[name]
		cm, has := d.members[name]
		if !has {
			d.addMember(pm.Clone())
		}

		if d.own[name] && !pm.IsGenerated {
			if err := checkOverride(d, parent, pm, cm); err != nil {
				return err
			}
		}

		if pset, ok := parent.methods[name]; ok {
			if _, isMethod := d.methods[name]; has && !isMethod {
				return inheritanceViolation(d.name, name, "member %s must be a method as defined in the parent %s", name, parent.kind()).
					WithDetail("required", "method")
			}
			set, ok := d.methods[name]
			if !ok {
				set = newOverloadSet(name, pm.Visibility)
				d.methods[name] = set
			}
			for _, o := range pset.entries {
				set.addTrampoline(o.Params, o.IsAbstract)
			}
			continue
		}

		if has || pm.IsConstant {
			continue
		}
		d.defaults[name] = cloneValue(parent.defaults[name])
		if pm.Visibility != member.Private {
			inheritAccessors(d, pm)
		}
	}
	return nil
}

// checkOverride enforces the contract of a parent member the child redefines.
func checkOverride(d, parent *TypeDescriptor, pm, cm member.Metadata) error {
	name := pm.Name
	switch {
	case pm.Visibility != cm.Visibility:
		return inheritanceViolation(d.name, name, "member %s must be %s as defined in the parent %s", name, pm.Visibility, parent.kind()).
			WithDetail("required", string(pm.Visibility))
	case pm.IsFinal:
		return inheritanceViolation(d.name, name, "final member %s cannot be overwritten", name).
			WithDetail("required", "final")
	case pm.IsReadOnly != cm.IsReadOnly:
		return inheritanceViolation(d.name, name, "member %s must match the read-only flag of the parent %s", name, parent.kind()).
			WithDetail("required", pm.IsReadOnly)
	case pm.IsNullable != cm.IsNullable:
		return inheritanceViolation(d.name, name, "member %s must match the nullable flag of the parent %s", name, parent.kind()).
			WithDetail("required", pm.IsNullable)
	}
	return nil
}

// linkInterfaces resolves the implemented interfaces and extends d's identity.
func (b *Builder) linkInterfaces(d *TypeDescriptor, refs []any) error {
	for _, ref := range refs {
		iface, ok := b.resolveRef(ref)
		if !ok || !iface.isInterface {
			return inheritanceViolation(d.name, "", "%s %s can only implement interfaces, got %s", d.kind(), d.name, refName(ref))
		}
		if !slices.Contains(d.interfaces, iface.name) {
			d.interfaces = append(d.interfaces, iface.name)
			d.ifaceIDs = append(d.ifaceIDs, iface.id)
		}
		for name := range iface.identity {
			d.identity[name] = true
		}
	}
	return nil
}

// checkConformance verifies that a concrete class provides every member of
// every interface it implements.
func (b *Builder) checkConformance(d *TypeDescriptor) error {
	if d.isInterface || d.isAbstract {
		return nil
	}
	for _, id := range d.ifaceIDs {
		iface, ok := b.env.arena.Get(id)
		if !ok {
			continue
		}
		for _, name := range iface.order {
			im := iface.members[name]
			if im.IsGenerated || reserved[name] {
				continue
			}
			cm, ok := d.members[name]
			if !ok {
				return inheritanceViolation(d.name, name, "class %s must implement member %s of interface %s", d.name, name, iface.name).
					WithDetail("interface", iface.name)
			}
			if cm.Visibility != im.Visibility {
				return inheritanceViolation(d.name, name, "member %s must be %s as defined in interface %s", name, im.Visibility, iface.name).
					WithDetails(map[string]any{"interface": iface.name, "required": string(im.Visibility)})
			}
			iset, ok := iface.methods[name]
			if !ok {
				continue
			}
			cset, ok := d.methods[name]
			if !ok {
				return inheritanceViolation(d.name, name, "member %s must be a method as defined in interface %s", name, iface.name).
					WithDetails(map[string]any{"interface": iface.name, "required": "method"})
			}
			for _, io := range iset.entries {
				if !hasConcrete(cset, io.Params) {
					return inheritanceViolation(d.name, name, "class %s must implement %s%s of interface %s", d.name, name, io.Signature(), iface.name).
						WithDetails(map[string]any{"interface": iface.name, "required": io.Signature().String()})
				}
			}
		}
	}
	return nil
}

func hasConcrete(set *OverloadSet, params []Param) bool {
	for _, o := range set.entries {
		if !o.IsAbstract && o.sameSignature(params) {
			return true
		}
	}
	return false
}

func refName(ref any) string {
	switch r := ref.(type) {
	case string:
		return r
	case TypeRef:
		if d := r.Descriptor(); d != nil {
			return d.name
		}
	}
	return typeName(ref)
}
