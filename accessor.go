package objmodel

import (
	"github.com/broady/objmodel/internal/naming"
	"github.com/broady/objmodel/member"
)

// checkValue validates value against the declared type of meta. what names
// the setter or member in the error.
func checkValue(meta member.Metadata, value any, what string, l Lookup) error {
	switch meta.TypeKind {
	case member.KindAny:
		return nil
	case member.KindClass, member.KindInterface:
		if inst, ok := value.(*Instance); ok && inst != nil && (inst.typ.name == meta.Type || inst.Is(meta.Type)) {
			return nil
		}
	case member.KindEnum:
		if l != nil {
			if e, ok := l.Enum(meta.Type); ok && e.Contains(value) {
				return nil
			}
		}
	case member.KindPrimitive:
		if TypeOf(value) == Tag(meta.Type) {
			return nil
		}
	}
	if value == nil && meta.IsNullable {
		return nil
	}
	return Errorf(CodeTypeMismatch, "%s expects %s, %s given", what, meta.Type, typeName(value)).
		WithDetails(map[string]any{
			"member":   what,
			"expected": meta.Type,
			"actual":   typeName(value),
		})
}

// accessorMeta returns the metadata of a generated accessor for data.
func accessorMeta(name string, data member.Metadata) member.Metadata {
	return member.Metadata{
		Name:        name,
		Visibility:  data.Visibility,
		Type:        "function",
		TypeKind:    member.KindPrimitive,
		IsAbstract:  data.IsAbstract,
		IsFinal:     data.IsFinal,
		IsGenerated: true,
		Parameters:  []string{},
	}
}

func getterFunc(name string) MethodFunc {
	return func(ctx *Context, args ...any) (any, error) {
		return ctx.self.slots[name], nil
	}
}

func setterFunc(setter string, data member.Metadata) MethodFunc {
	return func(ctx *Context, args ...any) (any, error) {
		var v any
		if len(args) > 0 {
			v = args[0]
		}
		if err := checkValue(data, v, setter, ctx.typ.env.lookup); err != nil {
			return nil, err
		}
		ctx.self.slots[data.Name] = v
		return ctx.self, nil
	}
}

// installAccessors adds the getter and setter of one data member to d.
// skip reports names that must not be (re)defined.
func installAccessors(d *TypeDescriptor, data member.Metadata, skip func(name string) bool) {
	getter, setter := naming.Accessors(data.Name, data.IsBoolean())

	if !skip(getter) {
		set := newOverloadSet(getter, data.Visibility)
		set.entries = []Overload{{Params: []Param{}, Impl: getterFunc(data.Name)}}
		d.methods[getter] = set
		d.addMember(accessorMeta(getter, data))
	}
	if data.IsReadOnly || skip(setter) {
		return
	}
	set := newOverloadSet(setter, data.Visibility)
	set.entries = []Overload{{Params: []Param{}, Impl: setterFunc(setter, data)}}
	d.methods[setter] = set
	d.addMember(accessorMeta(setter, data))
}

// synthesizeAccessors generates accessors for the non-private data members
// declared in d's own body. Explicitly declared members are never replaced;
// inherited trampolines are.
func synthesizeAccessors(d *TypeDescriptor) {
	owned := func(name string) bool { return d.own[name] }
	for _, name := range d.order {
		if !d.own[name] || !d.isData(name) {
			continue
		}
		meta := d.members[name]
		if meta.Visibility == member.Private || meta.IsConstant {
			continue
		}
		installAccessors(d, meta, owned)
	}
}

// inheritAccessors generates accessors for a data member copied from the
// parent, filling only names the child does not have yet.
func inheritAccessors(d *TypeDescriptor, data member.Metadata) {
	installAccessors(d, data, func(name string) bool {
		_, ok := d.members[name]
		return ok
	})
}
