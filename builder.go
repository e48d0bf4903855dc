package objmodel

import (
	"github.com/broady/objmodel/member"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	if err := validate.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return member.IsIdentifier(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

// Lookup resolves registered type names. *Registry implements it.
type Lookup interface {
	Class(name string) (*TypeDescriptor, bool)
	Interface(name string) (*TypeDescriptor, bool)
	Enum(name string) (*Enum, bool)
}

// Builder turns declarations into published type descriptors.
type Builder struct {
	env              *environment
	precedence       TraitPrecedence
	errorTransformer ErrorTransformer
}

// NewBuilder returns a builder that publishes into arena and resolves type
// names through l. l may be nil, in which case only descriptors can be
// referenced and only primitive type tokens are accepted.
func NewBuilder(arena *Arena, l Lookup) *Builder {
	if l == nil {
		l = emptyLookup{}
	}
	return &Builder{
		env:        &environment{arena: arena, lookup: l},
		precedence: PrecedenceDeclared,
	}
}

// WithTraitPrecedence sets how trait bodies and the declared body are merged.
// It returns the builder for chaining.
func (b *Builder) WithTraitPrecedence(p TraitPrecedence) *Builder {
	b.precedence = p
	return b
}

// WithErrorTransformer sets a custom transformer for the parser, validation
// and merge errors a declaration can fail with. It returns the builder for chaining.
func (b *Builder) WithErrorTransformer(fn ErrorTransformer) *Builder {
	b.errorTransformer = fn
	return b
}

// transformError maps err with the custom transformer, falling back to
// DefaultErrorTransformer when none is set or it returns nil.
func (b *Builder) transformError(err error) *Error {
	if b.errorTransformer != nil {
		if e := b.errorTransformer(err); e != nil {
			return e
		}
	}
	return DefaultErrorTransformer(err)
}

// Build validates and assembles decl, links it against its parent and
// interfaces, and publishes the result into the arena. On error nothing
// is published.
func (b *Builder) Build(decl Declaration) (*TypeDescriptor, error) {
	if err := validate.Struct(decl); err != nil {
		return nil, b.transformError(err).WithDetail("type", decl.Name)
	}

	p := decl.Parameters
	if p.Abstract && p.Final {
		return nil, declarationConflict(decl.Name, "", "%s cannot be both abstract and final", decl.Name)
	}
	if decl.IsInterface && p.Abstract {
		return nil, declarationConflict(decl.Name, "", "interface %s cannot be declared abstract", decl.Name)
	}

	body, err := mergeTraits(decl.Body, p.Uses, b.precedence)
	if err != nil {
		return nil, b.transformError(err).WithDetail("type", decl.Name)
	}

	d := newDescriptor(decl.Name, decl.IsInterface, b.env)
	d.isAbstract = p.Abstract
	d.isFinal = p.Final

	if err := b.assemble(d, body); err != nil {
		return nil, err
	}
	if p.Extends != nil {
		if err := b.link(d, p.Extends); err != nil {
			return nil, err
		}
	}
	if err := b.linkInterfaces(d, p.Implements); err != nil {
		return nil, err
	}
	synthesizeAccessors(d)
	if err := b.checkConformance(d); err != nil {
		return nil, err
	}
	if err := checkComplete(d); err != nil {
		return nil, err
	}

	b.env.arena.add(d)
	return d, nil
}

// assemble classifies every member of body into methods, constants and data.
func (b *Builder) assemble(d *TypeDescriptor, body *Body) error {
	r := selfResolver{lookup: b.env.lookup, name: d.name, isInterface: d.isInterface}

	for _, key := range body.Keys() {
		value, _ := body.Get(key)
		meta, err := member.Parse(key, r)
		if err != nil {
			return b.transformError(err).WithDetail("type", d.name)
		}
		name := meta.Name
		if reserved[name] {
			return declarationConflict(d.name, name, "member name %s is reserved", name)
		}

		impl, callable := asMethod(value)
		placeholder := meta.IsAbstract && value == nil
		_, hasSet := d.methods[name]

		switch {
		case callable || placeholder || len(meta.Parameters) > 0 || hasSet:
			if !callable && !placeholder {
				if len(meta.Parameters) > 0 {
					return declarationConflict(d.name, name, "member %s specifies parameters, but its value is not a method", name)
				}
				return declarationConflict(d.name, name, "member %s overloads an existing method, but its value is not a method", name)
			}
			if _, ok := d.members[name]; ok && !hasSet {
				return declarationConflict(d.name, name, "member %s overloads an existing property", name)
			}
			set, ok := d.methods[name]
			if !ok {
				set = newOverloadSet(name, meta.Visibility)
				d.methods[name] = set
				d.addMember(meta)
			} else if set.visibility != meta.Visibility {
				return declarationConflict(d.name, name, "member %s: inconsistent visibility", name)
			}
			if err := set.add(meta.Parameters, impl, meta.IsAbstract, false); err != nil {
				return err.(*Error).WithDetail("type", d.name)
			}

		case meta.IsConstant:
			d.constants[name] = value
			d.addMember(meta)

		default:
			d.defaults[name] = value
			d.addMember(meta)
		}
		d.own[name] = true
	}
	return nil
}

// checkComplete rejects concrete classes that still have abstract methods.
func checkComplete(d *TypeDescriptor) error {
	if d.isInterface || d.isAbstract {
		return nil
	}
	for _, name := range d.order {
		if set, ok := d.methods[name]; ok && set.IsAbstract() {
			return declarationConflict(d.name, name, "class %s must be declared abstract or implement abstract method %s", d.name, name)
		}
	}
	return nil
}

// selfResolver resolves member type tokens, treating the type being
// declared as already registered.
type selfResolver struct {
	lookup      Lookup
	name        string
	isInterface bool
}

func (r selfResolver) ResolveType(name string) (member.Kind, bool) {
	if name == r.name {
		if r.isInterface {
			return member.KindInterface, true
		}
		return member.KindClass, true
	}
	return resolveKind(r.lookup, name)
}

// resolveKind checks interfaces, then classes, then enums.
func resolveKind(l Lookup, name string) (member.Kind, bool) {
	if _, ok := l.Interface(name); ok {
		return member.KindInterface, true
	}
	if _, ok := l.Class(name); ok {
		return member.KindClass, true
	}
	if _, ok := l.Enum(name); ok {
		return member.KindEnum, true
	}
	return member.KindAny, false
}

type emptyLookup struct{}

func (emptyLookup) Class(string) (*TypeDescriptor, bool)     { return nil, false }
func (emptyLookup) Interface(string) (*TypeDescriptor, bool) { return nil, false }
func (emptyLookup) Enum(string) (*Enum, bool)                { return nil, false }
