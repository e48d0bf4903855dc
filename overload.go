package objmodel

import (
	"slices"
	"strings"

	"github.com/broady/objmodel/member"
)

// ParamKind classifies one parameter token of a method signature.
type ParamKind int

const (
	ParamAny       ParamKind = iota // "any": accepts every argument
	ParamPrimitive                  // a primitive tag such as "number"
	ParamNamed                      // a class, interface or enum name, resolved at call time
	ParamVariadic                   // "...": collects the remaining arguments
)

// String returns the string representation of the kind.
func (k ParamKind) String() string {
	switch k {
	case ParamAny:
		return "Any"
	case ParamPrimitive:
		return "Primitive"
	case ParamNamed:
		return "Named"
	case ParamVariadic:
		return "Variadic"
	default:
		return "Unknown"
	}
}

// Param is one classified parameter of a signature.
type Param struct {
	Kind ParamKind
	Type string
}

func newParam(token string) Param {
	switch {
	case token == member.Variadic:
		return Param{Kind: ParamVariadic, Type: token}
	case token == member.TypeAny:
		return Param{Kind: ParamAny, Type: token}
	case member.IsPrimitive(token):
		return Param{Kind: ParamPrimitive, Type: token}
	default:
		return Param{Kind: ParamNamed, Type: token}
	}
}

// accepts reports whether arg satisfies the parameter. Named parameters are
// looked up in l on every call, so a signature may name a type that was
// declared after it.
func (p Param) accepts(arg any, l Lookup) bool {
	switch p.Kind {
	case ParamAny, ParamVariadic:
		return true
	case ParamPrimitive:
		return TypeOf(arg) == Tag(p.Type)
	case ParamNamed:
		if l == nil {
			return false
		}
		_, isIface := l.Interface(p.Type)
		_, isClass := l.Class(p.Type)
		if isIface || isClass {
			inst, ok := arg.(*Instance)
			return ok && inst != nil && inst.Is(p.Type)
		}
		if e, ok := l.Enum(p.Type); ok {
			return e.Contains(arg)
		}
	}
	return false
}

// Signature is the list of parameter tokens of one overload.
type Signature []string

func (s Signature) String() string {
	return "(" + strings.Join(s, ", ") + ")"
}

// Overload is one registered implementation of a method.
type Overload struct {
	Params     []Param
	Impl       MethodFunc
	IsAbstract bool

	// trampoline entries forward the raw call arguments to the parent.
	trampoline bool
}

// Signature returns the parameter tokens of o.
func (o Overload) Signature() Signature {
	sig := make(Signature, len(o.Params))
	for i, p := range o.Params {
		sig[i] = p.Type
	}
	return sig
}

func (o Overload) variadic() bool {
	return len(o.Params) > 0 && o.Params[len(o.Params)-1].Kind == ParamVariadic
}

func (o Overload) sameSignature(params []Param) bool {
	return slices.EqualFunc(o.Params, params, func(a, b Param) bool {
		return a.Type == b.Type
	})
}

// OverloadSet holds every implementation registered under one method name.
type OverloadSet struct {
	name       string
	visibility member.Visibility
	entries    []Overload
}

func newOverloadSet(name string, visibility member.Visibility) *OverloadSet {
	return &OverloadSet{name: name, visibility: visibility}
}

// IsAbstract reports whether any entry is still abstract.
func (s *OverloadSet) IsAbstract() bool {
	for _, o := range s.entries {
		if o.IsAbstract {
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (s *OverloadSet) Len() int { return len(s.entries) }

// add registers an implementation for the parameter tokens.
//
// A concrete entry with the same signature is an OverloadConflict unless
// tolerant is set, in which case the new entry is dropped. An abstract entry
// with the same signature is replaced in place.
func (s *OverloadSet) add(tokens []string, impl MethodFunc, abstract, tolerant bool) error {
	for i, tok := range tokens {
		if tok == member.Variadic && i != len(tokens)-1 {
			return Errorf(CodeDeclarationConflict, "member %s: variadic parameter (...) must be the last parameter", s.name).
				WithDetail("member", s.name)
		}
	}

	params := make([]Param, len(tokens))
	for i, tok := range tokens {
		params[i] = newParam(tok)
	}
	entry := Overload{Params: params, Impl: impl, IsAbstract: abstract}

	for i, o := range s.entries {
		if !o.sameSignature(params) {
			continue
		}
		if o.IsAbstract {
			s.entries[i] = entry
			return nil
		}
		if tolerant {
			return nil
		}
		return Errorf(CodeOverloadConflict, "member %s%s is defined twice", s.name, Signature(tokens)).
			WithDetail("member", s.name)
	}
	s.entries = append(s.entries, entry)
	return nil
}

// addTrampoline registers an entry that forwards the call to the parent type.
// A concrete parent entry replaces an abstract entry with the same signature;
// any other entry with that signature is kept and the trampoline dropped.
func (s *OverloadSet) addTrampoline(params []Param, abstract bool) {
	name := s.name
	entry := Overload{
		Params:     slices.Clone(params),
		IsAbstract: abstract,
		trampoline: true,
		Impl: func(ctx *Context, args ...any) (any, error) {
			return ctx.Super(name, args...)
		},
	}
	for i, o := range s.entries {
		if !o.sameSignature(params) {
			continue
		}
		if o.IsAbstract && !abstract {
			s.entries[i] = entry
		}
		return
	}
	s.entries = append(s.entries, entry)
}

// resolve selects the entry for args and returns the arguments to pass to it.
//
// A lone entry with an empty signature receives args unchanged. Otherwise the
// first non-variadic entry of matching arity whose parameters all accept
// their arguments wins. Failing that, the variadic entry with the longest
// accepted fixed prefix wins; earlier registrations win ties. The arguments
// past the prefix are collected into one []any bound to the last parameter.
func (s *OverloadSet) resolve(args []any, l Lookup) (Overload, []any, error) {
	if len(s.entries) == 1 && len(s.entries[0].Params) == 0 {
		return s.entries[0], args, nil
	}

	for _, o := range s.entries {
		if o.variadic() || len(o.Params) != len(args) {
			continue
		}
		if acceptsAll(o.Params, args, l) {
			return o, args, nil
		}
	}

	best, bestPrefix := -1, -1
	for i, o := range s.entries {
		if !o.variadic() {
			continue
		}
		prefix := len(o.Params) - 1
		if len(args) < prefix || prefix <= bestPrefix {
			continue
		}
		if acceptsAll(o.Params[:prefix], args[:prefix], l) {
			best, bestPrefix = i, prefix
		}
	}
	if best >= 0 {
		rest := make([]any, len(args)-bestPrefix)
		copy(rest, args[bestPrefix:])
		bound := make([]any, 0, bestPrefix+1)
		bound = append(bound, args[:bestPrefix]...)
		bound = append(bound, rest)
		return s.entries[best], bound, nil
	}

	names := make([]string, len(args))
	for i, a := range args {
		names[i] = typeName(a)
	}
	return Overload{}, nil, Errorf(CodeDispatchFailure, "no overload matches %s%s", s.name, Signature(names)).
		WithDetails(map[string]any{
			"member":    s.name,
			"arguments": names,
		})
}

func acceptsAll(params []Param, args []any, l Lookup) bool {
	for i, p := range params {
		if !p.accepts(args[i], l) {
			return false
		}
	}
	return true
}
