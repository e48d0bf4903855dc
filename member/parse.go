package member

import (
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	// keyPattern splits a key into its declaration head and the optional
	// parenthesized parameter list.
	keyPattern = regexp2.MustCompile(`^\s*(?<head>[^()]*?)\s*(?:\((?<params>[^()]*)\))?\s*$`, regexp2.None)

	// paramPattern matches one parameter type token.
	paramPattern = regexp2.MustCompile(`[^(),\s]+`, regexp2.None)

	// identPattern matches member and type names. A name never starts with a digit.
	identPattern = regexp2.MustCompile(`^(?!\d)[\p{L}\p{Nd}_$]+$`, regexp2.None)
)

// Resolver resolves type tokens that are not primitives. It is satisfied by the
// objmodel registry; a nil Resolver only accepts primitive types.
type Resolver interface {
	// ResolveType reports whether name is a registered interface, class or enum,
	// checked in that order.
	ResolveType(name string) (Kind, bool)
}

// IsIdentifier reports whether s is a valid member or type name.
func IsIdentifier(s string) bool {
	ok, err := identPattern.MatchString(s)
	return err == nil && ok
}

// Parse parses one annotated member key into Metadata.
func Parse(key string, r Resolver) (Metadata, error) {
	m, err := keyPattern.FindStringMatch(key)
	if err != nil || m == nil {
		return Metadata{}, conflict(strings.TrimSpace(key), "", "malformed member declaration")
	}

	params, err := parseParameters(m.GroupByName("params").String())
	if err != nil {
		return Metadata{}, conflict(strings.TrimSpace(key), "", "malformed parameter list")
	}

	fields := strings.Fields(m.GroupByName("head").String())
	if len(fields) == 0 {
		return Metadata{}, conflict(strings.TrimSpace(key), "", "missing member name")
	}
	name := fields[len(fields)-1]
	if !IsIdentifier(name) {
		return Metadata{}, conflict(name, name, "invalid member name")
	}

	meta := Metadata{
		Name:         name,
		Visibility:   Public,
		Type:         TypeAny,
		TypeKind:     KindAny,
		Serializable: true,
		Parameters:   params,
	}

	tokens := fields[:len(fields)-1]
	if len(tokens) == 0 {
		return meta, nil
	}

	// Modifiers are case-insensitive; registered type names are not.
	kinds := make([]Kind, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for i, tok := range tokens {
		if r != nil {
			if k, ok := r.ResolveType(tok); ok {
				kinds[i] = k
				seen[tok] = true
				continue
			}
		}
		tokens[i] = strings.ToLower(tok)
		seen[tokens[i]] = true
	}

	has := func(names ...string) string {
		for _, n := range names {
			if seen[n] {
				return n
			}
		}
		return ""
	}

	typed := false
	for i, tok := range tokens {
		if kinds[i] != KindAny {
			if typed {
				return Metadata{}, conflict(name, tok, "multiple type definitions")
			}
			typed = true
			meta.Type = tok
			meta.TypeKind = kinds[i]
			meta.IsEnum = kinds[i] == KindEnum
			continue
		}

		switch tok {
		case "public", "protected", "private":
			for _, other := range []string{"public", "protected", "private"} {
				if other != tok && seen[other] {
					return Metadata{}, conflict(name, other, "cannot be both %s and %s", tok, other)
				}
			}
			meta.Visibility = Visibility(tok)
		case "abstract":
			if seen["final"] {
				return Metadata{}, conflict(name, "final", "cannot be both abstract and final")
			}
			meta.IsAbstract = true
		case "final":
			if seen["abstract"] {
				return Metadata{}, conflict(name, "abstract", "cannot be both abstract and final")
			}
			meta.IsFinal = true
		case "nullable":
			meta.IsNullable = true
		case "read", "immutable":
			meta.IsReadOnly = true
		case "serializable":
			if seen["notserializable"] {
				return Metadata{}, conflict(name, "notserializable", "cannot be both serializable and notserializable")
			}
			meta.Serializable = true
		case "notserializable":
			if seen["serializable"] {
				return Metadata{}, conflict(name, "serializable", "cannot be both serializable and notserializable")
			}
			meta.Serializable = false
		case "const":
			if bad := has("public", "protected", "private"); bad != "" {
				return Metadata{}, conflict(name, bad, "a constant cannot have visibility modifiers")
			}
			if bad := has("final", "abstract"); bad != "" {
				return Metadata{}, conflict(name, bad, "a constant cannot be %s", bad)
			}
			if bad := has("nullable", "read", "immutable"); bad != "" {
				return Metadata{}, conflict(name, bad, "a constant cannot be nullable or immutable")
			}
			meta.IsConstant = true
		default:
			if !IsPrimitive(tok) {
				return Metadata{}, conflict(name, tok, "unexpected token in member declaration")
			}
			if typed {
				return Metadata{}, conflict(name, tok, "multiple type definitions")
			}
			typed = true
			meta.Type = tok
			meta.TypeKind = KindPrimitive
		}
	}

	return meta, nil
}

// parseParameters splits the inside of a parameter list into type tokens.
// It returns an empty, non-nil slice for keys without parameters.
func parseParameters(s string) ([]string, error) {
	params := []string{}
	m, err := paramPattern.FindStringMatch(s)
	for m != nil && err == nil {
		params = append(params, m.String())
		m, err = paramPattern.FindNextMatch(m)
	}
	if err != nil {
		return nil, err
	}
	return params, nil
}
