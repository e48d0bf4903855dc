// Package member defines the metadata record attached to one member of a declared
// class or interface, and the parser that derives it from an annotated member key.
//
// A member key has the form:
//
//	[visibility] [abstract|final] [nullable] [read|immutable] [const]
//	[serializable|notserializable] [typeToken] name[(paramType[, paramType...])]
//
// For example "protected nullable string title" or "public function area(number, ...)".
package member

// Visibility controls who may access a member.
type Visibility string

const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Private   Visibility = "private"
)

// Kind identifies how a member's type token was resolved.
type Kind int

const (
	KindAny       Kind = iota // No type constraint
	KindPrimitive             // One of Primitives
	KindClass                 // A registered class name
	KindInterface             // A registered interface name
	KindEnum                  // A registered enumeration name
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindAny:
		return "Any"
	case KindPrimitive:
		return "Primitive"
	case KindClass:
		return "Class"
	case KindInterface:
		return "Interface"
	case KindEnum:
		return "Enum"
	default:
		return "Unknown"
	}
}

// TypeAny is the Type of a member declared without a type token.
const TypeAny = "any"

// Variadic is the parameter token that collects all trailing call arguments.
// It is only valid as the last parameter of a signature.
const Variadic = "..."

// Primitives lists the primitive type tokens accepted in member keys and
// parameter lists. They mirror the runtime type tags reported by objmodel.TypeOf.
var Primitives = []string{
	"undefined",
	"object",
	"boolean",
	"number",
	"string",
	"symbol",
	"function",
}

// IsPrimitive reports whether token is one of Primitives.
func IsPrimitive(token string) bool {
	for _, p := range Primitives {
		if p == token {
			return true
		}
	}
	return false
}

// Metadata is the contract of one member.
type Metadata struct {
	// Name is the member name, the last whitespace-separated token of the key.
	Name string `json:"name"`

	// Visibility defaults to Public.
	Visibility Visibility `json:"visibility"`

	// Type is a primitive tag, a registered class/interface/enum name, or TypeAny.
	Type string `json:"type"`

	// TypeKind records how Type was resolved.
	TypeKind Kind `json:"type_kind"`

	IsAbstract bool `json:"is_abstract"`
	IsFinal    bool `json:"is_final"`
	IsNullable bool `json:"is_nullable"`
	IsReadOnly bool `json:"is_read_only"`
	IsConstant bool `json:"is_constant"`
	IsEnum     bool `json:"is_enum"`

	// IsGenerated marks synthesized members (accessors). Children may redefine
	// generated members without matching their contract.
	IsGenerated bool `json:"is_generated"`

	// Serializable is true unless the key says notserializable.
	Serializable bool `json:"serializable"`

	// Parameters is the ordered list of parameter type tokens for methods.
	// The last token may be Variadic.
	Parameters []string `json:"parameters"`
}

// Clone returns a copy of m that shares no slices with it.
func (m Metadata) Clone() Metadata {
	out := m
	if m.Parameters != nil {
		out.Parameters = append([]string(nil), m.Parameters...)
	}
	return out
}

// IsBoolean reports whether the member is typed boolean.
func (m Metadata) IsBoolean() bool {
	return m.TypeKind == KindPrimitive && m.Type == "boolean"
}

// IsObjectType reports whether the member is typed with a registered class or interface.
func (m Metadata) IsObjectType() bool {
	return m.TypeKind == KindClass || m.TypeKind == KindInterface
}
