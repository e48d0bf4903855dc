package objmodel

// Declaration describes a class or interface to build.
type Declaration struct {
	// Name is the type name. It must be an identifier.
	Name string `validate:"required,identifier"`

	// Parameters holds the relational parameters of the type.
	Parameters Parameters

	// Body holds the annotated member keys and their values, in order.
	Body *Body

	// IsInterface declares an interface instead of a class.
	IsInterface bool
}

// Parameters are the relational parameters of a declaration.
type Parameters struct {
	// Extends is the parent: a *TypeDescriptor, any TypeRef (such as an
	// *Instance), or the name of a registered type.
	Extends any

	// Implements lists interfaces, each given the same ways as Extends.
	Implements []any

	// Uses lists trait bodies mixed into the declared body.
	Uses []*Body

	Abstract bool
	Final    bool
}

func (d Declaration) kind() string {
	if d.IsInterface {
		return "interface"
	}
	return "class"
}
