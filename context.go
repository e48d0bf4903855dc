package objmodel

// Context is passed to every method implementation. It carries the receiving
// instance and the type the call was resolved on, which is what Super walks
// up from. A Context is only valid for the duration of the call.
type Context struct {
	self   *Instance
	typ    *TypeDescriptor
	member string
}

// Self returns the receiving instance.
func (c *Context) Self() *Instance { return c.self }

// Type returns the type the running implementation belongs to. Inside an
// inherited method this is the ancestor, not the instance's own type.
func (c *Context) Type() *TypeDescriptor { return c.typ }

// Member returns the name of the running method.
func (c *Context) Member() string { return c.member }

// Super calls name on the nearest ancestor of the context type that has it.
func (c *Context) Super(name string, args ...any) (any, error) {
	for anc, ok := c.typ.Parent(); ok; anc, ok = anc.Parent() {
		if anc.IsMethod(name) {
			return anc.invoke(c.self, name, args)
		}
	}
	return nil, Errorf(CodeResolutionFailure, "parent method %s does not exist (called using super from %s)", name, c.typ.name).
		WithDetails(map[string]any{"type": c.typ.name, "member": name})
}

// Call calls a method on the receiving instance, as seen from inside the
// type. Private and protected methods are allowed.
func (c *Context) Call(name string, args ...any) (any, error) {
	return c.self.typ.invoke(c.self, name, args)
}

// Get reads a data member or constant regardless of visibility.
func (c *Context) Get(name string) (any, error) {
	return c.self.get(name, false)
}

// Set writes a data member regardless of visibility or read-only flags.
// Constants stay immutable and values are type-checked.
func (c *Context) Set(name string, value any) error {
	return c.self.set(name, value, false)
}
