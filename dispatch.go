package objmodel

// invoke dispatches name on d with ctx scoped to d. Visibility is checked by
// the callers that need it.
func (d *TypeDescriptor) invoke(self *Instance, name string, args []any) (any, error) {
	set, ok := d.methods[name]
	if !ok {
		return nil, Errorf(CodeResolutionFailure, "method %s does not exist on %s", name, d.name).
			WithDetails(map[string]any{"type": d.name, "member": name})
	}

	o, bound, err := set.resolve(args, d.env.lookup)
	if err != nil {
		if e, ok := err.(*Error); ok {
			return nil, e.WithDetail("type", d.name)
		}
		return nil, err
	}
	if o.IsAbstract || o.Impl == nil {
		return nil, Errorf(CodeResolutionFailure, "abstract method %s%s of %s has no implementation", name, o.Signature(), d.name).
			WithDetails(map[string]any{"type": d.name, "member": name})
	}
	if o.trampoline {
		bound = args
	}

	ctx := &Context{self: self, typ: d, member: name}
	if ic := d.env.interceptor(); ic != nil {
		return ic(ctx, bound, o.Impl)
	}
	return o.Impl(ctx, bound...)
}
