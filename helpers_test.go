package objmodel

import (
	"testing"

	"github.com/broady/objmodel/testutil"
)

// recorded returns a method that records its label and arguments and
// returns the label.
func recorded(rec *testutil.Recorder, label string) MethodFunc {
	return func(ctx *Context, args ...any) (any, error) {
		rec.Record(label, args...)
		return label, nil
	}
}

// returning returns a method that always returns v.
func returning(v any) MethodFunc {
	return func(ctx *Context, args ...any) (any, error) {
		return v, nil
	}
}

func mustDeclare(t *testing.T, r *Registry, decl Declaration) *TypeDescriptor {
	t.Helper()
	d, err := r.Declare(decl)
	if err != nil {
		t.Fatalf("failed to declare %s: %v", decl.Name, err)
	}
	return d
}

func mustNew(t *testing.T, d *TypeDescriptor, args ...any) *Instance {
	t.Helper()
	inst, err := d.New(args...)
	if err != nil {
		t.Fatalf("failed to instantiate %s: %v", d.Name(), err)
	}
	return inst
}

func mustCall(t *testing.T, inst *Instance, name string, args ...any) any {
	t.Helper()
	res, err := inst.Call(name, args...)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", name, err)
	}
	return res
}
