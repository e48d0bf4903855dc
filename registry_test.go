package objmodel

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/broady/objmodel/member"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("expected non-nil registry")
	}
	if reg.Config() != DefaultConfig() {
		t.Errorf("expected default config, got %+v", reg.Config())
	}
	if len(reg.Types()) != 0 || len(reg.Enums()) != 0 {
		t.Error("expected an empty registry")
	}
}

func TestRegistry_Redeclare(t *testing.T) {
	t.Run("reject", func(t *testing.T) {
		reg := NewRegistry()
		mustDeclare(t, reg, Declaration{Name: "Animal", Body: NewBody()})
		_, err := reg.Declare(Declaration{Name: "Animal", Body: NewBody()})
		if !errors.Is(err, ErrDeclarationConflict) {
			t.Errorf("expected declaration conflict, got %v", err)
		}
	})

	t.Run("replace", func(t *testing.T) {
		reg := NewRegistry().WithConfig(Config{Redeclare: RedeclareReplace})
		old := mustDeclare(t, reg, Declaration{
			Name: "Animal",
			Body: NewBody().Set("public sound", returning("...")),
		})
		dog := mustDeclare(t, reg, Declaration{Name: "Dog", Parameters: Parameters{Extends: "Animal"}, Body: NewBody()})
		replaced := mustDeclare(t, reg, Declaration{
			Name: "Animal",
			Body: NewBody().Set("public sound", returning("grr")),
		})

		if got, _ := reg.Class("Animal"); got != replaced {
			t.Error("expected lookups to return the new descriptor")
		}
		if old.ID() == replaced.ID() {
			t.Error("expected a new type ID")
		}
		if p, _ := dog.Parent(); p != old {
			t.Error("expected existing children to keep the old parent")
		}
		if got := mustCall(t, mustNew(t, dog), "sound"); got != "..." {
			t.Errorf("expected old behavior, got %v", got)
		}
		if reg.Arena().Len() != 3 {
			t.Errorf("expected 3 published descriptors, got %d", reg.Arena().Len())
		}
	})

	t.Run("kind switch", func(t *testing.T) {
		reg := NewRegistry().WithConfig(Config{Redeclare: RedeclareReplace})
		mustDeclare(t, reg, Declaration{Name: "Shape", Body: NewBody()})
		if _, err := reg.Declare(Declaration{Name: "Shape", IsInterface: true, Body: NewBody()}); !errors.Is(err, ErrDeclarationConflict) {
			t.Errorf("expected declaration conflict, got %v", err)
		}
		if _, err := reg.DeclareEnum("Shape", 1); !errors.Is(err, ErrDeclarationConflict) {
			t.Errorf("expected declaration conflict, got %v", err)
		}
		if _, ok := reg.Interface("Shape"); ok {
			t.Error("expected Shape to stay a class")
		}
	})
}

func TestRegistry_Lookups(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.DeclareInterface("Named", Parameters{}, NewBody().Set("public getName", returning(nil))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := reg.DeclareClass("Person", Parameters{Implements: []any{"Named"}}, NewBody().Set("public string name", "").Set("public getName", returning("p"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := reg.DeclareEnum("Mood", "happy", "sad"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := reg.DeclareEnum("9mood"); !errors.Is(err, ErrDeclarationConflict) {
		t.Errorf("expected invalid enum name to be rejected, got %v", err)
	}

	if !reflect.DeepEqual(reg.Types(), []string{"Named", "Person"}) {
		t.Errorf("unexpected types %v", reg.Types())
	}
	if !reflect.DeepEqual(reg.Enums(), []string{"Mood"}) {
		t.Errorf("unexpected enums %v", reg.Enums())
	}

	for name, want := range map[string]string{"Named": "Interface", "Person": "Class", "Mood": "Enum"} {
		kind, ok := reg.ResolveType(name)
		if !ok || kind.String() != want {
			t.Errorf("ResolveType(%s) = %v, %v; want %s", name, kind, ok, want)
		}
	}
	if _, ok := reg.ResolveType("Nobody"); ok {
		t.Error("expected unknown name not to resolve")
	}

	p, err := reg.New("Person")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Is("Named") {
		t.Error("expected Person to implement Named")
	}
}

func TestRegistry_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := NewRegistry().WithLogger(logger).WithConfig(Config{Redeclare: RedeclareReplace})

	mustDeclare(t, reg, Declaration{Name: "Base", Body: NewBody().Set("public number n", 0)})
	mustDeclare(t, reg, Declaration{Name: "Base", Body: NewBody()})
	reg.Declare(Declaration{Name: "Broken", Body: NewBody().Set("public private x", 1)})

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed to parse log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}

	var msgs []string
	for _, e := range entries {
		msgs = append(msgs, e["msg"].(string))
	}
	want := []string{"type declared", "type redeclared", "type declared", "declaration rejected"}
	if !reflect.DeepEqual(msgs, want) {
		t.Fatalf("expected %v, got %v", want, msgs)
	}

	first := entries[0]
	if first["name"] != "Base" || first["kind"] != "class" || first["members"] != float64(3) {
		t.Errorf("unexpected first entry %v", first)
	}
	if entries[1]["level"] != "WARN" {
		t.Errorf("expected redeclaration at WARN, got %v", entries[1]["level"])
	}
	if entries[3]["code"] != string(CodeDeclarationConflict) {
		t.Errorf("expected declaration_conflict code, got %v", entries[3]["code"])
	}
}

func TestRegistry_WithErrorTransformer(t *testing.T) {
	var seen []error
	reg := NewRegistry().WithErrorTransformer(func(err error) *Error {
		seen = append(seen, err)
		var ce *member.ConflictError
		if errors.As(err, &ce) && len(seen) == 1 {
			return NewError(CodeInternal, "custom: "+ce.Reason)
		}
		return nil
	})

	_, err := reg.Declare(Declaration{Name: "Custom", Body: NewBody().Set("public private x", 1)})
	if CodeOf(err) != CodeInternal {
		t.Fatalf("expected internal code from transformer, got %v", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Details["type"] != "Custom" {
		t.Errorf("expected type detail Custom, got %v", e)
	}

	// A nil result falls back to the default transformer.
	_, err = reg.Declare(Declaration{Name: "Fallback", Body: NewBody().Set("public private y", 1)})
	if !errors.Is(err, ErrDeclarationConflict) {
		t.Errorf("expected declaration conflict, got %v", err)
	}
	if len(seen) != 2 {
		t.Errorf("expected transformer to see 2 errors, got %d", len(seen))
	}
	if _, ok := reg.Class("Custom"); ok {
		t.Error("expected nothing to be published")
	}
}

func TestRegistry_ConcurrentDeclare(t *testing.T) {
	reg := NewRegistry()
	mustDeclare(t, reg, Declaration{Name: "Base", Body: NewBody().Set("public id()", returning("base"))})

	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	var wg sync.WaitGroup
	errs := make(chan error, len(names))
	for _, name := range names {
		name := name
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Declare(Declaration{Name: name, Parameters: Parameters{Extends: "Base"}, Body: NewBody()})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if len(reg.Types()) != len(names)+1 {
		t.Errorf("expected %d types, got %d", len(names)+1, len(reg.Types()))
	}
	if reg.Arena().Len() != len(names)+1 {
		t.Errorf("expected %d descriptors, got %d", len(names)+1, reg.Arena().Len())
	}
}
