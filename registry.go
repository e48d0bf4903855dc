package objmodel

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/broady/objmodel/member"
)

// Registry is the central store of declared classes, interfaces and enums.
// It serializes declarations, so concurrent callers need no external locking.
// Use NewRegistry to create one.
type Registry struct {
	declMu sync.Mutex // serializes Declare and DeclareEnum

	mu           sync.RWMutex
	classes      map[string]*TypeDescriptor
	interfaces   map[string]*TypeDescriptor
	enums        map[string]*Enum
	arena        *Arena
	cfg          Config
	logger       *slog.Logger
	interceptors []Interceptor

	errorTransformer ErrorTransformer
}

func NewRegistry() *Registry {
	return &Registry{
		classes:    make(map[string]*TypeDescriptor),
		interfaces: make(map[string]*TypeDescriptor),
		enums:      make(map[string]*Enum),
		arena:      NewArena(),
		cfg:        DefaultConfig(),
	}
}

// WithConfig sets the registry configuration. Empty fields take their defaults.
// It returns the registry for chaining.
func (r *Registry) WithConfig(cfg Config) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg.withDefaults()
	return r
}

// WithLogger sets a custom logger for the registry.
// If not set, slog.Default() will be used.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
	return r
}

// WithErrorTransformer sets a custom error transformer applied to the
// parser, validation and merge errors of later declarations.
// It returns the registry for chaining.
func (r *Registry) WithErrorTransformer(fn ErrorTransformer) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorTransformer = fn
	return r
}

// WithInterceptor adds an interceptor applied to every method call on
// instances of types declared in this registry, including types declared
// before the interceptor was added.
// Interceptors execute in the order they were added (first added is outermost).
func (r *Registry) WithInterceptor(i Interceptor) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interceptors = append(r.interceptors, i)
	return r
}

// Config returns the effective configuration.
func (r *Registry) Config() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Arena returns the arena holding every descriptor the registry published,
// including replaced ones.
func (r *Registry) Arena() *Arena { return r.arena }

func (r *Registry) getLogger() *slog.Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

func (r *Registry) interceptor() Interceptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return chainInterceptors(r.interceptors)
}

// Declare builds decl and publishes it under its name.
//
// Declaring a name that is already registered fails with a
// DeclarationConflict unless the registry is configured with
// RedeclareReplace, in which case the new descriptor replaces the old one
// for lookups. A name can never switch between class, interface and enum.
func (r *Registry) Declare(decl Declaration) (*TypeDescriptor, error) {
	r.declMu.Lock()
	defer r.declMu.Unlock()

	logger := r.getLogger()
	cfg := r.Config()

	replacing, err := r.checkName(decl.Name, decl.kind(), cfg)
	if err != nil {
		logger.Debug("declaration rejected", "name", decl.Name, "code", CodeOf(err), "error", err)
		return nil, err
	}

	r.mu.RLock()
	transform := r.errorTransformer
	r.mu.RUnlock()

	b := NewBuilder(r.arena, r).
		WithTraitPrecedence(cfg.TraitPrecedence).
		WithErrorTransformer(transform)
	b.env.intercept = r.interceptor

	d, err := b.Build(decl)
	if err != nil {
		logger.Debug("declaration rejected", "name", decl.Name, "code", CodeOf(err), "error", err)
		return nil, err
	}

	r.mu.Lock()
	if d.isInterface {
		r.interfaces[d.name] = d
	} else {
		r.classes[d.name] = d
	}
	r.mu.Unlock()

	parent := ""
	if p, ok := d.Parent(); ok {
		parent = p.name
	}
	if replacing {
		logger.Warn("type redeclared", "name", d.name, "kind", d.kind(), "id", d.id)
	}
	logger.Debug("type declared",
		"name", d.name,
		"kind", d.kind(),
		"parent", parent,
		"members", len(d.order))
	return d, nil
}

// DeclareClass declares a class. It is shorthand for Declare.
func (r *Registry) DeclareClass(name string, params Parameters, body *Body) (*TypeDescriptor, error) {
	return r.Declare(Declaration{Name: name, Parameters: params, Body: body})
}

// DeclareInterface declares an interface. It is shorthand for Declare.
func (r *Registry) DeclareInterface(name string, params Parameters, body *Body) (*TypeDescriptor, error) {
	return r.Declare(Declaration{Name: name, Parameters: params, Body: body, IsInterface: true})
}

// DeclareEnum declares an enumeration of values.
func (r *Registry) DeclareEnum(name string, values ...any) (*Enum, error) {
	r.declMu.Lock()
	defer r.declMu.Unlock()

	logger := r.getLogger()
	if !member.IsIdentifier(name) {
		err := declarationConflict(name, "", "enum name %q is not a valid identifier", name)
		logger.Debug("declaration rejected", "name", name, "code", CodeOf(err), "error", err)
		return nil, err
	}
	replacing, err := r.checkName(name, "enum", r.Config())
	if err != nil {
		logger.Debug("declaration rejected", "name", name, "code", CodeOf(err), "error", err)
		return nil, err
	}

	e := &Enum{name: name, values: make([]any, len(values))}
	copy(e.values, values)

	r.mu.Lock()
	r.enums[name] = e
	r.mu.Unlock()

	if replacing {
		logger.Warn("type redeclared", "name", name, "kind", "enum")
	}
	logger.Debug("type declared", "name", name, "kind", "enum", "members", len(values))
	return e, nil
}

// checkName applies the redeclare policy. It reports whether name is
// already registered with the same kind and may be replaced.
func (r *Registry) checkName(name, kind string, cfg Config) (bool, error) {
	existing := r.kindOf(name)
	if existing == "" {
		return false, nil
	}
	if existing != kind {
		return false, declarationConflict(name, "", "%s is already declared as %s %s", name, article(existing), existing)
	}
	if cfg.Redeclare != RedeclareReplace {
		return false, declarationConflict(name, "", "%s %s is already declared", kind, name)
	}
	return true, nil
}

func (r *Registry) kindOf(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.classes[name]; ok {
		return "class"
	}
	if _, ok := r.interfaces[name]; ok {
		return "interface"
	}
	if _, ok := r.enums[name]; ok {
		return "enum"
	}
	return ""
}

func article(kind string) string {
	switch kind[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an"
	}
	return "a"
}

// Class returns the registered class named name.
func (r *Registry) Class(name string) (*TypeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.classes[name]
	return d, ok
}

// Interface returns the registered interface named name.
func (r *Registry) Interface(name string) (*TypeDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.interfaces[name]
	return d, ok
}

// Enum returns the registered enumeration named name.
func (r *Registry) Enum(name string) (*Enum, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.enums[name]
	return e, ok
}

// ResolveType implements member.Resolver.
func (r *Registry) ResolveType(name string) (member.Kind, bool) {
	return resolveKind(r, name)
}

// New instantiates the registered class named name.
func (r *Registry) New(name string, args ...any) (*Instance, error) {
	if d, ok := r.Class(name); ok {
		return d.New(args...)
	}
	if d, ok := r.Interface(name); ok {
		return d.New(args...)
	}
	return nil, Errorf(CodeResolutionFailure, "type %s is not declared", name).WithDetail("type", name)
}

// Types returns the names of all registered classes and interfaces, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.classes)+len(r.interfaces))
	for name := range r.classes {
		names = append(names, name)
	}
	for name := range r.interfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Enums returns the names of all registered enumerations, sorted.
func (r *Registry) Enums() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.enums))
	for name := range r.enums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
