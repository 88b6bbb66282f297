package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/typeinfo"
)

// ── Capabilities ──────────────────────────────────────────────────────────────

// TypeInfo is the type-introspection and construction capability the
// container autowires with. *typeinfo.Registry implements it.
type TypeInfo interface {
	// Exists reports whether id names a known type (concrete or not).
	Exists(id string) bool

	// Instantiable reports whether id names a concrete, constructible type.
	Instantiable(id string) bool

	// Params lists constructor parameters in declaration order. hasCtor is
	// false when the type is built without arguments.
	Params(id string) (params []typeinfo.Param, hasCtor bool)

	// New builds id from positional arguments.
	New(id string, args []any) (any, error)
}

// Resolver is the read side of a container.
type Resolver interface {
	Get(id string) (any, error)
	GetNew(id string) (any, error)
	Has(id string) bool
}

// Registrar is the write side of a container.
type Registrar interface {
	Set(id string, def Definition)
	SetMultiple(defs Definitions)
	Has(id string) bool
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container resolves identifiers into services.
//
// It supports:
//   - Instance / Factory / ClassRef definitions
//   - Get (cached per identifier) and GetNew (always fresh)
//   - Autowiring of constructor parameters through TypeInfo
//   - Construction of unregistered but instantiable type identifiers
//   - Fail-fast detection of dependency cycles
type Container struct {
	// mu guards both maps. Get and GetNew hold the write lock for a whole
	// resolution so check-build-store is atomic.
	mu sync.RWMutex

	// id → definition
	definitions map[string]Definition

	// id → resolved singleton
	instances map[string]any

	types  TypeInfo
	logger *zap.Logger
}

// Option configures a Container.
type Option func(c *Container)

// WithTypes sets the TypeInfo used for autowiring. Defaults to typeinfo.Default.
func WithTypes(t TypeInfo) Option {
	return func(c *Container) { c.types = t }
}

// WithLogger sets the logger for resolution debug output. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// New creates a container holding defs.
//
//	c := container.New(container.Definitions{
//	    typeinfo.KeyOf[Clock](): container.Class(typeinfo.KeyOf[SystemClock]()),
//	    "config":                container.Value(cfg),
//	})
func New(defs Definitions, opts ...Option) *Container {
	c := &Container{
		definitions: make(map[string]Definition),
		instances:   make(map[string]any),
		types:       typeinfo.Default,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.types == nil {
		c.types = typeinfo.Default
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.SetMultiple(defs)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Set stores def under id. A cached instance for id is dropped so the next
// Get rebuilds it from def. A nil def, or an Instance holding nil, is
// ignored.
func (c *Container) Set(id string, def Definition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(id, def)
}

// SetMultiple calls Set for every entry of defs.
func (c *Container) SetMultiple(defs Definitions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, def := range defs {
		c.set(id, def)
	}
}

// set is the internal registration helper (must hold mu.Lock).
func (c *Container) set(id string, def Definition) {
	if ignored(def) {
		return
	}
	if _, ok := c.instances[id]; ok {
		delete(c.instances, id)
		c.logger.Debug("evicted cached instance", zap.String("id", id))
	}
	c.definitions[id] = def
}

// ignored reports whether Set drops def: nil, or an Instance holding nil.
func ignored(def Definition) bool {
	if def == nil {
		return true
	}
	inst, ok := def.(Instance)
	return ok && inst.Value == nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get returns the service for id, building it on first use and returning
// the same value afterwards until id is Set again.
func (c *Container) Get(id string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolution().Get(id)
}

// GetNew builds a fresh service for id. It neither reads nor fills the
// cache. Instance definitions are still returned as-is.
func (c *Container) GetNew(id string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolution().GetNew(id)
}

func (c *Container) resolution() *resolution {
	return &resolution{c: c}
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Has reports whether id has a definition. Identifiers that were only
// auto-constructed do not count.
func (c *Container) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.definitions[id]
	return ok
}

// Resolved reports whether id currently has a cached instance.
func (c *Container) Resolved(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[id]
	return ok
}

// Definition returns the definition registered under id.
func (c *Container) Definition(id string) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.definitions[id]
	return def, ok
}

// IDs returns the identifiers that have definitions, sorted.
func (c *Container) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.definitions))
	for id := range c.definitions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// SetLogger replaces the logger used for resolution debug output. A nil
// logger is replaced by a no-op logger.
func (c *Container) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = l
}

// Types returns the TypeInfo the container autowires with.
func (c *Container) Types() TypeInfo { return c.types }

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls r.Get and type-asserts the result.
//
//	// Instead of: v, err := c.Get("db"); db := v.(*sql.DB)
//	// Write:      db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](r Resolver, id string) (T, error) {
	var zero T
	v, err := r.Get(id)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, failure(id, fmt.Sprintf("resolved to %T, want %s", v, reflect.TypeFor[T]()), nil)
	}
	return typed, nil
}

// ResolveType resolves the identifier of T itself.
//
//	clock, err := container.ResolveType[Clock](c)   // id = typeinfo.KeyOf[Clock]()
func ResolveType[T any](r Resolver) (T, error) {
	return Resolve[T](r, typeinfo.KeyOf[T]())
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](r Resolver, id string) T {
	v, err := Resolve[T](r, id)
	if err != nil {
		panic(err)
	}
	return v
}
