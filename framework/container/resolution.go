package container

import (
	"errors"
	"reflect"
	"slices"

	"go.uber.org/zap"
)

// resolution is one in-flight Get/GetNew. The container's write lock is
// held for its lifetime, so it reads and writes the maps directly.
// stack holds the identifiers currently being built, outermost first.
type resolution struct {
	c     *Container
	stack []string
}

// Get returns the cached instance for id or builds and caches it.
func (r *resolution) Get(id string) (any, error) {
	if inst, ok := r.c.instances[id]; ok {
		return inst, nil
	}
	inst, err := r.GetNew(id)
	if err != nil {
		return nil, err
	}
	r.c.instances[id] = inst
	return inst, nil
}

// GetNew builds id without consulting the cache.
func (r *resolution) GetNew(id string) (any, error) {
	if slices.Contains(r.stack, id) {
		return nil, circular(id, r.stack)
	}
	r.stack = append(r.stack, id)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	def, ok := r.c.definitions[id]
	if !ok {
		// Unregistered identifiers that name a concrete type are built
		// directly. Nothing is registered as a side effect.
		if r.c.types.Instantiable(id) {
			return r.build(id, id)
		}
		return nil, notFound(id)
	}

	return r.dispatch(id, def)
}

// dispatch produces a value for id from def.
func (r *resolution) dispatch(id string, def Definition) (any, error) {
	switch d := def.(type) {
	case Instance:
		return d.Value, nil
	case Factory:
		return r.runFactory(id, d)
	case ClassRef:
		if !r.c.types.Instantiable(string(d)) {
			return nil, failure(string(d), "class cannot be instantiated", nil)
		}
		return r.build(id, string(d))
	}
	return nil, failure(id, "unknown definition", nil)
}

// Has reports whether id has a definition.
func (r *resolution) Has(id string) bool {
	_, ok := r.c.definitions[id]
	return ok
}

// Set registers def without taking the lock; used by deferred providers
// that register while a resolution is running.
func (r *resolution) Set(id string, def Definition) {
	r.c.set(id, def)
}

// SetMultiple registers every entry of defs.
func (r *resolution) SetMultiple(defs Definitions) {
	for id, def := range defs {
		r.c.set(id, def)
	}
}

// runFactory invokes f and checks it produced an object.
func (r *resolution) runFactory(id string, f Factory) (any, error) {
	if f == nil {
		return nil, failure(id, "factory is nil", nil)
	}
	obj, err := f(r)
	if err != nil {
		if errors.Is(err, ErrContainer) {
			return nil, err
		}
		return nil, failure(id, "factory failed", err)
	}
	if !isObject(obj) {
		return nil, failure(id, "factory must return an object", nil)
	}
	return obj, nil
}

// ── Autowiring ────────────────────────────────────────────────────────────────

// build constructs the type class, resolving its constructor parameters.
// Parameters whose type is a known type identifier are resolved through
// Get, so shared dependencies are reused. Others fall back to their
// default value, then to nil.
func (r *resolution) build(id, class string) (any, error) {
	types := r.c.types
	if !types.Exists(class) {
		return nil, failure(class, "class does not exist", nil)
	}

	params, hasCtor := types.Params(class)
	var args []any
	if hasCtor {
		args = make([]any, len(params))
		for i, p := range params {
			switch {
			case p.Type != "" && types.Exists(p.Type):
				dep, err := r.Get(p.Type)
				if err != nil {
					return nil, err
				}
				args[i] = dep
			case p.HasDefault:
				args[i] = p.Default
			default:
				args[i] = nil
			}
		}
	}

	r.c.logger.Debug("autowiring",
		zap.String("id", id),
		zap.String("class", class),
		zap.Int("params", len(args)),
		zap.Strings("stack", r.stack),
	)

	obj, err := types.New(class, args)
	if err != nil {
		return nil, failure(class, "construction failed", err)
	}
	return obj, nil
}

// isObject reports whether v is a non-nil pointer, struct, map, chan or func.
func isObject(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
		return !rv.IsNil()
	case reflect.Struct:
		return true
	}
	return false
}
