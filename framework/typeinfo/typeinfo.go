package typeinfo

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

var (
	// ErrUnknownType is returned when an identifier names no registered type.
	ErrUnknownType = errors.New("typeinfo: unknown type")

	// ErrNotInstantiable is returned by New for interfaces, abstract types
	// and other non-constructible kinds.
	ErrNotInstantiable = errors.New("typeinfo: type cannot be instantiated")

	// ErrInvalidConstructor is returned when a constructor has an unusable signature.
	ErrInvalidConstructor = errors.New("typeinfo: invalid constructor")

	// ErrArgument is returned when an argument cannot be passed to a constructor parameter.
	ErrArgument = errors.New("typeinfo: invalid argument")

	// ErrConstruct is returned when a constructor reports an error.
	ErrConstruct = errors.New("typeinfo: constructor failed")

	// ErrConflict is returned when an identifier is already taken by a
	// different Go type, as happens with same-named types declared inside
	// functions.
	ErrConflict = errors.New("typeinfo: identifier names another type")
)

var errorType = reflect.TypeFor[error]()

// Default is the registry containers use when none is given.
var Default = NewRegistry()

// ── Params ────────────────────────────────────────────────────────────────────

// Param describes one constructor parameter.
type Param struct {
	// Name is informational only; Go does not expose parameter names.
	Name string

	// Type is the parameter's type identifier (see TypeKey).
	Type string

	HasDefault bool
	Default    any
}

// ── Registry ──────────────────────────────────────────────────────────────────

// entry is a registered type.
type entry struct {
	id       string
	rtype    reflect.Type
	abstract bool

	// ctor is invalid for types registered without a constructor.
	ctor     reflect.Value
	ctorType reflect.Type
	params   []Param
}

func (e *entry) instantiable() bool {
	if e.abstract {
		return false
	}
	switch e.rtype.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return false
	}
	return true
}

// Registry maps type identifiers to Go types and their constructors.
// It answers the structural questions a container asks while autowiring
// and builds instances from positional arguments.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*entry)}
}

// Declare registers T without a constructor. Concrete types are built
// with new(T); interface, func and chan types are registered but are not
// instantiable. It panics with ErrConflict if the identifier already names
// a different type.
//
//	typeinfo.Declare[Clock](typeinfo.Default)     // interface, resolvable only via a definition
//	typeinfo.Declare[SystemClock](typeinfo.Default)
func Declare[T any](r *Registry) string {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return r.mustPut(&entry{id: TypeKey(t), rtype: t})
}

// Abstract registers T as an existing type that can never be instantiated,
// regardless of its kind. Use it for types only a definition may provide.
// It panics with ErrConflict like Declare.
func Abstract[T any](r *Registry) string {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return r.mustPut(&entry{id: TypeKey(t), rtype: t, abstract: true})
}

// Constructor registers the type returned by ctor. ctor must be a function
// returning a concrete T, optionally followed by an error.
//
//	id, err := typeinfo.Constructor(reg, NewMailer,
//	    typeinfo.Names("transport", "from"),
//	    typeinfo.DefaultArg(1, "noreply@example.com"),
//	)
func Constructor(r *Registry, ctor any, opts ...Option) (string, error) {
	fn := reflect.ValueOf(ctor)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return "", fmt.Errorf("%w: %T is not a function", ErrInvalidConstructor, ctor)
	}
	ft := fn.Type()

	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return "", fmt.Errorf("%w: %s must return T or (T, error)", ErrInvalidConstructor, ft)
	}

	out := ft.Out(0)
	rt := out
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	switch rt.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return "", fmt.Errorf("%w: %s returns non-concrete %s", ErrInvalidConstructor, ft, out)
	}

	e := &entry{
		id:       TypeKey(rt),
		rtype:    rt,
		ctor:     fn,
		ctorType: ft,
		params:   make([]Param, ft.NumIn()),
	}
	for i := range e.params {
		e.params[i] = Param{
			Name: fmt.Sprintf("arg%d", i),
			Type: TypeKey(ft.In(i)),
		}
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return "", err
		}
	}
	return r.put(e)
}

// MustConstructor is like Constructor but panics on error. It suits
// package-level registration:
//
//	var _ = typeinfo.MustConstructor(typeinfo.Default, NewGreeter)
func MustConstructor(r *Registry, ctor any, opts ...Option) string {
	id, err := Constructor(r, ctor, opts...)
	if err != nil {
		panic(err)
	}
	return id
}

// put stores e. Registering the same Go type again replaces the entry;
// a different type under the same identifier is an error.
func (r *Registry) put(e *entry) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.types[e.id]; ok && prev.rtype != e.rtype {
		return "", fmt.Errorf("%w: %s is already registered as %s", ErrConflict, e.id, prev.rtype)
	}
	r.types[e.id] = e
	return e.id, nil
}

func (r *Registry) mustPut(e *entry) string {
	id, err := r.put(e)
	if err != nil {
		panic(err)
	}
	return id
}

func (r *Registry) lookup(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.types[id]
	return e, ok
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Exists reports whether id names a registered type.
func (r *Registry) Exists(id string) bool {
	_, ok := r.lookup(id)
	return ok
}

// Instantiable reports whether id names a registered concrete type.
// It never constructs anything.
func (r *Registry) Instantiable(id string) bool {
	e, ok := r.lookup(id)
	return ok && e.instantiable()
}

// Params returns the constructor parameters of id in declaration order.
// hasCtor is false when the type has no constructor (or is unknown).
func (r *Registry) Params(id string) (params []Param, hasCtor bool) {
	e, ok := r.lookup(id)
	if !ok || !e.ctor.IsValid() {
		return nil, false
	}
	out := make([]Param, len(e.params))
	copy(out, e.params)
	return out, true
}

// IDs returns all registered type identifiers, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.types))
	for id := range r.types {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ── Construction ──────────────────────────────────────────────────────────────

// New builds an instance of id from positional args. Types without a
// constructor ignore args and return a pointer to a zero value. A
// constructor returning T by value has its result copied into a new *T.
func (r *Registry) New(id string, args []any) (any, error) {
	e, ok := r.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, id)
	}
	if !e.instantiable() {
		return nil, fmt.Errorf("%w: %s", ErrNotInstantiable, id)
	}
	if !e.ctor.IsValid() {
		return reflect.New(e.rtype).Interface(), nil
	}

	ft := e.ctorType
	if len(args) != ft.NumIn() {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArgument, id, ft.NumIn(), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, err := argValue(arg, ft.In(i))
		if err != nil {
			return nil, fmt.Errorf("%w: %s parameter %d (%s): %v", ErrArgument, id, i, e.params[i].Name, err)
		}
		in[i] = v
	}

	var out []reflect.Value
	if ft.IsVariadic() {
		out = e.ctor.CallSlice(in)
	} else {
		out = e.ctor.Call(in)
	}
	if len(out) == 2 && !out[1].IsNil() {
		return nil, fmt.Errorf("%w: %s: %w", ErrConstruct, id, out[1].Interface().(error))
	}
	obj := out[0]
	if obj.Kind() != reflect.Pointer {
		// Value results are boxed so every instance is a *T.
		boxed := reflect.New(obj.Type())
		boxed.Elem().Set(obj)
		obj = boxed
	}
	return obj.Interface(), nil
}

// argValue converts arg for a parameter of type want. nil becomes the zero
// value; a pointer is dereferenced when the parameter takes the value.
func argValue(arg any, want reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(want), nil
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(want) {
		return v, nil
	}
	if v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Type().AssignableTo(want) {
		return v.Elem(), nil
	}
	if v.Type().ConvertibleTo(want) && v.Kind() == want.Kind() {
		return v.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), want)
}

// ── Keys ──────────────────────────────────────────────────────────────────────

// TypeKey returns the identifier for t. One pointer level is stripped, so
// *Foo and Foo share a key. Named types yield "pkgpath.Name"; builtin and
// unnamed types yield their Go spelling ("int", "[]string", "func()").
// Types declared inside functions are not qualified by the function, so
// two local types of the same name in one package share a key; the
// registry rejects the second with ErrConflict.
func TypeKey(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// KeyOf returns TypeKey for T.
//
//	container.Class(typeinfo.KeyOf[*SMTPMailer]())
func KeyOf[T any]() string {
	return TypeKey(reflect.TypeFor[T]())
}
