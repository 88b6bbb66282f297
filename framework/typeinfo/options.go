package typeinfo

import (
	"fmt"
	"reflect"
)

// Option adjusts a constructor's parameter metadata at registration.
type Option func(e *entry) error

// DefaultArg gives the parameter at index a default value, used when the
// parameter's type is not a known type identifier.
func DefaultArg(index int, value any) Option {
	return func(e *entry) error {
		if index < 0 || index >= len(e.params) {
			return fmt.Errorf("%w: %s has no parameter %d", ErrInvalidConstructor, e.id, index)
		}
		want := e.ctorType.In(index)
		if value != nil {
			if _, err := argValue(value, want); err != nil {
				return fmt.Errorf("%w: default for %s parameter %d: %v", ErrInvalidConstructor, e.id, index, err)
			}
		}
		e.params[index].HasDefault = true
		e.params[index].Default = value
		return nil
	}
}

// Names labels parameters in order, for diagnostics. Extra names are an error.
func Names(names ...string) Option {
	return func(e *entry) error {
		if len(names) > len(e.params) {
			return fmt.Errorf("%w: %s takes %d parameters, got %d names", ErrInvalidConstructor, e.id, len(e.params), len(names))
		}
		for i, n := range names {
			e.params[i].Name = n
		}
		return nil
	}
}

// Param returns the metadata of the parameter at index, for tests and tooling.
func (r *Registry) Param(id string, index int) (Param, bool) {
	params, ok := r.Params(id)
	if !ok || index < 0 || index >= len(params) {
		return Param{}, false
	}
	return params[index], true
}

// TypeOf returns the Go type registered under id.
func (r *Registry) TypeOf(id string) (reflect.Type, bool) {
	e, ok := r.lookup(id)
	if !ok {
		return nil, false
	}
	return e.rtype, true
}
