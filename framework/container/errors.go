package container

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrContainer is the root of every resolution failure.
	ErrContainer = errors.New("container error")

	// ErrNotFound means the identifier has no definition and names no
	// instantiable type. It matches ErrContainer as well.
	ErrNotFound = fmt.Errorf("%w: not found", ErrContainer)

	// ErrCircularDependency means an identifier was requested again while
	// it was still being built. It matches ErrContainer as well.
	ErrCircularDependency = fmt.Errorf("%w: circular dependency", ErrContainer)
)

// Error describes a failed resolution of ID.
//
// Kind is ErrContainer, ErrNotFound or ErrCircularDependency; Cause is the
// underlying error, if any. Both are reachable through errors.Is/As.
type Error struct {
	ID     string
	Kind   error
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Example: container: class cannot be instantiated: "app.Store"
	var b strings.Builder
	b.WriteString("container: ")
	b.WriteString(e.Reason)
	b.WriteString(": ")
	b.WriteString(strconv.Quote(e.ID))
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes Kind and Cause.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func notFound(id string) error {
	return &Error{ID: id, Kind: ErrNotFound, Reason: "definition not found"}
}

func failure(id, reason string, cause error) error {
	return &Error{ID: id, Kind: ErrContainer, Reason: reason, Cause: cause}
}

func circular(id string, stack []string) error {
	path := append(append([]string{}, stack...), id)
	return &Error{
		ID:     id,
		Kind:   ErrCircularDependency,
		Reason: "circular dependency",
		Cause:  errors.New(strings.Join(path, " -> ")),
	}
}
