package container_test

import (
	"errors"

	"github.com/km-arc/go-container/framework/typeinfo"
)

// Every fixture carries a field: pointers to zero-size values may share an
// address, which would defeat identity assertions.

type serviceInterface interface{ Serve() string }

type classWithInterface struct{ calls int }

func (c *classWithInterface) Serve() string { return "served" }

type abstractClass interface{ abstract() }

type classWithAbstractParent struct{ level int }

func (c *classWithAbstractParent) abstract() {}

type classWithoutConstructor struct{ n int }

type classWithConstructorParams struct {
	a serviceInterface
	b abstractClass
	c int
	d string
}

func newClassWithConstructorParams(a serviceInterface, b abstractClass, c int, d string) *classWithConstructorParams {
	return &classWithConstructorParams{a: a, b: b, c: c, d: d}
}

type classWithPrivateConstructor struct{ n int }

func newClassWithPrivateConstructor() (*classWithPrivateConstructor, error) {
	return nil, errors.New("constructor is private")
}

type twoOfTheSame struct {
	first  serviceInterface
	second serviceInterface
}

func newTwoOfTheSame(first, second serviceInterface) *twoOfTheSame {
	return &twoOfTheSame{first: first, second: second}
}

type cycleA struct{ b *cycleB }
type cycleB struct{ a *cycleA }

func newCycleA(b *cycleB) *cycleA { return &cycleA{b: b} }
func newCycleB(a *cycleA) *cycleB { return &cycleB{a: a} }

type closure func()

// valueDep is built by a constructor returning it by value.
type valueDep struct{ n int }

func newValueDep() valueDep { return valueDep{n: 5} }

type needsValueDep struct{ dep *valueDep }

func newNeedsValueDep(dep *valueDep) *needsValueDep { return &needsValueDep{dep: dep} }

// Identifiers used across the tests.
var (
	serviceInterfaceID   = typeinfo.KeyOf[serviceInterface]()
	classWithInterfaceID = typeinfo.KeyOf[classWithInterface]()
	abstractClassID      = typeinfo.KeyOf[abstractClass]()
	abstractParentID     = typeinfo.KeyOf[classWithAbstractParent]()
	noConstructorID      = typeinfo.KeyOf[classWithoutConstructor]()
	constructorParamsID  = typeinfo.KeyOf[classWithConstructorParams]()
	privateCtorID        = typeinfo.KeyOf[classWithPrivateConstructor]()
	twoOfTheSameID       = typeinfo.KeyOf[twoOfTheSame]()
	cycleAID             = typeinfo.KeyOf[cycleA]()
	closureID            = typeinfo.KeyOf[closure]()
	valueDepID           = typeinfo.KeyOf[valueDep]()
	needsValueDepID      = typeinfo.KeyOf[needsValueDep]()
)

// newTypes registers every fixture in a fresh registry.
func newTypes() *typeinfo.Registry {
	reg := typeinfo.NewRegistry()
	typeinfo.Declare[serviceInterface](reg)
	typeinfo.Declare[classWithInterface](reg)
	typeinfo.Declare[abstractClass](reg)
	typeinfo.Declare[classWithAbstractParent](reg)
	typeinfo.Declare[classWithoutConstructor](reg)
	typeinfo.Declare[closure](reg)
	typeinfo.MustConstructor(reg, newClassWithConstructorParams,
		typeinfo.Names("a", "b", "c", "d"),
		typeinfo.DefaultArg(2, 1),
		typeinfo.DefaultArg(3, "test"),
	)
	typeinfo.MustConstructor(reg, newClassWithPrivateConstructor)
	typeinfo.MustConstructor(reg, newTwoOfTheSame)
	typeinfo.MustConstructor(reg, newCycleA)
	typeinfo.MustConstructor(reg, newCycleB)
	typeinfo.MustConstructor(reg, newValueDep)
	typeinfo.MustConstructor(reg, newNeedsValueDep)
	return reg
}
