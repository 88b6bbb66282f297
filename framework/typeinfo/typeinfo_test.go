package typeinfo_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/typeinfo"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type store interface{ Name() string }

type memStore struct{ name string }

func (m *memStore) Name() string { return m.name }

type service struct {
	Store store
	Label string
	Size  int
}

func newService(s store, label string, size int) *service {
	return &service{Store: s, Label: label, Size: size}
}

type broken struct{}

func newBroken() (*broken, error) { return nil, errors.New("boom") }

type tagged struct{ Tags []string }

func newTagged(tags ...string) *tagged { return &tagged{Tags: tags} }

type settings struct{ level int }

func newSettings() settings { return settings{level: 2} }

// ── Keys ──────────────────────────────────────────────────────────────────────

func TestKeyOf_StripsPointer(t *testing.T) {
	t.Parallel()

	assert.Equal(t, typeinfo.KeyOf[memStore](), typeinfo.KeyOf[*memStore]())
	assert.Equal(t, "github.com/km-arc/go-container/framework/typeinfo_test.memStore", typeinfo.KeyOf[memStore]())
}

func TestKeyOf_Builtins(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "int", typeinfo.KeyOf[int]())
	assert.Equal(t, "[]string", typeinfo.KeyOf[[]string]())
	assert.Equal(t, "func()", typeinfo.KeyOf[func()]())
	assert.Equal(t, "", typeinfo.TypeKey(nil))
}

// ── Declare / Abstract ────────────────────────────────────────────────────────

func TestDeclare_ConcreteIsInstantiable(t *testing.T) {
	t.Parallel()

	reg := typeinfo.NewRegistry()
	id := typeinfo.Declare[memStore](reg)

	assert.True(t, reg.Exists(id))
	assert.True(t, reg.Instantiable(id))

	params, hasCtor := reg.Params(id)
	assert.False(t, hasCtor)
	assert.Nil(t, params)

	v, err := reg.New(id, nil)
	require.NoError(t, err)
	assert.IsType(t, &memStore{}, v)
}

func TestDeclare_InterfaceAndFuncAreNotInstantiable(t *testing.T) {
	t.Parallel()

	reg := typeinfo.NewRegistry()
	iface := typeinfo.Declare[store](reg)
	fn := typeinfo.Declare[func()](reg)

	for _, id := range []string{iface, fn} {
		assert.True(t, reg.Exists(id), id)
		assert.False(t, reg.Instantiable(id), id)

		_, err := reg.New(id, nil)
		assert.ErrorIs(t, err, typeinfo.ErrNotInstantiable, id)
	}
}

func TestAbstract_NeverInstantiable(t *testing.T) {
	t.Parallel()

	reg := typeinfo.NewRegistry()
	id := typeinfo.Abstract[memStore](reg)

	assert.True(t, reg.Exists(id))
	assert.False(t, reg.Instantiable(id))
}

func TestNew_UnknownType(t *testing.T) {
	t.Parallel()

	reg := typeinfo.NewRegistry()
	assert.False(t, reg.Exists("nope"))
	assert.False(t, reg.Instantiable("nope"))

	_, err := reg.New("nope", nil)
	assert.ErrorIs(t, err, typeinfo.ErrUnknownType)
}

// ── Constructor ───────────────────────────────────────────────────────────────

func TestConstructor_IntrospectsParams(t *testing.T) {
	t.Parallel()

	reg := typeinfo.NewRegistry()
	id, err := typeinfo.Constructor(reg, newService,
		typeinfo.Names("store", "label"),
		typeinfo.DefaultArg(1, "main"),
	)
	require.NoError(t, err)
	assert.Equal(t, typeinfo.KeyOf[service](), id)

	params, hasCtor := reg.Params(id)
	require.True(t, hasCtor)
	require.Len(t, params, 3)

	assert.Equal(t, typeinfo.Param{Name: "store", Type: typeinfo.KeyOf[store]()}, params[0])
	assert.Equal(t, typeinfo.Param{Name: "label", Type: "string", HasDefault: true, Default: "main"}, params[1])
	assert.Equal(t, typeinfo.Param{Name: "arg2", Type: "int"}, params[2])

	p, ok := reg.Param(id, 1)
	require.True(t, ok)
	assert.Equal(t, "label", p.Name)
	_, ok = reg.Param(id, 9)
	assert.False(t, ok)
}

func TestConstructor_RejectsBadSignatures(t *testing.T) {
	t.Parallel()

	cases := map[string]any{
		"not a func":     42,
		"nil func":       (func() *memStore)(nil),
		"no results":     func() {},
		"second not err": func() (*memStore, int) { return nil, 0 },
		"returns iface":  func() store { return &memStore{} },
		"returns func":   func() func() { return nil },
	}

	for name, ctor := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := typeinfo.Constructor(typeinfo.NewRegistry(), ctor)
			assert.ErrorIs(t, err, typeinfo.ErrInvalidConstructor)
		})
	}

	reg := typeinfo.NewRegistry()
	_, err := typeinfo.Constructor(reg, newService, typeinfo.Names("a", "b", "c", "d"))
	assert.ErrorIs(t, err, typeinfo.ErrInvalidConstructor)

	_, err = typeinfo.Constructor(reg, newService, typeinfo.DefaultArg(7, 1))
	assert.ErrorIs(t, err, typeinfo.ErrInvalidConstructor)

	_, err = typeinfo.Constructor(reg, newService, typeinfo.DefaultArg(2, "not an int"))
	assert.ErrorIs(t, err, typeinfo.ErrInvalidConstructor)
}

func TestMustConstructor_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		typeinfo.MustConstructor(typeinfo.NewRegistry(), "nope")
	})
}

// ── New ───────────────────────────────────────────────────────────────────────

func TestNew_PassesArgsInOrder(t *testing.T) {
	t.Parallel()

	reg := typeinfo.NewRegistry()
	id := typeinfo.MustConstructor(reg, newService)

	s := &memStore{name: "redis"}
	v, err := reg.New(id, []any{s, "cache", 3})
	require.NoError(t, err)

	got := v.(*service)
	assert.Same(t, s, got.Store)
	assert.Equal(t, "cache", got.Label)
	assert.Equal(t, 3, got.Size)
}

func TestNew_NilArgsBecomeZeroValues(t *testing.T) {
	t.Parallel()

	reg := typeinfo.NewRegistry()
	id := typeinfo.MustConstructor(reg, newService)

	v, err := reg.New(id, []any{nil, nil, nil})
	require.NoError(t, err)
	assert.Equal(t, &service{}, v)
}

func TestNew_DereferencesPointerForValueParam(t *testing.T) {
	t.Parallel()

	type holder struct{ S memStore }
	reg := typeinfo.NewRegistry()
	id := typeinfo.MustConstructor(reg, func(s memStore) *holder { return &holder{S: s} })

	v, err := reg.New(id, []any{&memStore{name: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "x", v.(*holder).S.name)
}

func TestNew_RejectsUnassignableArg(t *testing.T) {
	t.Parallel()

	reg := typeinfo.NewRegistry()
	id := typeinfo.MustConstructor(reg, newService)

	_, err := reg.New(id, []any{"not a store", "", 0})
	assert.ErrorIs(t, err, typeinfo.ErrArgument)

	_, err = reg.New(id, []any{nil})
	assert.ErrorIs(t, err, typeinfo.ErrArgument)
}

func TestNew_WrapsConstructorError(t *testing.T) {
	t.Parallel()

	reg := typeinfo.NewRegistry()
	id := typeinfo.MustConstructor(reg, newBroken)

	_, err := reg.New(id, nil)
	require.ErrorIs(t, err, typeinfo.ErrConstruct)
	assert.Contains(t, err.Error(), "boom")
}

func TestNew_Variadic(t *testing.T) {
	t.Parallel()

	reg := typeinfo.NewRegistry()
	id := typeinfo.MustConstructor(reg, newTagged, typeinfo.DefaultArg(0, []string{"a", "b"}))

	params, _ := reg.Params(id)
	require.Len(t, params, 1)
	assert.Equal(t, "[]string", params[0].Type)

	v, err := reg.New(id, []any{[]string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.(*tagged).Tags)

	v, err = reg.New(id, []any{nil})
	require.NoError(t, err)
	assert.Empty(t, v.(*tagged).Tags)
}

func TestNew_BoxesValueResult(t *testing.T) {
	t.Parallel()

	reg := typeinfo.NewRegistry()
	id := typeinfo.MustConstructor(reg, newSettings)
	assert.Equal(t, typeinfo.KeyOf[*settings](), id)

	first, err := reg.New(id, nil)
	require.NoError(t, err)
	second, err := reg.New(id, nil)
	require.NoError(t, err)

	got, ok := first.(*settings)
	require.True(t, ok, "got %T, want *settings", first)
	assert.Equal(t, 2, got.level)
	assert.NotSame(t, first, second)
}

// ── Conflicts ─────────────────────────────────────────────────────────────────

func TestRegistry_RejectsSameKeyForAnotherType(t *testing.T) {
	t.Parallel()

	reg := typeinfo.NewRegistry()
	var firstID string
	{
		type holder struct{ a int }
		firstID = typeinfo.Declare[holder](reg)
		assert.Equal(t, firstID, typeinfo.Declare[holder](reg), "redeclaring the same type is allowed")
	}
	{
		type holder struct{ b string }
		require.Equal(t, firstID, typeinfo.KeyOf[holder]())

		assert.PanicsWithError(t,
			"typeinfo: identifier names another type: "+firstID+" is already registered as typeinfo_test.holder",
			func() { typeinfo.Declare[holder](reg) })

		_, err := typeinfo.Constructor(reg, func() *holder { return &holder{} })
		assert.ErrorIs(t, err, typeinfo.ErrConflict)
	}

	rt, ok := reg.TypeOf(firstID)
	require.True(t, ok)
	assert.Equal(t, "a", rt.Field(0).Name)
}

func TestIDs_Sorted(t *testing.T) {
	t.Parallel()

	reg := typeinfo.NewRegistry()
	typeinfo.Declare[memStore](reg)
	typeinfo.Declare[store](reg)
	typeinfo.MustConstructor(reg, newService)

	ids := reg.IDs()
	require.Len(t, ids, 3)
	assert.IsIncreasing(t, ids)

	rt, ok := reg.TypeOf(typeinfo.KeyOf[service]())
	require.True(t, ok)
	assert.Equal(t, "service", rt.Name())
}
