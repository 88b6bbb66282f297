package container

// ── Definitions ───────────────────────────────────────────────────────────────

// Definition is the registered recipe for a service. It is one of
// Instance, Factory or ClassRef.
type Definition interface {
	definition()
}

// Definitions maps identifiers to definitions.
type Definitions map[string]Definition

// Instance is an already-constructed value. The container returns it as-is.
// An Instance holding nil is not a definition; Set ignores it.
//
//	c.Set("config", container.Value(cfg))
type Instance struct {
	Value any
}

// Factory builds a service. It receives a Resolver scoped to the ongoing
// resolution, so nested lookups share its lock and cycle detection.
//
//	c.Set("mailer", container.Factory(func(r container.Resolver) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](r, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return mail.NewSMTP(cfg), nil
//	}))
type Factory func(r Resolver) (any, error)

// ClassRef names a type identifier resolved by autowiring.
//
//	c.Set(typeinfo.KeyOf[Clock](), container.Class(typeinfo.KeyOf[SystemClock]()))
type ClassRef string

func (Instance) definition() {}
func (Factory) definition()  {}
func (ClassRef) definition() {}

// Value wraps v as an Instance definition.
func Value(v any) Instance { return Instance{Value: v} }

// Class wraps a type identifier as a ClassRef definition.
func Class(id string) ClassRef { return ClassRef(id) }

// KindOf names the variant of def: "instance", "factory", "class" or "".
func KindOf(def Definition) string {
	switch def.(type) {
	case Instance:
		return "instance"
	case Factory:
		return "factory"
	case ClassRef:
		return "class"
	}
	return ""
}
