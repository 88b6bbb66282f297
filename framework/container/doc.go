// Package container provides an autowiring service container for Go.
//
// # Overview
//
// A Container maps string identifiers to definitions and resolves them
// into services. Definitions come in three variants:
//
//	container.Value(cfg)                                  // Instance: returned as-is
//	container.Factory(func(r container.Resolver) (any, error) { ... })
//	container.Class(typeinfo.KeyOf[*SMTPMailer]())        // ClassRef: autowired
//
// # Resolving
//
//	svc, err := c.Get("mailer")      // cached per identifier
//	svc, err := c.GetNew("mailer")   // always built fresh
//
//	// Typed helpers
//	m, err := container.Resolve[*SMTPMailer](c, "mailer")
//	clock, err := container.ResolveType[Clock](c)
//
// Setting a definition for an identifier drops its cached instance, so the
// next Get rebuilds it.
//
// # Autowiring
//
// Types are described by a TypeInfo, normally a *typeinfo.Registry. When
// a ClassRef (or an unregistered identifier naming a concrete type) is
// resolved, the container walks the type's constructor parameters:
//
//  1. a parameter whose type is a known type identifier is resolved with
//     Get, so shared dependencies are reused;
//  2. otherwise its default value is used, if registered;
//  3. otherwise the zero value is passed.
//
//	typeinfo.Declare[Clock](typeinfo.Default)
//	typeinfo.Declare[SystemClock](typeinfo.Default)
//	typeinfo.MustConstructor(typeinfo.Default, NewGreeter, typeinfo.DefaultArg(1, "hello"))
//
//	c := container.New(container.Definitions{
//	    typeinfo.KeyOf[Clock](): container.Class(typeinfo.KeyOf[SystemClock]()),
//	})
//	g, err := container.ResolveType[*Greeter](c)
//
// A type that depends on itself, directly or through other services,
// fails with ErrCircularDependency.
//
// # Errors
//
// Every failure matches ErrContainer. Identifiers that cannot be resolved
// at all also match ErrNotFound. Use errors.As with *Error for the
// identifier and reason.
//
// # Concurrency
//
// A Container is safe for concurrent use. Resolutions are serialized;
// factories receive a Resolver bound to the running resolution and must
// use it instead of the *Container for nested lookups.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(r container.Registrar) {
//	    r.Set("mailer", container.Class(typeinfo.KeyOf[*SMTPMailer]()))
//	}
//
//	registry := container.NewProviderRegistry(c)
//	_ = registry.Register(&AppServiceProvider{})
//	_ = registry.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool   { return true }
//	func (p *HeavyProvider) Provides() []string { return []string{"heavy"} }
//	func (p *HeavyProvider) Register(r container.Registrar) {
//	    r.Set("heavy", container.Factory(func(container.Resolver) (any, error) {
//	        return heavySetup(), nil // only called on first c.Get("heavy")
//	    }))
//	}
package container
