package container

import (
	"fmt"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related definitions.
//
// Register is called first for every eager provider. Boot is called after
// ALL providers have been registered, making it safe to resolve other
// services inside Boot.
//
//	type MailProvider struct{ container.BaseProvider }
//
//	func (p *MailProvider) Register(r container.Registrar) {
//	    r.Set("mailer", container.Factory(func(r container.Resolver) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](r, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return mail.NewSMTP(cfg), nil
//	    }))
//	}
type ServiceProvider interface {
	// Register adds definitions. Do NOT resolve services here; use Boot.
	Register(r Registrar)

	// Boot is called after all providers are registered.
	Boot(r Resolver) error

	// Provides returns the identifiers this provider registers.
	// Only consulted for deferred providers.
	Provides() []string

	// IsDeferred reports whether the provider registers lazily, the first
	// time one of its Provides() identifiers is resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred. Embed it and only implement Register.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ Resolver) error { return nil }
func (p *BaseProvider) Provides() []string    { return nil }
func (p *BaseProvider) IsDeferred() bool      { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders against a
// container, including deferred ones.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // id → provider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider. Eager providers are registered immediately
// (and booted immediately if the registry has already booted). Deferred
// providers get a placeholder Factory per provided identifier.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, id := range provider.Provides() {
			r.deferred[id] = provider
		}
		r.mu.Unlock()
		r.interceptDeferred(provider)
		return nil
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		return r.boot(provider)
	}
	return nil
}

// interceptDeferred installs a placeholder Factory for each deferred
// identifier. The first resolution registers the provider for real
// (replacing the placeholders), boots it if the registry already booted,
// and builds the definition the provider registered.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) {
	for _, id := range provider.Provides() {
		r.app.Set(id, Factory(func(res Resolver) (any, error) {
			rs, ok := res.(*resolution)
			if !ok {
				return nil, failure(id, "deferred provider resolved outside its container", nil)
			}

			r.mu.Lock()
			pending := r.deferred[id] == provider
			if pending {
				for _, pid := range provider.Provides() {
					delete(r.deferred, pid)
				}
			}
			booted := r.booted
			r.mu.Unlock()

			if !pending {
				return nil, failure(id, "deferred provider did not register it", nil)
			}

			rec := &recordingRegistrar{Registrar: rs, ids: make(map[string]bool)}
			provider.Register(rec)
			if !rec.ids[id] {
				return nil, failure(id, "deferred provider did not register it", nil)
			}
			if booted {
				if err := provider.Boot(rs); err != nil {
					return nil, failure(id, "deferred provider boot failed", err)
				}
			}
			return rs.dispatch(id, rs.c.definitions[id])
		}))
	}
}

// recordingRegistrar notes which identifiers a provider registers.
type recordingRegistrar struct {
	Registrar
	ids map[string]bool
}

func (r *recordingRegistrar) Set(id string, def Definition) {
	if !ignored(def) {
		r.ids[id] = true
	}
	r.Registrar.Set(id, def)
}

func (r *recordingRegistrar) SetMultiple(defs Definitions) {
	for id, def := range defs {
		r.Set(id, def)
	}
}

// Boot calls Boot on all eager providers, once. It stops at the first error.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	providers := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range providers {
		if err := r.boot(provider); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProviderRegistry) boot(provider ServiceProvider) error {
	if err := provider.Boot(r.app); err != nil {
		return fmt.Errorf("container: boot %T: %w", provider, err)
	}
	return nil
}

// Booted reports whether Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
