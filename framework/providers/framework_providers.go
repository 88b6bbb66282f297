// Package providers holds the framework's core service providers.
//
// Each provider binds a well-known string identifier ("config", "logger",
// "router") and the type identifier of the value it builds, so that
// constructors taking *config.Config, *zap.Logger or *routing.Router are
// autowired against typeinfo.Default.
package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/inspect"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/routing"
	"github.com/km-arc/go-container/framework/typeinfo"
)

// Well-known identifiers.
const (
	Config = "config"
	Logger = "logger"
	Router = "router"
)

// Type identifiers of the framework services, declared abstract in
// typeinfo.Default: only the definitions below can provide them.
var (
	ConfigType = typeinfo.Abstract[*config.Config](typeinfo.Default)
	LoggerType = typeinfo.Abstract[*zap.Logger](typeinfo.Default)
	RouterType = typeinfo.Abstract[*routing.Router](typeinfo.Default)
)

// alias defines typeID as a Factory delegating to id.
func alias(r container.Registrar, typeID, id string) {
	r.Set(typeID, container.Factory(func(res container.Resolver) (any, error) {
		return res.Get(id)
	}))
}

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env.
//
// Bound identifiers:
//   - "config"   → *config.Config
//   - ConfigType → same instance
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(r container.Registrar) {
	envFiles := p.EnvFiles
	r.Set(Config, container.Factory(func(container.Resolver) (any, error) {
		return config.Load(envFiles...), nil
	}))
	alias(r, ConfigType, Config)
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the zap logger from "config". When
// Container is set, Boot hands it the logger (named "container") for its
// resolution debug output.
//
// Bound identifiers:
//   - "logger"   → *zap.Logger
//   - LoggerType → same instance
type LoggingServiceProvider struct {
	container.BaseProvider
	Container *container.Container
}

func (p *LoggingServiceProvider) Register(r container.Registrar) {
	r.Set(Logger, container.Factory(func(res container.Resolver) (any, error) {
		cfg, err := container.Resolve[*config.Config](res, Config)
		if err != nil {
			return nil, err
		}
		return logging.New(cfg)
	}))
	alias(r, LoggerType, Logger)
}

func (p *LoggingServiceProvider) Boot(r container.Resolver) error {
	if p.Container == nil {
		return nil
	}
	logger, err := container.Resolve[*zap.Logger](r, Logger)
	if err != nil {
		return err
	}
	p.Container.SetLogger(logger.Named("container"))
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router, logging through "logger".
//
// Bound identifiers:
//   - "router"   → *routing.Router
//   - RouterType → same instance
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(r container.Registrar) {
	r.Set(Router, container.Factory(func(res container.Resolver) (any, error) {
		logger, err := container.Resolve[*zap.Logger](res, Logger)
		if err != nil {
			return nil, err
		}
		return routing.New(logger), nil
	}))
	alias(r, RouterType, Router)
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider mounts the container inspector on "router" at
// Prefix (default "/_container") when APP_DEBUG is on.
type InspectServiceProvider struct {
	container.BaseProvider
	Container *container.Container
	Prefix    string
}

func (p *InspectServiceProvider) Register(container.Registrar) {}

func (p *InspectServiceProvider) Boot(r container.Resolver) error {
	cfg, err := container.Resolve[*config.Config](r, Config)
	if err != nil {
		return err
	}
	if !cfg.App.Debug {
		return nil
	}
	router, err := container.Resolve[*routing.Router](r, Router)
	if err != nil {
		return err
	}
	logger, err := container.Resolve[*zap.Logger](r, Logger)
	if err != nil {
		return err
	}

	prefix := p.Prefix
	if prefix == "" {
		prefix = "/_container"
	}
	inspect.New(p.Container, logger).Mount(router, prefix)
	logger.Debug("container inspector mounted", zap.String("prefix", prefix))
	return nil
}
