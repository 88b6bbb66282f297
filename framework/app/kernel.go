package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/providers"
	"github.com/km-arc/go-container/framework/routing"
)

const shutdownTimeout = 10 * time.Second

// Application is the top-level application container.
// It embeds the Container and ProviderRegistry so user code can call
// app.Set(), app.Get() and app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the application and registers the framework providers:
// config (from envFiles, default ".env"), logger, router and, when
// APP_DEBUG is on, the container inspector under /_container.
func New(envFiles ...string) (*Application, error) {
	c := container.New(nil)
	app := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
	}

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: envFiles},
		&providers.LoggingServiceProvider{Container: c},
		&providers.RoutingServiceProvider{},
		&providers.InspectServiceProvider{Container: c},
	}
	for _, p := range core {
		if err := app.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers. Subsequent calls are no-ops.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the container. It panics if the
// configuration cannot be built.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, providers.Config)
}

// Logger resolves *zap.Logger from the container. It panics on an invalid
// LOG_LEVEL or LOG_FORMAT; use Run or Resolve to get the error instead.
func (a *Application) Logger() *zap.Logger {
	return container.MustResolve[*zap.Logger](a.Container, providers.Logger)
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, providers.Router)
}

// Run boots the application (if needed) and serves HTTP on APP_PORT until
// ctx is done, then shuts the server down gracefully.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Boot(); err != nil {
		return err
	}
	cfg, err := container.Resolve[*config.Config](a.Container, providers.Config)
	if err != nil {
		return err
	}
	logger, err := container.Resolve[*zap.Logger](a.Container, providers.Logger)
	if err != nil {
		return err
	}
	router, err := container.Resolve[*routing.Router](a.Container, providers.Router)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("server started",
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.App.Env),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("app: serve: %w", err)
	}
	return nil
}
