package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/typeinfo"
)

// ── Demo services ────────────────────────────────────────────────────────────

// Clock is bound to SystemClock below; the container cannot build it alone.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{ loc *time.Location }

func (c *SystemClock) Now() time.Time {
	if c.loc == nil {
		return time.Now()
	}
	return time.Now().In(c.loc)
}

// Greeter is autowired: clock and logger come from the container, greeting
// falls back to its declared default.
type Greeter struct {
	clock    Clock
	logger   *zap.Logger
	greeting string
}

func NewGreeter(clock Clock, logger *zap.Logger, greeting string) *Greeter {
	return &Greeter{clock: clock, logger: logger, greeting: greeting}
}

func (g *Greeter) Greet(name string) string {
	g.logger.Debug("greeting", zap.String("name", name))
	return fmt.Sprintf("%s, %s! It is %s.", g.greeting, name, g.clock.Now().Format(time.Kitchen))
}

var (
	clockID   = typeinfo.Declare[Clock](typeinfo.Default)
	_         = typeinfo.Declare[SystemClock](typeinfo.Default)
	greeterID = typeinfo.MustConstructor(typeinfo.Default, NewGreeter,
		typeinfo.Names("clock", "logger", "greeting"),
		typeinfo.DefaultArg(2, "Hello"),
	)
)

func main() {
	application, err := app.New() // loads .env if present
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	application.SetMultiple(container.Definitions{
		clockID: container.Class(typeinfo.KeyOf[SystemClock]()),
		"greeter": container.Factory(func(r container.Resolver) (any, error) {
			return r.Get(greeterID)
		}),
	})

	if err := application.Boot(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := application.Logger()
	defer func() { _ = logger.Sync() }()

	application.Router().Get("/greet/{name}", func(w http.ResponseWriter, r *http.Request) {
		req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
		g, err := container.Resolve[*Greeter](application, "greeter")
		if err != nil {
			logger.Error("resolve greeter", zap.Error(err))
			res.ServerError()
			return
		}
		name, ok := req.RouteParam("name")
		if !ok {
			res.Error(http.StatusBadRequest, "malformed name")
			return
		}
		res.Success(map[string]string{"message": g.Greet(name)})
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
