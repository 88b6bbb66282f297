// Package inspect exposes a container over HTTP for debugging.
//
//	GET  /services               list definitions
//	GET  /services/{id}          describe one definition
//	POST /services/{id}/resolve  resolve through Get and report the type
//	                             (?fresh=1 resolves through GetNew)
//	GET  /types                  list known type identifiers
//
// Identifiers containing slashes (type identifiers usually do) must be
// path-escaped by the client.
package inspect

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/routing"
)

// Lister is implemented by TypeInfo values that can enumerate their types,
// such as *typeinfo.Registry.
type Lister interface {
	IDs() []string
}

// Service describes one definition.
type Service struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Resolved bool   `json:"resolved"`
}

// Resolution is the result of resolving an identifier.
type Resolution struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Handler serves the inspector routes for one container.
type Handler struct {
	c      *container.Container
	logger *zap.Logger
}

// New creates a Handler. A nil logger is replaced by a no-op logger.
func New(c *container.Container, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{c: c, logger: logger}
}

// Mount registers the routes under prefix.
//
//	inspect.New(c, logger).Mount(router, "/_container")
func (h *Handler) Mount(r *routing.Router, prefix string) {
	r.Prefix(prefix, func(sub *routing.Router) {
		sub.Get("/services", h.list)
		sub.Get("/services/{id}", h.show)
		sub.Post("/services/{id}/resolve", h.resolve)
		sub.Get("/types", h.types)
	})
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	ids := h.c.IDs()
	out := make([]Service, 0, len(ids))
	for _, id := range ids {
		if s, ok := h.describe(id); ok {
			out = append(out, s)
		}
	}
	gohttp.NewResponse(w).Success(out)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)
	id, ok := gohttp.NewRequest(r).RouteParam("id")
	if !ok {
		res.Error(http.StatusBadRequest, "malformed identifier")
		return
	}
	s, ok := h.describe(id)
	if !ok {
		res.NotFound(fmt.Sprintf("no definition for %q", id))
		return
	}
	res.Success(s)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
	id, ok := req.RouteParam("id")
	if !ok {
		res.Error(http.StatusBadRequest, "malformed identifier")
		return
	}

	resolve := h.c.Get
	if req.Bool("fresh") {
		resolve = h.c.GetNew
	}
	v, err := resolve(id)
	switch {
	case errors.Is(err, container.ErrNotFound):
		res.NotFound(err.Error())
		return
	case err != nil:
		h.logger.Warn("resolve failed", zap.String("id", id), zap.Error(err))
		res.Unprocessable(err.Error())
		return
	}
	res.Success(Resolution{ID: id, Type: fmt.Sprintf("%T", v)})
}

func (h *Handler) types(w http.ResponseWriter, _ *http.Request) {
	ids := []string{}
	if l, ok := h.c.Types().(Lister); ok {
		ids = l.IDs()
	}
	gohttp.NewResponse(w).Success(ids)
}

func (h *Handler) describe(id string) (Service, bool) {
	def, ok := h.c.Definition(id)
	if !ok {
		return Service{}, false
	}
	return Service{ID: id, Kind: container.KindOf(def), Resolved: h.c.Resolved(id)}, true
}
