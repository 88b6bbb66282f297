package http

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Request wraps *http.Request with small input helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// ── Input helpers ────────────────────────────────────────────────────────────

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Bool reads a query-string flag. A key present with no value counts as
// true; anything strconv.ParseBool rejects counts as false.
func (req *Request) Bool(key string) bool {
	q := req.raw.URL.Query()
	if !q.Has(key) {
		return false
	}
	v := q.Get(key)
	if v == "" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// RouteParam returns a URL route parameter (chi), path-unescaped so that
// identifiers may carry encoded slashes. ok is false when the parameter is
// empty or malformed.
func (req *Request) RouteParam(key string) (string, bool) {
	v, err := url.PathUnescape(chi.URLParam(req.raw, key))
	return v, err == nil && v != ""
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the URL path.
func (req *Request) Path() string { return req.raw.URL.Path }
