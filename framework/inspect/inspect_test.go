package inspect_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/inspect"
	"github.com/km-arc/go-container/framework/routing"
	"github.com/km-arc/go-container/framework/typeinfo"
)

// ── fixtures ─────────────────────────────────────────────────────────────────

type database struct{ dsn string }

type repository struct{ db *database }

func newRepository(db *database) *repository { return &repository{db: db} }

type store interface{ Save() }

type setup struct {
	router *routing.Router
	c      *container.Container
	repoID string
	dbID   string
}

func newSetup(t *testing.T) setup {
	t.Helper()
	types := typeinfo.NewRegistry()
	dbID := typeinfo.Declare[database](types)
	repoID := typeinfo.MustConstructor(types, newRepository)
	storeID := typeinfo.Abstract[store](types)

	c := container.New(container.Definitions{
		"dsn":   container.Value("postgres://localhost"),
		"repo":  container.Class(repoID),
		"store": container.Class(storeID),
		"boom": container.Factory(func(container.Resolver) (any, error) {
			return nil, errors.New("boom")
		}),
	}, container.WithTypes(types))

	r := routing.New(nil)
	inspect.New(c, nil).Mount(r, "/_container")
	return setup{router: r, c: c, repoID: repoID, dbID: dbID}
}

func do(t *testing.T, r *routing.Router, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, path, nil))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return rr, body
}

// ── GET /services ────────────────────────────────────────────────────────────

func TestInspect_ListServices(t *testing.T) {
	s := newSetup(t)
	_, err := s.c.Get("dsn")
	require.NoError(t, err)

	rr, body := do(t, s.router, http.MethodGet, "/_container/services")
	require.Equal(t, http.StatusOK, rr.Code)

	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 4)

	want := []map[string]any{
		{"id": "boom", "kind": "factory", "resolved": false},
		{"id": "dsn", "kind": "instance", "resolved": true},
		{"id": "repo", "kind": "class", "resolved": false},
		{"id": "store", "kind": "class", "resolved": false},
	}
	for i, w := range want {
		assert.Equal(t, w, data[i])
	}
}

// ── GET /services/{id} ───────────────────────────────────────────────────────

func TestInspect_ShowService(t *testing.T) {
	s := newSetup(t)

	rr, body := do(t, s.router, http.MethodGet, "/_container/services/repo")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]any{"id": "repo", "kind": "class", "resolved": false}, body["data"])
}

func TestInspect_ShowService_NotFound(t *testing.T) {
	s := newSetup(t)

	rr, body := do(t, s.router, http.MethodGet, "/_container/services/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, body["message"], `"nope"`)
}

// ── POST /services/{id}/resolve ──────────────────────────────────────────────

func TestInspect_Resolve(t *testing.T) {
	s := newSetup(t)

	rr, body := do(t, s.router, http.MethodPost, "/_container/services/repo/resolve")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]any{"id": "repo", "type": "*inspect_test.repository"}, body["data"])
	assert.True(t, s.c.Resolved("repo"))
}

func TestInspect_Resolve_Fresh(t *testing.T) {
	s := newSetup(t)

	rr, _ := do(t, s.router, http.MethodPost, "/_container/services/repo/resolve?fresh=1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, s.c.Resolved("repo"), "GetNew must not cache")
}

func TestInspect_Resolve_SelfConstruction(t *testing.T) {
	s := newSetup(t)

	rr, body := do(t, s.router, http.MethodPost, "/_container/services/"+url.PathEscape(s.dbID)+"/resolve")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*inspect_test.database", body["data"].(map[string]any)["type"])
}

func TestInspect_Resolve_Errors(t *testing.T) {
	tests := []struct {
		id     string
		status int
	}{
		{"missing", http.StatusNotFound},
		{"store", http.StatusUnprocessableEntity},
		{"boom", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s := newSetup(t)
			rr, body := do(t, s.router, http.MethodPost, "/_container/services/"+tt.id+"/resolve")
			assert.Equal(t, tt.status, rr.Code)
			assert.Contains(t, body["message"], "container:")
		})
	}
}

// ── GET /types ───────────────────────────────────────────────────────────────

func TestInspect_Types(t *testing.T) {
	s := newSetup(t)

	rr, body := do(t, s.router, http.MethodGet, "/_container/types")
	require.Equal(t, http.StatusOK, rr.Code)

	data, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 3)
	assert.Contains(t, data, s.repoID)
	assert.Contains(t, data, s.dbID)
}

type opaqueTypes struct{ container.TypeInfo }

func TestInspect_Types_NotListable(t *testing.T) {
	c := container.New(nil, container.WithTypes(opaqueTypes{typeinfo.NewRegistry()}))
	r := routing.New(nil)
	inspect.New(c, nil).Mount(r, "/_container")

	rr, body := do(t, r, http.MethodGet, "/_container/types")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []any{}, body["data"])
}
