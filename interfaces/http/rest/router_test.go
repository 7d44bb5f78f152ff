package rest

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lexmatter/infrastructure/config"
	"lexmatter/infrastructure/di"
)

func setupTestRouter(t *testing.T) chi.Router {
	t.Helper()
	container := &di.Container{
		Config:   &config.Config{},
		Logger:   zap.NewNop(),
		Handlers: &di.Handlers{},
	}
	handler := NewRouter(container).Setup()
	mux, ok := handler.(chi.Router)
	require.True(t, ok)
	return mux
}

func TestRouter_RouteTable(t *testing.T) {
	router := setupTestRouter(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/matters"},
		{http.MethodGet, "/api/v1/matters/m-1"},
		{http.MethodPost, "/api/v1/matters/m-1/archive"},
		{http.MethodGet, "/api/v1/matters/m-1/transfers"},
		{http.MethodPost, "/api/v1/matters/m-1/documents"},
		{http.MethodGet, "/api/v1/documents/d-1"},
		{http.MethodPut, "/api/v1/documents/d-1"},
		{http.MethodPut, "/api/v1/documents/d-1/name"},
		{http.MethodDelete, "/api/v1/documents/d-1"},
		{http.MethodPost, "/api/v1/documents/d-1/checkout"},
		{http.MethodPost, "/api/v1/documents/d-1/checkin"},
		{http.MethodGet, "/api/v1/documents/d-1/revisions"},
		{http.MethodGet, "/api/v1/documents/d-1/audit"},
		{http.MethodPost, "/api/v1/transfers"},
	}
	for _, route := range routes {
		rctx := chi.NewRouteContext()
		assert.True(t, router.Match(rctx, route.method, route.path), "%s %s", route.method, route.path)
	}
}
