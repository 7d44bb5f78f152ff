package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/mux"
)

// pathParam resolves a URL path variable whether the request was routed by
// chi or by the legacy gorilla router.
func pathParam(r *http.Request, name string) string {
	if v := chi.URLParam(r, name); v != "" {
		return v
	}
	return mux.Vars(r)[name]
}
