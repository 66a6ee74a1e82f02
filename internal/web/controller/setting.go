package controller

import (
	"net/http"

	"go.uber.org/zap"

	"campuscms/internal/setting"
)

// Setting serves the site settings form.
type Setting struct {
	Cache *setting.Cache
	Log   *zap.Logger
}

// Register registers the settings routes
func (s *Setting) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/settings", s.show)
	mux.HandleFunc("POST /admin/settings", s.update)
}

func (s *Setting) show(w http.ResponseWriter, r *http.Request) {
	grouped, err := s.Cache.All(r.Context())
	if err != nil {
		writeError(w, r, s.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, grouped)
}

// update stores the submitted values, a flat key/value object.
func (s *Setting) update(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := decodeJSON(w, r, &values); err != nil {
		writeError(w, r, s.Log, err)
		return
	}
	if err := s.Cache.Update(r.Context(), values); err != nil {
		writeError(w, r, s.Log, err)
		return
	}
	s.show(w, r)
}
