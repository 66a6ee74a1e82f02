package controller

import (
	"net/http"

	"go.uber.org/zap"

	"campuscms/internal/article"
	"campuscms/internal/search"
)

const searchRecentArticles = 5

// Search serves the public site search.
type Search struct {
	Service     *search.Service
	ArticleRepo *article.Repository
	Log         *zap.Logger
}

// Register registers the search route
func (s *Search) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /search", s.search)
}

func (s *Search) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	hits, err := s.Service.Search(r.Context(), q)
	if err != nil {
		writeError(w, r, s.Log, err)
		return
	}
	recent, err := s.ArticleRepo.Latest(r.Context(), nil, searchRecentArticles)
	if err != nil {
		writeError(w, r, s.Log, err)
		return
	}
	categories, err := s.ArticleRepo.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, s.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results":        orEmpty(hits),
		"query":          q,
		"recentArticles": orEmpty(recent),
		"categories":     orEmpty(categories),
	})
}
