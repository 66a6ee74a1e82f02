package controller

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"campuscms/internal/article"
	"campuscms/internal/blocks"
)

// Builder serves the data the page builder previews dynamic blocks with.
type Builder struct {
	Hydrator    *blocks.Hydrator
	ArticleRepo *article.Repository
	Log         *zap.Logger
}

// Register registers the page builder routes
func (b *Builder) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /page-builder/data", b.data)
	mux.HandleFunc("GET /page-builder/categories", b.categories)
}

// data hydrates the submitted block list, {"blocks": [...]}.
func (b *Builder) data(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Blocks json.RawMessage `json:"blocks"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, b.Log, err)
		return
	}
	bs, err := blocks.Parse(in.Blocks)
	if err != nil {
		writeError(w, r, b.Log, err)
		return
	}
	res, err := b.Hydrator.Hydrate(r.Context(), bs)
	if err != nil {
		writeError(w, r, b.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (b *Builder) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := b.ArticleRepo.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, b.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(cats))
}
