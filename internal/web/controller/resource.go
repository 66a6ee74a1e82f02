package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// store is the repository surface a resource serves.
type store[T any] interface {
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, v *T) error
	Update(ctx context.Context, v *T) error
	Delete(ctx context.Context, id int) error
}

// resource serves JSON CRUD routes for one content type.
type resource[T any] struct {
	Store store[T]
	Log   *zap.Logger
	// Prepare validates v and fills derived fields before it is written.
	// id is 0 on create; on update Prepare must set the ID of v.
	Prepare func(ctx context.Context, v *T, id int) error
}

// Register registers list, create, show, update and delete routes under prefix.
func (res *resource[T]) Register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("GET "+prefix, res.list)
	mux.HandleFunc("POST "+prefix, res.create)
	mux.HandleFunc("GET "+prefix+"/{id}", res.show)
	mux.HandleFunc("PUT "+prefix+"/{id}", res.update)
	mux.HandleFunc("DELETE "+prefix+"/{id}", res.delete)
}

func (res *resource[T]) list(w http.ResponseWriter, r *http.Request) {
	items, err := res.Store.List(r.Context())
	if err != nil {
		writeError(w, r, res.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(items))
}

func (res *resource[T]) show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, res.Log, err)
		return
	}
	v, err := res.Store.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, res.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (res *resource[T]) create(w http.ResponseWriter, r *http.Request) {
	var v T
	if err := decodeJSON(w, r, &v); err != nil {
		writeError(w, r, res.Log, err)
		return
	}
	if err := res.Prepare(r.Context(), &v, 0); err != nil {
		writeError(w, r, res.Log, err)
		return
	}
	if err := res.Store.Create(r.Context(), &v); err != nil {
		writeError(w, r, res.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (res *resource[T]) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, res.Log, err)
		return
	}
	var v T
	if err := decodeJSON(w, r, &v); err != nil {
		writeError(w, r, res.Log, err)
		return
	}
	if err := res.Prepare(r.Context(), &v, id); err != nil {
		writeError(w, r, res.Log, err)
		return
	}
	if err := res.Store.Update(r.Context(), &v); err != nil {
		writeError(w, r, res.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (res *resource[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, res.Log, err)
		return
	}
	if err := res.Store.Delete(r.Context(), id); err != nil {
		writeError(w, r, res.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
