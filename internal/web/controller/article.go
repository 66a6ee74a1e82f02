package controller

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"campuscms/internal/article"
	"campuscms/internal/models"
	"campuscms/internal/slug"
)

const relatedArticles = 3

// Article serves the news articles, both the admin CRUD and the public index.
type Article struct {
	Repo *article.Repository
	Log  *zap.Logger
}

// RegisterAdmin registers the article management routes.
func (c *Article) RegisterAdmin(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/articles", c.list)
	mux.HandleFunc("POST /admin/articles", c.create)
	mux.HandleFunc("GET /admin/articles/{id}", c.show)
	mux.HandleFunc("PUT /admin/articles/{id}", c.update)
	mux.HandleFunc("DELETE /admin/articles/{id}", c.delete)
}

// RegisterPublic registers the public news routes.
func (c *Article) RegisterPublic(mux *http.ServeMux) {
	mux.HandleFunc("GET /berita", c.index)
	mux.HandleFunc("GET /berita/{slug}", c.view)
}

func (c *Article) list(w http.ResponseWriter, r *http.Request) {
	articles, err := c.Repo.List(r.Context())
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	stats, err := c.Repo.Stats(r.Context())
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"articles": orEmpty(articles),
		"stats":    stats,
	})
}

func (c *Article) show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	a, err := c.Repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// prepare validates a and chooses its slug. An explicit slug is used as
// given; a derived one gets a random suffix so two articles with the same
// title do not collide.
func (c *Article) prepare(r *http.Request, a *models.Article, current *models.Article) error {
	if err := required("title", a.Title, "content", a.Content); err != nil {
		return err
	}
	if !models.ValidLayout(a.Layout) {
		return invalid("unknown layout %q", a.Layout)
	}

	exceptID := 0
	switch {
	case a.Slug != "":
		a.Slug = slug.Make(a.Slug)
		if a.Slug == "" {
			return invalid("slug has no usable characters")
		}
	case current != nil:
		a.Slug = current.Slug
	default:
		a.Slug = slug.WithSuffix(a.Title)
	}
	if current != nil {
		exceptID = current.ID
	}

	taken, err := c.Repo.SlugTaken(r.Context(), a.Slug, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return invalid("slug %q is already used by another article", a.Slug)
	}
	return nil
}

func (c *Article) create(w http.ResponseWriter, r *http.Request) {
	var a models.Article
	if err := decodeJSON(w, r, &a); err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	if err := c.prepare(r, &a, nil); err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	a.ID = 0
	a.UserID = currentUserID(r)
	if err := c.Repo.Create(r.Context(), &a); err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	c.Log.Info("article created", zap.Int("id", a.ID), zap.String("slug", a.Slug))
	writeJSON(w, http.StatusCreated, a)
}

func (c *Article) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	current, err := c.Repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	var a models.Article
	if err := decodeJSON(w, r, &a); err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	if err := c.prepare(r, &a, &current); err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	a.ID, a.UserID, a.CreatedAt = current.ID, current.UserID, current.CreatedAt
	if a.Layout == "" {
		a.Layout = current.Layout
	}
	if err := c.Repo.Update(r.Context(), &a); err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (c *Article) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	if err := c.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// index lists published articles. ?search= filters by title and content,
// ?category= by category slug and ?page= selects the page.
func (c *Article) index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	paged, err := c.Repo.ListPublished(r.Context(), article.Filter{
		Search:       q.Get("search"),
		CategorySlug: q.Get("category"),
		Page:         page,
	})
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	paged.Data = orEmpty(paged.Data)

	categories, err := c.Repo.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"articles":   paged,
		"categories": orEmpty(categories),
	})
}

// view shows a published article with a few related ones. Drafts are not found.
func (c *Article) view(w http.ResponseWriter, r *http.Request) {
	a, err := c.Repo.FindBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	if !a.IsPublished {
		writeError(w, r, c.Log, models.ErrNotFound)
		return
	}
	related, err := c.Repo.Related(r.Context(), a, relatedArticles)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"article":         a,
		"relatedArticles": orEmpty(related),
	})
}
