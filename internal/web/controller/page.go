package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"campuscms/internal/article"
	"campuscms/internal/blocks"
	"campuscms/internal/event"
	"campuscms/internal/models"
	"campuscms/internal/page"
	"campuscms/internal/slug"
	"campuscms/internal/web/renderer"
)

const (
	pageRecentArticles = 5
	pageRecentEvents   = 3
)

// Page provides page handlers
type Page struct {
	PageRepo    *page.Repository
	ArticleRepo *article.Repository
	EventRepo   *event.Repository
	Hydrator    *blocks.Hydrator
	Log         *zap.Logger
}

// RegisterAdmin registers the page management routes
func (p *Page) RegisterAdmin(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/pages", p.list)
	mux.HandleFunc("POST /admin/pages", p.create)
	mux.HandleFunc("GET /admin/pages/{id}", p.show)
	mux.HandleFunc("PUT /admin/pages/{id}", p.save)
	mux.HandleFunc("DELETE /admin/pages/{id}", p.delete)
	mux.HandleFunc("GET /admin/pages/{id}/revisions", p.history)
	mux.HandleFunc("GET /admin/pages/{id}/diff", p.diff)
}

// RegisterPublic registers the public page route. It must be registered
// last-resort: any other single-segment route takes precedence.
func (p *Page) RegisterPublic(mux *http.ServeMux) {
	mux.HandleFunc("GET /{slug}", p.view)
}

// pageInput is the body of a page create or update. Comment annotates the
// revision recorded for the change.
type pageInput struct {
	models.Page
	Comment *string `json:"comment"`
}

func (p *Page) list(w http.ResponseWriter, r *http.Request) {
	pages, err := p.PageRepo.List(r.Context())
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(pages))
}

func (p *Page) show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	pg, err := p.PageRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, pg)
}

// normalizeBlocks accepts the block list either as a JSON array or as a
// string holding one, and checks that it parses.
func normalizeBlocks(raw json.RawMessage) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, invalid("blocks must be a JSON array")
		}
		raw = bytes.TrimSpace([]byte(s))
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if _, err := blocks.Parse(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (p *Page) prepare(ctx context.Context, pg *models.Page, current *models.Page) error {
	if err := required("title", pg.Title); err != nil {
		return err
	}
	if !models.ValidLayout(pg.Layout) {
		return invalid("unknown layout %q", pg.Layout)
	}
	if pg.Layout == "" {
		pg.Layout = "default"
	}
	switch pg.EditorMode {
	case "":
		pg.EditorMode = models.EditorModeEditor
	case models.EditorModeEditor, models.EditorModeBuilder:
	default:
		return invalid("unknown editor mode %q", pg.EditorMode)
	}

	var err error
	if pg.Blocks, err = normalizeBlocks(pg.Blocks); err != nil {
		return err
	}

	exceptID := 0
	switch {
	case pg.Slug != "":
		pg.Slug = slug.Choose(pg.Slug, pg.Title)
	case current != nil:
		pg.Slug = current.Slug
	default:
		pg.Slug = slug.Choose("", pg.Title)
	}
	if pg.Slug == "" {
		return invalid("cannot derive a slug from %q", pg.Title)
	}
	if current != nil {
		exceptID = current.ID
	}
	taken, err := p.PageRepo.SlugTaken(ctx, pg.Slug, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return invalid("slug %q is already used by another page", pg.Slug)
	}
	return nil
}

func (p *Page) create(w http.ResponseWriter, r *http.Request) {
	var in pageInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	pg := in.Page
	if err := p.prepare(r.Context(), &pg, nil); err != nil {
		writeError(w, r, p.Log, err)
		return
	}

	revision := models.Revision{AuthorID: currentUserID(r), Comment: in.Comment}
	if err := p.PageRepo.Create(r.Context(), &pg, &revision); err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	p.Log.Info("page created", zap.Int("id", pg.ID), zap.String("slug", pg.Slug))
	writeJSON(w, http.StatusCreated, pg)
}

func (p *Page) save(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	current, err := p.PageRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}

	var in pageInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	pg := in.Page
	if err := p.prepare(r.Context(), &pg, &current); err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	pg.ID, pg.CreatedAt, pg.CurrentRevisionID = current.ID, current.CreatedAt, current.CurrentRevisionID

	revision := models.Revision{AuthorID: currentUserID(r), Comment: in.Comment}
	if err := p.PageRepo.Update(r.Context(), &pg, &revision); err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, pg)
}

func (p *Page) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	if err := p.PageRepo.Delete(r.Context(), id); err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (p *Page) history(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	if _, err := p.PageRepo.FindByID(r.Context(), id); err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	revisions, err := p.PageRepo.ListRevisions(r.Context(), id)
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(revisions))
}

// diff compares two revisions of a page. ?to defaults to the current
// revision.
func (p *Page) diff(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	pg, err := p.PageRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}

	fromID, err := strconv.Atoi(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, r, p.Log, invalid("from must be a revision id"))
		return
	}
	toID := pg.CurrentRevisionID
	if raw := r.URL.Query().Get("to"); raw != "" {
		if toID, err = strconv.Atoi(raw); err != nil {
			writeError(w, r, p.Log, invalid("to must be a revision id"))
			return
		}
	}

	from, err := p.PageRepo.GetRevisionContent(r.Context(), id, fromID)
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	to, err := p.PageRepo.GetRevisionContent(r.Context(), id, toID)
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"page": pg,
		"from": fromID,
		"to":   toID,
		"diff": renderer.Diff(from, to),
	})
}

// view shows a published page. Builder pages come with the data of their
// dynamic blocks and the rendered HTML of their static ones; editor pages
// with sanitised content.
func (p *Page) view(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pg, err := p.PageRepo.FindBySlug(ctx, r.PathValue("slug"))
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	if !pg.IsPublished {
		writeError(w, r, p.Log, models.ErrNotFound)
		return
	}

	dynamicData := blocks.Result{}
	rendered := map[string]string{}
	if pg.EditorMode == models.EditorModeBuilder {
		bs, err := blocks.Parse(pg.Blocks)
		if err != nil {
			// Stored blocks were validated on write; a page that still fails
			// to parse is shown without them.
			p.Log.Warn("page has malformed blocks", zap.Int("page_id", pg.ID), zap.Error(err))
		}
		if dynamicData, err = p.Hydrator.Hydrate(ctx, bs); err != nil {
			writeError(w, r, p.Log, err)
			return
		}
		for _, b := range bs {
			if b.ID == "" || b.Type.Dynamic() {
				continue
			}
			out, ok, err := renderer.StaticBlock(string(b.Type), b.Data)
			if err != nil {
				writeError(w, r, p.Log, err)
				return
			}
			if ok {
				rendered[b.ID] = out
			}
		}
	} else {
		pg.Content = renderer.Sanitize(pg.Content)
	}

	recentArticles, err := p.ArticleRepo.Latest(ctx, nil, pageRecentArticles)
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}
	recentEvents, err := p.EventRepo.Recent(ctx, pageRecentEvents)
	if err != nil {
		writeError(w, r, p.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"page":           pg,
		"recentArticles": orEmpty(recentArticles),
		"recentEvents":   orEmpty(recentEvents),
		"dynamicData":    dynamicData,
		"renderedBlocks": rendered,
	})
}
